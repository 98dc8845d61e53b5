// Package advisor answers budgeting questions with a remote text model and
// falls back to the offline advice engine for budget reports.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/theirongolddev/budget/internal/advice"
)

// ErrRemoteUnavailable is returned by remote-only questions when no client
// is configured.
var ErrRemoteUnavailable = errors.New("advisor: no remote model configured")

// Canned replies shown when a remote-only question cannot be answered.
const (
	ExpenseAnalysisUnavailable = "Unable to analyze expense at the moment. Please try again later."
	SavingsAdviceUnavailable   = "Unable to generate savings advice at the moment. Please try again later."
	LoanAdviceUnavailable      = "Unable to generate loan advice at the moment. Please try again later."
	ChatNeedsKey               = "Please set up your Gemini API key first."
	ChatFailed                 = "I encountered an error. Please try again later."
)

// TextGenerator is the remote model. *gemini.Client satisfies it.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Source says where a piece of advice came from.
type Source string

// Advice sources.
const (
	SourceRemote  Source = "remote"
	SourceOffline Source = "offline"
)

// Result is a budget report and its origin. RemoteErr is set when the
// remote model was tried and failed.
type Result struct {
	Text      string
	Source    Source
	RemoteErr error
}

// Advisor owns one advice engine and serializes access to it.
type Advisor struct {
	remote TextGenerator
	logger *slog.Logger

	mu     sync.Mutex
	engine *advice.Engine
}

// New creates an advisor. remote may be nil for offline-only use.
func New(remote TextGenerator, engine *advice.Engine, logger *slog.Logger) *Advisor {
	if engine == nil {
		engine = advice.NewEngine("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{remote: remote, engine: engine, logger: logger}
}

// HasRemote reports whether a remote model is configured.
func (a *Advisor) HasRemote() bool { return a.remote != nil }

// BudgetAdvice asks the remote model first and falls back to the offline
// engine when there is no remote, it fails, or it returns blank text.
// An invalid snapshot is rejected before either is consulted.
func (a *Advisor) BudgetAdvice(ctx context.Context, s advice.Snapshot) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	var remoteErr error
	if a.remote != nil {
		text, err := a.remote.GenerateContent(ctx, budgetPrompt(s))
		switch {
		case err != nil:
			remoteErr = err
			a.logger.Warn("remote budget advice failed, using offline engine", "err", err)
		case strings.TrimSpace(text) == "":
			remoteErr = errors.New("advisor: remote returned no text")
			a.logger.Warn("remote budget advice was empty, using offline engine")
		default:
			return Result{Text: text, Source: SourceRemote}, nil
		}
	}

	text, err := a.OfflineAdvice(s)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, Source: SourceOffline, RemoteErr: remoteErr}, nil
}

// OfflineAdvice runs the offline engine only.
func (a *Advisor) OfflineAdvice(s advice.Snapshot) (string, error) {
	r, err := a.OfflineReport(s)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// OfflineReport runs the offline engine and returns the structured report.
func (a *Advisor) OfflineReport(s advice.Snapshot) (advice.Report, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Evaluate(s)
}

// ExpenseAnalysis asks whether one expense was necessary and how to save on it.
func (a *Advisor) ExpenseAnalysis(ctx context.Context, merchant string, amount float64, category string) (string, error) {
	return a.ask(ctx, expensePrompt(merchant, amount, category))
}

// SavingsGoalAdvice asks how to reach goal within months.
func (a *Advisor) SavingsGoalAdvice(ctx context.Context, income, expenses, goal float64, months int) (string, error) {
	if months <= 0 {
		return "", fmt.Errorf("advisor: timeframe must be at least one month, got %d", months)
	}
	return a.ask(ctx, savingsPrompt(income, expenses, goal, months))
}

// LoanAdvice asks for an affordability assessment of one loan.
func (a *Advisor) LoanAdvice(ctx context.Context, amount, income, existing float64, purpose string) (string, error) {
	return a.ask(ctx, loanPrompt(amount, income, existing, purpose))
}

// Chat answers a free-form budgeting question.
func (a *Advisor) Chat(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.New("advisor: empty message")
	}
	return a.ask(ctx, chatPrompt(message))
}

func (a *Advisor) ask(ctx context.Context, prompt string) (string, error) {
	if a.remote == nil {
		return "", ErrRemoteUnavailable
	}
	text, err := a.remote.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("advisor: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("advisor: remote returned no text")
	}
	return text, nil
}
