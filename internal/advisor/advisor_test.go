package advisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/budget/internal/advice"
	"github.com/theirongolddev/budget/internal/model"
)

type fakeRemote struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeRemote) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func snapshot() advice.Snapshot {
	return advice.Snapshot{
		MonthlyIncome: 50000,
		TotalExpenses: 40000,
		Categories: []model.CategoryTotal{
			{Category: "FOOD", Amount: 20000},
			{Category: "TRANSPORTATION", Amount: 20000},
		},
	}
}

func TestBudgetAdvice_RemoteFirst(t *testing.T) {
	remote := &fakeRemote{reply: "spend less on food"}
	a := New(remote, nil, quiet)

	res, err := a.BudgetAdvice(context.Background(), snapshot())
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, res.Source)
	assert.Equal(t, "spend less on food", res.Text)
	require.Len(t, remote.prompts, 1)
	assert.Contains(t, remote.prompts[0], "Monthly Income: ₹50000.00")
	assert.Contains(t, remote.prompts[0], "- FOOD: ₹20000.00\n- TRANSPORTATION: ₹20000.00")
}

func TestBudgetAdvice_FallsBack(t *testing.T) {
	tests := []struct {
		name   string
		remote TextGenerator
		hasErr bool
	}{
		{"no remote", nil, false},
		{"remote error", &fakeRemote{err: errors.New("offline")}, true},
		{"blank reply", &fakeRemote{reply: "  \n"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.remote, nil, quiet)
			res, err := a.BudgetAdvice(context.Background(), snapshot())
			require.NoError(t, err)
			assert.Equal(t, SourceOffline, res.Source)
			assert.True(t, strings.HasPrefix(res.Text, "📊 Budget Analysis:\n\n"))
			assert.Equal(t, tt.hasErr, res.RemoteErr != nil)
		})
	}
}

func TestBudgetAdvice_InvalidIncomeSkipsRemote(t *testing.T) {
	remote := &fakeRemote{reply: "x"}
	a := New(remote, nil, quiet)
	s := snapshot()
	s.MonthlyIncome = 0

	_, err := a.BudgetAdvice(context.Background(), s)
	assert.ErrorIs(t, err, advice.ErrInvalidIncome)
	assert.Empty(t, remote.prompts)
}

func TestOfflineAdvice_TracksHistory(t *testing.T) {
	a := New(nil, advice.NewEngine(""), quiet)
	_, err := a.OfflineAdvice(snapshot())
	require.NoError(t, err)

	s := snapshot()
	s.Categories[0].Amount = 25000
	out, err := a.OfflineAdvice(s)
	require.NoError(t, err)
	assert.Contains(t, out, "⚠️ FOOD has increased by ₹5000.00")
}

func TestOfflineAdvice_ConcurrentCallers(t *testing.T) {
	a := New(nil, nil, quiet)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.OfflineAdvice(snapshot())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestRemoteOnlyQuestions(t *testing.T) {
	ctx := context.Background()
	offline := New(nil, nil, quiet)

	_, err := offline.ExpenseAnalysis(ctx, "Cafe", 250, "FOOD")
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	_, err = offline.Chat(ctx, "how do I save?")
	assert.ErrorIs(t, err, ErrRemoteUnavailable)

	remote := &fakeRemote{reply: "ok"}
	a := New(remote, nil, quiet)

	got, err := a.ExpenseAnalysis(ctx, "Cafe", 250, "FOOD")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	_, err = a.SavingsGoalAdvice(ctx, 50000, 30000, 100000, 6)
	require.NoError(t, err)
	_, err = a.SavingsGoalAdvice(ctx, 50000, 30000, 100000, 0)
	assert.Error(t, err)

	_, err = a.LoanAdvice(ctx, 20000, 50000, 5000, "Not specified")
	require.NoError(t, err)

	_, err = a.Chat(ctx, "  ")
	assert.Error(t, err)
	_, err = a.Chat(ctx, "how do I save?")
	require.NoError(t, err)

	require.Len(t, remote.prompts, 4)
	assert.Contains(t, remote.prompts[0], "Transaction: Cafe\nAmount: ₹250.00\nCategory: FOOD")
	assert.Contains(t, remote.prompts[1], "Timeframe: 6 months")
	assert.Contains(t, remote.prompts[2], "Existing Loans: ₹5000.00\nPurpose: Not specified")
	assert.Contains(t, remote.prompts[3], "User message: how do I save?")
}

func TestRemoteOnly_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	a := New(&fakeRemote{err: boom}, nil, quiet)
	_, err := a.LoanAdvice(context.Background(), 1, 1, 0, "x")
	assert.ErrorIs(t, err, boom)

	a = New(&fakeRemote{reply: ""}, nil, quiet)
	_, err = a.Chat(context.Background(), "hi")
	assert.Error(t, err)
}
