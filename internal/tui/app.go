// Package tui provides the interactive Bubble Tea dashboard for budget.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budget/internal/advisor"
	"github.com/theirongolddev/budget/internal/config"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/pipeline"
	"github.com/theirongolddev/budget/internal/tui/components"
	"github.com/theirongolddev/budget/internal/tui/theme"
)

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabTransactions
	tabLoans
	tabAdvice
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5

	adviceTimeout = 45 * time.Second
)

// LoadFunc loads the month view shown by the dashboard.
type LoadFunc func(ctx context.Context, month time.Time) (pipeline.MonthView, error)

// DataLoadedMsg is sent when a load or refresh finishes.
type DataLoadedMsg struct {
	View     pipeline.MonthView
	LoadTime time.Duration
	Err      error
}

// AdviceMsg carries a finished advice request.
type AdviceMsg struct {
	Result advisor.Result
	Err    error
}

// Options configures the dashboard.
type Options struct {
	Config  config.Config
	Month   time.Time
	Load    LoadFunc
	Advisor *advisor.Advisor
	Offline bool // skip the remote model for budget advice
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	view     pipeline.MonthView
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Advice
	advice        advisor.Result
	adviceErr     error
	adviceLoading bool
	adviceScroll  int

	// UI state
	width      int
	height     int
	activeTab  int
	showHelp   bool
	refreshing bool
	spinner    spinner.Model

	txns  listState
	loans listState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool
}

// listState is a cursor over a scrollable list.
type listState struct {
	cursor int
}

func (l *listState) move(delta, n int) {
	l.cursor = max(0, min(l.cursor+delta, n-1))
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.Month.IsZero() {
		opts.Month = time.Now()
	}
	theme.SetActive(opts.Config.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:      opts,
		spinner:   sp,
		needSetup: !config.Exists(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts.Load, a.opts.Month),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		return a.updateKey(msg.String())

	case DataLoadedMsg:
		a.refreshing = false
		a.loadTime = msg.LoadTime
		a.loaded = true
		a.loadErr = msg.Err
		if msg.Err != nil {
			return a, nil
		}
		a.view = msg.View
		a.txns.move(0, len(a.view.Transactions))
		a.loans.move(0, len(a.view.Loans))

		if a.needSetup && a.setupForm == nil {
			a.setupVals = NewSetupValues(a.opts.Config)
			a.setupForm = NewSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, a.requestAdvice()

	case AdviceMsg:
		a.adviceLoading = false
		a.advice = msg.Result
		a.adviceErr = msg.Err
		a.adviceScroll = 0
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.adviceLoading || a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(key string) (tea.Model, tea.Cmd) {
	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if a.refreshing {
			return a, nil
		}
		a.refreshing = true
		return a, tea.Batch(loadDataCmd(a.opts.Load, a.opts.Month), a.spinner.Tick)
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case tabTransactions:
		a.txns = navigate(a.txns, key, len(a.view.Transactions))
	case tabLoans:
		a.loans = navigate(a.loans, key, len(a.view.Loans))
	case tabAdvice:
		switch key {
		case "j", "down":
			a.adviceScroll++
		case "k", "up":
			a.adviceScroll = max(0, a.adviceScroll-1)
		case "g", "enter":
			return a, a.requestAdvice()
		}
	}
	return a, nil
}

func navigate(l listState, key string, n int) listState {
	switch key {
	case "j", "down":
		l.move(1, n)
	case "k", "up":
		l.move(-1, n)
	case "g", "home":
		l.cursor = 0
	case "G", "end":
		l.cursor = max(0, n-1)
	}
	return l
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded || a.showHelp || a.setupForm != nil {
		return a, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return a.updateKey("k")
	case tea.MouseButtonWheelDown:
		return a.updateKey("j")
	case tea.MouseButtonLeft:
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg := a.opts.Config
		if err := a.setupVals.Apply(&cfg); err == nil {
			if config.Save(cfg) == nil {
				a.opts.Config = cfg
				theme.SetActive(cfg.Appearance.Theme)
			}
		}
		a.needSetup = false
		a.setupForm = nil
		return a, a.requestAdvice()
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, a.requestAdvice()
	}
	return a, cmd
}

// requestAdvice starts an advice request for the loaded month.
func (a *App) requestAdvice() tea.Cmd {
	if a.opts.Advisor == nil || a.adviceLoading {
		return nil
	}
	a.adviceLoading = true
	return tea.Batch(adviceCmd(a.opts.Advisor, a.view.Summary, a.opts.Offline), a.spinner.Tick)
}

func loadDataCmd(load LoadFunc, month time.Time) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		if load == nil {
			return DataLoadedMsg{}
		}
		v, err := load(context.Background(), month)
		return DataLoadedMsg{View: v, LoadTime: time.Since(start), Err: err}
	}
}

func adviceCmd(adv *advisor.Advisor, s model.MonthlySummary, offline bool) tea.Cmd {
	snap := pipeline.Snapshot(s)
	return func() tea.Msg {
		if offline {
			text, err := adv.OfflineAdvice(snap)
			return AdviceMsg{Result: advisor.Result{Text: text, Source: advisor.SourceOffline}, Err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), adviceTimeout)
		defer cancel()
		res, err := adv.BudgetAdvice(ctx, snap)
		return AdviceMsg{Result: res, Err: err}
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

func (a App) currency() string {
	if c := a.opts.Config.General.Currency; c != "" {
		return c
	}
	return model.DefaultCurrency
}

// View implements tea.Model.
func (a App) View() string {
	switch {
	case a.width == 0:
		return ""
	case a.width < minTerminalWidth:
		return a.viewTooNarrow()
	case !a.loaded:
		return a.viewLoading()
	case a.needSetup && a.setupForm != nil:
		return a.setupForm.View()
	case a.showHelp:
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  budget needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logo.Render("◈ budget") + muted.Render(" · "+a.opts.Month.Format("January 2006")) +
		"\n\n" + a.spinner.View() + muted.Render(" Loading transactions...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	bindings := []struct{ key, desc string }{
		{"o t l a", "Jump to tab"},
		{"← → tab", "Previous / Next tab"},
		{"j k", "Move / Scroll"},
		{"g G", "First / Last row"},
		{"enter", "Regenerate advice (Advice tab)"},
		{"r", "Reload data"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(title.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", bind.key)), desc.Render(bind.desc))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w, h, cw := a.width, a.height, a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	status := components.RenderStatusBar(w, a.opts.Month.Format("January 2006"), a.refreshing)

	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(status))

	var content string
	switch {
	case a.loadErr != nil:
		content = components.ContentCard("Error", a.loadErr.Error(), cw)
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabTransactions:
		content = a.renderTransactionsTab(cw, contentH)
	case a.activeTab == tabLoans:
		content = a.renderLoansTab(cw, contentH)
	case a.activeTab == tabAdvice:
		content = a.renderAdviceTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	out := lipgloss.JoinVertical(lipgloss.Left, header, content, status)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, out,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

// chartDateLabels labels a chronological day series: month name on the
// first day and at month boundaries, day numbers elsewhere.
func chartDateLabels(days []time.Time) []string {
	labels := make([]string, len(days))
	for i, d := range days {
		if i == 0 || d.Day() == 1 {
			labels[i] = d.Format("Jan 2")
		} else {
			labels[i] = strconv.Itoa(d.Day())
		}
	}
	return labels
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// visibleWindow returns the rows to draw so the cursor stays on screen.
func visibleWindow(l listState, rows, n int) (start, end int) {
	rows = max(1, rows)
	start = max(0, l.cursor-rows+1)
	return start, min(n, start+rows)
}
