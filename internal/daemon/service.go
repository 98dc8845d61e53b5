// Package daemon provides the long-running background spending monitor.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"

	"github.com/theirongolddev/budget/internal/advice"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/money"
	"github.com/theirongolddev/budget/internal/pipeline"
)

// Event types.
const (
	EventSnapshot      = "snapshot"
	EventSpendingDelta = "spending_delta"
)

// Source supplies the records the daemon watches. *store.Store satisfies it.
type Source = pipeline.MonthSource

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath         string
	MonthlyIncome  float64
	Currency       string
	Interval       time.Duration
	Addr           string
	EventsBuffer   int
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Snapshot is the compact spending state for status and event payloads.
type Snapshot struct {
	At               time.Time             `json:"at"`
	Month            string                `json:"month"`
	MonthlyIncome    float64               `json:"monthly_income"`
	TotalExpenses    float64               `json:"total_expenses"`
	Transactions     int                   `json:"transactions"`
	SavingsRate      float64               `json:"savings_rate"`
	BudgetUsedPct    float64               `json:"budget_used_pct"`
	DailyAverage     float64               `json:"daily_average"`
	ProjectedMonthly float64               `json:"projected_monthly"`
	OutstandingGiven float64               `json:"outstanding_given"`
	OutstandingTaken float64               `json:"outstanding_taken"`
	Categories       []model.CategoryTotal `json:"categories"`
}

// Delta captures spending changes between polls.
type Delta struct {
	TotalExpenses float64         `json:"total_expenses"`
	Transactions  int             `json:"transactions"`
	Categories    []advice.Change `json:"categories,omitempty"`
}

func (d Delta) isZero() bool {
	return d.TotalExpenses == 0 &&
		d.Transactions == 0 &&
		len(d.Categories) == 0
}

// Event is emitted whenever the spending snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path"`
	Summary         Snapshot  `json:"summary"`
	AdviceAt        time.Time `json:"advice_at,omitzero"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Advice is served at /v1/advice.
type Advice struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Text        string        `json:"text"`
	Report      advice.Report `json:"report"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	src    Source
	log    *slog.Logger
	now    func() time.Time
	engine *advice.Engine // guarded by mu

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	advice      *Advice
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service reading from src.
func New(cfg Config, src Source) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8731"
	}
	if cfg.MonthlyIncome <= 0 {
		cfg.MonthlyIncome = model.DefaultMonthlyIncome
	}
	if cfg.Currency == "" {
		cfg.Currency = model.DefaultCurrency
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		src:       src,
		log:       logger.With("component", "daemon"),
		now:       time.Now,
		engine:    advice.NewEngine(cfg.Currency),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API wrapped with CORS.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.HandleFunc("/v1/advice", s.handleAdvice)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Cache-Control", "Last-Event-ID"},
	})
	return c.Handler(mux)
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("listening", "addr", s.cfg.Addr, "interval", s.cfg.Interval)

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	now := s.now()
	summary, loans, err := s.load(ctx, now)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Warn("poll failed", "error", err)
		return
	}

	snap := snapshotFromSummary(summary, loans, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	delta := diffSnapshots(prev, snap)
	if !prevExists || !delta.isZero() || !sameCategories(prev.Categories, snap.Categories) {
		// The engine remembers the categories it saw last, so its
		// report carries the per-category changes since this poll's
		// predecessor.
		report, adviceErr := s.engine.Evaluate(pipeline.Snapshot(summary))
		if adviceErr != nil {
			s.lastError = adviceErr.Error()
			s.log.Warn("advice failed", "error", adviceErr)
		} else {
			s.advice = &Advice{GeneratedAt: now, Text: report.String(), Report: report}
			delta.Categories = report.Changes
		}

		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSpendingDelta,
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		}
		if !prevExists {
			ev.Type = EventSnapshot
			ev.Delta = Delta{}
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.log.Debug("spending changed", "event", ev.Type, "expenses", snap.TotalExpenses)
		s.publishEvent(ev)
	}
}

// load reads this month's transactions and all loans.
func (s *Service) load(ctx context.Context, now time.Time) (model.MonthlySummary, model.LoanSummary, error) {
	v, err := pipeline.LoadMonth(ctx, s.src, now, s.cfg.MonthlyIncome, now)
	if err != nil {
		return model.MonthlySummary{}, model.LoanSummary{}, err
	}
	return v.Summary, v.LoanSummary, nil
}

func snapshotFromSummary(m model.MonthlySummary, loans model.LoanSummary, at time.Time) Snapshot {
	return Snapshot{
		At:               at,
		Month:            m.Month.Format("2006-01"),
		MonthlyIncome:    m.MonthlyIncome,
		TotalExpenses:    m.TotalExpenses,
		Transactions:     m.Transactions,
		SavingsRate:      m.SavingsRate,
		BudgetUsedPct:    m.BudgetUsedPct,
		DailyAverage:     m.DailyAverage,
		ProjectedMonthly: m.ProjectedMonthly,
		OutstandingGiven: loans.OutstandingGiven,
		OutstandingTaken: loans.OutstandingTaken,
		Categories:       m.Categories,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		TotalExpenses: money.Sub(curr.TotalExpenses, prev.TotalExpenses),
		Transactions:  curr.Transactions - prev.Transactions,
	}
}

func sameCategories(a, b []model.CategoryTotal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.cfg.DBPath,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
	if s.advice != nil {
		st.AdviceAt = s.advice.GeneratedAt
	}
	return st
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

// handleAdvice serves the latest offline report; ?format=text returns
// the rendered text only.
func (s *Service) handleAdvice(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	adv := s.advice
	s.mu.RUnlock()

	if adv == nil {
		http.Error(w, "advice not ready", http.StatusServiceUnavailable)
		return
	}
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(adv.Text))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(adv)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
