package daemon

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/budget/internal/model"
)

type fakeSource struct {
	txns  []model.Transaction
	loans []model.Loan
	err   error
}

func (f *fakeSource) TransactionsBetween(start, end time.Time) ([]model.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Transaction
	for _, t := range f.txns {
		if !t.Date.Before(start) && t.Date.Before(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeSource) ListLoans() ([]model.Loan, error) {
	return f.loans, f.err
}

var pollTime = time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

func newTestService(src Source) *Service {
	s := New(Config{
		MonthlyIncome: 50000,
		Currency:      "₹",
		Interval:      10 * time.Second,
		EventsBuffer:  10,
		Logger:        slog.New(slog.DiscardHandler),
	}, src)
	s.now = func() time.Time { return pollTime }
	return s
}

func txn(cat model.Category, amount float64, day int) model.Transaction {
	return model.Transaction{
		Amount:   amount,
		Merchant: "shop",
		Category: cat,
		Date:     time.Date(2026, 3, day, 10, 0, 0, 0, time.Local),
	}
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{TotalExpenses: 10.1, Transactions: 3}
	curr := Snapshot{TotalExpenses: 12.7, Transactions: 5}

	delta := diffSnapshots(prev, curr)
	if delta.Transactions != 2 {
		t.Fatalf("Transactions delta = %d, want 2", delta.Transactions)
	}
	if math.Abs(delta.TotalExpenses-2.6) > 1e-9 {
		t.Fatalf("Expenses delta = %.2f, want 2.60", delta.TotalExpenses)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots should produce a zero delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	}, &fakeSource{})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollOnce_EventsAndAdvice(t *testing.T) {
	src := &fakeSource{
		txns: []model.Transaction{
			txn(model.CategoryFood, 20000, 2),
			txn(model.CategoryTransportation, 20000, 3),
			{Amount: 999, Merchant: "old", Category: model.CategoryFood, Date: time.Date(2026, 2, 27, 0, 0, 0, 0, time.Local)},
		},
		loans: []model.Loan{{PersonName: "A", Amount: 500, Type: model.LoanGiven}},
	}
	s := newTestService(src)

	s.pollOnce(t.Context())
	s.pollOnce(t.Context()) // unchanged, no event

	src.txns = append(src.txns, txn(model.CategoryFood, 5000, 14))
	s.pollOnce(t.Context())

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	adv := s.advice
	snap := s.snapshot
	polls := s.pollCount
	s.mu.RUnlock()

	if polls != 3 {
		t.Errorf("pollCount = %d, want 3", polls)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != EventSnapshot || events[1].Type != EventSpendingDelta {
		t.Errorf("event types = %s, %s", events[0].Type, events[1].Type)
	}
	if events[0].Snapshot.TotalExpenses != 40000 {
		t.Errorf("first snapshot expenses = %v, want 40000 (February excluded)", events[0].Snapshot.TotalExpenses)
	}
	d := events[1].Delta
	if d.TotalExpenses != 5000 || d.Transactions != 1 {
		t.Errorf("delta = %+v", d)
	}
	if len(d.Categories) != 1 || d.Categories[0].Category != "FOOD" || d.Categories[0].Delta != 5000 {
		t.Errorf("category changes = %+v", d.Categories)
	}
	if snap.OutstandingGiven != 500 {
		t.Errorf("OutstandingGiven = %v, want 500", snap.OutstandingGiven)
	}
	if snap.Month != "2026-03" {
		t.Errorf("Month = %q", snap.Month)
	}

	if adv == nil {
		t.Fatal("no advice generated")
	}
	if !strings.Contains(adv.Text, "⚠️ FOOD has increased by ₹5000.00") {
		t.Errorf("advice missing trend line:\n%s", adv.Text)
	}
}

func TestPollOnce_RecategorizedSpendIsAChange(t *testing.T) {
	src := &fakeSource{txns: []model.Transaction{txn(model.CategoryFood, 100, 2)}}
	s := newTestService(src)
	s.pollOnce(t.Context())

	src.txns = []model.Transaction{txn(model.CategoryShopping, 100, 2)}
	s.pollOnce(t.Context())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 2 {
		t.Fatalf("got %d events, want 2", len(s.events))
	}
}

func TestPollOnce_ErrorKeepsSnapshot(t *testing.T) {
	src := &fakeSource{txns: []model.Transaction{txn(model.CategoryFood, 100, 2)}}
	s := newTestService(src)
	s.pollOnce(t.Context())

	src.err = errors.New("database is locked")
	s.pollOnce(t.Context())

	st := s.snapshotStatus()
	if !strings.Contains(st.LastError, "database is locked") {
		t.Errorf("LastError = %q", st.LastError)
	}
	if st.Summary.TotalExpenses != 100 {
		t.Errorf("snapshot lost after error: %+v", st.Summary)
	}
	if st.PollCount != 2 {
		t.Errorf("PollCount = %d", st.PollCount)
	}
}

func TestHandler_Endpoints(t *testing.T) {
	s := newTestService(&fakeSource{txns: []model.Transaction{txn(model.CategoryFood, 1000, 2)}})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	// Advice is not ready before the first poll.
	resp, err := http.Get(srv.URL + "/v1/advice")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("advice before poll: status %d", resp.StatusCode)
	}

	s.pollOnce(t.Context())

	resp, err = http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "ok\n" {
		t.Errorf("healthz body = %q", body)
	}

	resp, err = http.Get(srv.URL + "/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if st.Summary.TotalExpenses != 1000 || st.PollCount != 1 {
		t.Errorf("status = %+v", st)
	}

	resp, err = http.Get(srv.URL + "/v1/advice?format=text")
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if !strings.HasPrefix(string(body), "📊 Budget Analysis:") {
		t.Errorf("advice text = %q", body)
	}

	resp, err = http.Get(srv.URL + "/v1/advice")
	if err != nil {
		t.Fatal(err)
	}
	var adv Advice
	if err := json.NewDecoder(resp.Body).Decode(&adv); err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if adv.Report.MonthlyIncome != 50000 || adv.Report.Dominant == nil || adv.Report.Dominant.Category != "FOOD" {
		t.Errorf("advice report = %+v", adv.Report)
	}

	resp, err = http.Get(srv.URL + "/v1/events")
	if err != nil {
		t.Fatal(err)
	}
	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if len(events) != 1 {
		t.Errorf("got %d events, want 1", len(events))
	}
}

func TestHandler_CORS(t *testing.T) {
	s := New(Config{AllowedOrigins: []string{"http://localhost:*"}}, &fakeSource{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req.Header.Set("Origin", "https://evil.example")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}
