package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/smokwena/dispute-backend/internal/engine"
	"github.com/smokwena/dispute-backend/internal/models"
	"github.com/smokwena/dispute-backend/internal/worker"
)

// ---------- fakes ----------

type fakeDisputes struct {
	mu       sync.Mutex
	byID     map[string]models.Dispute
	events   []models.DisputeEvent
	creates  int
	guardErr error
}

func newFakeDisputes() *fakeDisputes {
	return &fakeDisputes{byID: map[string]models.Dispute{}}
}

func (f *fakeDisputes) Create(_ context.Context, d models.Dispute, ev models.DisputeEvent) (models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == "" {
		d.ID = "d-generated"
	}
	ev.DisputeID = d.ID
	f.byID[d.ID] = d
	f.events = append(f.events, ev)
	f.creates++
	return d, nil
}

func (f *fakeDisputes) GetByID(_ context.Context, id string) (models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[id]
	if !ok {
		return models.Dispute{}, engine.ErrNotFound
	}
	return d, nil
}

func (f *fakeDisputes) GetActiveByTransaction(_ context.Context, txID string) (models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.byID {
		if d.TransactionID == txID && !engine.IsTerminal(d.Status) {
			return d, nil
		}
	}
	return models.Dispute{}, engine.ErrNotFound
}

func (f *fakeDisputes) ListByUser(_ context.Context, userID string) ([]models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Dispute
	for _, d := range f.byID {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDisputes) ListAssignedTo(_ context.Context, adminID string) ([]models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Dispute
	for _, d := range f.byID {
		if d.AssignedTo != nil && *d.AssignedTo == adminID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDisputes) ListAll(_ context.Context) ([]models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Dispute
	for _, d := range f.byID {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDisputes) List(_ context.Context, _ models.DisputeFilter) (models.DisputePage, error) {
	return models.DisputePage{}, nil
}

func (f *fakeDisputes) UpdateGuarded(_ context.Context, d models.Dispute, expected models.DisputeStatus, ev models.DisputeEvent) (models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.guardErr != nil {
		return models.Dispute{}, f.guardErr
	}
	stored, ok := f.byID[d.ID]
	if !ok {
		return models.Dispute{}, engine.ErrNotFound
	}
	if stored.Status != expected {
		return models.Dispute{}, engine.ErrStaleState
	}
	f.byID[d.ID] = d
	f.events = append(f.events, ev)
	return d, nil
}

func (f *fakeDisputes) UpdateAssignment(_ context.Context, id, adminID string) (models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[id]
	if !ok {
		return models.Dispute{}, engine.ErrNotFound
	}
	d.AssignedTo = &adminID
	f.byID[id] = d
	return d, nil
}

type fakeEvents struct {
	mu       sync.Mutex
	appended []models.DisputeEvent
}

func (f *fakeEvents) Append(_ context.Context, ev models.DisputeEvent) (models.DisputeEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev.ID = "ev-generated"
	f.appended = append(f.appended, ev)
	return ev, nil
}

func (f *fakeEvents) ListByDispute(_ context.Context, disputeID string) ([]models.DisputeEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DisputeEvent
	for _, ev := range f.appended {
		if ev.DisputeID == disputeID {
			out = append(out, ev)
		}
	}
	return out, nil
}

type fakeTransactions struct {
	mu       sync.Mutex
	byID     map[string]models.Transaction
	statuses map[string]models.TransactionStatus
}

func newFakeTransactions() *fakeTransactions {
	return &fakeTransactions{
		byID:     map[string]models.Transaction{},
		statuses: map[string]models.TransactionStatus{},
	}
}

func (f *fakeTransactions) Create(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[tx.ID] = tx
	return tx, nil
}

func (f *fakeTransactions) GetByID(_ context.Context, id string) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.byID[id]
	if !ok {
		return models.Transaction{}, engine.ErrNotFound
	}
	return tx, nil
}

func (f *fakeTransactions) ListByUser(_ context.Context, userID string, _, _ int) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, tx := range f.byID {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTransactions) Search(_ context.Context, _ models.TransactionFilter) ([]models.Transaction, error) {
	return nil, nil
}

func (f *fakeTransactions) UpdateStatus(_ context.Context, id string, status models.TransactionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	return nil
}

type fakePublisher struct {
	mu      sync.Mutex
	created []string
	updated []string
}

func (f *fakePublisher) DisputeCreated(_ context.Context, d models.Dispute) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, d.ID)
	return nil
}

func (f *fakePublisher) DisputeUpdated(_ context.Context, d models.Dispute) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, d.ID)
	return nil
}

// ---------- harness ----------

type harness struct {
	svc      *DisputeService
	disputes *fakeDisputes
	events   *fakeEvents
	trx      *fakeTransactions
	pub      *fakePublisher
	wp       *worker.Pool
	now      time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		disputes: newFakeDisputes(),
		events:   &fakeEvents{},
		trx:      newFakeTransactions(),
		pub:      &fakePublisher{},
		wp:       worker.NewPool(1),
		now:      time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC),
	}
	h.svc = NewDisputeService(h.disputes, h.events, h.trx, h.pub, h.wp, slog.Default())
	h.svc.now = func() time.Time { return h.now }
	return h
}

func (h *harness) drain() { h.wp.Stop() }

var (
	filer = engine.Actor{UserID: "cust-1", Roles: []string{models.RoleCustomer}}
	admin = engine.Actor{UserID: "admin-1", Roles: []string{models.RoleDisputeAdmin}}
)

func (h *harness) seedTransaction(id string, ageDays int) {
	h.trx.byID[id] = models.Transaction{
		ID:              id,
		UserID:          filer.UserID,
		Amount:          7500,
		Type:            models.TxnDebit,
		Status:          models.TxnCompleted,
		TransactionDate: h.now.AddDate(0, 0, -ageDays),
	}
}

// ---------- tests ----------

func TestDisputeService_Create(t *testing.T) {
	h := newHarness(t)
	h.seedTransaction("t-1", 5)

	d, err := h.svc.Create(context.Background(), "t-1", models.ReasonFraud, filer)
	if err != nil {
		t.Fatalf("create: unexpected error: %v", err)
	}
	h.drain()

	if d.Status != models.DisputePending {
		t.Fatalf("expected PENDING got %s", d.Status)
	}
	if d.Priority != models.PriorityHigh {
		t.Fatalf("expected priority HIGH for amount 7500 got %s", d.Priority)
	}
	if h.trx.statuses["t-1"] != models.TxnDisputed {
		t.Fatal("transaction must be flipped to DISPUTED")
	}
	if len(h.disputes.events) != 1 || h.disputes.events[0].EventType != models.EventCreated {
		t.Fatalf("expected one CREATED event, got %+v", h.disputes.events)
	}
	if len(h.pub.created) != 1 {
		t.Fatalf("expected one created publish got %d", len(h.pub.created))
	}
}

func TestDisputeService_CreateConflictOnActiveDispute(t *testing.T) {
	h := newHarness(t)
	defer h.drain()
	h.seedTransaction("t-1", 5)
	h.disputes.byID["d-0"] = models.Dispute{
		ID: "d-0", TransactionID: "t-1", UserID: filer.UserID, Status: models.DisputeUnderReview,
	}

	_, err := h.svc.Create(context.Background(), "t-1", models.ReasonFraud, filer)
	if !errors.Is(err, engine.ErrConflict) {
		t.Fatalf("expected ErrConflict got %v", err)
	}
}

func TestDisputeService_CreateOutsideWindow(t *testing.T) {
	h := newHarness(t)
	defer h.drain()
	h.seedTransaction("t-1", 75)

	_, err := h.svc.Create(context.Background(), "t-1", models.ReasonFraud, filer)
	if !errors.Is(err, engine.ErrConflict) {
		t.Fatalf("expected ErrConflict for aged transaction got %v", err)
	}
}

func TestDisputeService_CreateForAnotherUsersTransaction(t *testing.T) {
	h := newHarness(t)
	defer h.drain()
	h.seedTransaction("t-1", 5)

	other := engine.Actor{UserID: "cust-9", Roles: []string{models.RoleCustomer}}
	_, err := h.svc.Create(context.Background(), "t-1", models.ReasonFraud, other)
	if !errors.Is(err, engine.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized got %v", err)
	}
}

func TestDisputeService_Transition(t *testing.T) {
	h := newHarness(t)
	h.disputes.byID["d-1"] = models.Dispute{
		ID: "d-1", TransactionID: "t-1", UserID: filer.UserID,
		Status: models.DisputePending, CreatedAt: h.now, UpdatedAt: h.now,
	}

	d, err := h.svc.Transition(context.Background(), "d-1",
		models.DisputeUnderReview, models.DisputePending, "", admin)
	if err != nil {
		t.Fatalf("transition: unexpected error: %v", err)
	}
	h.drain()

	if d.Status != models.DisputeUnderReview {
		t.Fatalf("expected UNDER_REVIEW got %s", d.Status)
	}
	if len(h.disputes.events) != 1 || h.disputes.events[0].EventType != models.EventStatusUpdated {
		t.Fatalf("expected one STATUS_UPDATED event, got %+v", h.disputes.events)
	}
	if len(h.pub.updated) != 1 {
		t.Fatalf("expected one updated publish got %d", len(h.pub.updated))
	}
}

func TestDisputeService_TransitionStale(t *testing.T) {
	h := newHarness(t)
	defer h.drain()
	h.disputes.byID["d-1"] = models.Dispute{
		ID: "d-1", UserID: filer.UserID, Status: models.DisputeUnderReview,
		CreatedAt: h.now, UpdatedAt: h.now,
	}

	_, err := h.svc.Transition(context.Background(), "d-1",
		models.DisputeUnderReview, models.DisputePending, "", admin)
	if !errors.Is(err, engine.ErrStaleState) {
		t.Fatalf("expected ErrStaleState got %v", err)
	}
}

func TestDisputeService_AssignByCustomerDenied(t *testing.T) {
	h := newHarness(t)
	defer h.drain()
	h.disputes.byID["d-1"] = models.Dispute{
		ID: "d-1", UserID: filer.UserID, Status: models.DisputePending,
	}

	_, err := h.svc.Assign(context.Background(), "d-1", "admin-2", filer)
	if !errors.Is(err, engine.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized got %v", err)
	}
}

func TestDisputeService_InternalNoteByCustomerDenied(t *testing.T) {
	h := newHarness(t)
	defer h.drain()
	h.disputes.byID["d-1"] = models.Dispute{
		ID: "d-1", UserID: filer.UserID, Status: models.DisputePending,
	}

	_, err := h.svc.AddComment(context.Background(), "d-1", "internal note", true, filer)
	if !errors.Is(err, engine.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized got %v", err)
	}

	ev, err := h.svc.AddComment(context.Background(), "d-1", "customer comment", false, filer)
	if err != nil {
		t.Fatalf("customer comment: unexpected error: %v", err)
	}
	if ev.EventType != models.EventCommentAdded {
		t.Fatalf("expected COMMENT_ADDED got %s", ev.EventType)
	}
}

func TestDisputeService_Statistics(t *testing.T) {
	h := newHarness(t)
	defer h.drain()
	resolvedAt := h.now
	h.disputes.byID["d-1"] = models.Dispute{
		ID: "d-1", UserID: filer.UserID, Status: models.DisputeResolved,
		CreatedAt: h.now.Add(-48 * time.Hour), UpdatedAt: h.now, ResolvedAt: &resolvedAt,
		Transaction: &models.Transaction{Amount: 100},
	}
	h.disputes.byID["d-2"] = models.Dispute{
		ID: "d-2", UserID: filer.UserID, Status: models.DisputePending,
		CreatedAt: h.now, UpdatedAt: h.now,
		Transaction: &models.Transaction{Amount: 50},
	}

	stats, err := h.svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("statistics: unexpected error: %v", err)
	}
	if stats.Total != 2 || stats.Resolved != 1 || stats.Pending != 1 {
		t.Fatalf("unexpected buckets: %+v", stats.DisputeSummary)
	}
	if stats.TotalAmount != 150 {
		t.Fatalf("expected total amount 150 got %v", stats.TotalAmount)
	}
	if stats.AverageResolutionDays != 2 {
		t.Fatalf("expected average resolution 2 days got %v", stats.AverageResolutionDays)
	}
}
