package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smokwena/dispute-backend/internal/engine"
	"github.com/smokwena/dispute-backend/internal/metrics"
	"github.com/smokwena/dispute-backend/internal/models"
	repo "github.com/smokwena/dispute-backend/internal/repository"
	"github.com/smokwena/dispute-backend/internal/worker"
)

// EventPublisher emits dispute lifecycle messages. Publish failures are
// logged, never surfaced to the caller.
type EventPublisher interface {
	DisputeCreated(ctx context.Context, d models.Dispute) error
	DisputeUpdated(ctx context.Context, d models.Dispute) error
}

type DisputeService struct {
	disputes repo.Disputes
	events   repo.DisputeEvents
	trx      repo.Transactions
	pub      EventPublisher
	wp       *worker.Pool
	log      *slog.Logger
	now      func() time.Time
}

func NewDisputeService(d repo.Disputes, e repo.DisputeEvents, t repo.Transactions, pub EventPublisher, wp *worker.Pool, log *slog.Logger) *DisputeService {
	return &DisputeService{
		disputes: d,
		events:   e,
		trx:      t,
		pub:      pub,
		wp:       wp,
		log:      log.With(slog.String("component", "dispute-service")),
		now:      time.Now,
	}
}

// Create opens a dispute against an eligible transaction owned by the filer.
func (s *DisputeService) Create(ctx context.Context, transactionID string, reason models.DisputeReason, filer engine.Actor) (models.Dispute, error) {
	if !reason.Valid() {
		return models.Dispute{}, fmt.Errorf("invalid dispute reason %q", reason)
	}

	tx, err := s.trx.GetByID(ctx, transactionID)
	if err != nil {
		return models.Dispute{}, err
	}
	if tx.UserID != filer.UserID {
		return models.Dispute{}, engine.ErrUnauthorized
	}

	var existing *models.Dispute
	if active, err := s.disputes.GetActiveByTransaction(ctx, transactionID); err == nil {
		existing = &active
	} else if !errors.Is(err, engine.ErrNotFound) {
		return models.Dispute{}, err
	}

	now := s.now()
	if !engine.IsDisputable(tx, existing, now) {
		return models.Dispute{}, fmt.Errorf("transaction %s not eligible: %w", transactionID, engine.ErrConflict)
	}

	d := models.Dispute{
		TransactionID: transactionID,
		UserID:        filer.UserID,
		Reason:        reason,
		Status:        models.DisputePending,
		Priority:      engine.PriorityFor(tx.Amount),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	ev := models.DisputeEvent{
		EventType: models.EventCreated,
		Payload: map[string]any{
			"reason":         string(reason),
			"status":         string(models.DisputePending),
			"transaction_id": transactionID,
			"user_id":        filer.UserID,
		},
		CreatedAt: now,
	}

	created, err := s.disputes.Create(ctx, d, ev)
	if err != nil {
		return models.Dispute{}, err
	}
	if err := s.trx.UpdateStatus(ctx, transactionID, models.TxnDisputed); err != nil {
		s.log.Error("mark transaction disputed", "transaction_id", transactionID, "err", err)
	}

	metrics.DisputesCreated.Inc()
	s.publish(created, true)
	s.log.Info("dispute created", "dispute_id", created.ID, "transaction_id", transactionID)
	return created, nil
}

// Get fetches one dispute. Customers may only read their own.
func (s *DisputeService) Get(ctx context.Context, id string, actor engine.Actor) (models.Dispute, error) {
	d, err := s.disputes.GetByID(ctx, id)
	if err != nil {
		return models.Dispute{}, err
	}
	if !actor.IsAdmin() && d.UserID != actor.UserID {
		return models.Dispute{}, engine.ErrUnauthorized
	}
	return d, nil
}

// Transition runs the state machine against the caller's expected status and
// persists the result atomically with its audit event.
func (s *DisputeService) Transition(ctx context.Context, id string, target, expected models.DisputeStatus, notes string, actor engine.Actor) (models.Dispute, error) {
	d, err := s.disputes.GetByID(ctx, id)
	if err != nil {
		return models.Dispute{}, err
	}

	updated, ev, err := engine.Transition(d, engine.TransitionRequest{
		Target:   target,
		Expected: expected,
		Notes:    notes,
	}, actor, s.now())
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(target), transitionOutcome(err)).Inc()
		return models.Dispute{}, err
	}

	persisted, err := s.disputes.UpdateGuarded(ctx, updated, expected, ev)
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(target), transitionOutcome(err)).Inc()
		return models.Dispute{}, err
	}

	metrics.TransitionsTotal.WithLabelValues(string(target), "ok").Inc()
	s.publish(persisted, false)
	s.log.Info("dispute transitioned",
		"dispute_id", id, "from", string(expected), "to", string(target), "actor", actor.UserID)
	return persisted, nil
}

// Assign sets the handling admin without touching the dispute status.
func (s *DisputeService) Assign(ctx context.Context, id, adminID string, actor engine.Actor) (models.Dispute, error) {
	d, err := s.disputes.GetByID(ctx, id)
	if err != nil {
		return models.Dispute{}, err
	}
	if _, err := engine.Assign(d, adminID, actor, s.now()); err != nil {
		return models.Dispute{}, err
	}
	persisted, err := s.disputes.UpdateAssignment(ctx, id, adminID)
	if err != nil {
		return models.Dispute{}, err
	}
	s.publish(persisted, false)
	return persisted, nil
}

// AddComment appends a COMMENT_ADDED event. Internal notes are admin-only;
// customers may comment on their own non-terminal disputes.
func (s *DisputeService) AddComment(ctx context.Context, id, text string, internal bool, actor engine.Actor) (models.DisputeEvent, error) {
	d, err := s.annotatable(ctx, id, internal, actor)
	if err != nil {
		return models.DisputeEvent{}, err
	}
	return s.events.Append(ctx, models.DisputeEvent{
		DisputeID: d.ID,
		EventType: models.EventCommentAdded,
		Payload: map[string]any{
			"comment":  text,
			"author":   actor.UserID,
			"internal": internal,
		},
		CreatedAt: s.now(),
	})
}

// RecordAttachment appends an ATTACHMENT_UPLOADED event. The upload
// transport itself lives outside this service.
func (s *DisputeService) RecordAttachment(ctx context.Context, id, fileName string, actor engine.Actor) (models.DisputeEvent, error) {
	d, err := s.annotatable(ctx, id, false, actor)
	if err != nil {
		return models.DisputeEvent{}, err
	}
	return s.events.Append(ctx, models.DisputeEvent{
		DisputeID: d.ID,
		EventType: models.EventAttachmentUploaded,
		Payload: map[string]any{
			"file_name":   fileName,
			"uploaded_by": actor.UserID,
		},
		CreatedAt: s.now(),
	})
}

func (s *DisputeService) annotatable(ctx context.Context, id string, adminOnly bool, actor engine.Actor) (models.Dispute, error) {
	d, err := s.disputes.GetByID(ctx, id)
	if err != nil {
		return models.Dispute{}, err
	}
	if adminOnly && !actor.IsAdmin() {
		return models.Dispute{}, engine.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		if d.UserID != actor.UserID {
			return models.Dispute{}, engine.ErrUnauthorized
		}
		if engine.IsTerminal(d.Status) {
			return models.Dispute{}, engine.ErrInvalidTransition
		}
	}
	return d, nil
}

// Events returns the audit trail newest first.
func (s *DisputeService) Events(ctx context.Context, id string, actor engine.Actor) ([]models.DisputeEvent, error) {
	if _, err := s.Get(ctx, id, actor); err != nil {
		return nil, err
	}
	return s.events.ListByDispute(ctx, id)
}

func (s *DisputeService) ListForUser(ctx context.Context, actor engine.Actor) ([]models.Dispute, error) {
	return s.disputes.ListByUser(ctx, actor.UserID)
}

func (s *DisputeService) ListAssigned(ctx context.Context, actor engine.Actor) ([]models.Dispute, error) {
	return s.disputes.ListAssignedTo(ctx, actor.UserID)
}

func (s *DisputeService) List(ctx context.Context, f models.DisputeFilter) (models.DisputePage, error) {
	return s.disputes.List(ctx, f)
}

// Statistics is the admin overview: status buckets plus the average
// resolution time across closed disputes.
type Statistics struct {
	engine.DisputeSummary
	AverageResolutionDays float64 `json:"average_resolution_days"`
}

func (s *DisputeService) Statistics(ctx context.Context) (Statistics, error) {
	all, err := s.disputes.ListAll(ctx)
	if err != nil {
		return Statistics{}, err
	}
	return Statistics{
		DisputeSummary:        engine.SummarizeDisputes(all),
		AverageResolutionDays: engine.AverageResolutionDays(all),
	}, nil
}

func (s *DisputeService) publish(d models.Dispute, created bool) {
	s.wp.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var err error
		if created {
			err = s.pub.DisputeCreated(ctx, d)
		} else {
			err = s.pub.DisputeUpdated(ctx, d)
		}
		if err != nil {
			s.log.Error("publish dispute event", "dispute_id", d.ID, "err", err)
		}
	})
}

func transitionOutcome(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidTransition):
		return "invalid"
	case errors.Is(err, engine.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, engine.ErrStaleState):
		return "stale"
	default:
		return "error"
	}
}
