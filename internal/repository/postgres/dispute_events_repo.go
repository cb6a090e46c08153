package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smokwena/dispute-backend/internal/models"
)

type disputeEventsRepo struct{ pool *pgxpool.Pool }

// insertEvent appends an event row inside an already-open transaction so a
// state change and its audit record commit together.
func insertEvent(ctx context.Context, ptx pgx.Tx, ev models.DisputeEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("dispute events: marshal payload: %w", err)
	}
	if _, err := ptx.Exec(ctx, `
INSERT INTO dispute_events (id, dispute_id, event_type, payload, created_at)
VALUES ($1,$2,$3,$4,$5)`,
		ev.ID, ev.DisputeID, ev.EventType, payload, ev.CreatedAt); err != nil {
		return fmt.Errorf("dispute events: insert: %w", err)
	}
	return nil
}

func (r *disputeEventsRepo) Append(ctx context.Context, ev models.DisputeEvent) (models.DisputeEvent, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return models.DisputeEvent{}, fmt.Errorf("dispute events: marshal payload: %w", err)
	}
	if _, err := r.pool.Exec(ctx, `
INSERT INTO dispute_events (id, dispute_id, event_type, payload, created_at)
VALUES ($1,$2,$3,$4,$5)`,
		ev.ID, ev.DisputeID, ev.EventType, payload, ev.CreatedAt); err != nil {
		return models.DisputeEvent{}, fmt.Errorf("dispute events: insert: %w", err)
	}
	return ev, nil
}

func (r *disputeEventsRepo) ListByDispute(ctx context.Context, disputeID string) ([]models.DisputeEvent, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, dispute_id, event_type, payload, created_at
  FROM dispute_events
 WHERE dispute_id=$1
 ORDER BY created_at DESC`, disputeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DisputeEvent
	for rows.Next() {
		var (
			ev  models.DisputeEvent
			raw []byte
		)
		if err := rows.Scan(&ev.ID, &ev.DisputeID, &ev.EventType, &raw, &ev.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &ev.Payload); err != nil {
				return nil, fmt.Errorf("dispute events: decode payload: %w", err)
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
