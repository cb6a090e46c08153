package engine

import (
	"time"

	"github.com/smokwena/dispute-backend/internal/models"
)

// transitions is the authoritative edge set of the dispute status graph.
// AvailableTransitions and Transition read the same table.
var transitions = map[models.DisputeStatus][]models.DisputeStatus{
	models.DisputePending:     {models.DisputeUnderReview, models.DisputeCancelled},
	models.DisputeUnderReview: {models.DisputeResolved, models.DisputeRejected, models.DisputePending},
	models.DisputeResolved:    {},
	models.DisputeRejected:    {},
	models.DisputeCancelled:   {},
}

// IsTerminal reports whether status has no outgoing edges.
func IsTerminal(status models.DisputeStatus) bool {
	return len(transitions[status]) == 0
}

// AvailableTransitions returns the statuses reachable from current. The
// returned slice is a copy; mutating it does not affect the graph.
func AvailableTransitions(current models.DisputeStatus) []models.DisputeStatus {
	edges := transitions[current]
	out := make([]models.DisputeStatus, len(edges))
	copy(out, edges)
	return out
}

// CanTransition reports whether (current, target) is an edge in the graph.
func CanTransition(current, target models.DisputeStatus) bool {
	for _, s := range transitions[current] {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionRequest carries a requested status change. Expected is the
// caller's view of the current status; a mismatch fails with ErrStaleState
// instead of silently overwriting a concurrent change.
type TransitionRequest struct {
	Target   models.DisputeStatus
	Expected models.DisputeStatus
	Notes    string
}

// Transition applies a status change to a copy of d and returns the updated
// dispute together with the STATUS_UPDATED audit event to append. The input
// dispute is never mutated; callers persist both results atomically.
//
// CANCELLED is reachable by the filing customer on their own dispute or by
// an admin. Every other edge requires the DISPUTE_ADMIN role.
func Transition(d models.Dispute, req TransitionRequest, actor Actor, now time.Time) (models.Dispute, models.DisputeEvent, error) {
	if req.Expected != d.Status {
		return models.Dispute{}, models.DisputeEvent{}, ErrStaleState
	}
	if !CanTransition(d.Status, req.Target) {
		return models.Dispute{}, models.DisputeEvent{}, ErrInvalidTransition
	}
	if !allowedActor(d, req.Target, actor) {
		return models.Dispute{}, models.DisputeEvent{}, ErrUnauthorized
	}

	old := d.Status
	d.Status = req.Target
	d.UpdatedAt = now
	if (req.Target == models.DisputeResolved || req.Target == models.DisputeRejected) && d.ResolvedAt == nil {
		resolved := now
		d.ResolvedAt = &resolved
	}
	if req.Notes != "" {
		notes := req.Notes
		d.ResolutionNotes = &notes
	}

	payload := map[string]any{
		"old_status": string(old),
		"new_status": string(req.Target),
		"actor_id":   actor.UserID,
	}
	if req.Notes != "" {
		payload["notes"] = req.Notes
	}
	ev := models.DisputeEvent{
		DisputeID: d.ID,
		EventType: models.EventStatusUpdated,
		Payload:   payload,
		CreatedAt: now,
	}
	return d, ev, nil
}

func allowedActor(d models.Dispute, target models.DisputeStatus, actor Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	if target == models.DisputeCancelled {
		return actor.HasRole(models.RoleCustomer) && actor.UserID == d.UserID
	}
	return false
}

// Assign sets the handling admin on a copy of d. Permitted for admins in any
// non-terminal status; the dispute status itself is untouched.
func Assign(d models.Dispute, adminID string, actor Actor, now time.Time) (models.Dispute, error) {
	if !actor.IsAdmin() {
		return models.Dispute{}, ErrUnauthorized
	}
	if IsTerminal(d.Status) {
		return models.Dispute{}, ErrInvalidTransition
	}
	d.AssignedTo = &adminID
	d.UpdatedAt = now
	return d, nil
}
