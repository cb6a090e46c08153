package engine

import (
	"math"

	"github.com/smokwena/dispute-backend/internal/models"
)

// PriorityFor derives the dispute priority from the absolute magnitude of
// the originating transaction amount. Stamped once at creation; never
// re-derived afterwards.
func PriorityFor(amount float64) models.DisputePriority {
	amount = math.Abs(amount)
	switch {
	case amount > 10000:
		return models.PriorityUrgent
	case amount > 5000:
		return models.PriorityHigh
	case amount > 1000:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}
