package engine

import (
	"time"

	"github.com/smokwena/dispute-backend/internal/models"
)

// DisputeWindowDays is the eligibility window measured from the transaction
// date. Exactly DisputeWindowDays days old is still eligible.
const DisputeWindowDays = 60

// IsDisputable reports whether a new dispute may be opened against tx.
// existing is the active-lifecycle dispute already filed for tx, or nil.
// Pure function of its inputs and now.
func IsDisputable(tx models.Transaction, existing *models.Dispute, now time.Time) bool {
	if existing != nil && !IsTerminal(existing.Status) {
		return false
	}
	if tx.Status == models.TxnDisputed || tx.Status == models.TxnReversed {
		return false
	}
	daysSince := int(now.Sub(tx.TransactionDate).Hours() / 24)
	return daysSince <= DisputeWindowDays
}

// TransactionAgeDays is the floor of full days elapsed since the transaction
// date.
func TransactionAgeDays(tx models.Transaction, now time.Time) int {
	return int(now.Sub(tx.TransactionDate).Hours() / 24)
}
