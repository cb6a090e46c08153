package engine

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/smokwena/dispute-backend/internal/models"
)

// Aggregation helpers are pure functions over collection snapshots. Inputs
// are never mutated; sorts return copies.

type DisputeSummary struct {
	Total       int     `json:"total"`
	Pending     int     `json:"pending"`
	UnderReview int     `json:"under_review"`
	Resolved    int     `json:"resolved"`
	Rejected    int     `json:"rejected"`
	Cancelled   int     `json:"cancelled"`
	TotalAmount float64 `json:"total_amount"`
}

func SummarizeDisputes(disputes []models.Dispute) DisputeSummary {
	s := DisputeSummary{Total: len(disputes)}
	for _, d := range disputes {
		if d.Transaction != nil {
			s.TotalAmount += d.Transaction.Amount
		}
		switch d.Status {
		case models.DisputePending:
			s.Pending++
		case models.DisputeUnderReview:
			s.UnderReview++
		case models.DisputeResolved:
			s.Resolved++
		case models.DisputeRejected:
			s.Rejected++
		case models.DisputeCancelled:
			s.Cancelled++
		}
	}
	return s
}

type TransactionSummary struct {
	TotalTransactions int     `json:"total_transactions"`
	TotalDebit        float64 `json:"total_debit"`
	TotalCredit       float64 `json:"total_credit"`
	Balance           float64 `json:"balance"`
	DisputedCount     int     `json:"disputed_count"`
}

func SummarizeTransactions(txs []models.Transaction) TransactionSummary {
	s := TransactionSummary{TotalTransactions: len(txs)}
	for _, tx := range txs {
		if tx.Type == models.TxnDebit {
			s.TotalDebit += tx.Amount
		} else {
			s.TotalCredit += tx.Amount
		}
		if tx.Status == models.TxnDisputed {
			s.DisputedCount++
		}
	}
	s.Balance = s.TotalCredit - s.TotalDebit
	return s
}

// ResolutionTimeDays is the ceiling of whole days between creation and the
// resolving update. Nil unless the dispute reached RESOLVED or REJECTED.
func ResolutionTimeDays(d models.Dispute) *int {
	if d.Status != models.DisputeResolved && d.Status != models.DisputeRejected {
		return nil
	}
	days := ceilDays(d.UpdatedAt.Sub(d.CreatedAt))
	return &days
}

// DaysOpen is the ceiling of whole days since the dispute was created,
// independent of status.
func DaysOpen(d models.Dispute, now time.Time) int {
	return ceilDays(now.Sub(d.CreatedAt))
}

// AverageResolutionDays averages ResolutionTimeDays over the disputes that
// have one. Zero when none do.
func AverageResolutionDays(disputes []models.Dispute) float64 {
	var sum, n int
	for _, d := range disputes {
		if days := ResolutionTimeDays(d); days != nil {
			sum += *days
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Abs().Hours() / 24))
}

// GroupDisputesByStatus buckets disputes by status code, input order
// preserved within each bucket.
func GroupDisputesByStatus(disputes []models.Dispute) map[models.DisputeStatus][]models.Dispute {
	grouped := make(map[models.DisputeStatus][]models.Dispute)
	for _, d := range disputes {
		grouped[d.Status] = append(grouped[d.Status], d)
	}
	return grouped
}

// GroupTransactionsByDate buckets transactions by calendar date
// (YYYY-MM-DD), input order preserved within each bucket.
func GroupTransactionsByDate(txs []models.Transaction) map[string][]models.Transaction {
	grouped := make(map[string][]models.Transaction)
	for _, tx := range txs {
		key := tx.TransactionDate.Format("2006-01-02")
		grouped[key] = append(grouped[key], tx)
	}
	return grouped
}

// GroupTransactionsByMonth buckets transactions by YYYY-MM.
func GroupTransactionsByMonth(txs []models.Transaction) map[string][]models.Transaction {
	grouped := make(map[string][]models.Transaction)
	for _, tx := range txs {
		key := tx.TransactionDate.Format("2006-01")
		grouped[key] = append(grouped[key], tx)
	}
	return grouped
}

// SortTransactionsByDate returns a copy sorted by transaction date. Ties
// keep their original relative order.
func SortTransactionsByDate(txs []models.Transaction, ascending bool) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].TransactionDate.Before(out[j].TransactionDate)
		}
		return out[j].TransactionDate.Before(out[i].TransactionDate)
	})
	return out
}

func SortTransactionsByAmount(txs []models.Transaction, ascending bool) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].Amount < out[j].Amount
		}
		return out[j].Amount < out[i].Amount
	})
	return out
}

func SortDisputesByDate(disputes []models.Dispute, ascending bool) []models.Dispute {
	out := make([]models.Dispute, len(disputes))
	copy(out, disputes)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[j].CreatedAt.Before(out[i].CreatedAt)
	})
	return out
}

// SortDisputesByAmount sorts by the linked transaction amount. Disputes
// without a joined transaction sort as amount zero.
func SortDisputesByAmount(disputes []models.Dispute, ascending bool) []models.Dispute {
	out := make([]models.Dispute, len(disputes))
	copy(out, disputes)
	amount := func(d models.Dispute) float64 {
		if d.Transaction == nil {
			return 0
		}
		return d.Transaction.Amount
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return amount(out[i]) < amount(out[j])
		}
		return amount(out[j]) < amount(out[i])
	})
	return out
}

// FilterTransactions keeps transactions whose description, merchant name or
// reference contains term, case-insensitively. Empty term returns the input
// unchanged.
func FilterTransactions(txs []models.Transaction, term string) []models.Transaction {
	if term == "" {
		return txs
	}
	term = strings.ToLower(term)
	var out []models.Transaction
	for _, tx := range txs {
		if containsFold(tx.Description, term) ||
			containsFold(tx.MerchantName, term) ||
			containsFold(tx.Reference, term) {
			out = append(out, tx)
		}
	}
	return out
}

// FilterDisputes keeps disputes matching term across the linked transaction
// fields, the reason and status descriptions, and the dispute id.
func FilterDisputes(disputes []models.Dispute, term string) []models.Dispute {
	if term == "" {
		return disputes
	}
	term = strings.ToLower(term)
	var out []models.Dispute
	for _, d := range disputes {
		if containsFold(d.ID, term) ||
			containsFold(d.Reason.Description(), term) ||
			containsFold(d.Status.Description(), term) {
			out = append(out, d)
			continue
		}
		if tx := d.Transaction; tx != nil {
			if containsFold(tx.Description, term) ||
				containsFold(tx.MerchantName, term) ||
				containsFold(tx.Reference, term) {
				out = append(out, d)
			}
		}
	}
	return out
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}
