package engine

import (
	"testing"
	"time"

	"github.com/smokwena/dispute-backend/internal/models"
)

func disputeWith(id string, status models.DisputeStatus, amount float64, created time.Time) models.Dispute {
	return models.Dispute{
		ID:        id,
		Status:    status,
		Reason:    models.ReasonDuplicate,
		CreatedAt: created,
		UpdatedAt: created,
		Transaction: &models.Transaction{
			ID:     "t-" + id,
			Amount: amount,
		},
	}
}

func TestSummarizeDisputes(t *testing.T) {
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	disputes := []models.Dispute{
		disputeWith("1", models.DisputePending, 100, base),
		disputeWith("2", models.DisputePending, 200, base),
		disputeWith("3", models.DisputeUnderReview, 300, base),
		disputeWith("4", models.DisputeResolved, 400, base),
		disputeWith("5", models.DisputeRejected, 500, base),
		disputeWith("6", models.DisputeCancelled, 600, base),
	}

	s := SummarizeDisputes(disputes)
	if s.Total != 6 {
		t.Fatalf("expected total 6 got %d", s.Total)
	}
	if sum := s.Pending + s.UnderReview + s.Resolved + s.Rejected + s.Cancelled; sum != s.Total {
		t.Fatalf("bucket counts %d must equal total %d", sum, s.Total)
	}
	if s.TotalAmount != 2100 {
		t.Fatalf("expected total amount 2100 got %v", s.TotalAmount)
	}
}

func TestSummarizeTransactions(t *testing.T) {
	txs := []models.Transaction{
		{Type: models.TxnCredit, Amount: 1000, Status: models.TxnCompleted},
		{Type: models.TxnDebit, Amount: 300, Status: models.TxnDisputed},
		{Type: models.TxnDebit, Amount: 200, Status: models.TxnCompleted},
	}
	s := SummarizeTransactions(txs)
	if s.TotalTransactions != 3 || s.TotalCredit != 1000 || s.TotalDebit != 500 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.Balance != 500 {
		t.Fatalf("expected balance 500 got %v", s.Balance)
	}
	if s.DisputedCount != 1 {
		t.Fatalf("expected 1 disputed got %d", s.DisputedCount)
	}
}

func TestResolutionTimeDays(t *testing.T) {
	created := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	pending := disputeWith("1", models.DisputePending, 10, created)
	if ResolutionTimeDays(pending) != nil {
		t.Fatal("pending dispute must have nil resolution time")
	}

	resolved := disputeWith("2", models.DisputeResolved, 10, created)
	resolved.UpdatedAt = created.Add(49 * time.Hour) // just over 2 days
	days := ResolutionTimeDays(resolved)
	if days == nil || *days != 3 {
		t.Fatalf("expected ceil to 3 days got %v", days)
	}

	sameDay := disputeWith("3", models.DisputeRejected, 10, created)
	sameDay.UpdatedAt = created
	days = ResolutionTimeDays(sameDay)
	if days == nil || *days < 0 {
		t.Fatalf("resolved dispute must have a non-negative resolution time, got %v", days)
	}
}

func TestDaysOpen(t *testing.T) {
	created := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	d := disputeWith("1", models.DisputePending, 10, created)
	now := created.Add(25 * time.Hour)
	if got := DaysOpen(d, now); got != 2 {
		t.Fatalf("expected 2 days open got %d", got)
	}
}

func TestGroupDisputesByStatus_OrderWithinGroup(t *testing.T) {
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	disputes := []models.Dispute{
		disputeWith("a", models.DisputePending, 1, base),
		disputeWith("b", models.DisputeResolved, 2, base),
		disputeWith("c", models.DisputePending, 3, base),
	}
	grouped := GroupDisputesByStatus(disputes)
	pending := grouped[models.DisputePending]
	if len(pending) != 2 || pending[0].ID != "a" || pending[1].ID != "c" {
		t.Fatalf("insertion order lost within group: %+v", pending)
	}
}

func TestGroupTransactionsByMonth(t *testing.T) {
	txs := []models.Transaction{
		{ID: "1", TransactionDate: time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)},
		{ID: "2", TransactionDate: time.Date(2025, 7, 1, 1, 0, 0, 0, time.UTC)},
		{ID: "3", TransactionDate: time.Date(2025, 7, 15, 1, 0, 0, 0, time.UTC)},
	}
	grouped := GroupTransactionsByMonth(txs)
	if len(grouped["2025-06"]) != 1 || len(grouped["2025-07"]) != 2 {
		t.Fatalf("unexpected month buckets: %v", grouped)
	}
}

func TestSortTransactionsByAmount_Stable(t *testing.T) {
	txs := []models.Transaction{
		{ID: "a", Amount: 100},
		{ID: "b", Amount: 50},
		{ID: "c", Amount: 100}, // tie with a; must stay after it
	}
	sorted := SortTransactionsByAmount(txs, true)
	if sorted[0].ID != "b" || sorted[1].ID != "a" || sorted[2].ID != "c" {
		t.Fatalf("unexpected ascending order: %v, %v, %v", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
	// input untouched
	if txs[0].ID != "a" {
		t.Fatal("input slice must not be reordered")
	}

	desc := SortTransactionsByAmount(txs, false)
	if desc[0].ID != "a" || desc[1].ID != "c" || desc[2].ID != "b" {
		t.Fatalf("unexpected descending order: %v, %v, %v", desc[0].ID, desc[1].ID, desc[2].ID)
	}
}

func TestSortTransactionsByDate(t *testing.T) {
	d1 := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{ID: "newer", TransactionDate: d2},
		{ID: "older", TransactionDate: d1},
	}
	asc := SortTransactionsByDate(txs, true)
	if asc[0].ID != "older" {
		t.Fatalf("expected ascending order, got %v first", asc[0].ID)
	}
	desc := SortTransactionsByDate(txs, false)
	if desc[0].ID != "newer" {
		t.Fatalf("expected descending order, got %v first", desc[0].ID)
	}
}

func TestFilterTransactions(t *testing.T) {
	txs := []models.Transaction{
		{ID: "1", Description: "Grocery run", MerchantName: "SuperSpar"},
		{ID: "2", Description: "Fuel", MerchantName: "Engen", Reference: "REF-778"},
	}

	if got := FilterTransactions(txs, ""); len(got) != 2 {
		t.Fatal("empty term must return the input unchanged")
	}
	if got := FilterTransactions(txs, "spar"); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("merchant match failed: %+v", got)
	}
	if got := FilterTransactions(txs, "ref-778"); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("case-insensitive reference match failed: %+v", got)
	}
}

func TestFilterDisputes(t *testing.T) {
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	d1 := disputeWith("abc-123", models.DisputePending, 10, base)
	d1.Transaction.MerchantName = "Engen"
	d2 := disputeWith("def-456", models.DisputeResolved, 20, base)
	disputes := []models.Dispute{d1, d2}

	if got := FilterDisputes(disputes, "abc"); len(got) != 1 || got[0].ID != "abc-123" {
		t.Fatalf("id match failed: %+v", got)
	}
	if got := FilterDisputes(disputes, "engen"); len(got) != 1 {
		t.Fatalf("merchant match failed: %+v", got)
	}
	// status description match
	if got := FilterDisputes(disputes, "customer's favour"); len(got) != 1 || got[0].ID != "def-456" {
		t.Fatalf("status description match failed: %+v", got)
	}
}

func TestAverageResolutionDays(t *testing.T) {
	created := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	r1 := disputeWith("1", models.DisputeResolved, 10, created)
	r1.UpdatedAt = created.Add(24 * time.Hour) // 1 day
	r2 := disputeWith("2", models.DisputeRejected, 10, created)
	r2.UpdatedAt = created.Add(72 * time.Hour) // 3 days
	open := disputeWith("3", models.DisputePending, 10, created)

	avg := AverageResolutionDays([]models.Dispute{r1, r2, open})
	if avg != 2 {
		t.Fatalf("expected average 2 got %v", avg)
	}
	if AverageResolutionDays(nil) != 0 {
		t.Fatal("no resolved disputes must average to zero")
	}
}
