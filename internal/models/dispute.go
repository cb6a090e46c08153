package models

import "time"

type DisputeStatus string

const (
	DisputePending     DisputeStatus = "PENDING"
	DisputeUnderReview DisputeStatus = "UNDER_REVIEW"
	DisputeResolved    DisputeStatus = "RESOLVED"
	DisputeRejected    DisputeStatus = "REJECTED"
	DisputeCancelled   DisputeStatus = "CANCELLED"
)

// statusDescriptions mirrors the dispute_statuses lookup table.
var statusDescriptions = map[DisputeStatus]string{
	DisputePending:     "Dispute received and awaiting triage",
	DisputeUnderReview: "Dispute is being investigated",
	DisputeResolved:    "Dispute resolved in the customer's favour",
	DisputeRejected:    "Dispute rejected after investigation",
	DisputeCancelled:   "Dispute cancelled by the customer",
}

func (s DisputeStatus) Description() string { return statusDescriptions[s] }

type DisputeReason string

const (
	ReasonUnauthorized    DisputeReason = "UNAUTHORIZED"
	ReasonDuplicate       DisputeReason = "DUPLICATE"
	ReasonIncorrectAmount DisputeReason = "INCORRECT_AMOUNT"
	ReasonMerchantError   DisputeReason = "MERCHANT_ERROR"
	ReasonFraud           DisputeReason = "FRAUD"
)

var reasonDescriptions = map[DisputeReason]string{
	ReasonUnauthorized:    "Transaction was not authorized",
	ReasonDuplicate:       "Transaction was charged more than once",
	ReasonIncorrectAmount: "Charged amount does not match the purchase",
	ReasonMerchantError:   "Merchant processed the transaction incorrectly",
	ReasonFraud:           "Suspected fraudulent transaction",
}

func (r DisputeReason) Description() string { return reasonDescriptions[r] }

func (r DisputeReason) Valid() bool {
	_, ok := reasonDescriptions[r]
	return ok
}

type DisputePriority string

const (
	PriorityLow    DisputePriority = "LOW"
	PriorityMedium DisputePriority = "MEDIUM"
	PriorityHigh   DisputePriority = "HIGH"
	PriorityUrgent DisputePriority = "URGENT"
)

// Dispute is a customer's challenge against exactly one transaction. It is
// mutated only through engine transitions; callers persist the returned copy.
type Dispute struct {
	ID              string          `json:"id"`
	TransactionID   string          `json:"transaction_id"`
	UserID          string          `json:"user_id"`
	Reason          DisputeReason   `json:"reason"`
	Status          DisputeStatus   `json:"status"`
	Priority        DisputePriority `json:"priority,omitempty"`
	AssignedTo      *string         `json:"assigned_to,omitempty"`
	ResolutionNotes *string         `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`

	// Transaction is the disputed transaction, joined in by the registry for
	// summaries and search.
	Transaction *Transaction `json:"transaction,omitempty"`
}

// DisputeFilter narrows an admin dispute listing.
type DisputeFilter struct {
	Status DisputeStatus
	Page   int
	Size   int
}

// DisputePage is one page of an admin dispute listing.
type DisputePage struct {
	Content       []Dispute `json:"content"`
	Page          int       `json:"page"`
	TotalPages    int       `json:"total_pages"`
	TotalElements int64     `json:"total_elements"`
}
