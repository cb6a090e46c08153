package models

import "time"

type TransactionType string

const (
	TxnDebit  TransactionType = "DEBIT"
	TxnCredit TransactionType = "CREDIT"
)

type TransactionStatus string

const (
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnPending   TransactionStatus = "PENDING"
	TxnDisputed  TransactionStatus = "DISPUTED"
	TxnReversed  TransactionStatus = "REVERSED"
)

// Transaction is a financial event owned by the registry. The engine only
// reads it; status changes go through the transactions repository.
type Transaction struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	Reference       string            `json:"transaction_id"`
	Amount          float64           `json:"amount"`
	Description     string            `json:"description"`
	TransactionDate time.Time         `json:"transaction_date"`
	Type            TransactionType   `json:"type"`
	Status          TransactionStatus `json:"status"`
	MerchantName    string            `json:"merchant_name,omitempty"`
	Category        string            `json:"category,omitempty"`
	Currency        string            `json:"currency"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TransactionFilter narrows a transaction search.
type TransactionFilter struct {
	UserID    string
	Status    TransactionStatus
	Type      TransactionType
	StartDate *time.Time
	EndDate   *time.Time
	MinAmount *float64
	MaxAmount *float64
}
