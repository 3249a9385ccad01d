package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// Transaction represents a recorded transaction in the service layer.
type Transaction struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Kind          transaction.Kind
	Amount        decimal.Decimal
	Category      string
	PaymentMethod transaction.PaymentMethod
	CardID        *uuid.UUID
	Date          time.Time
	Description   string
	CreatedAt     time.Time
}

// TransactionRequest is a transaction as the caller sent it, before validation.
type TransactionRequest struct {
	Kind          string
	Amount        string
	Category      string
	PaymentMethod string
	CardID        *string
	Date          string
	Description   string
}

// TransactionDraft is a validated transaction that has not been stored yet.
type TransactionDraft struct {
	Kind          transaction.Kind
	Amount        decimal.Decimal
	Category      string
	PaymentMethod transaction.PaymentMethod
	CardID        *uuid.UUID
	Date          time.Time
	Description   string
}

// TransactionPage is one page of an owner's transactions, newest first.
// NextPage is nil on the last page.
type TransactionPage struct {
	Transactions []Transaction
	Page         int
	Limit        int
	NextPage     *int
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	return Transaction{
		ID:            row.ID,
		OwnerID:       row.OwnerID,
		Kind:          row.Kind,
		Amount:        row.Amount,
		Category:      row.Category,
		PaymentMethod: row.PaymentMethod,
		CardID:        row.CardID,
		Date:          row.Date,
		Description:   row.Description,
		CreatedAt:     row.CreatedAt,
	}
}
