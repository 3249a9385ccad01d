package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const tableName = "transactions"

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodDebit        PaymentMethod = "debit"
	PaymentMethodCredit       PaymentMethod = "credit"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// Transaction represents a transaction record.
type Transaction struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Kind          Kind
	Amount        decimal.Decimal
	Category      string
	PaymentMethod PaymentMethod
	CardID        *uuid.UUID
	Date          time.Time
	Description   string
	CreatedAt     time.Time
}

// TransactionCreate is the input for creating a new transaction. The store
// assigns ID and CreatedAt.
type TransactionCreate struct {
	OwnerID       uuid.UUID
	Kind          Kind
	Amount        decimal.Decimal
	Category      string
	PaymentMethod PaymentMethod
	CardID        *uuid.UUID
	Date          time.Time
	Description   string
}

// TransactionFilter specifies filters for listing transactions.
// List returns up to Limit+1 rows so callers can tell whether another page exists.
type TransactionFilter struct {
	OwnerID uuid.UUID
	Limit   int
	Offset  int
}

// IReader defines the read-only transaction operations.
//
//go:generate mockery --name IReader --output mock_IReader.go
type IReader interface {
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
}

// IWriter defines the transaction operations available inside a unit of work.
//
//go:generate mockery --name IWriter --output mock_IWriter.go
type IWriter interface {
	IReader
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
}

type transactionRow struct {
	ID            uuid.UUID       `db:"id"`
	OwnerID       uuid.UUID       `db:"user_id"`
	Kind          string          `db:"kind"`
	Amount        decimal.Decimal `db:"amount"`
	Category      string          `db:"category"`
	PaymentMethod string          `db:"payment_method"`
	CardID        uuid.NullUUID   `db:"card_id"`
	Date          time.Time       `db:"date"`
	Description   string          `db:"description"`
	CreatedAt     time.Time       `db:"created_at"`
}

var transactionColumns = []any{
	"id", "user_id", "kind", "amount", "category", "payment_method",
	"card_id", "date", "description", "created_at",
}

func rowToTransaction(row transactionRow) *Transaction {
	t := &Transaction{
		ID:            row.ID,
		OwnerID:       row.OwnerID,
		Kind:          Kind(row.Kind),
		Amount:        row.Amount,
		Category:      row.Category,
		PaymentMethod: PaymentMethod(row.PaymentMethod),
		Date:          row.Date,
		Description:   row.Description,
		CreatedAt:     row.CreatedAt,
	}
	if row.CardID.Valid {
		cardID := row.CardID.UUID
		t.CardID = &cardID
	}
	return t
}
