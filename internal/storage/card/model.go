package card

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const tableName = "cards"

// ErrNotFound is returned when no card row matches the requested ID.
var ErrNotFound = errors.New("card not found")

// MaxBalance is the exclusive upper bound of a numeric(14,2) balance.
var MaxBalance = decimal.New(1, 12)

// Card represents a card record.
type Card struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	CardType       string
	Last4          string
	CreditLimit    decimal.Decimal
	CurrentBalance decimal.Decimal
	ExpiryDate     *string
	DueDay         *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CardCreate is the input for creating a new card.
type CardCreate struct {
	OwnerID        uuid.UUID
	Name           string
	CardType       string
	Last4          string
	CreditLimit    decimal.Decimal
	CurrentBalance decimal.Decimal
	ExpiryDate     *string
	DueDay         *int
}

// IReader defines the read-only card operations available outside a unit of work.
//
//go:generate mockery --name IReader --output mock_IReader.go
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Card, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Card, error)
}

// IWriter defines the card operations available inside a unit of work.
// ApplyBalanceDelta is the only way the outstanding balance changes after creation.
//
//go:generate mockery --name IWriter --output mock_IWriter.go
type IWriter interface {
	IReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Card, error)
	Insert(ctx context.Context, create *CardCreate) (*Card, error)
	ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*Card, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*Card, error)
	HasTransactions(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type cardRow struct {
	ID             uuid.UUID       `db:"id"`
	OwnerID        uuid.UUID       `db:"user_id"`
	Name           string          `db:"card_name"`
	CardType       string          `db:"card_type"`
	Last4          string          `db:"last4"`
	CreditLimit    decimal.Decimal `db:"credit_limit"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	ExpiryDate     *string         `db:"expiry_date"`
	DueDay         *int32          `db:"due_day"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

var cardColumns = []any{
	"id", "user_id", "card_name", "card_type", "last4", "credit_limit",
	"current_balance", "expiry_date", "due_day", "created_at", "updated_at",
}

func rowToCard(row cardRow) *Card {
	c := &Card{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		Name:           row.Name,
		CardType:       row.CardType,
		Last4:          row.Last4,
		CreditLimit:    row.CreditLimit,
		CurrentBalance: row.CurrentBalance,
		ExpiryDate:     row.ExpiryDate,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.DueDay != nil {
		dueDay := int(*row.DueDay)
		c.DueDay = &dueDay
	}
	return c
}
