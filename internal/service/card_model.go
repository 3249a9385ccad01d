package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/storage/card"
)

const utilizationPlaces = 4

var (
	warningNumerator   = decimal.NewFromInt(9)
	warningDenominator = decimal.NewFromInt(10)
)

// Card represents a card in the service layer, with its credit metrics
// derived from the stored limit and balance.
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

	AvailableCredit    decimal.Decimal
	Utilization        decimal.Decimal
	UtilizationWarning bool
}

// CardRequest is a new card as the caller sent it, before validation.
type CardRequest struct {
	Name           string
	CardType       string
	Last4          string
	CreditLimit    string
	CurrentBalance string
	ExpiryDate     *string
	DueDay         *int
}

// CardUpdate is an edit to an existing card as the caller sent it. Only the
// name may change; CurrentBalance is carried so an attempt to set it can be refused.
type CardUpdate struct {
	Name           *string
	CurrentBalance *string
}

// CardMetrics are computed on every read and never stored.
type CardMetrics struct {
	AvailableCredit    decimal.Decimal
	Utilization        decimal.Decimal
	UtilizationWarning bool
}

// DeriveCardMetrics computes available credit and utilization. Available
// credit goes negative once the balance passes the limit. Utilization is
// truncated, never rounded up, and a card without a limit reports zero. The warning compares balance*10 against
// limit*9 so the 90% threshold is exact.
func DeriveCardMetrics(creditLimit, currentBalance decimal.Decimal) CardMetrics {
	metrics := CardMetrics{
		AvailableCredit: creditLimit.Sub(currentBalance),
		Utilization:     decimal.Zero,
	}
	if !creditLimit.IsPositive() {
		return metrics
	}

	metrics.Utilization = currentBalance.Div(creditLimit).Truncate(utilizationPlaces)
	metrics.UtilizationWarning = currentBalance.Mul(warningDenominator).
		GreaterThanOrEqual(creditLimit.Mul(warningNumerator))
	return metrics
}

func cardFromStorage(row *card.Card) Card {
	metrics := DeriveCardMetrics(row.CreditLimit, row.CurrentBalance)
	return Card{
		ID:                 row.ID,
		OwnerID:            row.OwnerID,
		Name:               row.Name,
		CardType:           row.CardType,
		Last4:              row.Last4,
		CreditLimit:        row.CreditLimit,
		CurrentBalance:     row.CurrentBalance,
		ExpiryDate:         row.ExpiryDate,
		DueDay:             row.DueDay,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
		AvailableCredit:    metrics.AvailableCredit,
		Utilization:        metrics.Utilization,
		UtilizationWarning: metrics.UtilizationWarning,
	}
}
