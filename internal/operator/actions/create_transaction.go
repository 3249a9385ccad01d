package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/apperr"
	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/card"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// CreateTransaction records a transaction and, for credit card expenses,
// adds its amount to the card's outstanding balance.
type CreateTransaction struct {
	OwnerID       uuid.UUID
	Kind          transaction.Kind
	Amount        decimal.Decimal
	Category      string
	PaymentMethod transaction.PaymentMethod
	CardID        *uuid.UUID
	Date          time.Time
	Description   string

	// Set by Perform; only meaningful once the unit has committed.
	Created *transaction.Transaction
	Card    *card.Card

	IAction
}

// ChargesCard reports whether the transaction moves the linked card's balance.
func (t *CreateTransaction) ChargesCard() bool {
	return t.Kind == transaction.KindExpense &&
		t.PaymentMethod == transaction.PaymentMethodCredit &&
		t.CardID != nil
}

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if t.CardID != nil {
		linked, err := lockOwnedCard(ctx, writer, t.OwnerID, *t.CardID)
		if err != nil {
			return err
		}
		t.Card = linked

		if t.ChargesCard() && linked.CurrentBalance.Add(t.Amount).GreaterThanOrEqual(card.MaxBalance) {
			return apperr.Validation(apperr.FieldError{
				Field:  "amount",
				Reason: "would take the card balance past " + card.MaxBalance.StringFixed(2),
				Value:  t.Amount.String(),
			})
		}
	}

	created, err := writer.Transactions.Insert(ctx, &transaction.TransactionCreate{
		OwnerID:       t.OwnerID,
		Kind:          t.Kind,
		Amount:        t.Amount,
		Category:      t.Category,
		PaymentMethod: t.PaymentMethod,
		CardID:        t.CardID,
		Date:          t.Date,
		Description:   t.Description,
	})
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	if t.ChargesCard() {
		updated, err := writer.Cards.ApplyBalanceDelta(ctx, *t.CardID, t.Amount)
		if err != nil {
			return fmt.Errorf("apply balance delta: %w", err)
		}
		t.Card = updated
	}

	t.Created = created
	return nil
}

// lockOwnedCard takes the card's row lock and checks it belongs to ownerID.
func lockOwnedCard(ctx context.Context, writer *storage.Writer, ownerID, cardID uuid.UUID) (*card.Card, error) {
	locked, err := writer.Cards.FindByIDForUpdate(ctx, cardID)
	if errors.Is(err, card.ErrNotFound) {
		return nil, apperr.NotFound("card %s not found", cardID)
	}
	if err != nil {
		return nil, fmt.Errorf("lock card: %w", err)
	}
	if locked.OwnerID != ownerID {
		return nil, apperr.Authorization("card %s does not belong to the caller", cardID)
	}
	return locked, nil
}
