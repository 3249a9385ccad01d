package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/apperr"
	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/card"
)

// DeleteCard removes a card that no transaction references. The card row
// is locked first so a concurrent credit transaction cannot link to it
// between the check and the delete.
type DeleteCard struct {
	OwnerID uuid.UUID
	CardID  uuid.UUID

	IAction
}

func (d *DeleteCard) Perform(ctx context.Context, writer *storage.Writer) error {
	locked, err := writer.Cards.FindByIDForUpdate(ctx, d.CardID)
	if errors.Is(err, card.ErrNotFound) {
		return apperr.NotFound("card %s not found", d.CardID)
	}
	if err != nil {
		return fmt.Errorf("lock card: %w", err)
	}
	// Someone else's card is reported as missing so its existence does not leak.
	if locked.OwnerID != d.OwnerID {
		return apperr.NotFound("card %s not found", d.CardID)
	}

	linked, err := writer.Cards.HasTransactions(ctx, d.CardID)
	if err != nil {
		return fmt.Errorf("check linked transactions: %w", err)
	}
	if linked {
		return apperr.Conflict("card %s has linked transactions and cannot be deleted, archive it instead", d.CardID)
	}

	if err := writer.Cards.Delete(ctx, d.CardID); err != nil {
		if errors.Is(err, card.ErrNotFound) {
			return apperr.NotFound("card %s not found", d.CardID)
		}
		return fmt.Errorf("delete card: %w", err)
	}
	return nil
}
