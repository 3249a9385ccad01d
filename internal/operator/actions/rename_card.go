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

// RenameCard changes a card's display name. The balance is left to the ledger.
type RenameCard struct {
	OwnerID uuid.UUID
	CardID  uuid.UUID
	Name    string

	Updated *card.Card

	IAction
}

func (r *RenameCard) Perform(ctx context.Context, writer *storage.Writer) error {
	locked, err := writer.Cards.FindByIDForUpdate(ctx, r.CardID)
	if errors.Is(err, card.ErrNotFound) {
		return apperr.NotFound("card %s not found", r.CardID)
	}
	if err != nil {
		return fmt.Errorf("lock card: %w", err)
	}
	if locked.OwnerID != r.OwnerID {
		return apperr.NotFound("card %s not found", r.CardID)
	}

	updated, err := writer.Cards.Rename(ctx, r.CardID, r.Name)
	if err != nil {
		return fmt.Errorf("rename card: %w", err)
	}
	r.Updated = updated
	return nil
}
