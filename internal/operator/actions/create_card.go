package actions

import (
	"context"
	"fmt"

	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/card"
)

type CreateCard struct {
	Create card.CardCreate

	Created *card.Card

	IAction
}

func (c *CreateCard) Perform(ctx context.Context, writer *storage.Writer) error {
	created, err := writer.Cards.Insert(ctx, &c.Create)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}

	c.Created = created
	return nil
}
