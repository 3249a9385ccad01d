package category

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

const tableName = "categories"

// Category is a category name available to an owner. Default categories have
// no owner and are visible to everyone.
type Category struct {
	ID        uuid.UUID
	OwnerID   *uuid.UUID
	Name      string
	Kind      string
	IsDefault bool
}

// IReader defines the category lookups the ledger needs.
//
//go:generate mockery --name IReader --output mock_IReader.go
type IReader interface {
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*Category, error)
}

type categoryRow struct {
	ID        uuid.UUID     `db:"id"`
	OwnerID   uuid.NullUUID `db:"user_id"`
	Name      string        `db:"name"`
	Kind      string        `db:"kind"`
	IsDefault bool          `db:"is_default"`
}

func rowToCategory(row categoryRow) *Category {
	c := &Category{
		ID:        row.ID,
		Name:      row.Name,
		Kind:      row.Kind,
		IsDefault: row.IsDefault,
	}
	if row.OwnerID.Valid {
		ownerID := row.OwnerID.UUID
		c.OwnerID = &ownerID
	}
	return c
}
