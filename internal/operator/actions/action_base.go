package actions

import (
	"context"

	"github.com/carson-networks/card-ledger/internal/storage"
)

// IAction is a write performed inside one unit of work. Perform must not
// commit or roll back the writer; the operator owns that.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
