package category

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var _ IReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// ListForOwner returns the default categories plus the owner's custom ones.
func (r *Reader) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*Category, error) {
	query := psql.Select(
		sm.Columns("id", "user_id", "name", "kind", "is_default"),
		sm.From(tableName),
		sm.Where(psql.Or(
			psql.Quote("user_id").EQ(psql.Arg(ownerID)),
			psql.Quote("is_default"),
		)),
		sm.OrderBy(psql.Raw("lower(name)")).Asc(),
	)
	rows, err := bob.All(ctx, r.exec, query, scan.StructMapper[categoryRow]())
	if err != nil {
		return nil, err
	}

	result := make([]*Category, len(rows))
	for i, row := range rows {
		result[i] = rowToCategory(row)
	}
	return result, nil
}
