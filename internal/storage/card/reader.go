package card

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
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

// ListByOwner returns the owner's cards, most recently created first.
func (r *Reader) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Card, error) {
	query := psql.Select(
		sm.Columns(cardColumns...),
		sm.From(tableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
		sm.OrderBy(psql.Quote("created_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)
	rows, err := bob.All(ctx, r.exec, query, scan.StructMapper[cardRow]())
	if err != nil {
		return nil, err
	}

	result := make([]*Card, len(rows))
	for i, row := range rows {
		result[i] = rowToCard(row)
	}
	return result, nil
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Card, error) {
	return r.findOne(ctx, id)
}

func (r *Reader) findOne(ctx context.Context, id uuid.UUID, extra ...bob.Mod[*dialect.SelectQuery]) (*Card, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(cardColumns...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	queryMods = append(queryMods, extra...)

	row, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[cardRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rowToCard(row), nil
}
