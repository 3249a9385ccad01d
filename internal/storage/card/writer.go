package card

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

var _ IWriter = (*Writer)(nil)

type Writer struct {
	tx bob.Executor
	Reader
}

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// FindByIDForUpdate reads the card and holds its row lock until the
// surrounding transaction ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Card, error) {
	return w.findOne(ctx, id, sm.ForUpdate())
}

func (w *Writer) Insert(ctx context.Context, create *CardCreate) (*Card, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	query := psql.Insert(
		im.Into(tableName, "id", "user_id", "card_name", "card_type", "last4",
			"credit_limit", "current_balance", "expiry_date", "due_day"),
		im.Values(psql.Arg(id, create.OwnerID, create.Name, create.CardType, create.Last4,
			create.CreditLimit, create.CurrentBalance, create.ExpiryDate, create.DueDay)),
		im.Returning(cardColumns...),
	)
	row, err := bob.One(ctx, w.tx, query, scan.StructMapper[cardRow]())
	if err != nil {
		return nil, err
	}
	return rowToCard(row), nil
}

// ApplyBalanceDelta adds delta to the stored balance in SQL so concurrent
// deltas accumulate instead of overwriting each other.
func (w *Writer) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*Card, error) {
	query := psql.Update(
		um.Table(tableName),
		um.SetCol("current_balance").To(psql.Raw("current_balance + ?", delta)),
		um.SetCol("updated_at").To(psql.Raw("clock_timestamp()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(cardColumns...),
	)
	row, err := bob.One(ctx, w.tx, query, scan.StructMapper[cardRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rowToCard(row), nil
}

func (w *Writer) Rename(ctx context.Context, id uuid.UUID, name string) (*Card, error) {
	query := psql.Update(
		um.Table(tableName),
		um.SetCol("card_name").To(psql.Arg(name)),
		um.SetCol("updated_at").To(psql.Raw("clock_timestamp()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(cardColumns...),
	)
	row, err := bob.One(ctx, w.tx, query, scan.StructMapper[cardRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rowToCard(row), nil
}

func (w *Writer) HasTransactions(ctx context.Context, id uuid.UUID) (bool, error) {
	query := psql.Select(
		sm.Columns(psql.Raw("EXISTS (SELECT 1 FROM transactions WHERE card_id = ?)", id)),
	)
	return bob.One(ctx, w.tx, query, scan.SingleColumnMapper[bool])
}

func (w *Writer) Delete(ctx context.Context, id uuid.UUID) error {
	query := psql.Delete(
		dm.From(tableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	result, err := bob.Exec(ctx, w.tx, query)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
