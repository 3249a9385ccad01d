package transaction

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
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

func (w *Writer) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	var cardID uuid.NullUUID
	if create.CardID != nil {
		cardID = uuid.NullUUID{UUID: *create.CardID, Valid: true}
	}

	query := psql.Insert(
		im.Into(tableName, "id", "user_id", "kind", "amount", "category",
			"payment_method", "card_id", "date", "description"),
		im.Values(psql.Arg(id, create.OwnerID, string(create.Kind), create.Amount, create.Category,
			string(create.PaymentMethod), cardID, create.Date, create.Description)),
		im.Returning(transactionColumns...),
	)
	row, err := bob.One(ctx, w.tx, query, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, err
	}
	return rowToTransaction(row), nil
}
