package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/card-ledger/internal/storage/card"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// Committer ends a unit of work.
type Committer interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer is a unit of work. Everything written through Cards and
// Transactions becomes visible together on Commit or not at all.
type Writer struct {
	tx           Committer
	Cards        card.IWriter
	Transactions transaction.IWriter
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:           tx,
		Cards:        card.NewWriter(tx),
		Transactions: transaction.NewWriter(tx),
	}
}

// NewWriterFrom assembles a Writer from an existing unit of work, for
// backends other than Postgres.
func NewWriterFrom(tx Committer, cards card.IWriter, transactions transaction.IWriter) *Writer {
	return &Writer{
		tx:           tx,
		Cards:        cards,
		Transactions: transactions,
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
