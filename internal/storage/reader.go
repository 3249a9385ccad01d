package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/card-ledger/internal/storage/card"
	"github.com/carson-networks/card-ledger/internal/storage/category"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

type Reader struct {
	Cards        card.IReader
	Transactions transaction.IReader
	Categories   category.IReader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Cards:        card.NewReader(exec),
		Transactions: transaction.NewReader(exec),
		Categories:   category.NewReader(exec),
	}
}
