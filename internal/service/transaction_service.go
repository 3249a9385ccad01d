package service

import (
	"context"
	"fmt"
	"math"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/apperr"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// TransactionService handles transaction reads.
type TransactionService struct {
	transactions transaction.IReader
}

func NewTransactionService(transactions transaction.IReader) *TransactionService {
	return &TransactionService{transactions: transactions}
}

// ListTransactions returns one page of the owner's transactions ordered by
// date, newest first, with later-entered rows first within a date. Pages are
// 1-based; a page past the end is empty.
func (s *TransactionService) ListTransactions(ctx context.Context, ownerID uuid.UUID, page, limit int) (*TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	// No offset this large can name a stored row.
	if page-1 > math.MaxInt/limit {
		return &TransactionPage{Transactions: []Transaction{}, Page: page, Limit: limit}, nil
	}

	filter := &transaction.TransactionFilter{
		OwnerID: ownerID,
		Limit:   limit,
		Offset:  (page - 1) * limit,
	}

	rows, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("list transactions: %w", err))
	}

	result := &TransactionPage{
		Page:  page,
		Limit: limit,
	}
	if len(rows) > limit {
		rows = rows[:limit]
		next := page + 1
		result.NextPage = &next
	}

	result.Transactions = make([]Transaction, len(rows))
	for i, row := range rows {
		result.Transactions[i] = transactionFromStorage(row)
	}
	return result, nil
}
