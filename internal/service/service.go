package service

import (
	"github.com/carson-networks/card-ledger/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Ledger      *LedgerService
	Transaction *TransactionService
	Card        *CardService
	Category    *CategoryService
}

// NewService wires the services over reader for queries and processor for
// every write.
func NewService(reader *storage.Reader, processor actionProcessor, policy CategoryPolicy) *Service {
	categories := NewCategoryService(reader.Categories)
	return &Service{
		Ledger:      NewLedgerService(categories, processor, policy),
		Transaction: NewTransactionService(reader.Transactions),
		Card:        NewCardService(reader.Cards, processor),
		Category:    categories,
	}
}
