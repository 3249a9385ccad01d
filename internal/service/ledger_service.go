package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/operator/actions"
)

// actionProcessor runs an action in its own unit of work.
// *operator.OperatorDelegator satisfies it.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

type categoryResolver interface {
	ResolveCategories(ctx context.Context, ownerID uuid.UUID) (CategorySet, error)
}

// LedgerService records transactions and keeps linked card balances in step.
type LedgerService struct {
	categories categoryResolver
	processor  actionProcessor
	policy     CategoryPolicy
}

func NewLedgerService(categories categoryResolver, processor actionProcessor, policy CategoryPolicy) *LedgerService {
	return &LedgerService{
		categories: categories,
		processor:  processor,
		policy:     policy,
	}
}

// RecordTransaction validates req and stores it for ownerID. A credit card
// expense raises the card's balance by the amount in the same unit of work,
// so either both changes are visible or neither is.
func (s *LedgerService) RecordTransaction(ctx context.Context, ownerID uuid.UUID, req TransactionRequest) (*Transaction, error) {
	var categories CategorySet
	if s.policy == CategoryPolicyStrict {
		resolved, err := s.categories.ResolveCategories(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		categories = resolved
	}

	draft, err := ValidateTransaction(req, categories, s.policy)
	if err != nil {
		return nil, err
	}

	action := &actions.CreateTransaction{
		OwnerID:       ownerID,
		Kind:          draft.Kind,
		Amount:        draft.Amount,
		Category:      draft.Category,
		PaymentMethod: draft.PaymentMethod,
		CardID:        draft.CardID,
		Date:          draft.Date,
		Description:   draft.Description,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	created := transactionFromStorage(action.Created)
	return &created, nil
}
