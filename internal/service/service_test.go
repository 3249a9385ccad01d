package service

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/card-ledger/internal/operator"
	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/memory"
)

// newTestService wires a Service over an in-memory store with a running operator.
func newTestService(t *testing.T, policy CategoryPolicy) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New(memory.DefaultCategories)
	return newTestServiceOver(t, store, store.Storage(), policy), store
}

func newTestServiceOver(t *testing.T, store *memory.Store, s *storage.Storage, policy CategoryPolicy) *Service {
	t.Helper()
	logger := logrus.New()
	logger.Out = io.Discard

	delegator := operator.NewOperatorDelegator(s, 8, 128, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	return NewService(store.Reader(), delegator, policy)
}
