package operator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/card-ledger/internal/apperr"
	"github.com/carson-networks/card-ledger/internal/operator/actions"
	"github.com/carson-networks/card-ledger/internal/storage"
)

// unitOpener opens a unit of work. *storage.Storage satisfies it.
type unitOpener interface {
	Write(ctx context.Context) (*storage.Writer, error)
}

// Operator is the worker that processes items from the queue.
type Operator struct {
	storage unitOpener
	queue   chan ActionItem
	logger  *logrus.Logger
}

func NewOperator(s unitOpener, queue chan ActionItem, logger *logrus.Logger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	item.response <- ActionItemResponse{err: o.perform(item.ctx, item.action)}
}

// perform runs action inside one unit of work. The unit is committed only
// when the action and the commit both succeed; every other exit path, panics
// included, rolls it back.
func (o *Operator) perform(ctx context.Context, action actions.IAction) (err error) {
	if err := ctx.Err(); err != nil {
		return apperr.AsStorage(err)
	}

	writer, err := o.storage.Write(ctx)
	if err != nil {
		return apperr.Storage(fmt.Errorf("begin unit of work: %w", err))
	}

	committed := false
	defer func() {
		if r := recover(); r != nil {
			err = apperr.Storage(fmt.Errorf("action panicked: %v", r))
		}
		if committed {
			return
		}
		rollbackErr := writer.Rollback(context.WithoutCancel(ctx))
		if rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			o.logger.WithError(rollbackErr).Warn("Operator.perform.rollback")
		}
	}()

	if err := action.Perform(ctx, writer); err != nil {
		return apperr.AsStorage(err)
	}

	// A caller that gave up before commit gets no partial effect.
	if err := ctx.Err(); err != nil {
		return apperr.AsStorage(err)
	}

	if err := writer.Commit(ctx); err != nil {
		return apperr.Storage(fmt.Errorf("commit unit of work: %w", err))
	}
	committed = true
	return nil
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
