package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/storage/card"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// errLinkedTransactions mirrors the foreign key violation Postgres raises
// when a referenced card is deleted.
var errLinkedTransactions = errors.New("card is referenced by transactions")

// unit is a single unit of work. It is used by one goroutine at a time and
// stages every write until Commit.
type unit struct {
	store    *Store
	held     map[uuid.UUID]struct{}
	newCards map[uuid.UUID]*cardRecord
	deltas   map[uuid.UUID]decimal.Decimal
	renames  map[uuid.UUID]string
	deleted  map[uuid.UUID]struct{}
	newTxs   []transactionRecord
	done     bool
}

func newUnit(s *Store) *unit {
	return &unit{
		store:    s,
		held:     make(map[uuid.UUID]struct{}),
		newCards: make(map[uuid.UUID]*cardRecord),
		deltas:   make(map[uuid.UUID]decimal.Decimal),
		renames:  make(map[uuid.UUID]string),
		deleted:  make(map[uuid.UUID]struct{}),
	}
}

func (u *unit) Commit(ctx context.Context) error {
	if u.done {
		return sql.ErrTxDone
	}
	if err := ctx.Err(); err != nil {
		u.finish()
		return err
	}

	s := u.store
	s.mu.Lock()
	now := s.now()
	for id := range u.deleted {
		delete(s.cards, id)
	}
	for id, rec := range u.newCards {
		s.cards[id] = rec
	}
	for id, delta := range u.deltas {
		if rec, ok := s.cards[id]; ok {
			rec.card.CurrentBalance = rec.card.CurrentBalance.Add(delta)
			rec.card.UpdatedAt = now
		}
	}
	for id, name := range u.renames {
		if rec, ok := s.cards[id]; ok {
			rec.card.Name = name
			rec.card.UpdatedAt = now
		}
	}
	s.transactions = append(s.transactions, u.newTxs...)
	s.mu.Unlock()

	u.finish()
	return nil
}

func (u *unit) Rollback(_ context.Context) error {
	if u.done {
		return sql.ErrTxDone
	}
	u.finish()
	return nil
}

func (u *unit) finish() {
	for id := range u.held {
		u.store.release(id)
	}
	u.held = nil
	u.done = true
}

func (u *unit) checkOpen() error {
	if u.done {
		return sql.ErrTxDone
	}
	return nil
}

func (u *unit) hold(ctx context.Context, id uuid.UUID) error {
	if _, ok := u.held[id]; ok {
		return nil
	}
	if err := u.store.acquire(ctx, id); err != nil {
		return err
	}
	u.held[id] = struct{}{}
	return nil
}

// card returns the card as this unit sees it: committed state plus staged changes.
func (u *unit) card(id uuid.UUID) (card.Card, bool) {
	if _, gone := u.deleted[id]; gone {
		return card.Card{}, false
	}

	var c card.Card
	if rec, ok := u.newCards[id]; ok {
		c = rec.card
	} else {
		committed, ok := u.store.committedCard(id)
		if !ok {
			return card.Card{}, false
		}
		c = committed
	}

	if delta, ok := u.deltas[id]; ok {
		c.CurrentBalance = c.CurrentBalance.Add(delta)
	}
	if name, ok := u.renames[id]; ok {
		c.Name = name
	}
	return c, true
}

type cardWriter struct {
	unit *unit
}

func (w *cardWriter) FindByID(_ context.Context, id uuid.UUID) (*card.Card, error) {
	if err := w.unit.checkOpen(); err != nil {
		return nil, err
	}
	c, ok := w.unit.card(id)
	if !ok {
		return nil, card.ErrNotFound
	}
	return &c, nil
}

func (w *cardWriter) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*card.Card, error) {
	if err := w.unit.checkOpen(); err != nil {
		return nil, err
	}

	var records []cardRecord
	for _, rec := range w.unit.store.committedCards(ownerID) {
		if c, ok := w.unit.card(rec.card.ID); ok {
			records = append(records, cardRecord{seq: rec.seq, card: c})
		}
	}
	for _, rec := range w.unit.newCards {
		if rec.card.OwnerID == ownerID {
			c, _ := w.unit.card(rec.card.ID)
			records = append(records, cardRecord{seq: rec.seq, card: c})
		}
	}
	return sortCards(records), nil
}

func (w *cardWriter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*card.Card, error) {
	if err := w.unit.checkOpen(); err != nil {
		return nil, err
	}
	if err := w.unit.hold(ctx, id); err != nil {
		return nil, err
	}
	c, ok := w.unit.card(id)
	if !ok {
		return nil, card.ErrNotFound
	}
	return &c, nil
}

func (w *cardWriter) Insert(_ context.Context, create *card.CardCreate) (*card.Card, error) {
	if err := w.unit.checkOpen(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	s := w.unit.store
	s.mu.Lock()
	seq := s.nextSeq()
	now := s.now()
	s.mu.Unlock()

	rec := &cardRecord{
		seq: seq,
		card: card.Card{
			ID:             id,
			OwnerID:        create.OwnerID,
			Name:           create.Name,
			CardType:       create.CardType,
			Last4:          create.Last4,
			CreditLimit:    create.CreditLimit,
			CurrentBalance: create.CurrentBalance,
			ExpiryDate:     create.ExpiryDate,
			DueDay:         create.DueDay,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
	w.unit.newCards[id] = rec

	c := rec.card
	return &c, nil
}

func (w *cardWriter) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*card.Card, error) {
	if err := w.unit.checkOpen(); err != nil {
		return nil, err
	}
	if err := w.unit.hold(ctx, id); err != nil {
		return nil, err
	}
	if _, ok := w.unit.card(id); !ok {
		return nil, card.ErrNotFound
	}

	w.unit.deltas[id] = w.unit.deltas[id].Add(delta)

	c, _ := w.unit.card(id)
	return &c, nil
}

func (w *cardWriter) Rename(ctx context.Context, id uuid.UUID, name string) (*card.Card, error) {
	if err := w.unit.checkOpen(); err != nil {
		return nil, err
	}
	if err := w.unit.hold(ctx, id); err != nil {
		return nil, err
	}
	if _, ok := w.unit.card(id); !ok {
		return nil, card.ErrNotFound
	}

	w.unit.renames[id] = name

	c, _ := w.unit.card(id)
	return &c, nil
}

func (w *cardWriter) HasTransactions(_ context.Context, id uuid.UUID) (bool, error) {
	if err := w.unit.checkOpen(); err != nil {
		return false, err
	}
	for _, rec := range w.unit.newTxs {
		if rec.tx.CardID != nil && *rec.tx.CardID == id {
			return true, nil
		}
	}
	return w.unit.store.cardHasCommittedTransactions(id), nil
}

func (w *cardWriter) Delete(ctx context.Context, id uuid.UUID) error {
	if err := w.unit.checkOpen(); err != nil {
		return err
	}
	if err := w.unit.hold(ctx, id); err != nil {
		return err
	}
	if _, ok := w.unit.card(id); !ok {
		return card.ErrNotFound
	}

	linked, err := w.HasTransactions(ctx, id)
	if err != nil {
		return err
	}
	if linked {
		return errLinkedTransactions
	}

	delete(w.unit.newCards, id)
	delete(w.unit.deltas, id)
	delete(w.unit.renames, id)
	w.unit.deleted[id] = struct{}{}
	return nil
}

type transactionWriter struct {
	unit *unit
}

func (w *transactionWriter) List(_ context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	if err := w.unit.checkOpen(); err != nil {
		return nil, err
	}

	records := w.unit.store.committedTransactions(filter.OwnerID)
	for _, rec := range w.unit.newTxs {
		if rec.tx.OwnerID == filter.OwnerID {
			records = append(records, rec)
		}
	}
	return pageTransactions(records, filter), nil
}

func (w *transactionWriter) Insert(_ context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error) {
	if err := w.unit.checkOpen(); err != nil {
		return nil, err
	}
	if create.CardID != nil {
		if _, ok := w.unit.card(*create.CardID); !ok {
			return nil, fmt.Errorf("insert transaction: %w", card.ErrNotFound)
		}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	s := w.unit.store
	s.mu.Lock()
	seq := s.nextSeq()
	now := s.now()
	s.mu.Unlock()

	tx := transaction.Transaction{
		ID:            id,
		OwnerID:       create.OwnerID,
		Kind:          create.Kind,
		Amount:        create.Amount,
		Category:      create.Category,
		PaymentMethod: create.PaymentMethod,
		Date:          create.Date,
		Description:   create.Description,
		CreatedAt:     now,
	}
	if create.CardID != nil {
		cardID := *create.CardID
		tx.CardID = &cardID
	}
	w.unit.newTxs = append(w.unit.newTxs, transactionRecord{seq: seq, tx: tx})

	result := tx
	return &result, nil
}
