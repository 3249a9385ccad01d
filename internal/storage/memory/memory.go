package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/card"
	"github.com/carson-networks/card-ledger/internal/storage/category"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// DefaultCategories mirrors the rows seeded by the Postgres migrations.
var DefaultCategories = []category.Category{
	{Name: "Salary", Kind: "income"},
	{Name: "Freelance", Kind: "income"},
	{Name: "Food", Kind: "expense"},
	{Name: "Transport", Kind: "expense"},
	{Name: "Shopping", Kind: "expense"},
	{Name: "Bills", Kind: "expense"},
	{Name: "Entertainment", Kind: "expense"},
	{Name: "Health", Kind: "expense"},
}

type cardRecord struct {
	seq  uint64
	card card.Card
}

type cardLock struct {
	ch   chan struct{}
	refs int
}

type transactionRecord struct {
	seq uint64
	tx  transaction.Transaction
}

// Store keeps cards, transactions and categories in process memory. Writes go
// through units of work that hold a per-card lock from first touch until
// commit or rollback, matching row-lock semantics in Postgres.
type Store struct {
	mu           sync.Mutex
	cards        map[uuid.UUID]*cardRecord
	transactions []transactionRecord
	categories   []category.Category
	locks        map[uuid.UUID]*cardLock
	seq          uint64
	now          func() time.Time
}

func New(defaults []category.Category) *Store {
	s := &Store{
		cards: make(map[uuid.UUID]*cardRecord),
		locks: make(map[uuid.UUID]*cardLock),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, c := range defaults {
		c.IsDefault = true
		c.OwnerID = nil
		if c.ID == uuid.Nil {
			c.ID = uuid.Must(uuid.NewV4())
		}
		s.categories = append(s.categories, c)
	}
	return s
}

// Storage exposes the store through the same Storage type the Postgres
// backend uses.
func (s *Store) Storage() *storage.Storage {
	return storage.New(s.Reader(), s.Begin, nil)
}

func (s *Store) Reader() *storage.Reader {
	return &storage.Reader{
		Cards:        &cardReader{store: s},
		Transactions: &transactionReader{store: s},
		Categories:   &categoryReader{store: s},
	}
}

// Begin opens a unit of work.
func (s *Store) Begin(ctx context.Context) (*storage.Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := newUnit(s)
	return storage.NewWriterFrom(u, &cardWriter{unit: u}, &transactionWriter{unit: u}), nil
}

// AddCategory registers a custom category for an owner.
func (s *Store) AddCategory(ownerID uuid.UUID, name, kind string) category.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner := ownerID
	c := category.Category{
		ID:      uuid.Must(uuid.NewV4()),
		OwnerID: &owner,
		Name:    name,
		Kind:    kind,
	}
	s.categories = append(s.categories, c)
	return c
}

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// acquire blocks until the unit owns id's lock. Each holder or waiter keeps
// a reference on the entry, and the entry is dropped with the last one.
func (s *Store) acquire(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &cardLock{ch: make(chan struct{}, 1)}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		s.unref(id, l)
		return ctx.Err()
	}
}

func (s *Store) release(id uuid.UUID) {
	s.mu.Lock()
	l := s.locks[id]
	s.mu.Unlock()

	<-l.ch
	s.unref(id, l)
}

func (s *Store) unref(id uuid.UUID, l *cardLock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(s.locks, id)
	}
}

func (s *Store) committedCard(id uuid.UUID) (card.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.cards[id]
	if !ok {
		return card.Card{}, false
	}
	return rec.card, true
}

func (s *Store) committedCards(ownerID uuid.UUID) []cardRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []cardRecord
	for _, rec := range s.cards {
		if rec.card.OwnerID == ownerID {
			result = append(result, *rec)
		}
	}
	return result
}

func (s *Store) committedTransactions(ownerID uuid.UUID) []transactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []transactionRecord
	for _, rec := range s.transactions {
		if rec.tx.OwnerID == ownerID {
			result = append(result, rec)
		}
	}
	return result
}

func (s *Store) cardHasCommittedTransactions(cardID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.transactions {
		if rec.tx.CardID != nil && *rec.tx.CardID == cardID {
			return true
		}
	}
	return false
}

func sortCards(records []cardRecord) []*card.Card {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].card.CreatedAt.Equal(records[j].card.CreatedAt) {
			return records[i].card.CreatedAt.After(records[j].card.CreatedAt)
		}
		return records[i].seq > records[j].seq
	})
	result := make([]*card.Card, len(records))
	for i := range records {
		c := records[i].card
		result[i] = &c
	}
	return result
}

func pageTransactions(records []transactionRecord, filter *transaction.TransactionFilter) []*transaction.Transaction {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.tx.Date.Equal(b.tx.Date) {
			return a.tx.Date.After(b.tx.Date)
		}
		if !a.tx.CreatedAt.Equal(b.tx.CreatedAt) {
			return a.tx.CreatedAt.After(b.tx.CreatedAt)
		}
		return a.seq > b.seq
	})

	if filter.Offset < 0 || filter.Offset >= len(records) {
		return []*transaction.Transaction{}
	}
	records = records[filter.Offset:]
	if filter.Limit > 0 && len(records) > filter.Limit+1 {
		records = records[:filter.Limit+1]
	}

	result := make([]*transaction.Transaction, len(records))
	for i := range records {
		t := records[i].tx
		result[i] = &t
	}
	return result
}

type cardReader struct {
	store *Store
}

func (r *cardReader) FindByID(_ context.Context, id uuid.UUID) (*card.Card, error) {
	c, ok := r.store.committedCard(id)
	if !ok {
		return nil, card.ErrNotFound
	}
	return &c, nil
}

func (r *cardReader) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*card.Card, error) {
	return sortCards(r.store.committedCards(ownerID)), nil
}

type transactionReader struct {
	store *Store
}

func (r *transactionReader) List(_ context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	return pageTransactions(r.store.committedTransactions(filter.OwnerID), filter), nil
}

type categoryReader struct {
	store *Store
}

func (r *categoryReader) ListForOwner(_ context.Context, ownerID uuid.UUID) ([]*category.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*category.Category
	for i := range r.store.categories {
		c := r.store.categories[i]
		if c.IsDefault || (c.OwnerID != nil && *c.OwnerID == ownerID) {
			result = append(result, &c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}
