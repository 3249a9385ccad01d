package service

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/card-ledger/internal/apperr"
	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/card"
	"github.com/carson-networks/card-ledger/internal/storage/memory"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

func createTestCard(t *testing.T, svc *Service, ownerID uuid.UUID, limit, balance string) *Card {
	t.Helper()
	c, err := svc.Card.CreateCard(context.Background(), ownerID, CardRequest{
		Name:           "Everyday Visa",
		Last4:          "4242",
		CreditLimit:    limit,
		CurrentBalance: balance,
	})
	require.NoError(t, err)
	return c
}

func cardBalance(t *testing.T, store *memory.Store, id uuid.UUID) decimal.Decimal {
	t.Helper()
	c, err := store.Reader().Cards.FindByID(context.Background(), id)
	require.NoError(t, err)
	return c.CurrentBalance
}

func creditExpense(cardID uuid.UUID, amount string) TransactionRequest {
	return TransactionRequest{
		Kind:          "expense",
		Amount:        amount,
		Category:      "Food",
		PaymentMethod: "credit",
		CardID:        ptr(cardID.String()),
		Date:          "2025-03-14",
	}
}

func TestRecordTransaction_CreditExpenseRaisesBalance(t *testing.T) {
	svc, store := newTestService(t, CategoryPolicyLenient)
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())
	c := createTestCard(t, svc, ownerID, "1000", "100.00")

	created, err := svc.Ledger.RecordTransaction(ctx, ownerID, creditExpense(c.ID, "42.35"))
	require.NoError(t, err)

	assert.True(t, cardBalance(t, store, c.ID).Equal(decimal.RequireFromString("142.35")))

	page, err := svc.Transaction.ListTransactions(ctx, ownerID, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	assert.Equal(t, created.ID, page.Transactions[0].ID)
}

func TestRecordTransaction_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t, CategoryPolicyLenient)
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())
	c := createTestCard(t, svc, ownerID, "500", "0")

	req := creditExpense(c.ID, "19.99")
	req.Description = "Groceries"
	created, err := svc.Ledger.RecordTransaction(ctx, ownerID, req)
	require.NoError(t, err)

	page, err := svc.Transaction.ListTransactions(ctx, ownerID, 1, 0)
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)

	got := page.Transactions[0]
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.Equal(t, ownerID, got.OwnerID)
	assert.Equal(t, transaction.KindExpense, got.Kind)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, transaction.PaymentMethodCredit, got.PaymentMethod)
	assert.Equal(t, c.ID, *got.CardID)
	assert.Equal(t, "2025-03-14", got.Date.Format("2006-01-02"))
	assert.Equal(t, "Groceries", got.Description)
}

func TestRecordTransaction_NonCreditNeverTouchesCards(t *testing.T) {
	svc, store := newTestService(t, CategoryPolicyLenient)
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())
	c := createTestCard(t, svc, ownerID, "1000", "250")

	for _, method := range []string{"cash", "debit", "bank_transfer"} {
		for _, kind := range []string{"income", "expense"} {
			_, err := svc.Ledger.RecordTransaction(ctx, ownerID, TransactionRequest{
				Kind:          kind,
				Amount:        "75.00",
				Category:      "Bills",
				PaymentMethod: method,
				Date:          "2025-01-02",
			})
			require.NoError(t, err, "%s %s", kind, method)
		}
	}

	_, err := svc.Ledger.RecordTransaction(ctx, ownerID, TransactionRequest{
		Kind:          "income",
		Amount:        "75.00",
		Category:      "Refund",
		PaymentMethod: "credit",
		CardID:        ptr(c.ID.String()),
		Date:          "2025-01-02",
	})
	require.NoError(t, err)

	assert.True(t, cardBalance(t, store, c.ID).Equal(decimal.RequireFromString("250")))
}

func TestRecordTransaction_CreditLimitIsAdvisory(t *testing.T) {
	svc, store := newTestService(t, CategoryPolicyLenient)
	ownerID := uuid.Must(uuid.NewV4())
	c := createTestCard(t, svc, ownerID, "100", "90")

	_, err := svc.Ledger.RecordTransaction(context.Background(), ownerID, creditExpense(c.ID, "500"))
	require.NoError(t, err)

	assert.True(t, cardBalance(t, store, c.ID).Equal(decimal.RequireFromString("590")))

	cards, err := svc.Card.ListCards(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.True(t, cards[0].AvailableCredit.Equal(decimal.RequireFromString("-490")))
	assert.True(t, cards[0].UtilizationWarning)
}

func TestRecordTransaction_ConcurrentSameCard(t *testing.T) {
	svc, store := newTestService(t, CategoryPolicyLenient)
	ownerID := uuid.Must(uuid.NewV4())
	c := createTestCard(t, svc, ownerID, "1000", "10.00")

	const n = 64
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := svc.Ledger.RecordTransaction(ctx, ownerID, creditExpense(c.ID, "2.50"))
			return err
		})
	}
	require.NoError(t, g.Wait())

	expected := decimal.RequireFromString("10.00").Add(decimal.RequireFromString("2.50").Mul(decimal.NewFromInt(n)))
	assert.True(t, cardBalance(t, store, c.ID).Equal(expected), "got %s want %s", cardBalance(t, store, c.ID), expected)

	page, err := svc.Transaction.ListTransactions(context.Background(), ownerID, 1, 100)
	require.NoError(t, err)
	assert.Len(t, page.Transactions, n)
}

func TestRecordTransaction_ConcurrentDifferentCards(t *testing.T) {
	svc, store := newTestService(t, CategoryPolicyLenient)
	ownerID := uuid.Must(uuid.NewV4())
	first := createTestCard(t, svc, ownerID, "1000", "0")
	second := createTestCard(t, svc, ownerID, "1000", "0")

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 50; i++ {
		target := first.ID
		if i%2 == 1 {
			target = second.ID
		}
		g.Go(func() error {
			_, err := svc.Ledger.RecordTransaction(ctx, ownerID, creditExpense(target, "1.00"))
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.True(t, cardBalance(t, store, first.ID).Equal(decimal.NewFromInt(25)))
	assert.True(t, cardBalance(t, store, second.ID).Equal(decimal.NewFromInt(25)))
}

func TestRecordTransaction_ValidationBeforeUnitOfWork(t *testing.T) {
	svc, _ := newTestService(t, CategoryPolicyLenient)
	ownerID := uuid.Must(uuid.NewV4())

	req := creditExpense(uuid.Must(uuid.NewV4()), "0")
	req.CardID = nil
	_, err := svc.Ledger.RecordTransaction(context.Background(), ownerID, req)
	assert.Equal(t, []string{"amount", "card_id"}, fieldNames(t, err))
	assert.False(t, apperr.IsRetryable(err))
}

func TestRecordTransaction_UnknownAndForeignCards(t *testing.T) {
	svc, _ := newTestService(t, CategoryPolicyLenient)
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())
	stranger := uuid.Must(uuid.NewV4())
	theirs := createTestCard(t, svc, stranger, "1000", "0")

	_, err := svc.Ledger.RecordTransaction(ctx, ownerID, creditExpense(uuid.Must(uuid.NewV4()), "5"))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Ledger.RecordTransaction(ctx, ownerID, creditExpense(theirs.ID, "5"))
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))

	page, err := svc.Transaction.ListTransactions(ctx, ownerID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Transactions)
}

func TestRecordTransaction_StrictCategoryPolicy(t *testing.T) {
	svc, store := newTestService(t, CategoryPolicyStrict)
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())

	req := TransactionRequest{Kind: "expense", Amount: "4.20", Category: "Coffee", PaymentMethod: "cash", Date: "2025-05-01"}
	_, err := svc.Ledger.RecordTransaction(ctx, ownerID, req)
	assert.Equal(t, []string{"category"}, fieldNames(t, err))

	store.AddCategory(ownerID, "Coffee", "expense")
	_, err = svc.Ledger.RecordTransaction(ctx, ownerID, req)
	assert.NoError(t, err)
}

// failingBalanceCards fails the balance update after the transaction row
// has been staged in the same unit of work.
type failingBalanceCards struct {
	card.IWriter
}

func (f failingBalanceCards) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*card.Card, error) {
	return nil, assert.AnError
}

func TestRecordTransaction_BalanceFailureIsAllOrNothing(t *testing.T) {
	store := memory.New(memory.DefaultCategories)
	healthy := newTestServiceOver(t, store, store.Storage(), CategoryPolicyLenient)
	ownerID := uuid.Must(uuid.NewV4())
	c := createTestCard(t, healthy, ownerID, "1000", "30")

	broken := storage.New(store.Reader(), func(ctx context.Context) (*storage.Writer, error) {
		w, err := store.Begin(ctx)
		if err != nil {
			return nil, err
		}
		w.Cards = failingBalanceCards{IWriter: w.Cards}
		return w, nil
	}, nil)
	svc := newTestServiceOver(t, store, broken, CategoryPolicyLenient)

	_, err := svc.Ledger.RecordTransaction(context.Background(), ownerID, creditExpense(c.ID, "12.00"))
	require.Error(t, err)
	assert.True(t, apperr.IsRetryable(err))
	assert.ErrorIs(t, err, assert.AnError)

	page, err := svc.Transaction.ListTransactions(context.Background(), ownerID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Transactions)
	assert.True(t, cardBalance(t, store, c.ID).Equal(decimal.RequireFromString("30")))
}

func TestRecordTransaction_CancelledBeforeSubmit(t *testing.T) {
	svc, store := newTestService(t, CategoryPolicyLenient)
	ownerID := uuid.Must(uuid.NewV4())
	c := createTestCard(t, svc, ownerID, "1000", "0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Ledger.RecordTransaction(ctx, ownerID, creditExpense(c.ID, "8"))
	require.Error(t, err)

	assert.True(t, cardBalance(t, store, c.ID).IsZero())
	page, err := svc.Transaction.ListTransactions(context.Background(), ownerID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Transactions)
}
