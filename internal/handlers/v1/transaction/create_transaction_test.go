package transaction

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/card-ledger/internal/apperr"
	"github.com/carson-networks/card-ledger/internal/service"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

type mockTransactionRecorder struct {
	mock.Mock
}

func (m *mockTransactionRecorder) RecordTransaction(ctx context.Context, ownerID uuid.UUID, req service.TransactionRequest) (*service.Transaction, error) {
	args := m.Called(ctx, ownerID, req)
	tx, _ := args.Get(0).(*service.Transaction)
	return tx, args.Error(1)
}

// newCreateTestAPI registers the handler against a humatest API and returns it.
func newCreateTestAPI(t *testing.T, ledger transactionRecorder) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateTransactionHandler(ledger).Register(api)
	return api
}

func ownerHeader(ownerID uuid.UUID) string {
	return "X-Owner-ID: " + ownerID.String()
}

func TestToTransactionRequest(t *testing.T) {
	cardID := uuid.Must(uuid.NewV4()).String()
	req := toTransactionRequest(CreateTransactionBody{
		Kind:          "expense",
		Amount:        "9.99",
		Category:      "Food",
		PaymentMethod: "credit",
		CardID:        &cardID,
		Date:          "2025-01-15",
		Description:   "Lunch",
	})

	assert.Equal(t, "expense", req.Kind)
	assert.Equal(t, "9.99", req.Amount)
	assert.Equal(t, "Food", req.Category)
	assert.Equal(t, "credit", req.PaymentMethod)
	assert.Equal(t, cardID, *req.CardID)
	assert.Equal(t, "2025-01-15", req.Date)
	assert.Equal(t, "Lunch", req.Description)
}

// -- HTTP integration tests (full Huma stack via humatest) --

func TestHTTP_CreateTransaction_Success(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	cardID := uuid.Must(uuid.NewV4())
	cardIDStr := cardID.String()
	created := &service.Transaction{
		ID:            uuid.Must(uuid.NewV4()),
		OwnerID:       ownerID,
		Kind:          transaction.KindExpense,
		Amount:        decimal.RequireFromString("12.5"),
		Category:      "Food",
		PaymentMethod: transaction.PaymentMethodCredit,
		CardID:        &cardID,
		Date:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}

	ledger := new(mockTransactionRecorder)
	ledger.On("RecordTransaction", mock.Anything, ownerID, mock.MatchedBy(func(req service.TransactionRequest) bool {
		return req.Amount == "12.50" && req.PaymentMethod == "credit" && *req.CardID == cardIDStr
	})).Return(created, nil)

	resp := newCreateTestAPI(t, ledger).Post("/v1/transactions", ownerHeader(ownerID), CreateTransactionBody{
		Kind:          "expense",
		Amount:        "12.50",
		Category:      "Food",
		PaymentMethod: "credit",
		CardID:        &cardIDStr,
		Date:          "2025-06-01",
	})

	require.Equal(t, http.StatusCreated, resp.Code)
	var body Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, created.ID.String(), body.ID)
	assert.Equal(t, "12.50", body.Amount)
	assert.Equal(t, "credit", body.PaymentMethod)
	assert.Equal(t, cardIDStr, *body.CardID)
	assert.Equal(t, "2025-06-01T00:00:00Z", body.Date)
	ledger.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_MissingOwner(t *testing.T) {
	ledger := new(mockTransactionRecorder)

	resp := newCreateTestAPI(t, ledger).Post("/v1/transactions", CreateTransactionBody{
		Kind:          "income",
		Amount:        "10.00",
		Category:      "Salary",
		PaymentMethod: "bank_transfer",
		Date:          "2025-06-01",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	ledger.AssertNotCalled(t, "RecordTransaction")
}

func TestHTTP_CreateTransaction_ValidationErrors(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	ledger := new(mockTransactionRecorder)
	ledger.On("RecordTransaction", mock.Anything, ownerID, mock.Anything).Return(nil, apperr.Validation(
		apperr.FieldError{Field: "amount", Reason: "must be greater than zero", Value: "0"},
		apperr.FieldError{Field: "card_id", Reason: "is required when payment_method is credit"},
	))

	resp := newCreateTestAPI(t, ledger).Post("/v1/transactions", ownerHeader(ownerID), CreateTransactionBody{
		Kind:          "expense",
		Amount:        "0",
		Category:      "Food",
		PaymentMethod: "credit",
		Date:          "2025-06-01",
	})

	require.Equal(t, http.StatusBadRequest, resp.Code)
	var body huma.ErrorModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "body.amount", body.Errors[0].Location)
	assert.Equal(t, "body.card_id", body.Errors[1].Location)
}

func TestHTTP_CreateTransaction_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"card missing", apperr.NotFound("card not found"), http.StatusNotFound},
		{"card not owned", apperr.Authorization("card belongs to someone else"), http.StatusForbidden},
		{"storage down", apperr.Storage(assert.AnError), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ownerID := uuid.Must(uuid.NewV4())
			ledger := new(mockTransactionRecorder)
			ledger.On("RecordTransaction", mock.Anything, ownerID, mock.Anything).Return(nil, tt.err)

			resp := newCreateTestAPI(t, ledger).Post("/v1/transactions", ownerHeader(ownerID), CreateTransactionBody{
				Kind:          "expense",
				Amount:        "1.00",
				Category:      "Food",
				PaymentMethod: "cash",
				Date:          "2025-06-01",
			})

			assert.Equal(t, tt.status, resp.Code)
			assert.NotContains(t, resp.Body.String(), assert.AnError.Error())
		})
	}
}

func TestHTTP_CreateTransaction_NumericAmount(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	created := &service.Transaction{
		ID:            uuid.Must(uuid.NewV4()),
		OwnerID:       ownerID,
		Kind:          transaction.KindExpense,
		Amount:        decimal.RequireFromString("12.5"),
		Category:      "Food",
		PaymentMethod: transaction.PaymentMethodCash,
		Date:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	ledger := new(mockTransactionRecorder)
	ledger.On("RecordTransaction", mock.Anything, ownerID, mock.MatchedBy(func(req service.TransactionRequest) bool {
		return req.Amount == "12.5"
	})).Return(created, nil)

	resp := newCreateTestAPI(t, ledger).Post("/v1/transactions", ownerHeader(ownerID), map[string]any{
		"kind":           "expense",
		"amount":         json.Number("12.5"),
		"category":       "Food",
		"payment_method": "cash",
		"date":           "2025-06-01",
	})

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	ledger.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_MissingFieldsReachValidator(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	ledger := new(mockTransactionRecorder)
	ledger.On("RecordTransaction", mock.Anything, ownerID, service.TransactionRequest{Kind: "expense", Category: "Food", PaymentMethod: "cash"}).
		Return(nil, apperr.Validation(
			apperr.FieldError{Field: "amount", Reason: "is required"},
			apperr.FieldError{Field: "date", Reason: "is required"},
		))

	resp := newCreateTestAPI(t, ledger).Post("/v1/transactions", ownerHeader(ownerID), map[string]any{
		"kind":           "expense",
		"category":       "Food",
		"payment_method": "cash",
	})

	require.Equal(t, http.StatusBadRequest, resp.Code)
	var body huma.ErrorModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "body.amount", body.Errors[0].Location)
	assert.Equal(t, "body.date", body.Errors[1].Location)
	ledger.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_WrongJSONTypeIsBadRequest(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	ledger := new(mockTransactionRecorder)

	resp := newCreateTestAPI(t, ledger).Post("/v1/transactions", ownerHeader(ownerID), map[string]any{
		"kind":           5,
		"amount":         true,
		"category":       "Food",
		"payment_method": "cash",
		"date":           "2025-06-01",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "body.kind")
	ledger.AssertNotCalled(t, "RecordTransaction")
}

func TestHTTP_CreateTransaction_FractionalSecondsRoundTrip(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	date := time.Date(2025, 6, 1, 10, 15, 30, 250_000_000, time.UTC)
	ledger := new(mockTransactionRecorder)
	ledger.On("RecordTransaction", mock.Anything, ownerID, mock.Anything).Return(&service.Transaction{
		ID:            uuid.Must(uuid.NewV4()),
		OwnerID:       ownerID,
		Kind:          transaction.KindIncome,
		Amount:        decimal.RequireFromString("10"),
		Category:      "Salary",
		PaymentMethod: transaction.PaymentMethodBankTransfer,
		Date:          date,
	}, nil)

	resp := newCreateTestAPI(t, ledger).Post("/v1/transactions", ownerHeader(ownerID), CreateTransactionBody{
		Kind:          "income",
		Amount:        "10",
		Category:      "Salary",
		PaymentMethod: "bank_transfer",
		Date:          "2025-06-01T10:15:30.250Z",
	})

	require.Equal(t, http.StatusCreated, resp.Code)
	var body Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	got, err := time.Parse(time.RFC3339Nano, body.Date)
	require.NoError(t, err)
	assert.True(t, got.Equal(date), "date %s", body.Date)
	assert.Equal(t, "2025-06-01T10:15:30.25Z", body.Date)
}
