package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/handlers/v1/httperror"
	"github.com/carson-networks/card-ledger/internal/handlers/v1/money"
	"github.com/carson-networks/card-ledger/internal/logging"
	"github.com/carson-networks/card-ledger/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
// Fields are checked by the ledger's validator so that every problem is
// reported together.
type CreateTransactionBody struct {
	Kind          string       `json:"kind" required:"false" doc:"income or expense"`
	Amount        money.Amount `json:"amount" required:"false" doc:"Positive decimal amount, at most two fraction digits"`
	Category      string       `json:"category" required:"false" doc:"Category name"`
	PaymentMethod string       `json:"payment_method" required:"false" doc:"cash, debit, credit or bank_transfer"`
	CardID        *string      `json:"card_id,omitempty" doc:"Card UUID, required when payment_method is credit"`
	Date          string       `json:"date" required:"false" doc:"RFC3339 timestamp or YYYY-MM-DD date"`
	Description   string       `json:"description,omitempty" doc:"Optional description"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Authenticated owner UUID"`
	Body    CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   Transaction
}

// transactionRecorder is the interface for recording transactions.
type transactionRecorder interface {
	RecordTransaction(ctx context.Context, ownerID uuid.UUID, req service.TransactionRequest) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transactions.
type CreateTransactionHandler struct {
	Ledger transactionRecorder
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(ledger transactionRecorder) *CreateTransactionHandler {
	return &CreateTransactionHandler{Ledger: ledger}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transactions",
		Summary:       "Record a transaction",
		Description:   "Records an income or expense. A credit card expense raises the linked card's balance in the same unit of work.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func toTransactionRequest(body CreateTransactionBody) service.TransactionRequest {
	return service.TransactionRequest{
		Kind:          body.Kind,
		Amount:        body.Amount.String(),
		Category:      body.Category,
		PaymentMethod: body.PaymentMethod,
		CardID:        body.CardID,
		Date:          body.Date,
		Description:   body.Description,
	}
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	ownerID, err := httperror.ParseOwnerID(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("recordTransactionMs")
	}
	created, err := h.Ledger.RecordTransaction(ctx, ownerID, toTransactionRequest(input.Body))
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperror.FromError(ctx, err)
	}

	if logData != nil {
		logData.AddData("transactionID", created.ID.String())
		logData.AddData("paymentMethod", string(created.PaymentMethod))
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   toResponse(*created),
	}, nil
}
