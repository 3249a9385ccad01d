package card

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

// CreateCardBody is the request body for creating a card.
type CreateCardBody struct {
	Name           string       `json:"card_name" required:"false" doc:"Display name"`
	CardType       string       `json:"card_type,omitempty" doc:"Card network or product"`
	Last4          string       `json:"last4" required:"false" doc:"Exactly four digits"`
	CreditLimit    money.Amount `json:"credit_limit" required:"false" doc:"Non-negative decimal credit limit"`
	CurrentBalance money.Amount `json:"current_balance,omitempty" doc:"Opening balance, defaults to 0"`
	ExpiryDate     *string      `json:"expiry_date,omitempty" doc:"Expiry as MM/YY"`
	DueDay         *int         `json:"due_day,omitempty" doc:"Statement due day of month, 1-31"`
}

// CreateCardInput is the Huma input for creating a card.
type CreateCardInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Authenticated owner UUID"`
	Body    CreateCardBody
}

// CreateCardOutput is the Huma output for creating a card.
type CreateCardOutput struct {
	Status int
	Body   Card
}

type cardCreator interface {
	CreateCard(ctx context.Context, ownerID uuid.UUID, req service.CardRequest) (*service.Card, error)
}

// CreateCardHandler handles POST /v1/cards.
type CreateCardHandler struct {
	CardService cardCreator
}

func NewCreateCardHandler(svc cardCreator) *CreateCardHandler {
	return &CreateCardHandler{CardService: svc}
}

// Register registers the create card endpoint with the Huma API.
func (h *CreateCardHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-card",
		Method:        http.MethodPost,
		Path:          "/v1/cards",
		Summary:       "Create a card",
		Description:   "Creates a card with an optional opening balance.",
		Tags:          []string{"Cards"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateCardHandler) handle(ctx context.Context, input *CreateCardInput) (*CreateCardOutput, error) {
	logData := logging.GetLogData(ctx)

	ownerID, err := httperror.ParseOwnerID(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createCardMs")
	}
	created, err := h.CardService.CreateCard(ctx, ownerID, service.CardRequest{
		Name:           input.Body.Name,
		CardType:       input.Body.CardType,
		Last4:          input.Body.Last4,
		CreditLimit:    input.Body.CreditLimit.String(),
		CurrentBalance: input.Body.CurrentBalance.String(),
		ExpiryDate:     input.Body.ExpiryDate,
		DueDay:         input.Body.DueDay,
	})
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperror.FromError(ctx, err)
	}

	if logData != nil {
		logData.AddData("cardID", created.ID.String())
	}

	return &CreateCardOutput{
		Status: http.StatusCreated,
		Body:   toResponse(*created),
	}, nil
}
