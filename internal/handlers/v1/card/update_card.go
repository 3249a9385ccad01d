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

// UpdateCardBody is the request body for editing a card.
type UpdateCardBody struct {
	Name           *string       `json:"card_name,omitempty" doc:"New display name"`
	CurrentBalance *money.Amount `json:"current_balance,omitempty" doc:"Not editable, balances follow recorded transactions"`
}

// UpdateCardInput is the Huma input for editing a card.
type UpdateCardInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Authenticated owner UUID"`
	CardID  string `path:"id" doc:"Card UUID"`
	Body    UpdateCardBody
}

// UpdateCardOutput is the Huma output for editing a card.
type UpdateCardOutput struct {
	Body Card
}

type cardUpdater interface {
	UpdateCard(ctx context.Context, ownerID, cardID uuid.UUID, req service.CardUpdate) (*service.Card, error)
}

// UpdateCardHandler handles PUT /v1/cards/{id}.
type UpdateCardHandler struct {
	CardService cardUpdater
}

func NewUpdateCardHandler(svc cardUpdater) *UpdateCardHandler {
	return &UpdateCardHandler{CardService: svc}
}

// Register registers the update card endpoint with the Huma API.
func (h *UpdateCardHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-card",
		Method:      http.MethodPut,
		Path:        "/v1/cards/{id}",
		Summary:     "Rename a card",
		Description: "Changes a card's display name. The outstanding balance only moves through recorded transactions and is refused here.",
		Tags:        []string{"Cards"},
	}, h.handle)
}

func (h *UpdateCardHandler) handle(ctx context.Context, input *UpdateCardInput) (*UpdateCardOutput, error) {
	logData := logging.GetLogData(ctx)

	ownerID, err := httperror.ParseOwnerID(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	cardID, err := uuid.FromString(input.CardID)
	if err != nil {
		return nil, huma.NewError(http.StatusNotFound, "card "+input.CardID+" not found")
	}

	if logData != nil {
		logData.AddData("cardID", cardID.String())
	}

	req := service.CardUpdate{Name: input.Body.Name}
	if input.Body.CurrentBalance != nil {
		balance := input.Body.CurrentBalance.String()
		req.CurrentBalance = &balance
	}

	updated, err := h.CardService.UpdateCard(ctx, ownerID, cardID, req)
	if err != nil {
		return nil, httperror.FromError(ctx, err)
	}

	return &UpdateCardOutput{Body: toResponse(*updated)}, nil
}
