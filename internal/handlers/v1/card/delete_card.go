package card

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/handlers/v1/httperror"
	"github.com/carson-networks/card-ledger/internal/logging"
)

// DeleteCardInput is the Huma input for deleting a card.
type DeleteCardInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Authenticated owner UUID"`
	CardID  string `path:"id" doc:"Card UUID"`
}

// DeleteCardOutput is the Huma output for deleting a card.
type DeleteCardOutput struct {
	Status int
}

type cardDeleter interface {
	DeleteCard(ctx context.Context, ownerID, cardID uuid.UUID) error
}

// DeleteCardHandler handles DELETE /v1/cards/{id}.
type DeleteCardHandler struct {
	CardService cardDeleter
}

func NewDeleteCardHandler(svc cardDeleter) *DeleteCardHandler {
	return &DeleteCardHandler{CardService: svc}
}

// Register registers the delete card endpoint with the Huma API.
func (h *DeleteCardHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-card",
		Method:        http.MethodDelete,
		Path:          "/v1/cards/{id}",
		Summary:       "Delete a card",
		Description:   "Deletes a card that has no linked transactions. Cards with linked transactions are refused with 400.",
		Tags:          []string{"Cards"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteCardHandler) handle(ctx context.Context, input *DeleteCardInput) (*DeleteCardOutput, error) {
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

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("deleteCardMs")
	}
	err = h.CardService.DeleteCard(ctx, ownerID, cardID)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperror.FromError(ctx, err)
	}

	return &DeleteCardOutput{Status: http.StatusNoContent}, nil
}
