package card

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/handlers/v1/httperror"
	"github.com/carson-networks/card-ledger/internal/logging"
	"github.com/carson-networks/card-ledger/internal/service"
)

// ListCardsInput is the Huma input for listing cards.
type ListCardsInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Authenticated owner UUID"`
}

// ListCardsResponseBody is the response body for listing cards.
type ListCardsResponseBody struct {
	Cards []Card `json:"cards" doc:"Cards, most recently created first"`
}

// ListCardsOutput is the Huma output for listing cards.
type ListCardsOutput struct {
	Body ListCardsResponseBody
}

type cardLister interface {
	ListCards(ctx context.Context, ownerID uuid.UUID) ([]service.Card, error)
}

// ListCardsHandler handles GET /v1/cards.
type ListCardsHandler struct {
	CardService cardLister
}

func NewListCardsHandler(svc cardLister) *ListCardsHandler {
	return &ListCardsHandler{CardService: svc}
}

// Register registers the list cards endpoint with the Huma API.
func (h *ListCardsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-cards",
		Method:      http.MethodGet,
		Path:        "/v1/cards",
		Summary:     "List cards",
		Description: "Returns the caller's cards with available credit and utilization derived from the current balance.",
		Tags:        []string{"Cards"},
	}, h.handle)
}

func (h *ListCardsHandler) handle(ctx context.Context, input *ListCardsInput) (*ListCardsOutput, error) {
	logData := logging.GetLogData(ctx)

	ownerID, err := httperror.ParseOwnerID(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listCardsMs")
	}
	cards, err := h.CardService.ListCards(ctx, ownerID)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperror.FromError(ctx, err)
	}

	if logData != nil {
		logData.AddData("cardCount", len(cards))
	}

	resp := ListCardsResponseBody{Cards: make([]Card, len(cards))}
	for i, c := range cards {
		resp.Cards[i] = toResponse(c)
	}
	return &ListCardsOutput{Body: resp}, nil
}
