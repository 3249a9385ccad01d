package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/handlers/v1/httperror"
	"github.com/carson-networks/card-ledger/internal/logging"
	"github.com/carson-networks/card-ledger/internal/service"
)

// Category is the API response model for a category.
type Category struct {
	ID        string `json:"id" doc:"Category UUID"`
	Name      string `json:"name" doc:"Category name"`
	Kind      string `json:"kind" doc:"income or expense"`
	IsDefault bool   `json:"is_default" doc:"True for the built-in categories every owner sees"`
}

// ListCategoriesInput is the Huma input for listing categories.
type ListCategoriesInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Authenticated owner UUID"`
}

// ListCategoriesResponseBody is the response body for listing categories.
type ListCategoriesResponseBody struct {
	Categories []Category `json:"categories" doc:"Default and custom categories sorted by name"`
}

// ListCategoriesOutput is the Huma output for listing categories.
type ListCategoriesOutput struct {
	Body ListCategoriesResponseBody
}

type categoryLister interface {
	ListCategories(ctx context.Context, ownerID uuid.UUID) ([]service.Category, error)
}

// ListCategoriesHandler handles GET /v1/categories.
type ListCategoriesHandler struct {
	CategoryService categoryLister
}

func NewListCategoriesHandler(svc categoryLister) *ListCategoriesHandler {
	return &ListCategoriesHandler{CategoryService: svc}
}

// Register registers the list categories endpoint with the Huma API.
func (h *ListCategoriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v1/categories",
		Summary:     "List categories",
		Description: "Returns the default categories plus the caller's own.",
		Tags:        []string{"Categories"},
	}, h.handle)
}

func (h *ListCategoriesHandler) handle(ctx context.Context, input *ListCategoriesInput) (*ListCategoriesOutput, error) {
	ownerID, err := httperror.ParseOwnerID(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	categories, err := h.CategoryService.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, httperror.FromError(ctx, err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("categoryCount", len(categories))
	}

	resp := ListCategoriesResponseBody{Categories: make([]Category, len(categories))}
	for i, c := range categories {
		resp.Categories[i] = Category{
			ID:        c.ID.String(),
			Name:      c.Name,
			Kind:      c.Kind,
			IsDefault: c.IsDefault,
		}
	}
	return &ListCategoriesOutput{Body: resp}, nil
}
