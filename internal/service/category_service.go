package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/apperr"
	"github.com/carson-networks/card-ledger/internal/storage/category"
)

// Category is a category available to an owner.
type Category struct {
	ID        uuid.UUID
	Name      string
	Kind      string
	IsDefault bool
}

// CategorySet is the set of category names valid for one owner. Lookups
// ignore case.
type CategorySet struct {
	names []string
	index map[string]struct{}
}

func NewCategorySet(names ...string) CategorySet {
	set := CategorySet{index: make(map[string]struct{}, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, ok := set.index[key]; ok {
			continue
		}
		set.index[key] = struct{}{}
		set.names = append(set.names, name)
	}
	sort.Slice(set.names, func(i, j int) bool {
		return strings.ToLower(set.names[i]) < strings.ToLower(set.names[j])
	})
	return set
}

func (c CategorySet) Contains(name string) bool {
	_, ok := c.index[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names returns the category names sorted case-insensitively.
func (c CategorySet) Names() []string {
	return append([]string(nil), c.names...)
}

// CategoryService resolves the categories an owner may use.
type CategoryService struct {
	categories category.IReader
}

func NewCategoryService(categories category.IReader) *CategoryService {
	return &CategoryService{categories: categories}
}

// ListCategories returns the default categories plus the owner's own, sorted by name.
func (s *CategoryService) ListCategories(ctx context.Context, ownerID uuid.UUID) ([]Category, error) {
	rows, err := s.categories.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("list categories: %w", err))
	}

	result := make([]Category, len(rows))
	for i, row := range rows {
		result[i] = Category{
			ID:        row.ID,
			Name:      row.Name,
			Kind:      row.Kind,
			IsDefault: row.IsDefault,
		}
	}
	return result, nil
}

// ResolveCategories returns the set of category names valid for ownerID.
func (s *CategoryService) ResolveCategories(ctx context.Context, ownerID uuid.UUID) (CategorySet, error) {
	categories, err := s.ListCategories(ctx, ownerID)
	if err != nil {
		return CategorySet{}, err
	}

	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return NewCategorySet(names...), nil
}
