package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/apperr"
	"github.com/carson-networks/card-ledger/internal/operator/actions"
	"github.com/carson-networks/card-ledger/internal/storage/card"
)

const maxCardNameLength = 100

var (
	last4Pattern  = regexp.MustCompile(`^[0-9]{4}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
)

// CardService handles card business logic. Balances are only ever changed
// by recorded transactions; this service sets the opening balance and nothing else.
type CardService struct {
	cards     card.IReader
	processor actionProcessor
}

func NewCardService(cards card.IReader, processor actionProcessor) *CardService {
	return &CardService{cards: cards, processor: processor}
}

// ListCards returns the owner's cards, most recently created first.
func (s *CardService) ListCards(ctx context.Context, ownerID uuid.UUID) ([]Card, error) {
	rows, err := s.cards.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("list cards: %w", err))
	}

	result := make([]Card, len(rows))
	for i, row := range rows {
		result[i] = cardFromStorage(row)
	}
	return result, nil
}

// CreateCard validates req and stores a new card for ownerID.
func (s *CardService) CreateCard(ctx context.Context, ownerID uuid.UUID, req CardRequest) (*Card, error) {
	create, err := validateCard(ownerID, req)
	if err != nil {
		return nil, err
	}

	action := &actions.CreateCard{Create: *create}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	created := cardFromStorage(action.Created)
	return &created, nil
}

// DeleteCard removes a card with no linked transactions. Cards that have any
// are left untouched and a conflict is returned.
func (s *CardService) DeleteCard(ctx context.Context, ownerID, cardID uuid.UUID) error {
	return s.processor.Process(ctx, &actions.DeleteCard{OwnerID: ownerID, CardID: cardID})
}

// UpdateCard renames one of the owner's cards. The outstanding balance is
// owned by the ledger and cannot be set here.
func (s *CardService) UpdateCard(ctx context.Context, ownerID, cardID uuid.UUID, req CardUpdate) (*Card, error) {
	var fields []apperr.FieldError

	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if fieldErr := checkCardName(name); fieldErr != nil {
		fields = append(fields, *fieldErr)
	}
	if req.CurrentBalance != nil {
		fields = append(fields, apperr.FieldError{
			Field:  "current_balance",
			Reason: "is maintained by recorded transactions and cannot be edited",
			Value:  *req.CurrentBalance,
		})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	action := &actions.RenameCard{OwnerID: ownerID, CardID: cardID, Name: name}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	updated := cardFromStorage(action.Updated)
	return &updated, nil
}

func checkCardName(name string) *apperr.FieldError {
	if name == "" {
		return &apperr.FieldError{Field: "card_name", Reason: "is required"}
	}
	if utf8.RuneCountInString(name) > maxCardNameLength {
		return &apperr.FieldError{Field: "card_name", Reason: fmt.Sprintf("must be at most %d characters", maxCardNameLength)}
	}
	return nil
}

func validateCard(ownerID uuid.UUID, req CardRequest) (*card.CardCreate, error) {
	var fields []apperr.FieldError

	name := strings.TrimSpace(req.Name)
	if fieldErr := checkCardName(name); fieldErr != nil {
		fields = append(fields, *fieldErr)
	}

	last4 := strings.TrimSpace(req.Last4)
	if !last4Pattern.MatchString(last4) {
		fields = append(fields, apperr.FieldError{Field: "last4", Reason: "must be exactly 4 digits", Value: req.Last4})
	}

	limit, fieldErr := parseMoney("credit_limit", req.CreditLimit, true)
	if fieldErr != nil {
		fields = append(fields, *fieldErr)
	}

	balanceRaw := req.CurrentBalance
	if strings.TrimSpace(balanceRaw) == "" {
		balanceRaw = "0"
	}
	balance, fieldErr := parseMoney("current_balance", balanceRaw, true)
	if fieldErr != nil {
		fields = append(fields, *fieldErr)
	}

	var expiry *string
	if req.ExpiryDate != nil && strings.TrimSpace(*req.ExpiryDate) != "" {
		value := strings.TrimSpace(*req.ExpiryDate)
		if !expiryPattern.MatchString(value) {
			fields = append(fields, apperr.FieldError{Field: "expiry_date", Reason: "must be MM/YY", Value: value})
		}
		expiry = &value
	}

	if req.DueDay != nil && (*req.DueDay < 1 || *req.DueDay > 31) {
		fields = append(fields, apperr.FieldError{Field: "due_day", Reason: "must be between 1 and 31", Value: *req.DueDay})
	}

	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	return &card.CardCreate{
		OwnerID:        ownerID,
		Name:           name,
		CardType:       strings.TrimSpace(req.CardType),
		Last4:          last4,
		CreditLimit:    limit,
		CurrentBalance: balance,
		ExpiryDate:     expiry,
		DueDay:         req.DueDay,
	}, nil
}
