package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/apperr"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

const (
	maxDescriptionLength = 500
	moneyPlaces          = 2
)

// numeric(14,2) upper bound.
var maxMoney = decimal.New(1, 12)

var dateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CategoryPolicy decides whether a transaction's category must be one the
// owner already has.
type CategoryPolicy string

const (
	CategoryPolicyLenient CategoryPolicy = "lenient"
	CategoryPolicyStrict  CategoryPolicy = "strict"
)

func ParseCategoryPolicy(raw string) (CategoryPolicy, error) {
	switch CategoryPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", CategoryPolicyLenient:
		return CategoryPolicyLenient, nil
	case CategoryPolicyStrict:
		return CategoryPolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown category policy '%s'", raw)
	}
}

// ValidateTransaction checks req and returns the normalized draft. Every
// violated field is reported in a single validation error. categories is
// consulted only under CategoryPolicyStrict.
func ValidateTransaction(req TransactionRequest, categories CategorySet, policy CategoryPolicy) (*TransactionDraft, error) {
	var fields []apperr.FieldError
	draft := &TransactionDraft{}

	amount, fieldErr := parseMoney("amount", req.Amount, false)
	if fieldErr != nil {
		fields = append(fields, *fieldErr)
	}
	draft.Amount = amount

	switch kind := transaction.Kind(strings.TrimSpace(req.Kind)); kind {
	case transaction.KindIncome, transaction.KindExpense:
		draft.Kind = kind
	default:
		fields = append(fields, apperr.FieldError{Field: "kind", Reason: "must be one of income, expense", Value: req.Kind})
	}

	method := transaction.PaymentMethod(strings.TrimSpace(req.PaymentMethod))
	switch method {
	case transaction.PaymentMethodCash, transaction.PaymentMethodDebit,
		transaction.PaymentMethodCredit, transaction.PaymentMethodBankTransfer:
		draft.PaymentMethod = method
	default:
		fields = append(fields, apperr.FieldError{Field: "payment_method", Reason: "must be one of cash, debit, credit, bank_transfer", Value: req.PaymentMethod})
	}

	category := strings.TrimSpace(req.Category)
	switch {
	case category == "":
		fields = append(fields, apperr.FieldError{Field: "category", Reason: "is required", Value: req.Category})
	case policy == CategoryPolicyStrict && !categories.Contains(category):
		fields = append(fields, apperr.FieldError{Field: "category", Reason: "is not one of the owner's categories", Value: req.Category})
	default:
		draft.Category = category
	}

	cardID := ""
	if req.CardID != nil {
		cardID = strings.TrimSpace(*req.CardID)
	}
	switch {
	case method == transaction.PaymentMethodCredit && cardID == "":
		fields = append(fields, apperr.FieldError{Field: "card_id", Reason: "is required when payment_method is credit"})
	case method != transaction.PaymentMethodCredit && cardID != "":
		fields = append(fields, apperr.FieldError{Field: "card_id", Reason: "is only allowed when payment_method is credit", Value: cardID})
	case cardID != "":
		id, err := uuid.FromString(cardID)
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "card_id", Reason: "must be a valid UUID", Value: cardID})
		} else {
			draft.CardID = &id
		}
	}

	date, err := parseDate(req.Date)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "date", Reason: err.Error(), Value: req.Date})
	}
	draft.Date = date

	if utf8.RuneCountInString(req.Description) > maxDescriptionLength {
		fields = append(fields, apperr.FieldError{Field: "description", Reason: fmt.Sprintf("must be at most %d characters", maxDescriptionLength)})
	}
	draft.Description = req.Description

	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}
	return draft, nil
}

// parseMoney parses a non-negative amount with at most two decimal places.
// Zero is rejected unless allowZero is set.
func parseMoney(field, raw string, allowZero bool) (decimal.Decimal, *apperr.FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, &apperr.FieldError{Field: field, Reason: "is required"}
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &apperr.FieldError{Field: field, Reason: "must be a decimal number", Value: raw}
	}

	switch {
	case amount.IsNegative():
		return decimal.Zero, &apperr.FieldError{Field: field, Reason: "must not be negative", Value: raw}
	case amount.IsZero() && !allowZero:
		return decimal.Zero, &apperr.FieldError{Field: field, Reason: "must be greater than zero", Value: raw}
	case !amount.Equal(amount.Truncate(moneyPlaces)):
		return decimal.Zero, &apperr.FieldError{Field: field, Reason: "must have at most 2 decimal places", Value: raw}
	case amount.GreaterThanOrEqual(maxMoney):
		return decimal.Zero, &apperr.FieldError{Field: field, Reason: "is too large", Value: raw}
	}
	return amount, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("is required")
	}
	if dateOnly.MatchString(raw) {
		date, err := time.ParseInLocation(time.DateOnly, raw, time.UTC)
		if err != nil {
			return time.Time{}, errors.New("is not a valid calendar date")
		}
		return date, nil
	}
	date, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.New("must be an RFC3339 timestamp or a YYYY-MM-DD date")
	}
	// timestamptz keeps microseconds.
	return date.UTC().Truncate(time.Microsecond), nil
}
