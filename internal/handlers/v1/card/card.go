package card

import (
	"time"

	"github.com/carson-networks/card-ledger/internal/service"
)

// Card is the API response model for a card.
type Card struct {
	ID                 string  `json:"id" doc:"Card UUID"`
	Name               string  `json:"card_name" doc:"Display name"`
	CardType           string  `json:"card_type" doc:"Card network or product"`
	Last4              string  `json:"last4" doc:"Last four digits"`
	CreditLimit        string  `json:"credit_limit" doc:"Decimal credit limit"`
	CurrentBalance     string  `json:"current_balance" doc:"Decimal outstanding balance"`
	AvailableCredit    string  `json:"available_credit" doc:"credit_limit minus current_balance, negative when over the limit"`
	Utilization        string  `json:"utilization" doc:"current_balance / credit_limit, 0 when there is no limit"`
	UtilizationWarning bool    `json:"utilization_warning" doc:"True once utilization reaches 90%"`
	ExpiryDate         *string `json:"expiry_date,omitempty" doc:"Expiry as MM/YY"`
	DueDay             *int    `json:"due_day,omitempty" doc:"Statement due day of month"`
	CreatedAt          string  `json:"created_at" doc:"RFC3339 creation time"`
}

func toResponse(c service.Card) Card {
	return Card{
		ID:                 c.ID.String(),
		Name:               c.Name,
		CardType:           c.CardType,
		Last4:              c.Last4,
		CreditLimit:        c.CreditLimit.StringFixed(2),
		CurrentBalance:     c.CurrentBalance.StringFixed(2),
		AvailableCredit:    c.AvailableCredit.StringFixed(2),
		Utilization:        c.Utilization.String(),
		UtilizationWarning: c.UtilizationWarning,
		ExpiryDate:         c.ExpiryDate,
		DueDay:             c.DueDay,
		CreatedAt:          c.CreatedAt.Format(time.RFC3339Nano),
	}
}
