package transaction

import (
	"time"

	"github.com/carson-networks/card-ledger/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID            string  `json:"id" doc:"Transaction UUID"`
	Kind          string  `json:"kind" enum:"income,expense" doc:"Transaction kind"`
	Amount        string  `json:"amount" doc:"Decimal amount with two fraction digits"`
	Category      string  `json:"category" doc:"Category name"`
	PaymentMethod string  `json:"payment_method" enum:"cash,debit,credit,bank_transfer" doc:"How the transaction was paid"`
	CardID        *string `json:"card_id,omitempty" doc:"Linked card UUID, present only for credit payments"`
	Date          string  `json:"date" doc:"RFC3339 date the transaction occurred"`
	Description   string  `json:"description" doc:"Free-text description"`
	CreatedAt     string  `json:"created_at" doc:"RFC3339 time the transaction was recorded"`
}

func toResponse(tx service.Transaction) Transaction {
	resp := Transaction{
		ID:            tx.ID.String(),
		Kind:          string(tx.Kind),
		Amount:        tx.Amount.StringFixed(2),
		Category:      tx.Category,
		PaymentMethod: string(tx.PaymentMethod),
		Date:          tx.Date.Format(time.RFC3339Nano),
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt.Format(time.RFC3339Nano),
	}
	if tx.CardID != nil {
		cardID := tx.CardID.String()
		resp.CardID = &cardID
	}
	return resp
}
