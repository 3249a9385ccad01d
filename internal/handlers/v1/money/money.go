// Package money holds the request type for decimal amounts.
package money

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// Amount is a decimal request field sent either as a JSON string ("12.50")
// or a JSON number (12.5). Numbers keep their literal digits and never pass
// through float64; the service parses the text with decimal.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// Schema lets huma accept both encodings.
func (Amount) Schema(huma.Registry) *huma.Schema {
	s := &huma.Schema{
		Description: "Decimal amount as a string or a number, at most two fraction digits",
		OneOf: []*huma.Schema{
			{Type: huma.TypeString},
			{Type: huma.TypeNumber},
		},
	}
	s.PrecomputeMessages()
	return s
}

func (a Amount) String() string {
	return string(a)
}
