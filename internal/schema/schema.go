package schema

import (
	"encoding/json"
	"errors"
	"strconv"
)

// Menu is the validated, structured extraction result.
// Nothing outside this package should build one from raw JSON directly —
// that is what Validate is for.
type Menu struct {
	Vendor   string     `json:"vendor,omitempty"`
	Currency string     `json:"currency,omitempty"`
	Items    []MenuItem `json:"items"`
}

type MenuItem struct {
	Name        string       `json:"name"`
	Category    string       `json:"category,omitempty"`
	Description string       `json:"description,omitempty"`
	Price       *Price       `json:"price,omitempty"`
	Options     []ItemOption `json:"options,omitempty"`
}

// ItemOption is a variant of an item, e.g. a size
type ItemOption struct {
	Label string `json:"label"`
	Price *Price `json:"price,omitempty"`
}

// Price is either a number or free-form text — menus mix numeric
// prices with strings like "₹120" or "$12", and the model is allowed
// to emit both.
type Price struct {
	Number *float64
	Text   *string
}

func NumberPrice(n float64) *Price {
	return &Price{Number: &n}
}

func TextPrice(s string) *Price {
	return &Price{Text: &s}
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.Number != nil {
		return json.Marshal(*p.Number)
	}
	if p.Text != nil {
		return json.Marshal(*p.Text)
	}
	return []byte("null"), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		p.Number = &n
		p.Text = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Text = &s
		p.Number = nil
		return nil
	}

	return errors.New("price must be a number or a string")
}

// String renders the price for display
func (p *Price) String() string {
	if p == nil {
		return ""
	}
	if p.Number != nil {
		return strconv.FormatFloat(*p.Number, 'f', -1, 64)
	}
	if p.Text != nil {
		return *p.Text
	}
	return ""
}
