package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownField is returned for input events naming a field outside the form
var ErrUnknownField = errors.New("unknown field")

// Field names one input of the transaction form
type Field string

const (
	FieldAmount      Field = "amount"
	FieldCategory    Field = "category"
	FieldDescription Field = "description"
	FieldIsIncome    Field = "is_income"
	FieldDate        Field = "date"
)

// Fields lists the form inputs in display order
func Fields() []Field {
	return []Field{FieldAmount, FieldCategory, FieldDescription, FieldIsIncome, FieldDate}
}

// ParseField maps an input name to a Field
func ParseField(name string) (Field, error) {
	for _, f := range Fields() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Draft holds the unsaved form values. Amount keeps the raw text of the
// number input; the remote store decides whether it is acceptable.
type Draft struct {
	Amount      string
	Category    string
	Description string
	IsIncome    bool
	Date        string
}

// DraftFrom copies a transaction's current values into a fresh draft
func DraftFrom(t Transaction) Draft {
	return Draft{
		Amount:      t.Amount.String(),
		Category:    t.Category,
		Description: t.Description,
		IsIncome:    t.IsIncome,
		Date:        t.Date,
	}
}

// IsZero reports whether the draft holds only default values
func (d Draft) IsZero() bool {
	return d == Draft{}
}

// Set applies one input event. is_income reads the checked signal, every
// other field the raw text value.
func (d *Draft) Set(field Field, value string, checked bool) error {
	switch field {
	case FieldAmount:
		d.Amount = value
	case FieldCategory:
		d.Category = value
	case FieldDescription:
		d.Description = value
	case FieldIsIncome:
		d.IsIncome = checked
	case FieldDate:
		d.Date = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

type draftJSON struct {
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	IsIncome    bool            `json:"is_income"`
	Date        string          `json:"date"`
}

// MarshalJSON sends a parseable amount as a number and any other text as a
// string so the remote store can reject it.
func (d Draft) MarshalJSON() ([]byte, error) {
	amount, err := encodeAmount(d.Amount)
	if err != nil {
		return nil, err
	}

	return json.Marshal(draftJSON{
		Amount:      amount,
		Category:    d.Category,
		Description: d.Description,
		IsIncome:    d.IsIncome,
		Date:        d.Date,
	})
}

// encodeAmount sends text that parses as a sane amount as a JSON number.
// Anything else goes out verbatim as a string for the ledger to reject.
func encodeAmount(raw string) (json.RawMessage, error) {
	if dec, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil && CheckAmount(dec) == nil {
		return json.RawMessage(dec.String()), nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode amount: %w", err)
	}
	return b, nil
}
