package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire layout of a transaction date
const DateLayout = "2006-01-02"

const (
	// MaxAmountIntegerDigits bounds the digits left of the decimal point
	MaxAmountIntegerDigits = 15
	// MaxAmountScale bounds the digits right of the decimal point
	MaxAmountScale = 10
)

// ErrInvalidTransaction is wrapped by every field validation failure
var ErrInvalidTransaction = errors.New("invalid transaction")

// ID identifies a transaction. It is assigned by the ledger store and is
// opaque to clients.
type ID string

// String returns the raw identifier
func (id ID) String() string {
	return string(id)
}

// Uint reports the id as an integer when it is written in canonical form.
// "01" and "+1" are not canonical.
func (id ID) Uint() (uint64, bool) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil || strconv.FormatUint(n, 10) != string(id) {
		return 0, false
	}
	return n, true
}

// MarshalJSON encodes canonical integer identifiers as JSON numbers and anything else as a string
func (id ID) MarshalJSON() ([]byte, error) {
	if _, ok := id.Uint(); ok {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts either a JSON number or a JSON string
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Transaction represents a ledger record as held by the remote store
type Transaction struct {
	ID          ID              `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	IsIncome    bool            `json:"is_income"`
	Date        string          `json:"date"`
}

type transactionJSON struct {
	ID          ID          `json:"id,omitempty"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	IsIncome    bool        `json:"is_income"`
	Date        string      `json:"date"`
}

// MarshalJSON writes the amount as a JSON number instead of decimal's quoted default
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:          t.ID,
		Amount:      json.Number(t.Amount.String()),
		Category:    t.Category,
		Description: t.Description,
		IsIncome:    t.IsIncome,
		Date:        t.Date,
	})
}

// CheckAmount rejects amounts too large or too precise to be money. The
// check reads only the coefficient and exponent, so "1e1000000000" is
// refused without being expanded.
func CheckAmount(amount decimal.Decimal) error {
	if -amount.Exponent() > MaxAmountScale {
		return fmt.Errorf("%w: amount must have at most %d decimal places", ErrInvalidTransaction, MaxAmountScale)
	}
	if int64(amount.NumDigits())+int64(amount.Exponent()) > MaxAmountIntegerDigits {
		return fmt.Errorf("%w: amount must have at most %d integer digits", ErrInvalidTransaction, MaxAmountIntegerDigits)
	}
	return nil
}

// Validate ensures the transaction carries the fields the ledger requires
func (t *Transaction) Validate() error {
	if err := CheckAmount(t.Amount); err != nil {
		return err
	}

	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: category must not be empty", ErrInvalidTransaction)
	}

	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidTransaction)
	}

	return nil
}
