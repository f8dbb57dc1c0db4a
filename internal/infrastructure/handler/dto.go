package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/damon-houk/ledger-form/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var errInvalidAmount = errors.New("amount must be a number")

// TransactionRequest represents the request body for creating or updating a transaction
type TransactionRequest struct {
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	IsIncome    bool            `json:"is_income"`
	Date        string          `json:"date"`
}

// toEntity converts the request into a transaction. The amount may arrive as
// a JSON number or as numeric text; anything else is rejected.
func (r TransactionRequest) toEntity() (entity.Transaction, error) {
	raw := strings.TrimSpace(string(r.Amount))
	if raw == "" || raw == "null" {
		return entity.Transaction{}, fmt.Errorf("%w: amount is required", entity.ErrInvalidTransaction)
	}

	var text string
	if err := json.Unmarshal(r.Amount, &text); err == nil {
		raw = strings.TrimSpace(text)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return entity.Transaction{}, fmt.Errorf("%w: %w", entity.ErrInvalidTransaction, errInvalidAmount)
	}

	return entity.Transaction{
		Amount:      amount,
		Category:    r.Category,
		Description: r.Description,
		IsIncome:    r.IsIncome,
		Date:        r.Date,
	}, nil
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
