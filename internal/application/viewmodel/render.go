package viewmodel

import (
	"github.com/damon-houk/ledger-form/internal/domain/entity"
)

const (
	TitleCreate       = "Add New Transaction"
	TitleEdit         = "Edit Transaction"
	SubmitLabelCreate = "Submit"
	SubmitLabelEdit   = "Update"
	EmptyPlaceholder  = "No transactions yet."

	incomeMark  = "✅"
	expenseMark = "❌"
)

// Row is one rendered table line
type Row struct {
	ID          entity.ID
	Amount      string
	Category    string
	Description string
	Income      string
	Date        string
	// Editing marks the row loaded into the form
	Editing bool
}

// View is the render model of the form and the history table
type View struct {
	Title       string
	SubmitLabel string
	Draft       entity.Draft
	Rows        []Row
	// Placeholder is set only when there are no rows
	Placeholder string
}

// Render derives the view from a state
func Render(s State) View {
	v := View{
		Title:       TitleCreate,
		SubmitLabel: SubmitLabelCreate,
		Draft:       s.Draft,
	}
	if s.Mode() == ModeEdit {
		v.Title = TitleEdit
		v.SubmitLabel = SubmitLabelEdit
	}

	if len(s.Transactions) == 0 {
		v.Placeholder = EmptyPlaceholder
		return v
	}

	v.Rows = make([]Row, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		income := expenseMark
		if t.IsIncome {
			income = incomeMark
		}
		v.Rows = append(v.Rows, Row{
			ID:          t.ID,
			Amount:      "$" + t.Amount.StringFixed(2),
			Category:    t.Category,
			Description: t.Description,
			Income:      income,
			Date:        t.Date,
			Editing:     s.EditingID != "" && t.ID == s.EditingID,
		})
	}
	return v
}
