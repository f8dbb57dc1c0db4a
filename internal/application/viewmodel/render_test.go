package viewmodel

import (
	"testing"

	"github.com/damon-houk/ledger-form/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Run("Empty list", func(t *testing.T) {
		v := Render(State{Transactions: []entity.Transaction{}})
		assert.Equal(t, TitleCreate, v.Title)
		assert.Equal(t, SubmitLabelCreate, v.SubmitLabel)
		assert.Nil(t, v.Rows)
		assert.Equal(t, EmptyPlaceholder, v.Placeholder)
	})

	t.Run("Rows", func(t *testing.T) {
		salary := entity.Transaction{
			ID:       "2",
			Amount:   decimal.RequireFromString("1200.5"),
			Category: "Salary",
			IsIncome: true,
			Date:     "2024-02-02",
		}
		s := State{
			Transactions: []entity.Transaction{lunch(), salary},
			EditingID:    "2",
			Draft:        entity.DraftFrom(salary),
		}

		v := Render(s)
		assert.Equal(t, TitleEdit, v.Title)
		assert.Equal(t, SubmitLabelEdit, v.SubmitLabel)
		assert.Empty(t, v.Placeholder)
		assert.Equal(t, "1200.5", v.Draft.Amount)

		require.Len(t, v.Rows, 2)
		assert.Equal(t, Row{
			ID:          "1",
			Amount:      "$50.00",
			Category:    "Food",
			Description: "lunch",
			Income:      "❌",
			Date:        "2024-02-01",
		}, v.Rows[0])
		assert.Equal(t, "$1200.50", v.Rows[1].Amount)
		assert.Equal(t, "✅", v.Rows[1].Income)
		assert.True(t, v.Rows[1].Editing)
	})
}
