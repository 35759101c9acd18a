package pricing

import (
	"testing"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNewLine(t *testing.T) {
	snap := Snapshot{ArticleID: "a1", Name: "Consulting", Unit: "hour", UnitPrice: d("100.00"), VATRate: d("21"), DiscountRate: d("10")}

	t.Run("applies discount", func(t *testing.T) {
		line, err := NewLine("l1", snap, 3)
		require.NoError(t, err)
		assert.True(t, line.Total.Equal(d("270.00")), "total = %s", line.Total)
		assert.Equal(t, "Consulting", line.Description)
		assert.Equal(t, "hour", line.Unit)
		assert.Equal(t, "a1", line.ArticleID)
		assert.True(t, line.VATRate.Equal(d("21")))
	})

	t.Run("is deterministic", func(t *testing.T) {
		a, err := NewLine("l1", snap, 7)
		require.NoError(t, err)
		b, err := NewLine("l1", snap, 7)
		require.NoError(t, err)
		assert.True(t, a.Total.Equal(b.Total))
	})

	for _, qty := range []int{0, -1} {
		_, err := NewLine("l1", snap, qty)
		assert.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d", qty)
	}
}

func TestExtendedTotal(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		qty      int
		discount string
		want     string
	}{
		{"no discount", "19.99", 2, "0", "39.98"},
		{"full discount", "50", 4, "100", "0"},
		{"rounds half up", "0.05", 1, "50", "0.03"},
		{"fractional discount", "33.33", 3, "12.5", "87.49"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtendedTotal(d(tt.price), tt.qty, d(tt.discount))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.VATAmount.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestAggregateMixedVAT(t *testing.T) {
	lines := []models.DocumentLine{
		{ID: "1", Quantity: 1, Total: d("100.00"), VATRate: d("21")},
		{ID: "2", Quantity: 1, Total: d("50.00"), VATRate: d("9")},
	}
	got := Aggregate(lines)
	assert.True(t, got.Subtotal.Equal(d("150.00")), "subtotal %s", got.Subtotal)
	assert.True(t, got.VATAmount.Equal(d("25.50")), "vat %s", got.VATAmount)
	assert.True(t, got.Total.Equal(d("175.50")), "total %s", got.Total)
}

func TestAggregateRoundsVATSumOnce(t *testing.T) {
	lines := []models.DocumentLine{
		{ID: "1", Quantity: 1, Total: d("0.10"), VATRate: d("15")},
		{ID: "2", Quantity: 1, Total: d("0.10"), VATRate: d("15")},
		{ID: "3", Quantity: 1, Total: d("0.10"), VATRate: d("15")},
	}
	assert.True(t, LineVAT(lines[0]).Equal(d("0.015")), "line vat %s", LineVAT(lines[0]))
	got := Aggregate(lines)
	assert.True(t, got.Subtotal.Equal(d("0.30")), "subtotal %s", got.Subtotal)
	assert.True(t, got.VATAmount.Equal(d("0.05")), "vat %s", got.VATAmount)
	assert.True(t, got.Total.Equal(d("0.35")), "total %s", got.Total)
}

func TestTotalsApplyAndOf(t *testing.T) {
	doc := &models.Document{}
	tot := Totals{Subtotal: d("10"), VATAmount: d("2.10"), Total: d("12.10")}
	tot.Apply(doc)
	assert.True(t, Of(doc).Equal(tot))
	assert.False(t, Of(doc).Equal(Totals{Subtotal: d("10"), VATAmount: d("2.10"), Total: d("12.11")}))
}
