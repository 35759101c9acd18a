package pricing

import (
	"github.com/diewo77/go-crm/internal/models"
	"github.com/shopspring/decimal"
)

// Totals is the aggregate of a document's lines.
type Totals struct {
	Subtotal  decimal.Decimal
	VATAmount decimal.Decimal
	Total     decimal.Decimal
}

// LineVAT returns the unrounded VAT owed on a single line.
func LineVAT(l models.DocumentLine) decimal.Decimal {
	return l.Total.Mul(l.VATRate).Div(hundred)
}

// Aggregate folds lines, in order, into subtotal, VAT and grand total. VAT is
// computed per line so documents may mix rates, and the sum is rounded to
// cents once.
func Aggregate(lines []models.DocumentLine) Totals {
	subtotal := decimal.Zero
	vat := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total)
		vat = vat.Add(LineVAT(l))
	}
	vat = vat.Round(CurrencyPlaces)
	return Totals{
		Subtotal:  subtotal,
		VATAmount: vat,
		Total:     subtotal.Add(vat),
	}
}

// Apply stores t on d.
func (t Totals) Apply(d *models.Document) {
	d.Subtotal = t.Subtotal
	d.VATAmount = t.VATAmount
	d.Total = t.Total
}

// Of returns the totals cached on d.
func Of(d *models.Document) Totals {
	return Totals{Subtotal: d.Subtotal, VATAmount: d.VATAmount, Total: d.Total}
}

// Equal reports whether both totals hold the same amounts.
func (t Totals) Equal(o Totals) bool {
	return t.Subtotal.Equal(o.Subtotal) && t.VATAmount.Equal(o.VATAmount) && t.Total.Equal(o.Total)
}
