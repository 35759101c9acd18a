// Package pricing computes document line amounts and document totals.
// Everything here is pure: no I/O, no clock, no shared state.
package pricing

import (
	"errors"
	"fmt"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when a line quantity is below one.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// CurrencyPlaces is the precision amounts are rounded to.
const CurrencyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Snapshot is the article data copied onto a line when it is added.
type Snapshot struct {
	ArticleID    string
	Name         string
	Unit         string
	UnitPrice    decimal.Decimal
	VATRate      decimal.Decimal
	DiscountRate decimal.Decimal
}

// SnapshotOf copies the pricing fields of a.
func SnapshotOf(a *models.Article) Snapshot {
	return Snapshot{
		ArticleID:    a.ID,
		Name:         a.Name,
		Unit:         a.Unit,
		UnitPrice:    a.UnitPrice,
		VATRate:      a.VATRate,
		DiscountRate: a.DiscountRate,
	}
}

// ExtendedTotal returns unitPrice * quantity * (1 - discount/100) rounded to
// cents.
func ExtendedTotal(unitPrice decimal.Decimal, quantity int, discountRate decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discountRate.Div(hundred))
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Mul(factor).Round(CurrencyPlaces)
}

// NewLine builds a document line for quantity units of the snapshotted
// article.
func NewLine(id string, s Snapshot, quantity int) (models.DocumentLine, error) {
	if quantity < 1 {
		return models.DocumentLine{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	return models.DocumentLine{
		ID:           id,
		ArticleID:    s.ArticleID,
		Description:  s.Name,
		Quantity:     quantity,
		Unit:         s.Unit,
		UnitPrice:    s.UnitPrice,
		VATRate:      s.VATRate,
		DiscountRate: s.DiscountRate,
		Total:        ExtendedTotal(s.UnitPrice, quantity, s.DiscountRate),
	}, nil
}
