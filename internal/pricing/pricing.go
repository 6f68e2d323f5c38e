// Package pricing computes cart totals the same way the storefront does:
// a platform fee is charged once the subtotal goes above the threshold.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/prathvinaik206-create/farmdirect/internal/models"
)

var (
	// FeeThreshold is the subtotal above which the platform fee applies.
	FeeThreshold = decimal.NewFromInt(100)
	// FeeRate is the platform fee as a fraction of the subtotal.
	FeeRate = decimal.NewFromFloat(0.05)
)

// Quote is the price breakdown for a cart.
type Quote struct {
	Subtotal    float64 `json:"subtotal"`
	PlatformFee float64 `json:"platformFee"`
	Total       float64 `json:"total"`
}

// LineTotal returns price × quantity for one line item.
func LineTotal(item models.OrderItem) decimal.Decimal {
	return decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Subtotal sums the line totals of items.
func Subtotal(items []models.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineTotal(item))
	}
	return sum
}

// Fee returns the platform fee owed on subtotal, rounded to paise.
func Fee(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.GreaterThan(FeeThreshold) {
		return decimal.Zero
	}
	return subtotal.Mul(FeeRate).Round(2)
}

// QuoteItems prices a cart.
func QuoteItems(items []models.OrderItem) Quote {
	subtotal := Subtotal(items)
	fee := Fee(subtotal)
	return Quote{
		Subtotal:    subtotal.Round(2).InexactFloat64(),
		PlatformFee: fee.InexactFloat64(),
		Total:       subtotal.Add(fee).Round(2).InexactFloat64(),
	}
}

// Matches reports whether a client supplied total agrees with the quote to
// within one paisa.
func (q Quote) Matches(total float64) bool {
	diff := decimal.NewFromFloat(q.Total).Sub(decimal.NewFromFloat(total)).Abs()
	return diff.LessThanOrEqual(decimal.New(1, -2))
}
