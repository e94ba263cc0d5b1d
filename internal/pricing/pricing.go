package pricing

import (
	"strings"

	"storefront-service/internal/models"

	"github.com/shopspring/decimal"
)

var (
	DefaultTaxRate    = decimal.RequireFromString("0.08")
	CaliforniaTaxRate = decimal.RequireFromString("0.0975")
	NewYorkTaxRate    = decimal.RequireFromString("0.08")

	StandardShipping = decimal.RequireFromString("9.99")

	// Checkout charges and quotes ship free above this subtotal
	CheckoutFreeShippingThreshold = decimal.NewFromInt(100)
	// The on-screen cart estimate uses the lower advertised threshold
	SummaryFreeShippingThreshold = decimal.NewFromInt(50)
)

// Places is the rounding precision for every money amount
const Places = 2

// Totals is a priced cart. Total is the sum of the rounded components.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Quote is a destination-aware price estimate
type Quote struct {
	Totals
	TaxRate               decimal.Decimal `json:"taxRate"`
	FreeShippingEligible  bool            `json:"freeShippingEligible"`
	FreeShippingRemaining decimal.Decimal `json:"freeShippingRemaining"`
}

// Subtotal sums price times quantity without rounding
func Subtotal(items []models.CheckoutItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

func compute(items []models.CheckoutItem, rate, freeAbove decimal.Decimal) (Totals, decimal.Decimal) {
	subtotal := Subtotal(items)

	shipping := StandardShipping
	if subtotal.GreaterThan(freeAbove) {
		shipping = decimal.Zero
	}

	t := Totals{
		Subtotal: subtotal.Round(Places),
		Tax:      subtotal.Mul(rate).Round(Places),
		Shipping: shipping.Round(Places),
	}
	t.Total = t.Subtotal.Add(t.Tax).Add(t.Shipping)
	return t, subtotal
}

// CheckoutTotals prices an order at commit time: flat 8% tax, free shipping over 100
func CheckoutTotals(items []models.CheckoutItem) Totals {
	t, _ := compute(items, DefaultTaxRate, CheckoutFreeShippingThreshold)
	return t
}

// CartSummary is the checkout page estimate: flat 8% tax, free shipping over 50
func CartSummary(items []models.CheckoutItem) Totals {
	t, _ := compute(items, DefaultTaxRate, SummaryFreeShippingThreshold)
	return t
}

// TaxRate returns the rate for a destination. A nil address gets the default.
func TaxRate(addr *models.QuoteAddress) decimal.Decimal {
	if addr == nil {
		return DefaultTaxRate
	}
	switch strings.TrimSpace(addr.State) {
	case "CA":
		return CaliforniaTaxRate
	case "NY":
		return NewYorkTaxRate
	default:
		return DefaultTaxRate
	}
}

// QuoteTotals prices a cart for an optional destination
func QuoteTotals(items []models.CheckoutItem, addr *models.QuoteAddress) Quote {
	rate := TaxRate(addr)
	t, subtotal := compute(items, rate, CheckoutFreeShippingThreshold)

	q := Quote{
		Totals:                t,
		TaxRate:               rate,
		FreeShippingEligible:  subtotal.GreaterThan(CheckoutFreeShippingThreshold),
		FreeShippingRemaining: decimal.Zero,
	}
	if subtotal.LessThan(CheckoutFreeShippingThreshold) {
		q.FreeShippingRemaining = CheckoutFreeShippingThreshold.Sub(subtotal).Round(Places)
	}
	return q
}
