package pricing

import (
	"encoding/json"
	"testing"

	"storefront-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id int64, qty int, price string) models.CheckoutItem {
	return models.CheckoutItem{ProductID: id, Quantity: qty, Price: decimal.RequireFromString(price)}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), append([]interface{}{"want %s got %s", want, got.String()}, msgAndArgs...)...)
}

func TestCheckoutTotals(t *testing.T) {
	totals := CheckoutTotals([]models.CheckoutItem{item(1, 2, "10.00")})

	assertMoney(t, "20.00", totals.Subtotal)
	assertMoney(t, "1.60", totals.Tax)
	assertMoney(t, "9.99", totals.Shipping)
	assertMoney(t, "31.59", totals.Total)
}

func TestCheckoutFreeShippingAbove100(t *testing.T) {
	exactly := CheckoutTotals([]models.CheckoutItem{item(1, 1, "100.00")})
	assertMoney(t, "9.99", exactly.Shipping)

	above := CheckoutTotals([]models.CheckoutItem{item(1, 1, "100.01")})
	assertMoney(t, "0", above.Shipping)
	assertMoney(t, "8.00", above.Tax)
	assertMoney(t, "108.01", above.Total)
}

func TestTotalIsSumOfRoundedParts(t *testing.T) {
	items := []models.CheckoutItem{item(1, 3, "33.33"), item(2, 7, "0.07"), item(3, 1, "19.99")}

	for _, totals := range []Totals{CheckoutTotals(items), CartSummary(items), QuoteTotals(items, &models.QuoteAddress{State: "CA"}).Totals} {
		assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.Tax).Add(totals.Shipping)))
		for _, d := range []decimal.Decimal{totals.Subtotal, totals.Tax, totals.Shipping, totals.Total} {
			assert.True(t, d.Equal(d.Round(Places)), d.String())
		}
	}
}

func TestCartSummaryUsesLowerThreshold(t *testing.T) {
	items := []models.CheckoutItem{item(1, 1, "60.00")}

	summary := CartSummary(items)
	assertMoney(t, "0", summary.Shipping)
	assertMoney(t, "4.80", summary.Tax)
	assertMoney(t, "64.80", summary.Total)

	checkout := CheckoutTotals(items)
	assertMoney(t, "9.99", checkout.Shipping)

	assertMoney(t, "9.99", CartSummary([]models.CheckoutItem{item(1, 1, "50.00")}).Shipping)
}

func TestQuoteTaxRates(t *testing.T) {
	items := []models.CheckoutItem{item(1, 1, "40.00")}

	ca := QuoteTotals(items, &models.QuoteAddress{State: "CA", Country: "US"})
	assertMoney(t, "3.90", ca.Tax)
	assertMoney(t, "0.0975", ca.TaxRate)
	assertMoney(t, "53.89", ca.Total)

	ny := QuoteTotals(items, &models.QuoteAddress{State: "NY"})
	assertMoney(t, "3.20", ny.Tax)

	tx := QuoteTotals(items, &models.QuoteAddress{State: "TX"})
	assertMoney(t, "3.20", tx.Tax)

	none := QuoteTotals(items, nil)
	assertMoney(t, "0.08", none.TaxRate)
}

func TestQuoteFreeShipping(t *testing.T) {
	under := QuoteTotals([]models.CheckoutItem{item(1, 1, "72.50")}, nil)
	assert.False(t, under.FreeShippingEligible)
	assertMoney(t, "27.50", under.FreeShippingRemaining)

	exactly := QuoteTotals([]models.CheckoutItem{item(1, 4, "25.00")}, nil)
	assert.False(t, exactly.FreeShippingEligible)
	assertMoney(t, "0", exactly.FreeShippingRemaining)
	assertMoney(t, "9.99", exactly.Shipping)

	over := QuoteTotals([]models.CheckoutItem{item(1, 1, "150.00")}, nil)
	assert.True(t, over.FreeShippingEligible)
	assertMoney(t, "0", over.FreeShippingRemaining)
	assertMoney(t, "0", over.Shipping)
}

func TestEmptyCart(t *testing.T) {
	totals := CheckoutTotals(nil)
	assertMoney(t, "0", totals.Subtotal)
	assertMoney(t, "9.99", totals.Shipping)
	assertMoney(t, "9.99", totals.Total)
}

func TestQuoteJSONIsFlat(t *testing.T) {
	q := QuoteTotals([]models.CheckoutItem{item(1, 2, "10.00")}, nil)

	raw, err := json.Marshal(q)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	for _, key := range []string{"subtotal", "tax", "shipping", "total", "taxRate", "freeShippingEligible", "freeShippingRemaining"} {
		assert.Contains(t, out, key)
	}
	assert.Equal(t, 31.59, out["total"])
}
