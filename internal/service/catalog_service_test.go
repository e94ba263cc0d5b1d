package service

import (
	"context"
	"encoding/json"
	"testing"

	"storefront-service/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://shop.example.com"

func newCatalogService(t *testing.T) *CatalogService {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return NewCatalogService(c, testBaseURL)
}

func TestGetByIDIsIdempotent(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	first, err := svc.GetByID(ctx, 3)
	require.NoError(t, err)
	second, err := svc.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = svc.GetByID(ctx, 4040)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetByCategory(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	related, err := svc.GetByCategory(ctx, "Electronics", 1, 0)
	require.NoError(t, err)
	assert.Len(t, related, DefaultRelatedLimit)
	for _, p := range related {
		assert.NotEqual(t, int64(1), p.ID)
		assert.Equal(t, "Electronics", p.Category)
	}

	all, err := svc.GetByCategory(ctx, "ELECTRONICS", 0, 100)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	_, err = svc.GetByCategory(ctx, "Electronics", 0, 101)
	assert.ErrorIs(t, err, catalog.ErrInvalidLimit)
}

func TestSearch(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	page, err := svc.Search(ctx, catalog.QueryParams{
		Search:   "wireless",
		Category: catalog.Only("Electronics"),
		SortBy:   catalog.SortByPriceLow,
		Limit:    2,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(11), page.Items[0].ID)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 24, page.TotalProducts)

	_, err = svc.Search(ctx, catalog.QueryParams{Limit: 0})
	assert.ErrorIs(t, err, catalog.ErrInvalidLimit)
}

func TestListings(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	assert.Len(t, svc.GetAll(ctx), 24)
	assert.Len(t, svc.GetFeatured(ctx), 4)
	assert.Len(t, svc.GetCategories(ctx), 13)
	assert.Len(t, svc.GetFeatures(ctx), 4)

	page, err := svc.GetPaginated(ctx, 0, catalog.DefaultLimit)
	require.NoError(t, err)
	assert.Len(t, page.Items, 12)
}

func TestProductJSONLD(t *testing.T) {
	svc := newCatalogService(t)

	ld, err := svc.GetProductJSONLD(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "https://schema.org", ld.Context)
	assert.Equal(t, "Product", ld.Type)
	assert.Equal(t, "Premium Wireless Headphones", ld.Name)
	assert.Equal(t, "1", ld.MPN)
	assert.Equal(t, StoreName, ld.Brand.Name)
	require.Len(t, ld.Offers, 1)

	offer := ld.Offers[0]
	assert.Equal(t, "199.99", offer.Price)
	assert.Equal(t, "USD", offer.PriceCurrency)
	assert.Equal(t, "https://schema.org/InStock", offer.Availability)
	assert.Equal(t, "https://schema.org/NewCondition", offer.ItemCondition)
	assert.Equal(t, testBaseURL+"/product/1", offer.URL)
	assert.Equal(t, StoreName, offer.Seller.Name)

	raw, err := json.Marshal(ld)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"@context":"https://schema.org"`)

	_, err = svc.GetProductJSONLD(context.Background(), 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestNewsletterSubscribe(t *testing.T) {
	ns := NewNewsletterService()
	ctx := context.Background()

	assert.True(t, ns.Subscribe(ctx, "Jane@Example.com"))
	assert.False(t, ns.Subscribe(ctx, " jane@example.com "))
	assert.Equal(t, 1, ns.Count())
}
