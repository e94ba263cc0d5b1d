package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
	"storefront-service/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 14, 15, 30, 0, 0, time.UTC)

type memoryGuard struct {
	mu    sync.Mutex
	keys  map[string]string
	locks map[string]bool
}

func (g *memoryGuard) GetIdempotencyKey(ctx context.Context, key string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.keys[key]
	return id, ok, nil
}

func (g *memoryGuard) SetIdempotencyKey(ctx context.Context, key, orderID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.keys[key] = orderID
	return nil
}

func (g *memoryGuard) AcquireLock(ctx context.Context, key string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.locks[key] {
		return "", false, nil
	}
	g.locks[key] = true
	return key, true, nil
}

func (g *memoryGuard) ReleaseLock(ctx context.Context, key, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.locks, key)
	return nil
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func setupServer(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := catalog.Default()
	require.NoError(t, err)

	v, err := validation.NewCheckoutValidator(func() time.Time { return testNow })
	require.NoError(t, err)

	guard := &memoryGuard{keys: make(map[string]string), locks: make(map[string]bool)}
	checkout := service.NewCheckoutService(v, store.NewMemoryOrderStore(), service.NewPaymentService(0),
		service.WithIdempotency(guard))

	h := NewHandler(service.NewCatalogService(c, "https://shop.example.com"), checkout)
	router := gin.New()
	h.SetupRoutes(router)
	return router, h
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func checkoutBody() map[string]any {
	return map[string]any{
		"email": "jane@example.com",
		"shipping": map[string]any{
			"firstName": "Jane", "lastName": "Doe", "address": "123 Main Street", "city": "Springfield",
			"state": "CA", "zipCode": "12345", "country": "US", "phone": "555-123-4567",
		},
		"billingAddress": map[string]any{"sameAsShipping": true},
		"payment": map[string]any{
			"cardNumber": "4111111111111111", "expiryMonth": "12",
			"expiryYear": strconv.Itoa(testNow.Year() + 1), "cvv": "123", "cardholderName": "Jane Doe",
		},
		"newsletter": true,
		"terms":      true,
		"items":      []map[string]any{{"productId": 1, "quantity": 2, "price": 10.00}},
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestReadiness(t *testing.T) {
	r, h := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	h.AddReadinessCheck("redis", pingFunc(func(ctx context.Context) error { return errors.New("connection refused") }))
	w = doJSON(t, r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "connection refused", body["dependencies"].(map[string]any)["redis"])
}

func TestListProducts(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/products?limit=4&sortBy=price-high", nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := decode[map[string]any](t, w)
	items := page["items"].([]any)
	require.Len(t, items, 4)
	assert.Equal(t, float64(4), items[0].(map[string]any)["id"])
	assert.Equal(t, float64(4), page["nextCursor"])
	assert.Equal(t, true, page["hasNextPage"])
	assert.Equal(t, float64(24), page["totalCount"])
	assert.Equal(t, float64(24), page["totalProducts"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/products?search=wireless&category=Electronics&sortBy=price-low", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[map[string]any](t, w)
	assert.Len(t, page["items"], 3)
	assert.Nil(t, page["nextCursor"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string]any](t, w)["items"], catalog.DefaultLimit)
}

func TestListProductsRejectsBadQuery(t *testing.T) {
	r, _ := setupServer(t)

	for _, q := range []string{"limit=0", "limit=101", "limit=abc", "sortBy=rating", "cursor=x"} {
		w := doJSON(t, r, http.MethodGet, "/api/v1/products?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestCatalogListings(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/products/all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]any](t, w), 24)

	w = doJSON(t, r, http.MethodGet, "/api/v1/products/featured", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]any](t, w), 4)

	w = doJSON(t, r, http.MethodGet, "/api/v1/products/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cats := decode[[]string](t, w)
	assert.Len(t, cats, 13)
	assert.Equal(t, "Electronics", cats[0])

	w = doJSON(t, r, http.MethodGet, "/api/v1/products/paginated?cursor=20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[map[string]any](t, w)
	assert.Len(t, page["items"], 4)
	assert.Equal(t, false, page["hasNextPage"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/storefront/features", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]any](t, w), 4)
}

func TestGetProduct(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	product := decode[map[string]any](t, w)
	assert.Equal(t, "Premium Wireless Headphones", product["name"])
	assert.Equal(t, 199.99, product["price"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/products/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decode[map[string]any](t, w)["error"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductJSONLD(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/products/2/jsonld", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/ld+json"))

	ld := decode[map[string]any](t, w)
	assert.Equal(t, "Product", ld["@type"])
	offer := ld["offers"].([]any)[0].(map[string]any)
	assert.Equal(t, "https://shop.example.com/product/2", offer["url"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/products/999/jsonld", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductsByCategory(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/categories/electronics/products?excludeId=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode[[]map[string]any](t, w)
	require.Len(t, products, 4)
	for _, p := range products {
		assert.NotEqual(t, float64(1), p["id"])
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/categories/Electronics/products?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutFlow(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/checkout", checkoutBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	result := decode[map[string]any](t, w)
	assert.Equal(t, true, result["success"])
	assert.Equal(t, "Order placed successfully!", result["message"])

	order := result["order"].(map[string]any)
	assert.Equal(t, 20.0, order["subtotal"])
	assert.Equal(t, 1.6, order["tax"])
	assert.Equal(t, 9.99, order["shipping"])
	assert.Equal(t, 31.59, order["total"])
	assert.Equal(t, "pending", order["status"])
	assert.NotContains(t, order["billingAddress"], "phone")

	orderID := result["orderId"].(string)
	w = doJSON(t, r, http.MethodGet, "/api/v1/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, orderID, decode[map[string]any](t, w)["id"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/orders/ORD-missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", decode[map[string]any](t, w)["error"])
}

func TestCheckoutIdempotencyKey(t *testing.T) {
	r, _ := setupServer(t)

	first := doJSON(t, r, http.MethodPost, "/api/v1/checkout", checkoutBody(), IdempotencyHeader, "abc-123")
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, r, http.MethodPost, "/api/v1/checkout", checkoutBody(), IdempotencyHeader, "abc-123")
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, decode[map[string]any](t, first)["orderId"], decode[map[string]any](t, second)["orderId"])
}

func TestCheckoutValidationErrors(t *testing.T) {
	r, _ := setupServer(t)

	body := checkoutBody()
	body["terms"] = false
	body["billingAddress"] = map[string]any{"sameAsShipping": false}

	w := doJSON(t, r, http.MethodPost, "/api/v1/checkout", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decode[struct {
		Error      string                 `json:"error"`
		Violations []validation.Violation `json:"violations"`
	}](t, w)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Len(t, resp.Violations, 8)
	assert.Equal(t, []string{"terms"}, resp.Violations[0].Path)
}

func TestCheckoutMalformedBody(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/checkout", `{"email": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/checkout", `{"items": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateCheckout(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/checkout/validate", checkoutBody())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["valid"])

	body := checkoutBody()
	body["email"] = "nope"
	w = doJSON(t, r, http.MethodPost, "/api/v1/checkout/validate", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTotalsAndSummary(t *testing.T) {
	r, _ := setupServer(t)
	items := []map[string]any{{"productId": 1, "quantity": 1, "price": 40}}

	w := doJSON(t, r, http.MethodPost, "/api/v1/checkout/totals", map[string]any{
		"items":           items,
		"shippingAddress": map[string]any{"state": "CA", "country": "US"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	quote := decode[map[string]any](t, w)
	assert.Equal(t, 3.9, quote["tax"])
	assert.Equal(t, 53.89, quote["total"])
	assert.Equal(t, false, quote["freeShippingEligible"])
	assert.Equal(t, 60.0, quote["freeShippingRemaining"])

	w = doJSON(t, r, http.MethodPost, "/api/v1/cart/summary", map[string]any{
		"items": []map[string]any{{"productId": 1, "quantity": 3, "price": 20}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[map[string]any](t, w)
	assert.Equal(t, 0.0, summary["shipping"])
	assert.Equal(t, 64.8, summary["total"])

	w = doJSON(t, r, http.MethodPost, "/api/v1/cart/summary", map[string]any{
		"items": []map[string]any{{"productId": 1, "quantity": 0, "price": 20}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
