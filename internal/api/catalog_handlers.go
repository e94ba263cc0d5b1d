package api

import (
	"net/http"
	"strconv"

	"storefront-service/internal/catalog"

	"github.com/gin-gonic/gin"
)

type pageQuery struct {
	Limit  int `form:"limit,default=12"`
	Cursor int `form:"cursor,default=0"`
}

type listQuery struct {
	pageQuery
	Search   string `form:"search"`
	Category string `form:"category"`
	SortBy   string `form:"sortBy"`
}

type relatedQuery struct {
	Limit     int   `form:"limit,default=4"`
	ExcludeID int64 `form:"excludeId,default=0"`
}

// listProducts handles filtered, sorted, paginated listings
func (h *Handler) listProducts(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}

	sortBy, err := catalog.ParseSortKey(q.SortBy)
	if err != nil {
		h.respondError(c, err, "Failed to list products")
		return
	}

	page, err := h.catalogService.Search(c.Request.Context(), catalog.QueryParams{
		Search:   q.Search,
		Category: catalog.ParseCategory(q.Category),
		SortBy:   sortBy,
		Cursor:   q.Cursor,
		Limit:    q.Limit,
	})
	if err != nil {
		h.respondError(c, err, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) allProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogService.GetAll(c.Request.Context()))
}

// paginatedProducts pages the catalog in its stored order
func (h *Handler) paginatedProducts(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}

	page, err := h.catalogService.GetPaginated(c.Request.Context(), q.Cursor, q.Limit)
	if err != nil {
		h.respondError(c, err, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       page.Items,
		"nextCursor":  page.NextCursor,
		"hasNextPage": page.HasNextPage,
		"totalCount":  page.TotalCount,
	})
}

func (h *Handler) featuredProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogService.GetFeatured(c.Request.Context()))
}

func (h *Handler) categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogService.GetCategories(c.Request.Context()))
}

func (h *Handler) features(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogService.GetFeatures(c.Request.Context()))
}

func parseProductID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid product ID", err)
		return 0, false
	}
	return id, true
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	product, err := h.catalogService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get product")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *Handler) getProductJSONLD(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	ld, err := h.catalogService.GetProductJSONLD(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get product")
		return
	}

	c.Header("Content-Type", "application/ld+json; charset=utf-8")
	c.JSON(http.StatusOK, ld)
}

// productsByCategory returns related products for a product page
func (h *Handler) productsByCategory(c *gin.Context) {
	var q relatedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}

	products, err := h.catalogService.GetByCategory(c.Request.Context(), c.Param("category"), q.ExcludeID, q.Limit)
	if err != nil {
		h.respondError(c, err, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, products)
}
