package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// DefaultRelatedLimit is how many related products a product page shows
const DefaultRelatedLimit = 4

var ErrProductNotFound = errors.New("product not found")

// CatalogService serves read-only catalog queries
type CatalogService struct {
	catalog *catalog.Catalog
	baseURL string
	logger  *zap.Logger
}

// NewCatalogService creates a catalog service. baseURL prefixes product page links.
func NewCatalogService(c *catalog.Catalog, baseURL string) *CatalogService {
	return &CatalogService{
		catalog: c,
		baseURL: baseURL,
		logger:  util.GetLogger(),
	}
}

// GetAll returns every product in catalog order
func (s *CatalogService) GetAll(ctx context.Context) []models.Product {
	_, span := util.StartSpan(ctx, "CatalogService.GetAll")
	defer span.End()

	util.CatalogRequestsTotal.WithLabelValues("all").Inc()
	return s.catalog.All()
}

// GetPaginated returns one unfiltered page in catalog order
func (s *CatalogService) GetPaginated(ctx context.Context, cursor, limit int) (catalog.Page, error) {
	_, span := util.StartSpan(ctx, "CatalogService.GetPaginated")
	defer span.End()

	util.CatalogRequestsTotal.WithLabelValues("paginated").Inc()
	return s.catalog.Paginate(cursor, limit)
}

// Search runs a filtered, sorted, paginated listing
func (s *CatalogService) Search(ctx context.Context, params catalog.QueryParams) (catalog.Page, error) {
	_, span := util.StartSpan(ctx, "CatalogService.Search")
	defer span.End()

	start := time.Now()
	page, err := s.catalog.Query(params)
	util.CatalogQueryLatency.WithLabelValues(params.SortBy.String()).Observe(time.Since(start).Seconds())
	util.CatalogRequestsTotal.WithLabelValues("search").Inc()
	if err != nil {
		return catalog.Page{}, err
	}

	s.logger.Debug("Catalog query",
		zap.String("search", params.Search),
		zap.String("category", params.Category.String()),
		zap.String("sort_by", params.SortBy.String()),
		zap.Int("cursor", params.Cursor),
		zap.Int("limit", params.Limit),
		zap.Int("matched", page.TotalCount),
	)
	return page, nil
}

// GetByID returns one product or ErrProductNotFound
func (s *CatalogService) GetByID(ctx context.Context, id int64) (models.Product, error) {
	_, span := util.StartSpan(ctx, "CatalogService.GetByID")
	defer span.End()

	util.CatalogRequestsTotal.WithLabelValues("by_id").Inc()
	p, ok := s.catalog.ByID(id)
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return p, nil
}

// GetByCategory returns related products. limit 0 means DefaultRelatedLimit.
func (s *CatalogService) GetByCategory(ctx context.Context, category string, excludeID int64, limit int) ([]models.Product, error) {
	_, span := util.StartSpan(ctx, "CatalogService.GetByCategory")
	defer span.End()

	if limit == 0 {
		limit = DefaultRelatedLimit
	}
	if limit < catalog.MinLimit || limit > catalog.MaxLimit {
		return nil, catalog.ErrInvalidLimit
	}

	util.CatalogRequestsTotal.WithLabelValues("by_category").Inc()
	return s.catalog.Related(category, excludeID, limit), nil
}

// GetFeatured returns the home page products
func (s *CatalogService) GetFeatured(ctx context.Context) []models.Product {
	_, span := util.StartSpan(ctx, "CatalogService.GetFeatured")
	defer span.End()

	util.CatalogRequestsTotal.WithLabelValues("featured").Inc()
	return s.catalog.Featured()
}

// GetCategories returns each category once
func (s *CatalogService) GetCategories(ctx context.Context) []string {
	_, span := util.StartSpan(ctx, "CatalogService.GetCategories")
	defer span.End()

	util.CatalogRequestsTotal.WithLabelValues("categories").Inc()
	return s.catalog.Categories()
}

// GetFeatures returns the storefront banner
func (s *CatalogService) GetFeatures(ctx context.Context) []models.Feature {
	_, span := util.StartSpan(ctx, "CatalogService.GetFeatures")
	defer span.End()

	return s.catalog.Features()
}

// GetProductJSONLD returns schema.org markup for a product page
func (s *CatalogService) GetProductJSONLD(ctx context.Context, id int64) (ProductJSONLD, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProductJSONLD")
	defer span.End()

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return ProductJSONLD{}, err
	}
	return NewProductJSONLD(p, s.baseURL), nil
}
