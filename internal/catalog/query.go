package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"storefront-service/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Page size bounds
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 12
)

var (
	ErrInvalidLimit = fmt.Errorf("limit must be between %d and %d", MinLimit, MaxLimit)
	ErrInvalidSort  = errors.New("unknown sort key")
)

// SortKey selects the listing order
type SortKey int

const (
	SortByName SortKey = iota
	SortByPriceLow
	SortByPriceHigh
)

// ParseSortKey maps the wire value to a SortKey. Empty means name.
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "", "name":
		return SortByName, nil
	case "price-low":
		return SortByPriceLow, nil
	case "price-high":
		return SortByPriceHigh, nil
	default:
		return SortByName, fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
}

func (k SortKey) String() string {
	switch k {
	case SortByName:
		return "name"
	case SortByPriceLow:
		return "price-low"
	case SortByPriceHigh:
		return "price-high"
	default:
		return "unknown"
	}
}

// CategoryFilter is either "any category" or one exact category label
type CategoryFilter struct {
	name string
}

// AnyCategory matches every product
var AnyCategory = CategoryFilter{}

// ParseCategory treats "" and "all" as AnyCategory
func ParseCategory(s string) CategoryFilter {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return AnyCategory
	}
	return CategoryFilter{name: s}
}

// Only returns a filter for exactly one category
func Only(category string) CategoryFilter {
	return CategoryFilter{name: category}
}

func (f CategoryFilter) IsAny() bool {
	return f.name == ""
}

func (f CategoryFilter) Matches(category string) bool {
	return f.IsAny() || f.name == category
}

func (f CategoryFilter) String() string {
	if f.IsAny() {
		return "all"
	}
	return f.name
}

// QueryParams describes one listing request
type QueryParams struct {
	Search   string
	Category CategoryFilter
	SortBy   SortKey
	Cursor   int
	Limit    int
}

// Page is one slice of a listing
type Page struct {
	Items         []models.Product `json:"items"`
	NextCursor    *int             `json:"nextCursor"`
	HasNextPage   bool             `json:"hasNextPage"`
	TotalCount    int              `json:"totalCount"`
	TotalProducts int              `json:"totalProducts"`
}

// Query filters products by search text and category, sorts them and returns one page.
// It never mutates products.
func Query(products []models.Product, params QueryParams) (Page, error) {
	if err := checkLimit(params.Limit); err != nil {
		return Page{}, err
	}

	filtered := filter(products, params.Search, params.Category)
	if err := sortProducts(filtered, params.SortBy); err != nil {
		return Page{}, err
	}

	return paginate(filtered, len(products), params.Cursor, params.Limit), nil
}

func checkLimit(limit int) error {
	if limit < MinLimit || limit > MaxLimit {
		return ErrInvalidLimit
	}
	return nil
}

func filter(products []models.Product, search string, category CategoryFilter) []models.Product {
	needle := strings.ToLower(search)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !category.Matches(p.Category) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// sortProducts sorts in place. Ties keep their relative order so cursors stay stable.
func sortProducts(products []models.Product, key SortKey) error {
	switch key {
	case SortByName:
		// Collators keep internal buffers and are not safe for concurrent use.
		c := collate.New(language.English)
		slices.SortStableFunc(products, func(a, b models.Product) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortByPriceLow:
		slices.SortStableFunc(products, func(a, b models.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortByPriceHigh:
		slices.SortStableFunc(products, func(a, b models.Product) int {
			return b.Price.Cmp(a.Price)
		})
	default:
		return fmt.Errorf("%w: %d", ErrInvalidSort, key)
	}
	return nil
}

func paginate(products []models.Product, totalProducts, cursor, limit int) Page {
	page := Page{
		Items:         []models.Product{},
		TotalCount:    len(products),
		TotalProducts: totalProducts,
	}
	if cursor < 0 || cursor >= len(products) {
		return page
	}

	end := min(cursor+limit, len(products))
	page.Items = slices.Clone(products[cursor:end])
	if end < len(products) {
		next := end
		page.NextCursor = &next
		page.HasNextPage = true
	}
	return page
}
