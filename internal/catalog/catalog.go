package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"storefront-service/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var defaultCatalog []byte

// FeaturedCount is how many products the home page features
const FeaturedCount = 4

// Catalog is an immutable product list loaded once at start-up
type Catalog struct {
	products []models.Product
	byID     map[int64]int
	features []models.Feature
}

type fileFormat struct {
	Features []models.Feature `yaml:"features"`
	Products []productRow     `yaml:"products"`
}

type productRow struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Category    string `yaml:"category"`
}

// Default returns the catalog embedded in the binary
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a catalog from a YAML file
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML catalog
func Load(r io.Reader) (*Catalog, error) {
	var file fileFormat
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]models.Product, 0, len(file.Products))
	for _, row := range file.Products {
		price, err := decimal.NewFromString(row.Price)
		if err != nil {
			return nil, fmt.Errorf("product %d: invalid price %q: %w", row.ID, row.Price, err)
		}
		products = append(products, models.Product{
			ID:          row.ID,
			Name:        row.Name,
			Price:       price,
			Description: row.Description,
			Image:       row.Image,
			Category:    row.Category,
		})
	}

	return New(products, file.Features)
}

// New builds a catalog, rejecting duplicate or non-positive ids and non-positive prices
func New(products []models.Product, features []models.Feature) (*Catalog, error) {
	byID := make(map[int64]int, len(products))
	for i, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("product %q: id must be positive", p.Name)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		if !p.Price.IsPositive() {
			return nil, fmt.Errorf("product %d: price must be positive", p.ID)
		}
		byID[p.ID] = i
	}

	return &Catalog{
		products: slices.Clone(products),
		byID:     byID,
		features: slices.Clone(features),
	}, nil
}

// All returns every product in catalog order
func (c *Catalog) All() []models.Product {
	return slices.Clone(c.products)
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// ByID looks up a product
func (c *Catalog) ByID(id int64) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// Featured returns the first FeaturedCount products
func (c *Catalog) Featured() []models.Product {
	n := min(FeaturedCount, len(c.products))
	return slices.Clone(c.products[:n])
}

// Categories returns each distinct category once, in order of first appearance
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Features returns the storefront banner entries
func (c *Catalog) Features() []models.Feature {
	return slices.Clone(c.features)
}

// Related returns up to limit products in category, excluding excludeID.
// Category comparison ignores case.
func (c *Catalog) Related(category string, excludeID int64, limit int) []models.Product {
	return Related(c.products, category, excludeID, limit)
}

// Query runs a filtered, sorted, paginated listing over the catalog
func (c *Catalog) Query(params QueryParams) (Page, error) {
	return Query(c.products, params)
}

// Paginate slices the catalog in its stored order
func (c *Catalog) Paginate(cursor, limit int) (Page, error) {
	if err := checkLimit(limit); err != nil {
		return Page{}, err
	}
	return paginate(c.products, len(c.products), cursor, limit), nil
}

// Related returns up to limit products of the category in list order, skipping excludeID
func Related(products []models.Product, category string, excludeID int64, limit int) []models.Product {
	out := make([]models.Product, 0, max(limit, 0))
	if limit <= 0 {
		return out
	}
	for _, p := range products {
		if p.ID == excludeID || !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}
