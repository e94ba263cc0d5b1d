package service

import (
	"fmt"
	"strconv"
	"strings"

	"storefront-service/internal/models"
)

// StoreName is the brand and seller on structured data
const StoreName = "YupStore"

const (
	schemaContext       = "https://schema.org"
	conditionNew        = "https://schema.org/NewCondition"
	availabilityInStock = "https://schema.org/InStock"
	currencyUSD         = "USD"
)

type JSONLDName struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type JSONLDOffer struct {
	Type          string     `json:"@type"`
	Price         string     `json:"price"`
	PriceCurrency string     `json:"priceCurrency"`
	ItemCondition string     `json:"itemCondition"`
	Availability  string     `json:"availability"`
	URL           string     `json:"url"`
	Seller        JSONLDName `json:"seller"`
}

// ProductJSONLD is schema.org Product markup
type ProductJSONLD struct {
	Context     string        `json:"@context"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	Image       []string      `json:"image"`
	Description string        `json:"description"`
	MPN         string        `json:"mpn"`
	Brand       JSONLDName    `json:"brand"`
	Offers      []JSONLDOffer `json:"offers"`
}

func NewProductJSONLD(p models.Product, baseURL string) ProductJSONLD {
	id := strconv.FormatInt(p.ID, 10)
	return ProductJSONLD{
		Context:     schemaContext,
		Type:        "Product",
		Name:        p.Name,
		Image:       []string{p.Image},
		Description: p.Description,
		MPN:         id,
		Brand:       JSONLDName{Type: "Brand", Name: StoreName},
		Offers: []JSONLDOffer{{
			Type:          "Offer",
			Price:         p.Price.String(),
			PriceCurrency: currencyUSD,
			ItemCondition: conditionNew,
			Availability:  availabilityInStock,
			URL:           fmt.Sprintf("%s/product/%s", strings.TrimRight(baseURL, "/"), id),
			Seller:        JSONLDName{Type: "Organization", Name: StoreName},
		}},
	}
}
