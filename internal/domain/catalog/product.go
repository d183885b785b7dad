package catalog

import (
	"fmt"
	"strings"
)

// Availability is the stock state of a catalog entry.
type Availability string

// Availability constants.
const (
	InStock      Availability = "in_stock"
	LimitedStock Availability = "limited_stock"
	OutOfStock   Availability = "out_of_stock"
)

// IsValid checks if the availability is one of the supported values.
func (a Availability) IsValid() bool {
	return a == InStock || a == LimitedStock || a == OutOfStock
}

// Product is an immutable catalog entry. Created at catalog load,
// never mutated at request time.
type Product struct {
	id             string
	title          string
	brand          string
	category       string
	productType    string
	price          float64
	currency       string
	rating         float64
	reviewCount    int
	features       []string
	availability   Availability
	referencePrice float64 // 0 = absent
}

// New validates and creates a catalog product.
func New(
	id, title, brand, category, productType string,
	price float64, currency string,
	rating float64, reviewCount int,
	features []string,
	availability Availability,
	referencePrice float64,
) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("product id is required")
	}
	if title == "" {
		return Product{}, fmt.Errorf("product title is required")
	}
	if price < 0 {
		return Product{}, fmt.Errorf("price must be non-negative, got %f", price)
	}
	if rating < 0 || rating > 5 {
		return Product{}, fmt.Errorf("rating must be between 0 and 5, got %f", rating)
	}
	if reviewCount < 0 {
		return Product{}, fmt.Errorf("review_count must be non-negative, got %d", reviewCount)
	}
	if availability == "" {
		availability = InStock
	}
	if !availability.IsValid() {
		return Product{}, fmt.Errorf("invalid availability: %q", availability)
	}
	if referencePrice < 0 {
		referencePrice = 0
	}

	normalized := make([]string, 0, len(features))
	for _, f := range features {
		f = strings.TrimSpace(f)
		if f != "" {
			normalized = append(normalized, f)
		}
	}

	return Product{
		id: id, title: title, brand: brand,
		category: category, productType: productType,
		price: price, currency: currency,
		rating: rating, reviewCount: reviewCount,
		features:       normalized,
		availability:   availability,
		referencePrice: referencePrice,
	}, nil
}

// ID returns the stable product identifier.
func (p *Product) ID() string { return p.id }

// Title returns the product title.
func (p *Product) Title() string { return p.title }

// Brand returns the product brand.
func (p *Product) Brand() string { return p.brand }

// Category returns the broad product category.
func (p *Product) Category() string { return p.category }

// ProductType returns the specific product type.
func (p *Product) ProductType() string { return p.productType }

// Price returns the current price.
func (p *Product) Price() float64 { return p.price }

// Currency returns the price currency tag.
func (p *Product) Currency() string { return p.currency }

// Rating returns the average rating (0-5).
func (p *Product) Rating() float64 { return p.rating }

// ReviewCount returns the number of reviews.
func (p *Product) ReviewCount() int { return p.reviewCount }

// Features returns the product feature set.
func (p *Product) Features() []string { return p.features }

// Availability returns the stock state.
func (p *Product) Availability() Availability { return p.availability }

// ReferencePrice returns the list price and whether one is present.
func (p *Product) ReferencePrice() (float64, bool) {
	return p.referencePrice, p.referencePrice > 0
}

// HasFeature reports whether the product carries the feature,
// case-insensitively.
func (p *Product) HasFeature(name string) bool {
	for _, f := range p.features {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}
