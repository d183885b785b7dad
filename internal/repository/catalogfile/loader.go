package catalogfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cognicart/cognicart/internal/domain/catalog"
)

// productDTO is the on-disk catalog entry format.
type productDTO struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Brand          string   `json:"brand"`
	Category       string   `json:"category"`
	ProductType    string   `json:"product_type"`
	Price          float64  `json:"price"`
	Currency       string   `json:"currency"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"review_count"`
	Features       []string `json:"features"`
	Availability   string   `json:"availability"`
	ReferencePrice float64  `json:"reference_price"`
}

// Load reads a catalog JSON file and returns validated products.
func Load(path string) ([]catalog.Product, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes catalog JSON. Every entry must validate; a single bad
// entry fails the whole load so a broken catalog never half-starts.
func Parse(data []byte) ([]catalog.Product, error) {
	var dtos []productDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	products := make([]catalog.Product, 0, len(dtos))
	for i, dto := range dtos {
		p, err := catalog.New(
			dto.ID, dto.Title, dto.Brand, dto.Category, dto.ProductType,
			dto.Price, dto.Currency,
			dto.Rating, dto.ReviewCount,
			dto.Features,
			catalog.Availability(dto.Availability),
			dto.ReferencePrice,
		)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d (%s): %w", i, dto.ID, err)
		}
		products = append(products, p)
	}
	return products, nil
}
