package catalogfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicart/cognicart/internal/domain/catalog"
)

const sampleCatalog = `[
  {
    "id": "boat-rockerz-450",
    "title": "boAt Rockerz 450 Bluetooth Headphones",
    "brand": "boAt",
    "category": "electronics",
    "product_type": "headphones",
    "price": 1499,
    "currency": "INR",
    "rating": 4.2,
    "review_count": 8421,
    "features": ["bluetooth", "40mm drivers", "15h battery"],
    "availability": "in_stock",
    "reference_price": 2990
  },
  {
    "id": "mi-band-7",
    "title": "Xiaomi Mi Smart Band 7",
    "brand": "Xiaomi",
    "category": "electronics",
    "product_type": "fitness band",
    "price": 2799,
    "currency": "INR",
    "rating": 4.1,
    "review_count": 3102,
    "features": ["amoled display", "heart rate"],
    "availability": "out_of_stock"
  }
]`

func TestParse(t *testing.T) {
	products, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}

	p := products[0]
	if p.ID() != "boat-rockerz-450" {
		t.Errorf("ID = %q", p.ID())
	}
	if p.Brand() != "boAt" {
		t.Errorf("Brand = %q", p.Brand())
	}
	if ref, ok := p.ReferencePrice(); !ok || ref != 2990 {
		t.Errorf("ReferencePrice = %f, %v; want 2990, true", ref, ok)
	}
	if !p.HasFeature("Bluetooth") {
		t.Error("HasFeature should be case-insensitive")
	}

	q := products[1]
	if q.Availability() != catalog.OutOfStock {
		t.Errorf("Availability = %q, want out_of_stock", q.Availability())
	}
	if _, ok := q.ReferencePrice(); ok {
		t.Error("missing reference_price should read as absent")
	}
}

func TestParse_InvalidEntryFailsLoad(t *testing.T) {
	bad := `[{"id": "", "title": "nameless", "price": 10}]`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("entry without id should fail the load")
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"not": "an array"}`)); err == nil {
		t.Fatal("non-array catalog should fail")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0o600); err != nil {
		t.Fatal(err)
	}

	products, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("missing file should fail")
	}
}
