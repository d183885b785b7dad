package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// snapshot is an immutable view of the catalog. The store swaps whole
// snapshots so readers never observe a partial reload.
type snapshot struct {
	products []Product
	byID     map[string]int
	brands   []string
}

// Store is the read-mostly in-memory product index. Reads are lock-free;
// a reload swaps in a new snapshot atomically.
type Store struct {
	snap atomic.Pointer[snapshot]
}

// NewStore builds a store from the initial product set.
func NewStore(products []Product) (*Store, error) {
	s := &Store{}
	if err := s.Replace(products); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace swaps in a new product set atomically. In-flight requests keep
// reading the snapshot they started with.
func (s *Store) Replace(products []Product) error {
	snap, err := buildSnapshot(products)
	if err != nil {
		return err
	}
	s.snap.Store(snap)
	return nil
}

func buildSnapshot(products []Product) (*snapshot, error) {
	byID := make(map[string]int, len(products))
	brandSet := make(map[string]struct{})
	for i, p := range products {
		if _, dup := byID[p.ID()]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID())
		}
		byID[p.ID()] = i
		if b := strings.TrimSpace(p.Brand()); b != "" {
			brandSet[b] = struct{}{}
		}
	}

	brands := make([]string, 0, len(brandSet))
	for b := range brandSet {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	return &snapshot{products: products, byID: byID, brands: brands}, nil
}

// Get looks up a product by id.
func (s *Store) Get(id string) (Product, bool) {
	snap := s.snap.Load()
	if snap == nil {
		return Product{}, false
	}
	i, ok := snap.byID[id]
	if !ok {
		return Product{}, false
	}
	return snap.products[i], true
}

// Products returns the current snapshot's product slice.
// Callers must treat it as read-only.
func (s *Store) Products() []Product {
	snap := s.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.products
}

// Brands returns the sorted list of distinct brands in the catalog.
func (s *Store) Brands() []string {
	snap := s.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.brands
}

// Len returns the number of products in the current snapshot.
func (s *Store) Len() int {
	snap := s.snap.Load()
	if snap == nil {
		return 0
	}
	return len(snap.products)
}
