package core

import (
	"fmt"
	"sort"
	"sync"
)

// BrandPage describes a manufacturer page of the site.
type BrandPage struct {
	Key        string // URL segment: "fanuc"
	Name       string // Display and store name: "Fanuc"
	Searchable bool   // Error search is implemented for this brand
	Order      int    // Position on the home page
}

var (
	registry   = make(map[string]BrandPage)
	registryMu sync.RWMutex
)

// RegisterBrand adds a brand page to the registry.
// Panics if a brand with the same key is already registered.
func RegisterBrand(page BrandPage) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[page.Key]; exists {
		panic(fmt.Sprintf("brand already registered: %s", page.Key))
	}
	registry[page.Key] = page
}

// GetBrandPage returns a brand page by key.
// Returns false if not found.
func GetBrandPage(key string) (BrandPage, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	page, ok := registry[key]
	return page, ok
}

// BrandPages returns all registered brand pages.
// Sorted by Order then by key for consistent ordering.
func BrandPages() []BrandPage {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]BrandPage, 0, len(registry))
	for _, page := range registry {
		result = append(result, page)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].Key < result[j].Key
	})

	return result
}

// BrandCount returns the number of registered brand pages.
func BrandCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// ClearBrands removes all registered brand pages.
// Primarily useful for testing.
func ClearBrands() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]BrandPage)
}
