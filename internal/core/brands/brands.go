// Package brands registers the manufacturer pages with the core registry.
// Import this package to ensure all brands are registered.
package brands

import "github.com/JonMunkholm/helprobot/internal/core"

func init() {
	core.RegisterBrand(core.BrandPage{Key: "fanuc", Name: "Fanuc", Searchable: true, Order: 1})
	core.RegisterBrand(core.BrandPage{Key: "abb", Name: "ABB", Order: 2})
	core.RegisterBrand(core.BrandPage{Key: "kuka", Name: "Kuka", Order: 3})
}
