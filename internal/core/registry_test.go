package core

import "testing"

func TestBrandRegistry(t *testing.T) {
	ClearBrands()
	t.Cleanup(ClearBrands)

	RegisterBrand(BrandPage{Key: "kuka", Name: "Kuka", Order: 3})
	RegisterBrand(BrandPage{Key: "fanuc", Name: "Fanuc", Searchable: true, Order: 1})
	RegisterBrand(BrandPage{Key: "abb", Name: "ABB", Order: 2})

	if got := BrandCount(); got != 3 {
		t.Fatalf("BrandCount() = %d, want 3", got)
	}

	pages := BrandPages()
	want := []string{"fanuc", "abb", "kuka"}
	for i, key := range want {
		if pages[i].Key != key {
			t.Errorf("BrandPages()[%d] = %q, want %q", i, pages[i].Key, key)
		}
	}

	page, ok := GetBrandPage("fanuc")
	if !ok || !page.Searchable {
		t.Errorf("GetBrandPage(fanuc) = %+v, %v", page, ok)
	}
	if _, ok := GetBrandPage("yaskawa"); ok {
		t.Error("GetBrandPage(yaskawa) should not be found")
	}
}

func TestRegisterBrandDuplicatePanics(t *testing.T) {
	ClearBrands()
	t.Cleanup(ClearBrands)

	RegisterBrand(BrandPage{Key: "fanuc"})
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	RegisterBrand(BrandPage{Key: "fanuc"})
}
