package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func TestNormalize_NilInputDefaults(t *testing.T) {
	var in *SearchInput
	f := in.Normalize()

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PageSize)
	assert.Equal(t, SortTitle, f.SortBy)
	assert.False(t, f.SortDesc)
	assert.False(t, f.HasFilters)
}

func TestNormalize_PageDefaults(t *testing.T) {
	cases := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"zero values", 0, 0, 1, 20},
		{"negative values", -3, -10, 1, 20},
		{"size capped at 100", 1, 500, 1, 100},
		{"valid values kept", 4, 50, 4, 50},
		{"huge page capped", 4611686018427387903, 100, maxPage, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := (&SearchInput{Page: tc.page, PageSize: tc.size}).Normalize()
			assert.Equal(t, tc.wantPage, f.Page)
			assert.Equal(t, tc.wantPageSize, f.PageSize)
		})
	}
}

func TestNormalize_PageCapKeepsOffsetNonNegative(t *testing.T) {
	f := (&SearchInput{Page: 4611686018427387903, PageSize: 100}).Normalize()
	assert.GreaterOrEqual(t, (f.Page-1)*f.PageSize, 0)
}

func TestNormalize_LegacyCategoryMergedAndDeduped(t *testing.T) {
	f := (&SearchInput{
		Category:   "Laptops",
		Categories: []string{"Laptops", "Watches", ""},
	}).Normalize()

	assert.Equal(t, []string{"Laptops", "Watches"}, f.Categories)
}

func TestNormalize_ListsDropBlanksAndDuplicates(t *testing.T) {
	f := (&SearchInput{
		Brands:  []string{" Sony ", "Sony", "  ", "Bose"},
		Colours: []string{"", "\t"},
		Sizes:   []string{"Large"},
	}).Normalize()

	assert.Equal(t, []string{"Sony", "Bose"}, f.Brands)
	assert.Nil(t, f.Colours)
	assert.Equal(t, []string{"Large"}, f.Sizes)
}

func TestNormalize_CaseSensitiveDedup(t *testing.T) {
	f := (&SearchInput{Brands: []string{"sony", "Sony"}}).Normalize()
	assert.Equal(t, []string{"sony", "Sony"}, f.Brands)
}

func TestNormalize_ZeroNumericBoundsAreUnset(t *testing.T) {
	f := (&SearchInput{
		MinPrice:  decPtr("0"),
		MaxPrice:  decPtr("-5"),
		MinRating: floatPtr(0),
	}).Normalize()

	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
	assert.Nil(t, f.MinRating)
	assert.False(t, f.HasFilters)
}

func TestNormalize_InvertedPriceBoundsSwapped(t *testing.T) {
	f := (&SearchInput{MinPrice: decPtr("500"), MaxPrice: decPtr("100")}).Normalize()

	require.NotNil(t, f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.True(t, f.MinPrice.Equal(decimal.RequireFromString("100")))
	assert.True(t, f.MaxPrice.Equal(decimal.RequireFromString("500")))
}

func TestNormalize_SwappedBoundsEqualPreSwapped(t *testing.T) {
	inverted := (&SearchInput{MinPrice: decPtr("900"), MaxPrice: decPtr("200")}).Normalize()
	straight := (&SearchInput{MinPrice: decPtr("200"), MaxPrice: decPtr("900")}).Normalize()

	assert.True(t, inverted.MinPrice.Equal(*straight.MinPrice))
	assert.True(t, inverted.MaxPrice.Equal(*straight.MaxPrice))
}

func TestNormalize_SortWhitelist(t *testing.T) {
	cases := []struct {
		sortBy   string
		dir      string
		wantBy   string
		wantDesc bool
	}{
		{"", "", SortTitle, false},
		{"PRICE", "DESC", SortPrice, true},
		{" rating ", "descending", SortRating, true},
		{"brand", "asc", SortBrand, false},
		{"category", "up", SortCategory, false},
		{"created_at", "desc", SortTitle, true},
		{"; DROP TABLE products", "", SortTitle, false},
	}
	for _, tc := range cases {
		t.Run(tc.sortBy+"/"+tc.dir, func(t *testing.T) {
			f := (&SearchInput{SortBy: tc.sortBy, SortDirection: tc.dir}).Normalize()
			assert.Equal(t, tc.wantBy, f.SortBy)
			assert.Equal(t, tc.wantDesc, f.SortDesc)
		})
	}
}

func TestNormalize_QueryTrimmed(t *testing.T) {
	f := (&SearchInput{Query: "  phone  "}).Normalize()
	assert.Equal(t, "phone", f.Query)
	assert.True(t, f.HasFilters)
}

func TestNormalize_IDsDeduped(t *testing.T) {
	f := (&SearchInput{IDs: []int{3, 1, 3, 2, 1}}).Normalize()
	assert.Equal(t, []int{3, 1, 2}, f.IDs)
	assert.True(t, f.HasFilters)
}

func TestNormalize_HasFiltersPerField(t *testing.T) {
	cases := []struct {
		name string
		in   SearchInput
		want bool
	}{
		{"empty", SearchInput{}, false},
		{"paging only", SearchInput{Page: 3, PageSize: 10}, false},
		{"sort only", SearchInput{SortBy: "price", SortDirection: "desc"}, false},
		{"ids", SearchInput{IDs: []int{1}}, true},
		{"categories", SearchInput{Categories: []string{"Laptops"}}, true},
		{"legacy category", SearchInput{Category: "Laptops"}, true},
		{"brands", SearchInput{Brands: []string{"Sony"}}, true},
		{"min price", SearchInput{MinPrice: decPtr("10")}, true},
		{"min rating", SearchInput{MinRating: floatPtr(4)}, true},
		{"promotion false still a filter", SearchInput{OnPromotion: boolPtr(false)}, true},
		{"free text", SearchInput{Query: "watch"}, true},
		{"blank-only list is no filter", SearchInput{Brands: []string{"  "}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize().HasFilters)
		})
	}
}
