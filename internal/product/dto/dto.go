package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fuzfriend/catalog-api/internal/model"
)

// Sort fields accepted by the search endpoint.
const (
	SortTitle    = "title"
	SortPrice    = "price"
	SortRating   = "rating"
	SortBrand    = "brand"
	SortCategory = "category"
)

// Filter is a normalized query: every field is fully resolved, lists hold
// no blanks or duplicates, and nil means "no constraint". Built only by
// SearchInput.Normalize.
type Filter struct {
	IDs         []int
	Categories  []string
	Brands      []string
	Colours     []string
	Sizes       []string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MinRating   *float64
	OnPromotion *bool
	Query       string
	Page        int
	PageSize    int
	SortBy      string
	SortDesc    bool
	// HasFilters records whether any constraint beyond paging is active.
	// When false the engine runs the same code path with an empty
	// predicate set, so results match the unfiltered store.
	HasFilters bool
}

// FilterOptions is the facet summary for the current result set: which
// values remain selectable per dimension and what they would match. Ranges
// reflect the filtered set, not the whole store.
type FilterOptions struct {
	Categories     []string         `json:"categories"`
	Brands         []string         `json:"brands"`
	Colours        []string         `json:"colours"`
	Sizes          []string         `json:"sizes"`
	CategoryCounts map[string]int   `json:"categoryCounts"`
	BrandCounts    map[string]int   `json:"brandCounts"`
	ColourCounts   map[string]int   `json:"colourCounts"`
	SizeCounts     map[string]int   `json:"sizeCounts"`
	MinPrice       decimal.Decimal  `json:"minPrice"`
	MaxPrice       decimal.Decimal  `json:"maxPrice"`
	Ratings        []int            `json:"ratings"`
	HasPromotions  bool             `json:"hasPromotions"`
}

// SearchResponse is the search endpoint payload.
type SearchResponse struct {
	Products   []model.Product `json:"products"`
	Filters    FilterOptions   `json:"filters"`
	TotalCount int             `json:"totalCount"`
}
