package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SearchInput is the raw, possibly partially-populated search request as it
// arrives over the wire. Absent fields mean "no constraint". Normalize
// resolves it into a canonical Filter; handlers never pass a SearchInput
// further down.
type SearchInput struct {
	IDs []int `json:"ids"`
	// Category is the legacy singular field; it is folded into Categories.
	Category      string           `json:"category"`
	Categories    []string         `json:"categories"`
	Brands        []string         `json:"brands"`
	Colours       []string         `json:"colours"`
	Sizes         []string         `json:"sizes"`
	MinPrice      *decimal.Decimal `json:"minPrice"`
	MaxPrice      *decimal.Decimal `json:"maxPrice"`
	MinRating     *float64         `json:"minRating"`
	OnPromotion   *bool            `json:"onPromotion"`
	Query         string           `json:"query"`
	Page          int              `json:"page"`
	PageSize      int              `json:"pageSize"`
	SortBy        string           `json:"sortBy"`
	SortDirection string           `json:"sortDirection"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps (page-1)*pageSize inside int range for any valid
	// pageSize, so downstream offset math cannot overflow.
	maxPage = 1 << 24
)

var sortFields = map[string]struct{}{
	SortTitle:    {},
	SortPrice:    {},
	SortRating:   {},
	SortBrand:    {},
	SortCategory: {},
}

// Normalize produces the canonical filter for this request. A nil input
// normalizes to the unfiltered first page.
//
// Rules: page defaults to 1 (capped at an overflow-safe maximum) and
// pageSize to 20 (capped at 100); the legacy
// category field merges into the category list; list entries are trimmed,
// blank entries dropped, duplicates removed (case-sensitive); numeric bounds
// at or below zero count as unset; inverted price bounds are swapped instead
// of producing an empty result; unknown sort fields fall back to title.
func (in *SearchInput) Normalize() *Filter {
	if in == nil {
		in = &SearchInput{}
	}

	f := &Filter{
		Page:     in.Page,
		PageSize: in.PageSize,
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Page > maxPage {
		f.Page = maxPage
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}

	f.IDs = dedupInts(in.IDs)

	categories := append([]string(nil), in.Categories...)
	if strings.TrimSpace(in.Category) != "" {
		categories = append(categories, in.Category)
	}
	f.Categories = dedupStrings(categories)
	f.Brands = dedupStrings(in.Brands)
	f.Colours = dedupStrings(in.Colours)
	f.Sizes = dedupStrings(in.Sizes)

	if in.MinPrice != nil && in.MinPrice.GreaterThan(decimal.Zero) {
		v := *in.MinPrice
		f.MinPrice = &v
	}
	if in.MaxPrice != nil && in.MaxPrice.GreaterThan(decimal.Zero) {
		v := *in.MaxPrice
		f.MaxPrice = &v
	}
	// Swap inverted bounds rather than excluding every product.
	if f.MinPrice != nil && f.MaxPrice != nil && f.MaxPrice.LessThan(*f.MinPrice) {
		f.MinPrice, f.MaxPrice = f.MaxPrice, f.MinPrice
	}

	if in.MinRating != nil && *in.MinRating > 0 {
		v := *in.MinRating
		f.MinRating = &v
	}
	if in.OnPromotion != nil {
		v := *in.OnPromotion
		f.OnPromotion = &v
	}

	f.Query = strings.TrimSpace(in.Query)

	sortBy := strings.ToLower(strings.TrimSpace(in.SortBy))
	if _, ok := sortFields[sortBy]; !ok {
		sortBy = SortTitle
	}
	f.SortBy = sortBy
	sortDir := strings.ToLower(strings.TrimSpace(in.SortDirection))
	f.SortDesc = sortDir == "desc" || sortDir == "descending"

	f.HasFilters = len(f.IDs) > 0 ||
		len(f.Categories) > 0 || len(f.Brands) > 0 ||
		len(f.Colours) > 0 || len(f.Sizes) > 0 ||
		f.MinPrice != nil || f.MaxPrice != nil ||
		f.MinRating != nil || f.OnPromotion != nil ||
		f.Query != ""

	return f
}

func dedupStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func dedupInts(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
