package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzfriend/catalog-api/internal/model"
	"github.com/fuzfriend/catalog-api/internal/product"
	"github.com/fuzfriend/catalog-api/internal/product/dto"
)

// scenarioRepo seeds 6 Laptops (prices 1001-1006, brand and colour
// alternating by index parity), 4 Phones, and 3 Watches.
func scenarioRepo(t *testing.T) *MemoryRepository {
	t.Helper()
	repo := NewMemoryRepository()

	var products []model.Product
	for i := 0; i < 6; i++ {
		brand := "BrandL1"
		color := "Silver"
		if i%2 == 1 {
			brand = "BrandL2"
			color = "Black"
		}
		products = append(products, model.Product{
			Title:    fmt.Sprintf("Laptop %d", i+1),
			Brand:    brand,
			Category: "Laptops",
			Color:    color,
			Size:     "15 inch",
			Price:    decimal.NewFromInt(int64(1001 + i)),
			Rating:   4.0,
		})
	}
	for i := 0; i < 4; i++ {
		products = append(products, model.Product{
			Title:       fmt.Sprintf("Phone %d", i+1),
			Brand:       "BrandP",
			Category:    "Phones",
			Color:       "Black",
			Size:        "128GB",
			Price:       decimal.NewFromInt(int64(501 + i)),
			Rating:      4.5,
			OnPromotion: i == 0,
		})
	}
	for i := 0; i < 3; i++ {
		products = append(products, model.Product{
			Title:    fmt.Sprintf("Watch %d", i+1),
			Brand:    "BrandW",
			Category: "Watches",
			Color:    "Gold",
			Size:     "One Size",
			Price:    decimal.NewFromInt(int64(201 + i)),
			Rating:   3.2,
		})
	}

	require.NoError(t, repo.InsertBatch(context.Background(), products))
	return repo
}

func filterFor(in *dto.SearchInput) *dto.Filter { return in.Normalize() }

func TestMemoryRepository_IDsAssignedSequentially(t *testing.T) {
	repo := scenarioRepo(t)

	p, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Laptop 1", p.Title)

	missing, err := repo.FindByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryRepository_CategoryFilter(t *testing.T) {
	repo := scenarioRepo(t)

	_, total, err := repo.FindPage(context.Background(), filterFor(&dto.SearchInput{
		Categories: []string{"Laptops"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 6, total)

	_, total, err = repo.FindPage(context.Background(), filterFor(&dto.SearchInput{
		Categories: []string{"Laptops", "Watches"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 9, total)
}

func TestMemoryRepository_PriceSortAscendingAndDescending(t *testing.T) {
	repo := scenarioRepo(t)

	asc, _, err := repo.FindPage(context.Background(), filterFor(&dto.SearchInput{
		Categories: []string{"Laptops"},
		SortBy:     "price",
	}))
	require.NoError(t, err)
	require.Len(t, asc, 6)
	assert.True(t, asc[0].Price.Equal(decimal.NewFromInt(1001)))
	assert.True(t, asc[5].Price.Equal(decimal.NewFromInt(1006)))

	desc, _, err := repo.FindPage(context.Background(), filterFor(&dto.SearchInput{
		Categories:    []string{"Laptops"},
		SortBy:        "price",
		SortDirection: "desc",
	}))
	require.NoError(t, err)
	require.Len(t, desc, 6)
	assert.True(t, desc[0].Price.Equal(decimal.NewFromInt(1006)))
	assert.True(t, desc[5].Price.Equal(decimal.NewFromInt(1001)))

	// Reversed ordering, identical membership.
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
}

func TestMemoryRepository_BrandColourParityFilter(t *testing.T) {
	repo := scenarioRepo(t)

	page, total, err := repo.FindPage(context.Background(), filterFor(&dto.SearchInput{
		Categories: []string{"Laptops"},
		Brands:     []string{"BrandL1"},
		Colours:    []string{"Silver"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	for _, p := range page {
		assert.Equal(t, "BrandL1", p.Brand)
		assert.Equal(t, "Silver", p.Color)
	}
}

func TestMemoryRepository_PageBeyondLastIsEmptyWithTrueTotal(t *testing.T) {
	repo := scenarioRepo(t)

	page, total, err := repo.FindPage(context.Background(), filterFor(&dto.SearchInput{
		Page:     10,
		PageSize: 20,
	}))
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, 13, total)
}

func TestMemoryRepository_HugePageNumberReturnsEmptyPage(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.InsertBatch(context.Background(), []model.Product{
		{Title: "A", Price: decimal.NewFromInt(1)},
		{Title: "B", Price: decimal.NewFromInt(2)},
	}))

	page, total, err := repo.FindPage(context.Background(), filterFor(&dto.SearchInput{
		Page:     4611686018427387903,
		PageSize: 100,
	}))
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, 2, total)
}

func TestMemoryRepository_PageNeverExceedsPageSize(t *testing.T) {
	repo := scenarioRepo(t)

	page, total, err := repo.FindPage(context.Background(), filterFor(&dto.SearchInput{
		Page:     2,
		PageSize: 5,
	}))
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.Equal(t, 13, total)
}

func TestMemoryRepository_FreeTextSearch(t *testing.T) {
	repo := scenarioRepo(t)

	_, total, err := repo.FindPage(context.Background(), filterFor(&dto.SearchInput{
		Query: "watch",
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	// Matches brand too, disjunctively.
	_, total, err = repo.FindPage(context.Background(), filterFor(&dto.SearchInput{
		Query: "brandp",
	}))
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestMemoryRepository_FacetSelfExclusion(t *testing.T) {
	repo := scenarioRepo(t)
	ctx := context.Background()

	f := filterFor(&dto.SearchInput{
		Categories: []string{"Laptops"},
		Brands:     []string{"BrandL1"},
	})

	// Brand counts ignore the brand filter but keep the category filter:
	// both laptop brands stay visible with their full in-category counts.
	brandCounts, err := repo.FacetCounts(ctx, f, product.FacetBrand)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"BrandL1": 3, "BrandL2": 3}, brandCounts)

	// Category counts ignore the category filter but keep the brand
	// filter: only categories containing BrandL1 products remain.
	categoryCounts, err := repo.FacetCounts(ctx, f, product.FacetCategory)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Laptops": 3}, categoryCounts)

	// Colour counts apply both other filters.
	colourCounts, err := repo.FacetCounts(ctx, f, product.FacetColour)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Silver": 3}, colourCounts)
}

func TestMemoryRepository_FacetSelfExclusionMatchesIndependentQuery(t *testing.T) {
	repo := scenarioRepo(t)
	ctx := context.Background()

	full := filterFor(&dto.SearchInput{
		Categories: []string{"Laptops"},
		Colours:    []string{"Silver"},
	})
	counts, err := repo.FacetCounts(ctx, full, product.FacetColour)
	require.NoError(t, err)

	// Independently drop the colour filter and count per colour.
	withoutColour := filterFor(&dto.SearchInput{Categories: []string{"Laptops"}})
	for colour, want := range counts {
		check := *withoutColour
		check.Colours = []string{colour}
		_, total, err := repo.FindPage(ctx, &check)
		require.NoError(t, err)
		assert.Equal(t, want, total, "colour %s", colour)
	}
}

func TestMemoryRepository_PriceRangeOfFilteredSet(t *testing.T) {
	repo := scenarioRepo(t)

	min, max, err := repo.PriceRange(context.Background(), filterFor(&dto.SearchInput{
		Categories: []string{"Laptops"},
	}))
	require.NoError(t, err)
	assert.True(t, min.Equal(decimal.NewFromInt(1001)))
	assert.True(t, max.Equal(decimal.NewFromInt(1006)))
}

func TestMemoryRepository_PriceRangeEmptySetIsZeroZero(t *testing.T) {
	repo := scenarioRepo(t)

	min, max, err := repo.PriceRange(context.Background(), filterFor(&dto.SearchInput{
		Categories: []string{"Nonexistent"},
	}))
	require.NoError(t, err)
	assert.True(t, min.IsZero())
	assert.True(t, max.IsZero())
}

func TestMemoryRepository_RatingFloors(t *testing.T) {
	repo := scenarioRepo(t)

	floors, err := repo.RatingFloors(context.Background(), filterFor(&dto.SearchInput{}))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, floors)
}

func TestMemoryRepository_HasPromotions(t *testing.T) {
	repo := scenarioRepo(t)
	ctx := context.Background()

	has, err := repo.HasPromotions(ctx, filterFor(&dto.SearchInput{Categories: []string{"Phones"}}))
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasPromotions(ctx, filterFor(&dto.SearchInput{Categories: []string{"Watches"}}))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMemoryRepository_PromotionFalseIsAFilter(t *testing.T) {
	repo := scenarioRepo(t)
	off := false

	_, total, err := repo.FindPage(context.Background(), filterFor(&dto.SearchInput{
		Categories:  []string{"Phones"},
		OnPromotion: &off,
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestMemoryRepository_IDFilter(t *testing.T) {
	repo := scenarioRepo(t)

	page, total, err := repo.FindPage(context.Background(), filterFor(&dto.SearchInput{
		IDs: []int{1, 3, 5},
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	for _, p := range page {
		assert.Contains(t, []int{1, 3, 5}, p.ID)
	}
}

func TestMemoryRepository_NoFiltersEqualsWholeStore(t *testing.T) {
	repo := scenarioRepo(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)

	_, total, err := repo.FindPage(ctx, filterFor(&dto.SearchInput{}))
	require.NoError(t, err)
	assert.Equal(t, count, total)
}
