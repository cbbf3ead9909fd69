package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fuzfriend/catalog-api/internal/model"
	"github.com/fuzfriend/catalog-api/internal/product"
	"github.com/fuzfriend/catalog-api/internal/product/dto"
)

// MemoryRepository keeps the catalog in process memory. It backs the
// STORE_BACKEND=memory mode and the test suites, and must stay
// behaviorally identical to PGRepository.
type MemoryRepository struct {
	mu       sync.RWMutex
	products []model.Product
	nextID   int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

// matches evaluates the same predicate set conditions() compiles to SQL,
// with the same exclusion mask for facet queries.
func matches(f *dto.Filter, p *model.Product, exclude product.Facet) bool {
	if len(f.IDs) > 0 && !containsInt(f.IDs, p.ID) {
		return false
	}
	if exclude != product.FacetCategory && len(f.Categories) > 0 && !containsString(f.Categories, p.Category) {
		return false
	}
	if exclude != product.FacetBrand && len(f.Brands) > 0 && !containsString(f.Brands, p.Brand) {
		return false
	}
	if exclude != product.FacetColour && len(f.Colours) > 0 && !containsString(f.Colours, p.Color) {
		return false
	}
	if exclude != product.FacetSize && len(f.Sizes) > 0 && !containsString(f.Sizes, p.Size) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			return false
		}
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.MinRating != nil && p.Rating < *f.MinRating {
		return false
	}
	if f.OnPromotion != nil && p.OnPromotion != *f.OnPromotion {
		return false
	}
	return true
}

func (r *MemoryRepository) filtered(f *dto.Filter, exclude product.Facet) []model.Product {
	out := make([]model.Product, 0, len(r.products))
	for i := range r.products {
		if matches(f, &r.products[i], exclude) {
			out = append(out, r.products[i])
		}
	}
	return out
}

func (r *MemoryRepository) FindByID(_ context.Context, id int) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) FindPage(_ context.Context, f *dto.Filter) ([]model.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.filtered(f, "")
	total := len(out)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if f.SortDesc {
			a, b = b, a
		}
		switch f.SortBy {
		case dto.SortPrice:
			return a.Price.LessThan(b.Price)
		case dto.SortRating:
			return a.Rating < b.Rating
		case dto.SortBrand:
			return a.Brand < b.Brand
		case dto.SortCategory:
			return a.Category < b.Category
		default:
			return a.Title < b.Title
		}
	})

	skip := (f.Page - 1) * f.PageSize
	if skip < 0 || skip >= len(out) {
		return []model.Product{}, total, nil
	}
	end := skip + f.PageSize
	if end > len(out) {
		end = len(out)
	}
	page := make([]model.Product, end-skip)
	copy(page, out[skip:end])
	return page, total, nil
}

func (r *MemoryRepository) FacetCounts(_ context.Context, f *dto.Filter, dim product.Facet) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, p := range r.filtered(f, dim) {
		switch dim {
		case product.FacetCategory:
			counts[p.Category]++
		case product.FacetBrand:
			counts[p.Brand]++
		case product.FacetColour:
			counts[p.Color]++
		case product.FacetSize:
			counts[p.Size]++
		}
	}
	return counts, nil
}

func (r *MemoryRepository) PriceRange(_ context.Context, f *dto.Filter) (decimal.Decimal, decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.filtered(f, "")
	if len(out) == 0 {
		return decimal.Zero, decimal.Zero, nil
	}
	min, max := out[0].Price, out[0].Price
	for _, p := range out[1:] {
		if p.Price.LessThan(min) {
			min = p.Price
		}
		if p.Price.GreaterThan(max) {
			max = p.Price
		}
	}
	return min, max, nil
}

func (r *MemoryRepository) RatingFloors(_ context.Context, f *dto.Filter) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.filtered(f, "")
	ratings := make([]float64, len(out))
	for i, p := range out {
		ratings[i] = p.Rating
	}
	return floorRatings(ratings), nil
}

func (r *MemoryRepository) HasPromotions(_ context.Context, f *dto.Filter) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.filtered(f, "") {
		if p.OnPromotion {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products), nil
}

func (r *MemoryRepository) InsertBatch(_ context.Context, products []model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		if p.ID == 0 {
			p.ID = r.nextID
		}
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
		r.products = append(r.products, p)
	}
	return nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, n := range list {
		if n == v {
			return true
		}
	}
	return false
}
