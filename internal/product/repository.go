// Package product holds the catalog search domain: the repository and
// usecase contracts plus their implementations in subpackages.
package product

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/fuzfriend/catalog-api/internal/model"
	"github.com/fuzfriend/catalog-api/internal/product/dto"
)

// ErrNotFound is returned when a product id does not exist.
var ErrNotFound = errors.New("product not found")

// Facet is a filterable dimension with per-value counts.
type Facet string

const (
	FacetCategory Facet = "category"
	FacetBrand    Facet = "brand"
	FacetColour   Facet = "colour"
	FacetSize     Facet = "size"
)

// Facets lists every dimension in response order.
var Facets = []Facet{FacetCategory, FacetBrand, FacetColour, FacetSize}

type Repository interface {
	FindByID(ctx context.Context, id int) (*model.Product, error)
	// FindPage returns the sorted page selected by the filter along with
	// the total count of the filtered set before paging.
	FindPage(ctx context.Context, f *dto.Filter) ([]model.Product, int, error)
	// FacetCounts returns value->count for dim over the set matching every
	// active filter except dim's own (self-exclusion). Values with no
	// matches do not appear.
	FacetCounts(ctx context.Context, f *dto.Filter, dim Facet) (map[string]int, error)
	// PriceRange reports the observed min/max price of the filtered set,
	// {0, 0} when it is empty.
	PriceRange(ctx context.Context, f *dto.Filter) (decimal.Decimal, decimal.Decimal, error)
	// RatingFloors reports the distinct floored ratings of the filtered
	// set, ascending.
	RatingFloors(ctx context.Context, f *dto.Filter) ([]int, error)
	HasPromotions(ctx context.Context, f *dto.Filter) (bool, error)
	Count(ctx context.Context) (int, error)
	InsertBatch(ctx context.Context, products []model.Product) error
}
