package product

import (
	"context"

	"github.com/fuzfriend/catalog-api/internal/model"
	"github.com/fuzfriend/catalog-api/internal/product/dto"
)

type UseCase interface {
	// Search normalizes the raw input and assembles a page of products,
	// the total filtered count, and the facet summary.
	Search(ctx context.Context, in *dto.SearchInput) (*dto.SearchResponse, error)
	// GetProduct returns ErrNotFound when the id does not exist.
	GetProduct(ctx context.Context, id int) (*model.Product, error)
	CountProducts(ctx context.Context) (int, error)
}
