package usecase

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/fuzfriend/catalog-api/internal/model"
	"github.com/fuzfriend/catalog-api/internal/pkg/logger"
	"github.com/fuzfriend/catalog-api/internal/product"
	"github.com/fuzfriend/catalog-api/internal/product/dto"
)

type productUseCase struct {
	repo   product.Repository
	logger logger.Logger
}

func NewProductUseCase(repo product.Repository, log logger.Logger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		logger: log,
	}
}

// Search assembles a page of results plus the facet summary for the
// filtered set. Each facet dimension is counted with its own filter
// excluded so multi-select within a facet keeps meaningful counts; the
// price range, rating buckets, and promotion flag come from the fully
// filtered set, so displayed bounds shrink as filters narrow.
func (uc *productUseCase) Search(ctx context.Context, in *dto.SearchInput) (*dto.SearchResponse, error) {
	f := in.Normalize()

	products, total, err := uc.repo.FindPage(ctx, f)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}

	filters := dto.FilterOptions{}
	for _, dim := range product.Facets {
		counts, err := uc.repo.FacetCounts(ctx, f, dim)
		if err != nil {
			return nil, err
		}
		values := sortedKeys(counts)
		switch dim {
		case product.FacetCategory:
			filters.CategoryCounts, filters.Categories = counts, values
		case product.FacetBrand:
			filters.BrandCounts, filters.Brands = counts, values
		case product.FacetColour:
			filters.ColourCounts, filters.Colours = counts, values
		case product.FacetSize:
			filters.SizeCounts, filters.Sizes = counts, values
		}
	}

	filters.MinPrice, filters.MaxPrice, err = uc.repo.PriceRange(ctx, f)
	if err != nil {
		return nil, err
	}
	filters.Ratings, err = uc.repo.RatingFloors(ctx, f)
	if err != nil {
		return nil, err
	}
	filters.HasPromotions, err = uc.repo.HasPromotions(ctx, f)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("search assembled",
		zap.Int("total", total),
		zap.Int("page", f.Page),
		zap.Int("pageSize", f.PageSize),
		zap.Bool("hasFilters", f.HasFilters),
	)

	return &dto.SearchResponse{
		Products:   products,
		Filters:    filters,
		TotalCount: total,
	}, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (uc *productUseCase) CountProducts(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
