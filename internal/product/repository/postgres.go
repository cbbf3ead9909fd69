package repository

import (
	"context"
	"database/sql"
	"math"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/fuzfriend/catalog-api/internal/model"
	"github.com/fuzfriend/catalog-api/internal/pkg/query"
	"github.com/fuzfriend/catalog-api/internal/product"
	"github.com/fuzfriend/catalog-api/internal/product/dto"
)

const productsTable = "products"

// textSearchFields are the columns the free-text query matches against,
// disjunctively.
var textSearchFields = []string{"title", "description", "brand", "category"}

// facetColumns maps a facet dimension to its table column.
var facetColumns = map[product.Facet]string{
	product.FacetCategory: "category",
	product.FacetBrand:    "brand",
	product.FacetColour:   "color",
	product.FacetSize:     "size",
}

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// conditions builds the predicate list for a filter. Every query against
// the filtered set goes through here; a facet count passes its own
// dimension as exclude so self-exclusion cannot drift from the main query.
// An inactive filter contributes no condition, so the no-filter request is
// simply an empty predicate set.
func conditions(f *dto.Filter, exclude product.Facet) []query.Condition {
	var conds []query.Condition
	if len(f.IDs) > 0 {
		conds = append(conds, query.InInts("id", f.IDs))
	}
	if exclude != product.FacetCategory && len(f.Categories) > 0 {
		conds = append(conds, query.InStrings("category", f.Categories))
	}
	if exclude != product.FacetBrand && len(f.Brands) > 0 {
		conds = append(conds, query.InStrings("brand", f.Brands))
	}
	if exclude != product.FacetColour && len(f.Colours) > 0 {
		conds = append(conds, query.InStrings("color", f.Colours))
	}
	if exclude != product.FacetSize && len(f.Sizes) > 0 {
		conds = append(conds, query.InStrings("size", f.Sizes))
	}
	if f.Query != "" {
		conds = append(conds, query.ILikeAny(textSearchFields, f.Query))
	}
	if f.MinPrice != nil {
		conds = append(conds, query.Gte("price", *f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, query.Lte("price", *f.MaxPrice))
	}
	if f.MinRating != nil {
		conds = append(conds, query.Gte("rating", *f.MinRating))
	}
	if f.OnPromotion != nil {
		conds = append(conds, query.Eq("on_promotion", *f.OnPromotion))
	}
	return conds
}

// sortColumns whitelists ORDER BY targets. The normalizer guarantees
// SortBy is a known field, but the repository still refuses to interpolate
// anything else.
var sortColumns = map[string]string{
	dto.SortTitle:    "title",
	dto.SortPrice:    "price",
	dto.SortRating:   "rating",
	dto.SortBrand:    "brand",
	dto.SortCategory: "category",
}

func (r *PGRepository) FindByID(ctx context.Context, id int) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, "SELECT * FROM products WHERE id = $1 LIMIT 1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find product by id")
	}
	return &p, nil
}

func (r *PGRepository) FindPage(ctx context.Context, f *dto.Filter) ([]model.Product, int, error) {
	base := query.From(productsTable).Where(conditions(f, "")...)

	countSQL, countArgs := base.Count().Build()
	var total int
	if err := r.DB.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	col := sortColumns[f.SortBy]
	if col == "" {
		col = "title"
	}
	dir := query.Asc
	if f.SortDesc {
		dir = query.Desc
	}
	pageSQL, pageArgs := base.
		OrderBy(col, dir).
		Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		Build()

	products := []model.Product{}
	if err := r.DB.SelectContext(ctx, &products, pageSQL, pageArgs...); err != nil {
		return nil, 0, errors.Wrap(err, "select products page")
	}
	return products, total, nil
}

func (r *PGRepository) FacetCounts(ctx context.Context, f *dto.Filter, dim product.Facet) (map[string]int, error) {
	col, ok := facetColumns[dim]
	if !ok {
		return nil, errors.Errorf("unknown facet dimension %q", dim)
	}

	stmt, args := query.From(productsTable).
		Select(col, "COUNT(*)").
		Where(conditions(f, dim)...).
		GroupBy(col).
		Build()

	rows, err := r.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "facet counts for %s", dim)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var value string
		var n int
		if err := rows.Scan(&value, &n); err != nil {
			return nil, errors.Wrapf(err, "scan facet row for %s", dim)
		}
		counts[value] = n
	}
	return counts, rows.Err()
}

func (r *PGRepository) PriceRange(ctx context.Context, f *dto.Filter) (decimal.Decimal, decimal.Decimal, error) {
	stmt, args := query.From(productsTable).
		Select("COALESCE(MIN(price), 0)", "COALESCE(MAX(price), 0)").
		Where(conditions(f, "")...).
		Build()

	var min, max decimal.Decimal
	if err := r.DB.QueryRowContext(ctx, stmt, args...).Scan(&min, &max); err != nil {
		return decimal.Zero, decimal.Zero, errors.Wrap(err, "price range")
	}
	return min, max, nil
}

func (r *PGRepository) RatingFloors(ctx context.Context, f *dto.Filter) ([]int, error) {
	stmt, args := query.From(productsTable).
		Select("DISTINCT rating").
		Where(conditions(f, "")...).
		Build()

	var ratings []float64
	if err := r.DB.SelectContext(ctx, &ratings, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "distinct ratings")
	}
	return floorRatings(ratings), nil
}

// floorRatings collapses distinct ratings into sorted whole-star buckets.
func floorRatings(ratings []float64) []int {
	seen := make(map[int]struct{}, len(ratings))
	floors := make([]int, 0, len(ratings))
	for _, r := range ratings {
		fl := int(math.Floor(r))
		if _, dup := seen[fl]; dup {
			continue
		}
		seen[fl] = struct{}{}
		floors = append(floors, fl)
	}
	sort.Ints(floors)
	return floors
}

func (r *PGRepository) HasPromotions(ctx context.Context, f *dto.Filter) (bool, error) {
	conds := append(conditions(f, ""), query.Eq("on_promotion", true))
	stmt, args := query.From(productsTable).Where(conds...).Count().Build()

	var n int
	if err := r.DB.GetContext(ctx, &n, stmt, args...); err != nil {
		return false, errors.Wrap(err, "count promotions")
	}
	return n > 0, nil
}

func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM products"); err != nil {
		return 0, errors.Wrap(err, "count all products")
	}
	return n, nil
}

func (r *PGRepository) InsertBatch(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	const stmt = `
        INSERT INTO products (
            title, description, brand, category, color, size,
            price, rating, on_promotion, image_urls
        )
        VALUES (
            :title, :description, :brand, :category, :color, :size,
            :price, :rating, :on_promotion, :image_urls
        )
    `
	if _, err := r.DB.NamedExecContext(ctx, stmt, products); err != nil {
		return errors.Wrap(err, "insert products")
	}
	return nil
}
