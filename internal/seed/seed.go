// Package seed populates an empty product store with generated catalog
// data so the storefront has something to browse.
package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fuzfriend/catalog-api/internal/model"
	"github.com/fuzfriend/catalog-api/internal/pkg/logger"
	"github.com/fuzfriend/catalog-api/internal/product"
)

var categories = []string{
	"Smartphones", "Laptops", "Headphones", "Footwear", "Accessories",
	"Gaming", "Home Appliances", "Beauty", "Watches", "Cameras",
}

var brands = []string{
	"Apple", "Samsung", "Sony", "Nike", "Adidas", "Dell", "HP",
	"LG", "Canon", "Panasonic", "Bose", "JBL", "Microsoft", "Asus", "Lenovo",
}

var colors = []string{"Black", "White", "Blue", "Red", "Green", "Silver", "Grey", "Gold"}

var sizes = []string{"Small", "Medium", "Large", "128GB", "256GB", "512GB", "One Size", "UK 9", "EU 42"}

var categoryImages = map[string][]string{
	"Smartphones": {
		"https://images.pexels.com/photos/1289904/pexels-photo-1289904.jpeg",
		"https://images.pexels.com/photos/1334597/pexels-photo-1334597.jpeg",
	},
	"Laptops": {
		"https://images.pexels.com/photos/18105/pexels-photo.jpg",
		"https://images.pexels.com/photos/18106/pexels-photo.jpg",
	},
	"Headphones": {
		"https://images.pexels.com/photos/3394659/pexels-photo-3394659.jpeg",
		"https://images.pexels.com/photos/3394661/pexels-photo-3394661.jpeg",
	},
	"Footwear": {
		"https://images.pexels.com/photos/2529148/pexels-photo-2529148.jpeg",
		"https://images.pexels.com/photos/19090/pexels-photo.jpg",
	},
	"Gaming": {
		"https://images.pexels.com/photos/907221/pexels-photo-907221.jpeg",
		"https://images.pexels.com/photos/3945659/pexels-photo-3945659.jpeg",
	},
	"Home Appliances": {
		"https://images.pexels.com/photos/3737691/pexels-photo-3737691.jpeg",
		"https://images.pexels.com/photos/3737692/pexels-photo-3737692.jpeg",
	},
	"Beauty": {
		"https://images.pexels.com/photos/3373747/pexels-photo-3373747.jpeg",
		"https://images.pexels.com/photos/3735639/pexels-photo-3735639.jpeg",
	},
	"Watches": {
		"https://images.pexels.com/photos/190819/pexels-photo-190819.jpeg",
		"https://images.pexels.com/photos/277319/pexels-photo-277319.jpeg",
	},
	"Cameras": {
		"https://images.pexels.com/photos/51383/photo-camera-subject-photographer-51383.jpeg",
		"https://images.pexels.com/photos/274973/pexels-photo-274973.jpeg",
	},
	"Accessories": {
		"https://images.pexels.com/photos/845434/pexels-photo-845434.jpeg",
		"https://images.pexels.com/photos/845451/pexels-photo-845451.jpeg",
	},
}

// Commerce-style word pools for generated titles and descriptions.
var (
	adjectives = []string{
		"Sleek", "Rustic", "Incredible", "Durable", "Lightweight", "Ergonomic",
		"Practical", "Refined", "Intelligent", "Gorgeous", "Awesome", "Compact",
	}
	materials = []string{
		"Steel", "Wooden", "Cotton", "Leather", "Aluminum", "Granite",
		"Rubber", "Silk", "Plastic", "Bronze", "Bamboo", "Carbon",
	}
	nouns = []string{
		"Gadget", "Companion", "Classic", "Essential", "Edition", "Device",
		"Kit", "Set", "Bundle", "Piece", "Pro", "Mini",
	}
	loremWords = []string{
		"crafted", "for", "everyday", "use", "with", "attention", "to",
		"detail", "and", "a", "finish", "that", "lasts", "through", "seasons",
		"of", "heavy", "wear", "designed", "around", "comfort", "performance",
	}
)

// Generate builds n products from the fixed pools using the supplied
// random source, so tests can pass a seeded one.
func Generate(rng *rand.Rand, n int) []model.Product {
	products := make([]model.Product, 0, n)
	for i := 0; i < n; i++ {
		category := categories[rng.Intn(len(categories))]
		price := decimal.NewFromFloat(10 + rng.Float64()*1990).Round(2)
		rating := math.Round((3.0+rng.Float64()*2.0)*10) / 10

		images := categoryImages[category]
		if len(images) == 0 {
			images = []string{fmt.Sprintf("https://picsum.photos/800/800?random=%d", rng.Intn(9999)+1)}
		}

		products = append(products, model.Product{
			Title:       title(rng),
			Description: description(rng),
			Brand:       brands[rng.Intn(len(brands))],
			Category:    category,
			Color:       colors[rng.Intn(len(colors))],
			Size:        sizes[rng.Intn(len(sizes))],
			Price:       price,
			Rating:      rating,
			OnPromotion: rng.Intn(2) == 0,
			ImageUrls:   append(model.StringList(nil), images...),
		})
	}
	return products
}

func title(rng *rand.Rand) string {
	return fmt.Sprintf("%s %s %s",
		adjectives[rng.Intn(len(adjectives))],
		materials[rng.Intn(len(materials))],
		nouns[rng.Intn(len(nouns))],
	)
}

func description(rng *rand.Rand) string {
	out := ""
	for i := 0; i < 12; i++ {
		if i > 0 {
			out += " "
		}
		out += loremWords[rng.Intn(len(loremWords))]
	}
	return out + "."
}

// Run inserts generated products when the store is empty. Safe to call on
// every startup.
func Run(ctx context.Context, rng *rand.Rand, repo product.Repository, n int, log logger.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Debug("seed skipped, store not empty", zap.Int("count", count))
		return nil
	}

	products := Generate(rng, n)
	if err := repo.InsertBatch(ctx, products); err != nil {
		return err
	}
	log.Info("seeded product store", zap.Int("count", len(products)))
	return nil
}
