package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ruzaikr/screencloud-takehome/internal/domain"
	"github.com/ruzaikr/screencloud-takehome/internal/repository"
)

const productListCacheKey = "catalog:products"

// ProductService serves the product catalog. Listings are cached in Redis
// with a short TTL; the catalog is reference data maintained by external
// tooling, so brief staleness is acceptable.
type ProductService struct {
	products repository.ProductRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewProductService creates a new product service. A nil cache client
// disables caching.
func NewProductService(products repository.ProductRepository, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *ProductService {
	return &ProductService{
		products: products,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ListProducts returns the full catalog with volume discount tiers, from
// cache when available. Cache failures fall through to the database; log but
// do not fail on them.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.CatalogProduct, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, productListCacheKey).Bytes()
		if err == nil {
			var catalog []domain.CatalogProduct
			if err := json.Unmarshal(data, &catalog); err == nil {
				return catalog, nil
			}
			s.logger.WarnContext(ctx, "discarding corrupt product list cache entry")
		} else if err != redis.Nil {
			s.logger.WarnContext(ctx, "product list cache read failed",
				slog.String("error", err.Error()),
			)
		}
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	catalog := make([]domain.CatalogProduct, 0, len(products))
	if len(ids) > 0 {
		discounts, err := s.products.GetDiscountsByProductIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list volume discounts: %w", err)
		}
		for _, p := range products {
			tiers := discounts[p.ID]
			if tiers == nil {
				tiers = []domain.VolumeDiscount{}
			}
			catalog = append(catalog, domain.CatalogProduct{Product: p, Discounts: tiers})
		}
	}

	if s.cache != nil {
		data, err := json.Marshal(catalog)
		if err == nil {
			if err := s.cache.Set(ctx, productListCacheKey, data, s.cacheTTL).Err(); err != nil {
				s.logger.WarnContext(ctx, "product list cache write failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}

	return catalog, nil
}
