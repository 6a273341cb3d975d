package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/blinkhq/storefront/internal/core/domain"
	"github.com/blinkhq/storefront/internal/port"
)

// ShopService resolves and caches shop-level metadata, most importantly
// the money format template every price renderer needs.
type ShopService struct {
	gateway  port.QueryGateway
	cache    port.Cache
	cacheKey string
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewShopService wires a shop resolver over the given gateway and cache.
func NewShopService(gateway port.QueryGateway, cache port.Cache, cacheKey string, cacheTTL time.Duration, logger *slog.Logger) *ShopService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShopService{
		gateway:  gateway,
		cache:    cache,
		cacheKey: cacheKey,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Shop returns shop metadata, cache-first. A cached record missing
// either field is discarded and refetched.
func (s *ShopService) Shop(ctx context.Context) (domain.Shop, error) {
	if raw, ok := s.cache.Get(ctx, s.cacheKey); ok {
		var shop domain.Shop
		if err := json.Unmarshal(raw, &shop); err == nil && shop.Valid() {
			return shop, nil
		}
		s.logger.Warn("discarding unusable cached shop info")
		s.cache.Remove(ctx, s.cacheKey)
	}

	res, err := s.gateway.Execute(ctx, shopQuery, nil)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("fetch shop: %w", err)
	}
	if len(res.Errors) > 0 {
		return domain.Shop{}, &ProtocolError{Errors: res.Errors}
	}

	var payload struct {
		Shop domain.Shop `json:"shop"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		return domain.Shop{}, fmt.Errorf("decode shop: %w", err)
	}
	if !payload.Shop.Valid() {
		return domain.Shop{}, ErrShopUnavailable
	}

	if raw, err := json.Marshal(payload.Shop); err == nil {
		if err := s.cache.Set(ctx, s.cacheKey, raw, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache shop info", "error", err)
		}
	}
	return payload.Shop, nil
}
