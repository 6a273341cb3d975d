// Package app wires the toolkit's components into one explicit
// application context: one cache, one gateway, one bus, and one
// instance of each state manager. Nothing here is a process-wide
// global; hosts construct an App once at startup and pass it around.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/blinkhq/storefront/internal/adapter/shopify"
	"github.com/blinkhq/storefront/internal/adapter/storage"
	"github.com/blinkhq/storefront/internal/config"
	"github.com/blinkhq/storefront/internal/core/domain"
	"github.com/blinkhq/storefront/internal/core/event"
	"github.com/blinkhq/storefront/internal/core/service"
	"github.com/blinkhq/storefront/internal/port"
)

// App is the assembled toolkit.
type App struct {
	Config  *config.Config
	Bus     *event.Bus
	Cache   port.Cache
	Gateway port.QueryGateway
	Shop    *service.ShopService
	Catalog *service.CatalogService
	Cart    *service.CartService

	redis *redis.Client
}

// New builds an App from the resolved configuration. The cache backend
// is Redis when an address is configured, files otherwise.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		cache port.Cache
		rdb   *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		cache = storage.NewRedisCache(rdb)
	} else {
		fc, err := storage.NewFileCache(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		cache = fc
	}

	bus := event.NewBus(logger)
	gateway := shopify.NewClient(shopify.Config{
		Token:      cfg.Token,
		Domain:     cfg.Domain,
		APIVersion: cfg.APIVersion,
		Logger:     logger,
	})

	return &App{
		Config:  cfg,
		Bus:     bus,
		Cache:   cache,
		Gateway: gateway,
		Shop:    service.NewShopService(gateway, cache, config.ShopCacheKey, cfg.TTL.Shop, logger),
		Catalog: service.NewCatalogService(gateway, cache, bus, config.ProductsCacheKey, cfg.TTL.Products, logger),
		Cart:    service.NewCartService(gateway, cache, bus, config.CartCacheKey, cfg.TTL.Cart, logger),
		redis:   rdb,
	}, nil
}

// Init performs the boot sequence: resolve shop metadata, resolve the
// referenced products, then load any cached cart. Product resolution
// failures are isolated per id inside the catalog; a shop failure is
// fatal since nothing can be formatted without the money template.
func (a *App) Init(ctx context.Context, productIDs []string) error {
	if _, err := a.Shop.Shop(ctx); err != nil {
		return err
	}
	if err := a.Catalog.FetchProducts(ctx, productIDs); err != nil {
		return err
	}
	a.Cart.Init(ctx)
	return nil
}

// NewSelection builds selection state over a resolved product.
func (a *App) NewSelection(productID string, page port.Page) (*service.Selection, error) {
	p, ok := a.Catalog.Product(productID)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return service.NewSelection(p, a.Cart, a.Bus, page), nil
}

// Close releases backend connections.
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
