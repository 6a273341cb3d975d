package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blinkhq/storefront/internal/core/domain"
	"github.com/blinkhq/storefront/internal/core/event"
	"github.com/blinkhq/storefront/internal/port"
)

// CatalogService resolves externally-referenced product ids into full
// catalog records, cache-then-network. It is the sole writer of the
// products cache entry, which holds the whole id→product map.
type CatalogService struct {
	gateway  port.QueryGateway
	cache    port.Cache
	bus      *event.Bus
	cacheKey string
	cacheTTL time.Duration
	logger   *slog.Logger

	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewCatalogService wires a catalog manager over the given gateway,
// cache and bus.
func NewCatalogService(gateway port.QueryGateway, cache port.Cache, bus *event.Bus, cacheKey string, cacheTTL time.Duration, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		gateway:  gateway,
		cache:    cache,
		bus:      bus,
		cacheKey: cacheKey,
		cacheTTL: cacheTTL,
		logger:   logger,
		products: make(map[string]domain.Product),
	}
}

// FetchProducts resolves the given ids. Cache hits are taken as-is;
// misses are fetched concurrently, one request per id, with failures
// isolated per id: an unresolvable id is simply absent afterwards,
// never fatal to the batch. The combined result overwrites the cached
// snapshot, and products:fetched is published once at the end. An
// empty id set publishes without touching the snapshot.
func (s *CatalogService) FetchProducts(ctx context.Context, ids []string) error {
	unique := dedupe(ids)
	if len(unique) == 0 {
		s.bus.Publish(event.ProductsFetched, nil)
		return nil
	}

	cached := s.loadCachedSnapshot(ctx)
	var missing []string
	for _, id := range unique {
		if p, ok := cached[id]; ok {
			s.mu.Lock()
			s.products[id] = p
			s.mu.Unlock()
			continue
		}
		missing = append(missing, id)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range missing {
		g.Go(func() error {
			p, err := s.fetchProduct(ctx, domain.ProductGID(id))
			if err != nil {
				// Isolated: the rest of the batch still resolves.
				s.logger.Error("failed to fetch product", "id", id, "error", err)
				return nil
			}
			s.mu.Lock()
			s.products[id] = *p
			s.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.RLock()
	raw, err := json.Marshal(s.products)
	s.mu.RUnlock()
	if err == nil {
		if err := s.cache.Set(ctx, s.cacheKey, raw, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache product snapshot", "error", err)
		}
	}

	s.bus.Publish(event.ProductsFetched, nil)
	return nil
}

// Product returns the resolved record for id, if any.
func (s *CatalogService) Product(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

// Products returns a copy of the resolved id→product map.
func (s *CatalogService) Products() map[string]domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Product, len(s.products))
	for id, p := range s.products {
		out[id] = p
	}
	return out
}

func (s *CatalogService) loadCachedSnapshot(ctx context.Context) map[string]domain.Product {
	raw, ok := s.cache.Get(ctx, s.cacheKey)
	if !ok {
		return nil
	}
	var snapshot map[string]domain.Product
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		s.logger.Warn("discarding corrupt product snapshot")
		s.cache.Remove(ctx, s.cacheKey)
		return nil
	}
	return snapshot
}

func (s *CatalogService) fetchProduct(ctx context.Context, gid string) (*domain.Product, error) {
	res, err := s.gateway.Execute(ctx, productQuery, map[string]any{"id": gid})
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, &ProtocolError{Errors: res.Errors}
	}

	var payload struct {
		Node *productNode `json:"node"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	if payload.Node == nil || payload.Node.ID == "" {
		return nil, domain.ErrProductNotFound
	}
	return payload.Node.toDomain(), nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Wire shapes for the product query. The API returns connections as
// edges/node pairs; they are flattened into ordered domain slices here.

type productNode struct {
	ID                  string                     `json:"id"`
	Title               string                     `json:"title"`
	Handle              string                     `json:"handle"`
	Description         string                     `json:"description"`
	DescriptionHTML     string                     `json:"descriptionHtml"`
	Vendor              string                     `json:"vendor"`
	ProductType         string                     `json:"productType"`
	Tags                []string                   `json:"tags"`
	PriceRange          domain.PriceRange          `json:"priceRange"`
	CompareAtPriceRange domain.PriceRange          `json:"compareAtPriceRange"`
	Options             []optionNode               `json:"options"`
	Images              connection[domain.Image]   `json:"images"`
	Variants            connection[domain.Variant] `json:"variants"`
}

type optionNode struct {
	Name         string            `json:"name"`
	OptionValues []optionValueNode `json:"optionValues"`
}

type optionValueNode struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Swatch *struct {
		Color string `json:"color"`
		Image *struct {
			PreviewImage struct {
				URL string `json:"url"`
			} `json:"previewImage"`
		} `json:"image"`
	} `json:"swatch"`
}

type connection[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

func (c connection[T]) nodes() []T {
	if len(c.Edges) == 0 {
		return nil
	}
	out := make([]T, len(c.Edges))
	for i, e := range c.Edges {
		out[i] = e.Node
	}
	return out
}

func (n *productNode) toDomain() *domain.Product {
	options := make([]domain.Option, len(n.Options))
	for i, opt := range n.Options {
		values := make([]domain.OptionValue, len(opt.OptionValues))
		for j, v := range opt.OptionValues {
			value := domain.OptionValue{ID: v.ID, Name: v.Name}
			if v.Swatch != nil {
				swatch := &domain.Swatch{Color: v.Swatch.Color}
				if v.Swatch.Image != nil {
					swatch.ImageURL = v.Swatch.Image.PreviewImage.URL
				}
				value.Swatch = swatch
			}
			values[j] = value
		}
		options[i] = domain.Option{Name: opt.Name, Values: values}
	}

	return &domain.Product{
		ID:                  n.ID,
		Title:               n.Title,
		Handle:              n.Handle,
		Description:         n.Description,
		DescriptionHTML:     n.DescriptionHTML,
		Vendor:              n.Vendor,
		ProductType:         n.ProductType,
		Tags:                n.Tags,
		PriceRange:          n.PriceRange,
		CompareAtPriceRange: n.CompareAtPriceRange,
		Options:             options,
		Images:              n.Images.nodes(),
		Variants:            n.Variants.nodes(),
	}
}
