package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blinkhq/storefront/internal/core/domain"
	"github.com/blinkhq/storefront/internal/core/event"
	"github.com/blinkhq/storefront/internal/port"
)

// CartService owns the authoritative mutable cart. Every mutating
// operation runs remotely first and ends with a wholesale refresh from
// the server; the refreshed snapshot is persisted to cache and pushed
// to subscribers through the bus.
//
// Mutations are serialized by a per-cart queue: one in-flight mutation
// at a time, later calls wait. The refresh happens inside the same
// critical section, so observed state is always the result of the last
// completed operation.
type CartService struct {
	gateway  port.QueryGateway
	cache    port.Cache
	bus      *event.Bus
	cacheKey string
	cacheTTL time.Duration
	logger   *slog.Logger

	// opMu is the mutation queue; stateMu guards the snapshot so the
	// read-only views never block behind an in-flight network call.
	opMu    sync.Mutex
	stateMu sync.RWMutex
	cart    *domain.Cart
}

// NewCartService wires a cart manager over the given gateway, cache
// and bus. The cart starts absent; call Init to load a cached one.
func NewCartService(gateway port.QueryGateway, cache port.Cache, bus *event.Bus, cacheKey string, cacheTTL time.Duration, logger *slog.Logger) *CartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartService{
		gateway:  gateway,
		cache:    cache,
		bus:      bus,
		cacheKey: cacheKey,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Init loads the cached cart snapshot if one is present and unexpired,
// otherwise leaves the cart absent. It never contacts the network.
func (s *CartService) Init(ctx context.Context) {
	s.bus.Publish(event.CartInitStarted, event.Detail{"cacheKey": s.cacheKey})

	loaded := false
	if raw, ok := s.cache.Get(ctx, s.cacheKey); ok {
		var cart domain.Cart
		if err := json.Unmarshal(raw, &cart); err == nil && cart.ID != "" {
			s.setCart(&cart)
			loaded = true
			s.logger.Info("cart loaded from cache", "cartId", cart.ID)
			s.bus.Publish(event.CartInitLoaded, event.Detail{"cart": cart.Clone(), "source": "cache"})
		} else {
			s.logger.Warn("discarding corrupt cached cart")
			s.cache.Remove(ctx, s.cacheKey)
		}
	}
	if !loaded {
		s.bus.Publish(event.CartInitEmpty, event.Detail{"source": "no-cache"})
	}

	s.bus.Publish(event.CartInitCompleted, event.Detail{"hasCart": s.current() != nil})
}

// Add puts quantity units of a variant in the cart, creating the cart
// remotely on first use. The id is accepted in numeric or global form.
func (s *CartService) Add(ctx context.Context, variantID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	gid := domain.VariantGID(variantID)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.bus.Publish(event.CartAddStarted, event.Detail{"variantId": gid, "quantity": quantity})

	if s.current() == nil {
		id, err := s.create(ctx, gid, quantity)
		if err != nil {
			s.bus.Publish(event.CartAddError, event.Detail{"variantId": gid, "quantity": quantity, "error": err})
			return err
		}
		s.setCart(&domain.Cart{ID: id})
	} else {
		if err := s.addToExisting(ctx, gid, quantity); err != nil {
			s.bus.Publish(event.CartAddError, event.Detail{"variantId": gid, "quantity": quantity, "error": err})
			return err
		}
	}

	if err := s.refreshLocked(ctx); err != nil {
		s.bus.Publish(event.CartAddError, event.Detail{"variantId": gid, "quantity": quantity, "error": err})
		return err
	}

	s.bus.Publish(event.CartAddCompleted, event.Detail{"cart": s.snapshot(), "variantId": gid, "quantity": quantity})
	return nil
}

// Refresh re-fetches the full cart by id, overwrites in-memory state,
// and persists the fresh snapshot to cache.
func (s *CartService) Refresh(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.refreshLocked(ctx)
}

// RemoveLineItem removes one line remotely, then refreshes.
func (s *CartService) RemoveLineItem(ctx context.Context, lineID string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.removeLineItemLocked(ctx, lineID)
}

// UpdateLineItemQuantity sets a line's quantity remotely, then
// refreshes. A quantity of zero or less removes the line instead.
func (s *CartService) UpdateLineItemQuantity(ctx context.Context, lineID string, quantity int) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if quantity <= 0 {
		return s.removeLineItemLocked(ctx, lineID)
	}

	cart := s.current()
	if cart == nil {
		return ErrNoCart
	}

	s.bus.Publish(event.CartUpdateQuantityStarted, event.Detail{"lineId": lineID, "quantity": quantity})

	vars := map[string]any{
		"cartId": cart.ID,
		"lines":  []map[string]any{{"id": lineID, "quantity": quantity}},
	}
	if _, err := s.mutate(ctx, "update quantity", cartLinesUpdateMutation, vars, "cartLinesUpdate"); err != nil {
		s.bus.Publish(event.CartUpdateQuantityError, event.Detail{"lineId": lineID, "quantity": quantity, "error": err})
		return err
	}
	if err := s.refreshLocked(ctx); err != nil {
		s.bus.Publish(event.CartUpdateQuantityError, event.Detail{"lineId": lineID, "quantity": quantity, "error": err})
		return err
	}

	s.bus.Publish(event.CartUpdateQuantityCompleted, event.Detail{"lineId": lineID, "quantity": quantity, "cart": s.snapshot()})
	return nil
}

// Clear removes every line in one remote mutation, then refreshes.
// Clearing an absent or already-empty cart is a no-op from the
// caller's perspective.
func (s *CartService) Clear(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	cart := s.current()
	if cart == nil {
		return nil
	}

	lineIDs := cart.LineIDs()
	if len(lineIDs) > 0 {
		s.bus.Publish(event.CartClearStarted, event.Detail{"lineIds": lineIDs})

		vars := map[string]any{"cartId": cart.ID, "lineIds": lineIDs}
		if _, err := s.mutate(ctx, "clear cart", cartLinesRemoveMutation, vars, "cartLinesRemove"); err != nil {
			s.bus.Publish(event.CartClearError, event.Detail{"lineIds": lineIDs, "error": err})
			return err
		}
	}

	if err := s.refreshLocked(ctx); err != nil {
		s.bus.Publish(event.CartClearError, event.Detail{"error": err})
		return err
	}

	if len(lineIDs) > 0 {
		s.bus.Publish(event.CartClearCompleted, event.Detail{"lineIds": lineIDs, "cart": s.snapshot()})
	}
	return nil
}

// Read-only views. All are safe against an absent cart.

// ItemCount is the sum of line quantities, 0 with no cart.
func (s *CartService) ItemCount() int { return s.current().ItemCount() }

// IsEmpty reports whether the cart is absent or has no lines.
func (s *CartService) IsEmpty() bool { return s.current().IsEmpty() }

// Subtotal is the raw decimal subtotal string, "0" with no cart.
func (s *CartService) Subtotal() string { return s.current().Subtotal() }

// Total is the raw decimal total string, "0" with no cart.
func (s *CartService) Total() string { return s.current().Total() }

// HasVariant reports whether any line references the variant.
func (s *CartService) HasVariant(variantID string) bool { return s.current().HasVariant(variantID) }

// LineItem looks a line up by id, nil when absent.
func (s *CartService) LineItem(lineID string) *domain.CartLine { return s.current().Line(lineID) }

// CheckoutURL is the cart's checkout URL, empty with no cart.
func (s *CartService) CheckoutURL() string {
	if cart := s.current(); cart != nil {
		return cart.CheckoutURL
	}
	return ""
}

// Cart returns a copy of the current snapshot, nil when absent.
func (s *CartService) Cart() *domain.Cart { return s.snapshot() }

// Internal steps. Each remote step has its own started/completed/error
// event triple so observers can trace the protocol.

func (s *CartService) create(ctx context.Context, variantID string, quantity int) (string, error) {
	s.bus.Publish(event.CartCreateStarted, event.Detail{"variantId": variantID, "quantity": quantity})

	vars := map[string]any{
		"input": map[string]any{
			"lines": []map[string]any{{"quantity": quantity, "merchandiseId": variantID}},
		},
	}
	payload, err := s.mutate(ctx, "cart create", cartCreateMutation, vars, "cartCreate")
	if err != nil {
		s.bus.Publish(event.CartCreateError, event.Detail{"variantId": variantID, "quantity": quantity, "error": err})
		return "", err
	}
	if payload.Cart == nil || payload.Cart.ID == "" {
		err := fmt.Errorf("cart create returned no cart id")
		s.bus.Publish(event.CartCreateError, event.Detail{"variantId": variantID, "quantity": quantity, "error": err})
		return "", err
	}

	s.bus.Publish(event.CartCreateCompleted, event.Detail{"cartId": payload.Cart.ID, "variantId": variantID, "quantity": quantity})
	return payload.Cart.ID, nil
}

func (s *CartService) addToExisting(ctx context.Context, variantID string, quantity int) error {
	cartID := s.current().ID
	s.bus.Publish(event.CartAddToExistingStarted, event.Detail{"variantId": variantID, "quantity": quantity, "cartId": cartID})

	vars := map[string]any{
		"cartId": cartID,
		"lines":  []map[string]any{{"quantity": quantity, "merchandiseId": variantID}},
	}
	if _, err := s.mutate(ctx, "cart add", cartLinesAddMutation, vars, "cartLinesAdd"); err != nil {
		s.bus.Publish(event.CartAddToExistingError, event.Detail{"variantId": variantID, "quantity": quantity, "error": err})
		return err
	}

	s.bus.Publish(event.CartAddToExistingCompleted, event.Detail{"variantId": variantID, "quantity": quantity, "cartId": cartID})
	return nil
}

func (s *CartService) removeLineItemLocked(ctx context.Context, lineID string) error {
	cart := s.current()
	if cart == nil {
		return ErrNoCart
	}

	s.bus.Publish(event.CartRemoveLineItemStarted, event.Detail{"lineId": lineID})

	vars := map[string]any{"cartId": cart.ID, "lineIds": []string{lineID}}
	if _, err := s.mutate(ctx, "remove line item", cartLinesRemoveMutation, vars, "cartLinesRemove"); err != nil {
		s.bus.Publish(event.CartRemoveLineItemError, event.Detail{"lineId": lineID, "error": err})
		return err
	}
	if err := s.refreshLocked(ctx); err != nil {
		s.bus.Publish(event.CartRemoveLineItemError, event.Detail{"lineId": lineID, "error": err})
		return err
	}

	s.bus.Publish(event.CartRemoveLineItemCompleted, event.Detail{"lineId": lineID, "cart": s.snapshot()})
	return nil
}

func (s *CartService) refreshLocked(ctx context.Context) error {
	cart := s.current()
	if cart == nil || cart.ID == "" {
		return ErrNoCart
	}

	s.bus.Publish(event.CartRefreshStarted, event.Detail{"cartId": cart.ID})

	fresh, err := s.fetch(ctx, cart.ID)
	if err != nil {
		s.bus.Publish(event.CartRefreshError, event.Detail{"cartId": cart.ID, "error": err})
		return fmt.Errorf("refresh cart: %w", err)
	}

	s.setCart(fresh)
	if raw, err := json.Marshal(fresh); err == nil {
		if err := s.cache.Set(ctx, s.cacheKey, raw, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache cart snapshot", "error", err)
		}
	}

	s.bus.Publish(event.CartRefreshCompleted, event.Detail{"cart": fresh.Clone()})
	return nil
}

func (s *CartService) fetch(ctx context.Context, cartID string) (*domain.Cart, error) {
	s.bus.Publish(event.CartFetchStarted, event.Detail{"cartId": cartID})

	res, err := s.gateway.Execute(ctx, cartQuery, map[string]any{"cartId": cartID})
	if err != nil {
		s.bus.Publish(event.CartFetchError, event.Detail{"cartId": cartID, "error": err})
		return nil, err
	}
	if len(res.Errors) > 0 {
		err := &ProtocolError{Errors: res.Errors}
		s.bus.Publish(event.CartFetchError, event.Detail{"cartId": cartID, "error": err})
		return nil, err
	}

	var payload struct {
		Cart *cartNode `json:"cart"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		err = fmt.Errorf("decode cart: %w", err)
		s.bus.Publish(event.CartFetchError, event.Detail{"cartId": cartID, "error": err})
		return nil, err
	}
	if payload.Cart == nil {
		err := fmt.Errorf("cart %s not found", cartID)
		s.bus.Publish(event.CartFetchError, event.Detail{"cartId": cartID, "error": err})
		return nil, err
	}

	cart := payload.Cart.toDomain()
	s.bus.Publish(event.CartFetchCompleted, event.Detail{"cartId": cartID, "cart": cart.Clone()})
	return cart, nil
}

// mutationPayload is the common shape of every cart mutation response.
type mutationPayload struct {
	Cart *struct {
		ID string `json:"id"`
	} `json:"cart"`
	UserErrors []port.UserError `json:"userErrors"`
}

// mutate runs one mutation and enforces the shared failure policy: a
// transport failure, a top-level errors array, or a non-empty
// userErrors array all reject the operation before any local state is
// touched.
func (s *CartService) mutate(ctx context.Context, op, query string, vars map[string]any, field string) (*mutationPayload, error) {
	res, err := s.gateway.Execute(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, &ProtocolError{Errors: res.Errors}
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(res.Data, &data); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}

	var payload mutationPayload
	if raw, ok := data[field]; ok {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", op, err)
		}
	}
	if len(payload.UserErrors) > 0 {
		return nil, &CartOperationError{Op: op, UserErrors: payload.UserErrors}
	}
	return &payload, nil
}

func (s *CartService) current() *domain.Cart {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.cart
}

func (s *CartService) setCart(cart *domain.Cart) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.cart = cart
}

func (s *CartService) snapshot() *domain.Cart {
	return s.current().Clone()
}

// Wire shape for the cart query.

type cartNode struct {
	ID            string                   `json:"id"`
	CheckoutURL   string                   `json:"checkoutUrl"`
	CreatedAt     string                   `json:"createdAt"`
	UpdatedAt     string                   `json:"updatedAt"`
	TotalQuantity int                      `json:"totalQuantity"`
	Lines         connection[cartLineNode] `json:"lines"`
	EstimatedCost domain.CartCost          `json:"estimatedCost"`
}

type cartLineNode struct {
	ID          string             `json:"id"`
	Quantity    int                `json:"quantity"`
	Attributes  []domain.Attribute `json:"attributes"`
	Cost        domain.LineCost    `json:"cost"`
	Merchandise struct {
		ID                string        `json:"id"`
		Title             string        `json:"title"`
		SKU               string        `json:"sku"`
		AvailableForSale  bool          `json:"availableForSale"`
		QuantityAvailable int           `json:"quantityAvailable"`
		Image             *domain.Image `json:"image"`
		Price             domain.Money  `json:"price"`
		Product           struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"product"`
	} `json:"merchandise"`
}

func (n *cartNode) toDomain() *domain.Cart {
	lines := make([]domain.CartLine, 0, len(n.Lines.Edges))
	for _, edge := range n.Lines.Edges {
		ln := edge.Node
		lines = append(lines, domain.CartLine{
			ID:         ln.ID,
			Quantity:   ln.Quantity,
			Attributes: ln.Attributes,
			Cost:       ln.Cost,
			Merchandise: domain.Merchandise{
				ID:                ln.Merchandise.ID,
				Title:             ln.Merchandise.Title,
				SKU:               ln.Merchandise.SKU,
				AvailableForSale:  ln.Merchandise.AvailableForSale,
				QuantityAvailable: ln.Merchandise.QuantityAvailable,
				Image:             ln.Merchandise.Image,
				Price:             ln.Merchandise.Price,
				ProductID:         ln.Merchandise.Product.ID,
				ProductTitle:      ln.Merchandise.Product.Title,
			},
		})
	}

	return &domain.Cart{
		ID:            n.ID,
		CheckoutURL:   n.CheckoutURL,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
		TotalQuantity: n.TotalQuantity,
		Lines:         lines,
		Cost:          n.EstimatedCost,
	}
}
