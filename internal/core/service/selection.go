package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/blinkhq/storefront/internal/core/domain"
	"github.com/blinkhq/storefront/internal/core/event"
	"github.com/blinkhq/storefront/internal/port"
)

// productPagePattern recognizes canonical single-product page paths
// (/products/<slug>), the only pages where the variant URL parameter
// contract applies.
var productPagePattern = regexp.MustCompile(`^/products/[^/]+/?$`)

// Selection is the per-rendered-product purchase state: the resolved
// variant id and the quantity. It holds a read-only copy of the catalog
// record and mutates only itself; adding to the cart delegates to the
// cart service.
//
// A Selection belongs to one page fragment and is used from one
// goroutine at a time.
type Selection struct {
	product   domain.Product
	cart      *CartService
	bus       *event.Bus
	page      port.Page
	variantID string
	quantity  int
}

// NewSelection builds the selection state for a product. The first
// variant is the default; on a single-product page a valid ?variant=
// URL parameter takes precedence over it.
func NewSelection(product domain.Product, cart *CartService, bus *event.Bus, page port.Page) *Selection {
	s := &Selection{
		product:  product,
		cart:     cart,
		bus:      bus,
		page:     page,
		quantity: 1,
	}
	if v := product.FirstVariant(); v != nil {
		s.variantID = v.ID
	}
	s.hydrateFromURL()
	return s
}

// Product returns the catalog record the selection is built over.
func (s *Selection) Product() domain.Product { return s.product }

// Quantity returns the currently chosen quantity.
func (s *Selection) Quantity() int { return s.quantity }

// SelectedVariantID returns the resolved variant id, empty when the
// product has no variants.
func (s *Selection) SelectedVariantID() string { return s.variantID }

// SelectedVariant returns the resolved variant record, nil when none
// is selected.
func (s *Selection) SelectedVariant() *domain.Variant {
	if s.variantID == "" {
		return nil
	}
	return s.product.VariantByID(s.variantID)
}

// SelectVariant sets the selection to the given variant, keeps the URL
// variant parameter in sync on single-product pages, and publishes
// product:variant-change.
func (s *Selection) SelectVariant(variantID string) error {
	v := s.product.VariantByID(variantID)
	if v == nil {
		return domain.ErrVariantNotFound
	}

	s.variantID = v.ID
	s.syncURL(v.ID)
	s.bus.Publish(event.ProductVariantChange, event.Detail{
		"productId": s.product.ID,
		"variantId": v.ID,
	})
	return nil
}

// SelectOption overlays one option change onto the current variant's
// option set and resolves the exact matching variant. When no variant
// carries the combination, the selection is left unchanged and
// domain.ErrNoMatchingVariant is returned so the caller can mark the
// combination unavailable.
func (s *Selection) SelectOption(optionName, optionValue string) error {
	v, err := s.matchOverlay(optionName, optionValue)
	if err != nil {
		return err
	}
	return s.applyOption(v, optionName, optionValue)
}

// SelectOptionOrFirst is SelectOption with the historical fallback: an
// unmatched combination resolves to the first variant instead of
// failing.
func (s *Selection) SelectOptionOrFirst(optionName, optionValue string) error {
	v, err := s.matchOverlay(optionName, optionValue)
	if errors.Is(err, domain.ErrNoMatchingVariant) {
		v = s.product.FirstVariant()
		if v == nil {
			return domain.ErrNoMatchingVariant
		}
	} else if err != nil {
		return err
	}
	return s.applyOption(v, optionName, optionValue)
}

// SetQuantity sets the chosen quantity (floored at 1) and publishes
// product:quantity-change.
func (s *Selection) SetQuantity(quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.quantity = quantity
	s.bus.Publish(event.ProductQuantityChange, event.Detail{
		"productId": s.product.ID,
		"quantity":  quantity,
	})
}

// AddToCart puts the selected variant in the cart at the chosen
// quantity. It only delegates; the selection itself is unchanged.
func (s *Selection) AddToCart(ctx context.Context) error {
	if s.variantID == "" {
		return ErrNoVariantSelected
	}
	return s.cart.Add(ctx, s.variantID, s.quantity)
}

func (s *Selection) matchOverlay(optionName, optionValue string) (*domain.Variant, error) {
	candidate := map[string]string{}
	if v := s.SelectedVariant(); v != nil {
		candidate = v.OptionValues()
	}
	candidate[optionName] = optionValue
	return s.product.MatchVariant(candidate)
}

func (s *Selection) applyOption(v *domain.Variant, optionName, optionValue string) error {
	if err := s.SelectVariant(v.ID); err != nil {
		return err
	}
	s.bus.Publish(event.ProductOptionChange, event.Detail{
		"productId":  s.product.ID,
		"optionName": optionName,
		"option":     optionValue,
	})
	return nil
}

func (s *Selection) onProductPage() bool {
	return s.page != nil && productPagePattern.MatchString(s.page.URL().Path)
}

// hydrateFromURL seeds the selection from the ?variant= parameter on
// single-product pages. Unknown variant ids are ignored and the default
// stands.
func (s *Selection) hydrateFromURL() {
	if !s.onProductPage() {
		return
	}
	raw := s.page.URL().Query().Get("variant")
	if raw == "" {
		return
	}
	if v := s.product.VariantByID(raw); v != nil {
		// Intentionally goes through SelectVariant so subscribers see
		// the same variant-change event as a user click.
		_ = s.SelectVariant(v.ID)
	}
}

// syncURL rewrites the variant query parameter via a non-reloading
// replacement, using the variant's public numeric id.
func (s *Selection) syncURL(variantID string) {
	if !s.onProductPage() {
		return
	}
	u := *s.page.URL()
	q := u.Query()
	q.Set("variant", domain.NumericID(variantID))
	u.RawQuery = q.Encode()
	s.page.Replace(&u)
}
