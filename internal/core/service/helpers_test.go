package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/blinkhq/storefront/internal/core/domain"
	"github.com/blinkhq/storefront/internal/core/event"
	"github.com/blinkhq/storefront/internal/port"
)

// fakeCache is a TTL-less port.Cache for service tests.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), value...)
	return nil
}

func (c *fakeCache) Remove(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = []byte(value)
}

func (c *fakeCache) raw(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// fakeCommerce simulates the commerce API behind the query gateway: a
// shop record, a product table, and one mutable cart priced at 10.00
// per unit. Operations are classified by mutation/query name.
type fakeCommerce struct {
	mu sync.Mutex

	shop     domain.Shop
	products map[string]domain.Product

	cartID   string
	lines    []fakeLine
	nextLine int

	calls      map[string]int
	userErrors map[string][]port.UserError
	failures   map[string]error
	apiErrors  map[string][]port.QueryError
}

type fakeLine struct {
	id       string
	variant  string
	quantity int
}

func newFakeCommerce() *fakeCommerce {
	return &fakeCommerce{
		shop:       domain.Shop{Name: "Demo Shop", MoneyFormat: "${{amount}}"},
		products:   make(map[string]domain.Product),
		calls:      make(map[string]int),
		userErrors: make(map[string][]port.UserError),
		failures:   make(map[string]error),
		apiErrors:  make(map[string][]port.QueryError),
	}
}

func (f *fakeCommerce) addProduct(p domain.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
}

func (f *fakeCommerce) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeCommerce) lineCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lines)
}

func (f *fakeCommerce) Execute(_ context.Context, query string, vars map[string]any) (*port.QueryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	op := classify(query)
	f.calls[op]++

	if err, ok := f.failures[op]; ok {
		return nil, err
	}
	if errs, ok := f.apiErrors[op]; ok {
		return &port.QueryResponse{Errors: errs}, nil
	}
	if ues, ok := f.userErrors[op]; ok {
		return respond(map[string]any{
			op: map[string]any{"cart": nil, "userErrors": ues},
		})
	}

	switch op {
	case "shop":
		return respond(map[string]any{"shop": f.shop})

	case "node":
		id, _ := vars["id"].(string)
		p, ok := f.products[id]
		if !ok {
			return respond(map[string]any{"node": nil})
		}
		return respond(map[string]any{"node": productNodeJSON(p)})

	case "cart":
		id, _ := vars["cartId"].(string)
		if id != f.cartID {
			return respond(map[string]any{"cart": nil})
		}
		return respond(map[string]any{"cart": f.cartJSON()})

	case "cartCreate":
		f.cartID = "gid://shopify/Cart/test-cart"
		f.lines = nil
		input := vars["input"].(map[string]any)
		for _, line := range input["lines"].([]map[string]any) {
			f.addLine(line["merchandiseId"].(string), line["quantity"].(int))
		}
		return respond(mutationJSON(op, f.cartID))

	case "cartLinesAdd":
		for _, line := range vars["lines"].([]map[string]any) {
			f.addLine(line["merchandiseId"].(string), line["quantity"].(int))
		}
		return respond(mutationJSON(op, f.cartID))

	case "cartLinesRemove":
		remove := map[string]bool{}
		for _, id := range vars["lineIds"].([]string) {
			remove[id] = true
		}
		kept := f.lines[:0]
		for _, line := range f.lines {
			if !remove[line.id] {
				kept = append(kept, line)
			}
		}
		f.lines = kept
		return respond(mutationJSON(op, f.cartID))

	case "cartLinesUpdate":
		for _, upd := range vars["lines"].([]map[string]any) {
			for i := range f.lines {
				if f.lines[i].id == upd["id"].(string) {
					f.lines[i].quantity = upd["quantity"].(int)
				}
			}
		}
		return respond(mutationJSON(op, f.cartID))
	}

	return nil, fmt.Errorf("unexpected query: %s", op)
}

// addLine merges into an existing line for the same variant, the way the
// real API does.
func (f *fakeCommerce) addLine(variantID string, quantity int) {
	for i := range f.lines {
		if f.lines[i].variant == variantID {
			f.lines[i].quantity += quantity
			return
		}
	}
	f.nextLine++
	f.lines = append(f.lines, fakeLine{
		id:       fmt.Sprintf("line-%d", f.nextLine),
		variant:  variantID,
		quantity: quantity,
	})
}

func (f *fakeCommerce) cartJSON() map[string]any {
	edges := make([]map[string]any, len(f.lines))
	units := 0
	for i, line := range f.lines {
		units += line.quantity
		lineTotal := fmt.Sprintf("%d.00", line.quantity*10)
		edges[i] = map[string]any{"node": map[string]any{
			"id":       line.id,
			"quantity": line.quantity,
			"cost": map[string]any{
				"amountPerQuantity": money("10.00"),
				"totalAmount":       money(lineTotal),
			},
			"merchandise": map[string]any{
				"id":               line.variant,
				"title":            "Test Variant",
				"availableForSale": true,
				"price":            money("10.00"),
				"product":          map[string]any{"id": "gid://shopify/Product/1", "title": "Test Product"},
			},
		}}
	}

	total := fmt.Sprintf("%d.00", units*10)
	return map[string]any{
		"id":            f.cartID,
		"checkoutUrl":   "https://demo.myshopify.com/checkout/test-cart",
		"totalQuantity": units,
		"lines":         map[string]any{"edges": edges},
		"estimatedCost": map[string]any{
			"subtotalAmount": money(total),
			"totalAmount":    money(total),
			"totalTaxAmount": money("0.00"),
		},
	}
}

func money(amount string) map[string]any {
	return map[string]any{"amount": amount, "currencyCode": "USD"}
}

func mutationJSON(field, cartID string) map[string]any {
	return map[string]any{
		field: map[string]any{
			"cart":       map[string]any{"id": cartID},
			"userErrors": []any{},
		},
	}
}

func productNodeJSON(p domain.Product) map[string]any {
	options := make([]map[string]any, len(p.Options))
	for i, opt := range p.Options {
		values := make([]map[string]any, len(opt.Values))
		for j, v := range opt.Values {
			values[j] = map[string]any{"id": v.ID, "name": v.Name}
		}
		options[i] = map[string]any{"name": opt.Name, "optionValues": values}
	}

	imageEdges := make([]map[string]any, len(p.Images))
	for i, img := range p.Images {
		imageEdges[i] = map[string]any{"node": img}
	}
	variantEdges := make([]map[string]any, len(p.Variants))
	for i, v := range p.Variants {
		variantEdges[i] = map[string]any{"node": v}
	}

	return map[string]any{
		"id":              p.ID,
		"title":           p.Title,
		"handle":          p.Handle,
		"description":     p.Description,
		"descriptionHtml": p.DescriptionHTML,
		"vendor":          p.Vendor,
		"productType":     p.ProductType,
		"tags":            p.Tags,
		"priceRange":      p.PriceRange,
		"options":         options,
		"images":          map[string]any{"edges": imageEdges},
		"variants":        map[string]any{"edges": variantEdges},
	}
}

func respond(data map[string]any) (*port.QueryResponse, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &port.QueryResponse{Data: raw}, nil
}

// classify maps a GraphQL document to the payload field it targets.
func classify(query string) string {
	switch {
	case strings.Contains(query, "cartCreate("):
		return "cartCreate"
	case strings.Contains(query, "cartLinesAdd("):
		return "cartLinesAdd"
	case strings.Contains(query, "cartLinesRemove("):
		return "cartLinesRemove"
	case strings.Contains(query, "cartLinesUpdate("):
		return "cartLinesUpdate"
	case strings.Contains(query, "cart(id:"):
		return "cart"
	case strings.Contains(query, "node(id:"):
		return "node"
	case strings.Contains(query, "shop {"):
		return "shop"
	}
	return "unknown"
}

// eventRecorder captures published events in dispatch order.
type eventRecorder struct {
	names   []string
	details []event.Detail
}

func recordEvents(bus *event.Bus, names ...string) *eventRecorder {
	r := &eventRecorder{}
	for _, name := range names {
		bus.Subscribe(name, func(d event.Detail) {
			r.names = append(r.names, name)
			r.details = append(r.details, d)
		})
	}
	return r
}

func (r *eventRecorder) sequence() []string { return r.names }

func (r *eventRecorder) last(name string) event.Detail {
	for i := len(r.names) - 1; i >= 0; i-- {
		if r.names[i] == name {
			return r.details[i]
		}
	}
	return nil
}

func (r *eventRecorder) count(name string) int {
	n := 0
	for _, got := range r.names {
		if got == name {
			n++
		}
	}
	return n
}
