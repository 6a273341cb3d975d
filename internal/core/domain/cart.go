package domain

// Cart is the authoritative cart snapshot as last fetched from the
// remote API. Line order is the server-returned order and is not
// guaranteed stable across refreshes. A Cart without an id has never
// been created remotely; once assigned, the id is immutable.
type Cart struct {
	ID            string     `json:"id"`
	CheckoutURL   string     `json:"checkoutUrl,omitempty"`
	CreatedAt     string     `json:"createdAt,omitempty"`
	UpdatedAt     string     `json:"updatedAt,omitempty"`
	TotalQuantity int        `json:"totalQuantity,omitempty"`
	Lines         []CartLine `json:"lines,omitempty"`
	Cost          CartCost   `json:"estimatedCost"`
}

// CartCost is the cart-level cost breakdown.
type CartCost struct {
	Subtotal Money `json:"subtotalAmount"`
	Total    Money `json:"totalAmount"`
	TotalTax Money `json:"totalTaxAmount"`
}

// CartLine is one entry in a cart: a merchandise snapshot plus quantity
// and cost.
type CartLine struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Attributes  []Attribute `json:"attributes,omitempty"`
	Cost        LineCost    `json:"cost"`
	Merchandise Merchandise `json:"merchandise"`
}

// Attribute is a free-form key/value attached to a cart line.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// LineCost is the per-line cost breakdown.
type LineCost struct {
	AmountPerQuantity Money `json:"amountPerQuantity"`
	TotalAmount       Money `json:"totalAmount"`
}

// Merchandise is the variant snapshot referenced by a cart line, as it
// looked when the cart was last refreshed.
type Merchandise struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	SKU               string `json:"sku,omitempty"`
	AvailableForSale  bool   `json:"availableForSale"`
	QuantityAvailable int    `json:"quantityAvailable,omitempty"`
	Image             *Image `json:"image,omitempty"`
	Price             Money  `json:"price"`
	ProductID         string `json:"productId,omitempty"`
	ProductTitle      string `json:"productTitle,omitempty"`
}

// ItemCount is the sum of line quantities, 0 for a nil cart.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, line := range c.Lines {
		n += line.Quantity
	}
	return n
}

// IsEmpty reports whether the cart is nil or has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// Subtotal returns the raw decimal subtotal, "0" for a nil cart.
func (c *Cart) Subtotal() string {
	if c == nil || c.Cost.Subtotal.Amount == "" {
		return "0"
	}
	return c.Cost.Subtotal.Amount
}

// Total returns the raw decimal total, "0" for a nil cart.
func (c *Cart) Total() string {
	if c == nil || c.Cost.Total.Amount == "" {
		return "0"
	}
	return c.Cost.Total.Amount
}

// HasVariant reports whether any line references the given variant.
// The id is accepted in numeric or global form.
func (c *Cart) HasVariant(variantID string) bool {
	if c == nil {
		return false
	}
	gid := VariantGID(variantID)
	for _, line := range c.Lines {
		if line.Merchandise.ID == gid {
			return true
		}
	}
	return false
}

// Line looks a cart line up by id, returning nil when absent.
func (c *Cart) Line(lineID string) *CartLine {
	if c == nil {
		return nil
	}
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

// LineIDs returns the ids of all lines in server order.
func (c *Cart) LineIDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, len(c.Lines))
	for i, line := range c.Lines {
		ids[i] = line.ID
	}
	return ids
}

// Clone returns a copy of the cart with its own line slice, safe to
// hand to event subscribers.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Lines = make([]CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return &out
}
