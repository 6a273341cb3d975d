package domain

import "strings"

// Product is an immutable catalog record. Options, images and variants
// keep the order the API returned them in.
type Product struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Handle              string     `json:"handle"`
	Description         string     `json:"description"`
	DescriptionHTML     string     `json:"descriptionHtml"`
	Vendor              string     `json:"vendor"`
	ProductType         string     `json:"productType"`
	Tags                []string   `json:"tags,omitempty"`
	PriceRange          PriceRange `json:"priceRange"`
	CompareAtPriceRange PriceRange `json:"compareAtPriceRange"`
	Options             []Option   `json:"options,omitempty"`
	Images              []Image    `json:"images,omitempty"`
	Variants            []Variant  `json:"variants,omitempty"`
}

// PriceRange spans the cheapest and most expensive variant.
type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
	MaxVariantPrice Money `json:"maxVariantPrice"`
}

// Option is one configurable axis of a product (e.g. Color), with its
// values in display order.
type Option struct {
	Name   string        `json:"name"`
	Values []OptionValue `json:"values"`
}

// OptionValue is a single choice for an option, optionally carrying a
// visual swatch.
type OptionValue struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Swatch *Swatch `json:"swatch,omitempty"`
}

// Swatch is the visual representation of an option value: a CSS color,
// an image URL, or both.
type Swatch struct {
	Color    string `json:"color,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Image is a product or variant image.
type Image struct {
	ID      string `json:"id,omitempty"`
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// Variant is a concrete purchasable combination of a product's options.
// The combination of its selected options is unique within the product.
type Variant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	SKU               string           `json:"sku,omitempty"`
	Price             Money            `json:"price"`
	CompareAtPrice    *Money           `json:"compareAtPrice,omitempty"`
	Image             *Image           `json:"image,omitempty"`
	SelectedOptions   []SelectedOption `json:"selectedOptions,omitempty"`
	AvailableForSale  bool             `json:"availableForSale"`
	QuantityAvailable int              `json:"quantityAvailable,omitempty"`
}

// SelectedOption is one optionName/optionValue pair of a variant.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OptionValues returns the variant's option pairs as a name→value map.
func (v *Variant) OptionValues() map[string]string {
	m := make(map[string]string, len(v.SelectedOptions))
	for _, opt := range v.SelectedOptions {
		m[opt.Name] = opt.Value
	}
	return m
}

// FirstVariant returns the product's first variant, or nil when the
// product has none.
func (p *Product) FirstVariant() *Variant {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}

// VariantByID looks a variant up by id, accepting either numeric or
// global form.
func (p *Product) VariantByID(id string) *Variant {
	gid := VariantGID(id)
	for i := range p.Variants {
		if p.Variants[i].ID == gid {
			return &p.Variants[i]
		}
	}
	return nil
}

// OptionByName looks an option up by name, case-insensitively.
func (p *Product) OptionByName(name string) *Option {
	for i := range p.Options {
		if strings.EqualFold(p.Options[i].Name, name) {
			return &p.Options[i]
		}
	}
	return nil
}

// MatchVariant finds the variant whose option pairs all agree with the
// candidate selection. Pair order is irrelevant. Returns
// ErrNoMatchingVariant when no variant carries the combination.
func (p *Product) MatchVariant(selected map[string]string) (*Variant, error) {
	for i := range p.Variants {
		v := &p.Variants[i]
		match := true
		for _, opt := range v.SelectedOptions {
			if selected[opt.Name] != opt.Value {
				match = false
				break
			}
		}
		if match {
			return v, nil
		}
	}
	return nil, ErrNoMatchingVariant
}

// OptionValueAvailable reports whether any variant carrying the given
// option pair is available for sale. Renderers use this to mark swatches
// as unavailable.
func (p *Product) OptionValueAvailable(optionName, optionValue string) bool {
	for i := range p.Variants {
		v := &p.Variants[i]
		if !v.AvailableForSale {
			continue
		}
		for _, opt := range v.SelectedOptions {
			if opt.Name == optionName && opt.Value == optionValue {
				return true
			}
		}
	}
	return false
}
