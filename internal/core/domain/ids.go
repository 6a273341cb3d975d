package domain

import "strings"

const (
	gidScheme        = "gid://"
	productGIDPrefix = "gid://shopify/Product/"
	variantGIDPrefix = "gid://shopify/ProductVariant/"
)

// ProductGID maps a numeric product identifier to its global form.
// Identifiers already in global form pass through unchanged.
func ProductGID(id string) string {
	if strings.HasPrefix(id, productGIDPrefix) {
		return id
	}
	return productGIDPrefix + id
}

// VariantGID maps a numeric variant identifier to its global form.
// Identifiers already in global form pass through unchanged.
func VariantGID(id string) string {
	if strings.HasPrefix(id, variantGIDPrefix) {
		return id
	}
	return variantGIDPrefix + id
}

// NumericID extracts the trailing numeric identifier from a global id,
// returning the input unchanged when it is not in global form.
func NumericID(id string) string {
	if !strings.HasPrefix(id, gidScheme) {
		return id
	}
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
