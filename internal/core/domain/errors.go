package domain

import "errors"

var (
	// ErrProductNotFound indicates the requested product is not in the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrVariantNotFound indicates the product has no variant with the given id.
	ErrVariantNotFound = errors.New("variant not found")

	// ErrNoMatchingVariant indicates no variant carries exactly the selected
	// option combination. Callers decide whether to surface it or fall back.
	ErrNoMatchingVariant = errors.New("no variant matches the selected options")
)
