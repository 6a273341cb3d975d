package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blinkhq/storefront/internal/port"
)

var (
	// ErrNoCart indicates a cart operation that needs an existing cart
	// was called before any cart was created.
	ErrNoCart = errors.New("no cart has been created")

	// ErrNoVariantSelected indicates an add-to-cart with no resolved
	// variant.
	ErrNoVariantSelected = errors.New("no variant selected")

	// ErrShopUnavailable indicates the shop metadata query returned no
	// usable record.
	ErrShopUnavailable = errors.New("shop details unavailable")
)

// ProtocolError reports a top-level errors array on an API response.
type ProtocolError struct {
	Errors []port.QueryError
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("api returned errors: %s", port.JoinMessages(e.Errors))
}

// CartOperationError reports a mutation rejected by domain validation.
// The in-memory cart is left unchanged; retrying is the caller's call.
type CartOperationError struct {
	Op         string
	UserErrors []port.UserError
}

func (e *CartOperationError) Error() string {
	msgs := make([]string, len(e.UserErrors))
	for i, ue := range e.UserErrors {
		msgs[i] = ue.Message
	}
	return fmt.Sprintf("%s failed: %s", e.Op, strings.Join(msgs, ", "))
}
