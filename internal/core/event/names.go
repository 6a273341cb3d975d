package event

// Event names published by the toolkit. Renderer collaborators subscribe
// to these by name; the strings are part of the public surface.
const (
	ProductsFetched = "products:fetched"

	CartInitStarted   = "cart:init:started"
	CartInitLoaded    = "cart:init:loaded"
	CartInitEmpty     = "cart:init:empty"
	CartInitCompleted = "cart:init:completed"

	CartCreateStarted   = "cart:create:started"
	CartCreateCompleted = "cart:create:completed"
	CartCreateError     = "cart:create:error"

	CartAddToExistingStarted   = "cart:addToExisting:started"
	CartAddToExistingCompleted = "cart:addToExisting:completed"
	CartAddToExistingError     = "cart:addToExisting:error"

	CartFetchStarted   = "cart:fetch:started"
	CartFetchCompleted = "cart:fetch:completed"
	CartFetchError     = "cart:fetch:error"

	CartClearStarted   = "cart:clear:started"
	CartClearCompleted = "cart:clear:completed"
	CartClearError     = "cart:clear:error"

	CartRemoveLineItemStarted   = "cart:removeLineItem:started"
	CartRemoveLineItemCompleted = "cart:removeLineItem:completed"
	CartRemoveLineItemError     = "cart:removeLineItem:error"

	CartRefreshStarted   = "cart:refresh:started"
	CartRefreshCompleted = "cart:refresh:completed"
	CartRefreshError     = "cart:refresh:error"

	CartAddStarted   = "cart:add:started"
	CartAddCompleted = "cart:add:completed"
	CartAddError     = "cart:add:error"

	CartUpdateQuantityStarted   = "cart:updateQuantity:started"
	CartUpdateQuantityCompleted = "cart:updateQuantity:completed"
	CartUpdateQuantityError     = "cart:updateQuantity:error"

	ProductVariantChange  = "product:variant-change"
	ProductQuantityChange = "product:quantity-change"
	ProductOptionChange   = "product:option-change"
)
