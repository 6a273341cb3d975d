package port

import "net/url"

// Page exposes the hosting page's location to the toolkit: the current
// URL, and replacing it without a reload (the history.replaceState
// analog in a browser host). A nil Page means the toolkit runs outside
// any page context and skips URL hydration entirely.
type Page interface {
	// URL returns the current location. Callers must not mutate the
	// returned value.
	URL() *url.URL

	// Replace swaps the current location without triggering a reload.
	Replace(u *url.URL)
}
