// Package page provides port.Page implementations for non-browser hosts.
package page

import (
	"fmt"
	"net/url"
	"sync"
)

// StaticPage models a fixed page location whose replacements are kept
// in memory. CLI hosts and tests use it to exercise the URL variant
// contract without a browser history API.
type StaticPage struct {
	mu      sync.Mutex
	current *url.URL
}

// NewStatic parses raw as the page's initial location.
func NewStatic(raw string) (*StaticPage, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	return &StaticPage{current: u}, nil
}

// URL returns a copy of the current location.
func (p *StaticPage) URL() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()
	u := *p.current
	return &u
}

// Replace swaps the current location in place, as a non-reloading
// history update would.
func (p *StaticPage) Replace(u *url.URL) {
	p.mu.Lock()
	defer p.mu.Unlock()
	copied := *u
	p.current = &copied
}
