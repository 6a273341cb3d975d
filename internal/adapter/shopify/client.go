package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/blinkhq/storefront/internal/port"
)

// DefaultAPIVersion is the Storefront API version requested when the
// config leaves it blank.
const DefaultAPIVersion = "2025-04"

const maxErrorBodyBytes = 4 << 10

// ErrNotConfigured indicates the client is missing its access token or
// store domain.
var ErrNotConfigured = errors.New("shopify: access token or store domain not configured")

// TransportError reports a request that could not complete or came back
// with a non-success status.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("shopify: request failed: %v", e.Err)
	}
	return fmt.Sprintf("shopify: request failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Config carries the client's connection settings.
type Config struct {
	// Token is the storefront access token passed through on every call.
	Token string

	// Domain is the store domain, e.g. "example.myshopify.com".
	Domain string

	// APIVersion defaults to DefaultAPIVersion when blank.
	APIVersion string

	// HTTPClient defaults to http.DefaultClient. Timeouts are its
	// responsibility; the gateway enforces none of its own.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client implements port.QueryGateway over the Storefront GraphQL HTTP
// endpoint. It performs no retries and no caching.
type Client struct {
	token      string
	domain     string
	version    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a gateway from cfg, filling in defaults.
func NewClient(cfg Config) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		token:      cfg.Token,
		domain:     cfg.Domain,
		version:    version,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Execute posts one GraphQL document with its variables and returns the
// raw structured response. Protocol-level errors travel back inside the
// response; only transport failures and non-2xx statuses return an error.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (*port.QueryResponse, error) {
	if c.token == "" || c.domain == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("shopify: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s/api/%s/graphql.json", c.domain, c.version)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("shopify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out port.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(out.Errors) > 0 {
		c.logger.Warn("api response carries errors", "count", len(out.Errors))
	}
	return &out, nil
}
