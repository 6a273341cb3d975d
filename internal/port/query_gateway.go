package port

import (
	"context"
	"encoding/json"
	"strings"
)

// QueryError is one protocol-level error entry returned by the commerce
// API alongside (or instead of) data.
type QueryError struct {
	Message string `json:"message"`
}

// UserError is one domain-validation failure attached to a mutation
// payload.
type UserError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
}

// QueryResponse is the raw structured response of one API call. A
// response may carry both data and errors (partial failure); neither is
// swallowed by the gateway.
type QueryResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []QueryError    `json:"errors,omitempty"`
}

// JoinMessages flattens the error entries into one comma-separated string.
func JoinMessages(errs []QueryError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, ", ")
}

// QueryGateway executes one GraphQL document against the commerce API.
// It performs no retries and no caching; both are the caller's
// responsibility. A request that cannot complete, or that returns a
// non-success status, fails with a transport error from the adapter.
type QueryGateway interface {
	Execute(ctx context.Context, query string, variables map[string]any) (*QueryResponse, error)
}
