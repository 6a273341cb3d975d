package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at a TLS test server standing in for the
// commerce API.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		Token:      "test-token",
		Domain:     strings.TrimPrefix(srv.URL, "https://"),
		HTTPClient: srv.Client(),
	})
}

func TestExecuteSendsAuthAndQuery(t *testing.T) {
	var gotPath, gotToken, gotContentType, gotRequestID string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Shopify-Storefront-Access-Token")
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"data":{"shop":{"name":"Demo"}}}`))
	})

	res, err := client.Execute(context.Background(), "query { shop { name } }",
		map[string]any{"id": "gid://shopify/Product/1"})
	require.NoError(t, err)

	assert.Equal(t, "/api/"+DefaultAPIVersion+"/graphql.json", gotPath)
	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "query { shop { name } }", gotBody["query"])
	assert.JSONEq(t, `{"shop":{"name":"Demo"}}`, string(res.Data))
}

func TestExecuteCustomAPIVersion(t *testing.T) {
	var gotPath string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{
		Token:      "test-token",
		Domain:     strings.TrimPrefix(srv.URL, "https://"),
		APIVersion: "2024-10",
		HTTPClient: srv.Client(),
	})

	_, err := client.Execute(context.Background(), "{}", nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/2024-10/graphql.json", gotPath)
}

func TestExecuteSurfacesProtocolErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Field 'bogus' doesn't exist"}]}`))
	})

	res, err := client.Execute(context.Background(), "query { bogus }", nil)
	require.NoError(t, err, "protocol errors ride inside the response, not the error return")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Field 'bogus' doesn't exist", res.Errors[0].Message)
}

func TestExecuteNon2xxIsTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	})

	_, err := client.Execute(context.Background(), "{}", nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusTooManyRequests, terr.StatusCode)
	assert.Contains(t, terr.Body, "throttled")
}

func TestExecuteMalformedResponseIsTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>nope</html>`))
	})

	_, err := client.Execute(context.Background(), "{}", nil)
	var terr *TransportError
	assert.ErrorAs(t, err, &terr)
}

func TestExecuteNotConfigured(t *testing.T) {
	client := NewClient(Config{})

	_, err := client.Execute(context.Background(), "{}", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
