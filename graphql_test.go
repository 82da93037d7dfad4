package meetup

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueryClient(t *testing.T, handler http.HandlerFunc) *QueryClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewQueryClient(QueryClientArgs{URL: srv.URL})
}

func TestQueryDo(t *testing.T) {
	assert := assert.New(t)

	client := newTestQueryClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("Bearer the-token", r.Header.Get("Authorization"))
		assert.Equal("application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal("query { event { title } }", payload["query"])
		assert.Equal(map[string]any{"eventId": "302810842"}, payload["variables"])

		w.Write([]byte(`{"data":{"event":{"title":"September Meetup"}}}`))
	})

	doc, err := client.Do(ctx, "query { event { title } }", "the-token", map[string]any{"eventId": "302810842"})
	require.NoError(t, err)

	data := doc["data"].(map[string]any)
	assert.Equal("September Meetup", data["event"].(map[string]any)["title"])
}

func TestQueryDoPassesServerErrorsThrough(t *testing.T) {
	// GraphQL-level errors stay in the returned document; the executor never
	// interprets them.
	client := newTestQueryClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"errors":[{"message":"event not found"}]}`))
	})

	doc, err := client.Do(ctx, "query {}", "the-token", nil)
	require.NoError(t, err)
	assert.Contains(t, doc, "errors")
}

func TestQueryDoMalformedBody(t *testing.T) {
	client := newTestQueryClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	})

	_, err := client.Do(ctx, "query {}", "the-token", nil)

	var terr *TransportError
	assert.ErrorAs(t, err, &terr)
}

func TestCheckToken(t *testing.T) {
	assert := assert.New(t)

	var gotQuery string
	var status = http.StatusOK

	client := newTestQueryClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		gotQuery, _ = payload["query"].(string)
		w.WriteHeader(status)
	})

	assert.NoError(client.CheckToken(ctx, "live-token"))
	assert.Equal("query { self { id } }", gotQuery)

	status = http.StatusUnauthorized
	err := client.CheckToken(ctx, "dead-token")
	assert.ErrorIs(err, ErrInvalidToken)
}
