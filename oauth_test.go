package meetup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(ClientArgs{
		ClientKey:    "client-key",
		ClientSecret: "client-secret",
		TokenURL:     srv.URL,
	})
	require.NoError(t, err)

	return client
}

func TestExchangeAssertion(t *testing.T) {
	assert := assert.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		assert.True(ok)
		assert.Equal("client-key", user)
		assert.Equal("client-secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal("urn:ietf:params:oauth:grant-type:jwt-bearer", r.PostForm.Get("grant_type"))
		assert.Equal("signed-assertion", r.PostForm.Get("assertion"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"bearer","expires_in":3600}`))
	})

	pair, err := client.ExchangeAssertion(ctx, "signed-assertion")
	require.NoError(t, err)

	assert.Equal("at", pair.AccessToken)
	assert.Equal("rt", pair.RefreshToken)
}

func TestExchangeAuthorizationCode(t *testing.T) {
	assert := assert.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal("authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal("the-code", r.PostForm.Get("code"))
		assert.Equal("client-key", r.PostForm.Get("client_id"))
		assert.Equal("client-secret", r.PostForm.Get("client_secret"))

		_, _, ok := r.BasicAuth()
		assert.False(ok)

		w.Write([]byte(`{"access_token":"at","refresh_token":"rt"}`))
	})

	pair, err := client.ExchangeAuthorizationCode(ctx, "the-code")
	require.NoError(t, err)
	assert.Equal("at", pair.AccessToken)
}

func TestRefreshToken(t *testing.T) {
	assert := assert.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal("refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal("old-rt", r.PostForm.Get("refresh_token"))

		w.Write([]byte(`{"access_token":"new-at"}`))
	})

	pair, err := client.RefreshToken(ctx, "old-rt")
	require.NoError(t, err)

	assert.Equal("new-at", pair.AccessToken)
	assert.Empty(pair.RefreshToken)
}

func TestTokenRequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"invalid_grant"}`))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "missing access token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"token_type":"bearer"}`))
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, tc.handler)

			pair, err := client.ExchangeAssertion(ctx, "signed-assertion")
			assert.Nil(t, pair)

			var terr *TransportError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tc.wantStatus, terr.StatusCode)
		})
	}
}

func TestAuthorizeURL(t *testing.T) {
	assert := assert.New(t)

	client, err := NewClient(ClientArgs{
		ClientKey:    "client-key",
		ClientSecret: "client-secret",
	})
	require.NoError(t, err)

	u := client.AuthorizeURL("http://127.0.0.1:7070/callback", "some-state")

	assert.Contains(u, DefaultAuthorizeURL+"?")
	assert.Contains(u, "client_id=client-key")
	assert.Contains(u, "response_type=code")
	assert.Contains(u, "redirect_uri=http%3A%2F%2F127.0.0.1%3A7070%2Fcallback")
	assert.Contains(u, "state=some-state")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(ClientArgs{ClientSecret: "s"})
	assert.Error(t, err)

	_, err = NewClient(ClientArgs{ClientKey: "k"})
	assert.Error(t, err)
}
