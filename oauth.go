package meetup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTokenURL is the authorization server's single token endpoint.
	// All three grant types are exchanged here.
	DefaultTokenURL = "https://secure.meetup.com/oauth2/access"

	// DefaultAuthorizeURL starts the interactive authorization-code flow.
	DefaultAuthorizeURL = "https://secure.meetup.com/oauth2/authorize"

	grantTypeJwtBearer = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// Client exchanges assertions, authorization codes, and refresh tokens for
// token pairs at the authorization endpoint. It holds no token state itself.
type Client struct {
	h            *http.Client
	clientKey    string
	clientSecret string
	tokenURL     string
	authorizeURL string
}

type ClientArgs struct {
	H            *http.Client
	ClientKey    string
	ClientSecret string

	// TokenURL and AuthorizeURL override the production endpoints, mainly
	// for tests.
	TokenURL     string
	AuthorizeURL string
}

func NewClient(args ClientArgs) (*Client, error) {
	if args.ClientKey == "" {
		return nil, &ConfigurationError{Reason: "no client key provided"}
	}

	if args.ClientSecret == "" {
		return nil, &ConfigurationError{Reason: "no client secret provided"}
	}

	if args.H == nil {
		args.H = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	if args.TokenURL == "" {
		args.TokenURL = DefaultTokenURL
	}

	if args.AuthorizeURL == "" {
		args.AuthorizeURL = DefaultAuthorizeURL
	}

	return &Client{
		h:            args.H,
		clientKey:    args.ClientKey,
		clientSecret: args.ClientSecret,
		tokenURL:     args.TokenURL,
		authorizeURL: args.AuthorizeURL,
	}, nil
}

// ExchangeAssertion trades a freshly signed assertion for a token pair. The
// assertion is one-time-use; callers must not reuse it after this call.
func (c *Client) ExchangeAssertion(ctx context.Context, assertion string) (*TokenPair, error) {
	params := url.Values{
		"grant_type": {grantTypeJwtBearer},
		"assertion":  {assertion},
	}

	return c.tokenRequest(ctx, "exchange assertion", params, true)
}

// ExchangeAuthorizationCode trades a code captured from the interactive
// callback for a token pair.
func (c *Client) ExchangeAuthorizationCode(ctx context.Context, code string) (*TokenPair, error) {
	params := url.Values{
		"client_id":     {c.clientKey},
		"client_secret": {c.clientSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
	}

	return c.tokenRequest(ctx, "exchange authorization code", params, false)
}

// RefreshToken mints a new token pair from a refresh token. The response may
// omit the refresh token; the token store handles carrying the old one over.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	params := url.Values{
		"client_id":     {c.clientKey},
		"client_secret": {c.clientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	return c.tokenRequest(ctx, "refresh token", params, false)
}

// AuthorizeURL builds the URL a user visits to start the interactive
// authorization-code flow.
func (c *Client) AuthorizeURL(redirectURI, state string) string {
	params := url.Values{
		"client_id":     {c.clientKey},
		"response_type": {"code"},
		"redirect_uri":  {redirectURI},
	}

	if state != "" {
		params.Set("state", state)
	}

	return c.authorizeURL + "?" + params.Encode()
}

func (c *Client) tokenRequest(ctx context.Context, op string, params url.Values, basicAuth bool) (*TokenPair, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.tokenURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if basicAuth {
		req.SetBasicAuth(c.clientKey, c.clientSecret)
	}

	resp, err := c.h.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       readBodySnippet(resp),
		}
	}

	var tokenResponse TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("could not decode token response: %w", err)}
	}

	if tokenResponse.AccessToken == "" {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("token response missing access_token")}
	}

	return tokenResponse.pair(), nil
}

// readBodySnippet drains up to 1KB of a response body for error reporting.
func readBodySnippet(resp *http.Response) string {
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(b))
}
