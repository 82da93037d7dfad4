package meetup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultGraphQLURL is the API's single GraphQL endpoint.
const DefaultGraphQLURL = "https://api.meetup.com/gql"

// probeQuery is the minimal self-identity query used to test token liveness.
const probeQuery = "query { self { id } }"

// QueryClient issues GraphQL requests with a bearer token. It does not
// interpret GraphQL-level errors: the decoded response document is returned
// verbatim, server error payloads included, for the caller to inspect.
type QueryClient struct {
	h   *http.Client
	url string
}

type QueryClientArgs struct {
	H *http.Client

	// URL overrides the production GraphQL endpoint, mainly for tests.
	URL string
}

func NewQueryClient(args QueryClientArgs) *QueryClient {
	if args.H == nil {
		args.H = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	if args.URL == "" {
		args.URL = DefaultGraphQLURL
	}

	return &QueryClient{
		h:   args.H,
		url: args.URL,
	}
}

// Do posts a single GraphQL request and returns the decoded response body.
// Transport failures and undecodable bodies surface as TransportError; a 2xx
// is not required, since GraphQL servers report query errors in-band.
func (c *QueryClient) Do(ctx context.Context, query, accessToken string, variables map[string]any) (map[string]any, error) {
	payload := map[string]any{
		"query":     query,
		"variables": variables,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("could not marshal graphql payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating graphql request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.h.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "graphql query", Err: err}
	}
	defer resp.Body.Close()

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, &TransportError{Op: "graphql query", StatusCode: resp.StatusCode, Err: fmt.Errorf("could not decode response: %w", err)}
	}

	return doc, nil
}

// CheckToken probes token liveness with a trivial self-identity query. A 200
// means the token is still usable; any other status means it is not.
func (c *QueryClient) CheckToken(ctx context.Context, accessToken string) error {
	body, err := json.Marshal(map[string]any{"query": probeQuery})
	if err != nil {
		return fmt.Errorf("could not marshal probe payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating probe request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.h.Do(req)
	if err != nil {
		return &TransportError{Op: "token probe", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: probe returned status %d", ErrInvalidToken, resp.StatusCode)
	}

	return nil
}
