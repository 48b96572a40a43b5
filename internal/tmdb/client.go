package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pders01/reel/internal/debuglog"
)

const (
	userAgent      = "reel/1.0 (movie discovery; github.com/pders01/reel)"
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 512
)

// Client is the TMDB API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a new TMDB API client. baseURL is expected without a
// trailing slash, e.g. https://api.themoviedb.org/3.
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL for query: a search when query is non-empty,
// otherwise the popularity-sorted discover listing.
func (c *Client) Endpoint(query string) string {
	if query != "" {
		return fmt.Sprintf("%s/search/movie?query=%s", c.baseURL, encodeQuery(query))
	}
	return c.baseURL + "/discover/movie?sort_by=popularity.desc"
}

// BuildRequest prepares the GET request for query with auth headers set.
func (c *Client) BuildRequest(ctx context.Context, query string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint(query), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

// Movies fetches the result list for query. Empty query lists popular movies.
//
// Errors: transport failures are wrapped as-is, non-2xx statuses come back as
// *StatusError and failure markers inside a 2xx body as *DomainError.
func (c *Client) Movies(ctx context.Context, query string) ([]Movie, error) {
	req, err := c.BuildRequest(ctx, query)
	if err != nil {
		return nil, err
	}

	debuglog.WithFields(map[string]interface{}{"query": query}).Debugf("fetching %s", req.URL.Path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching movies: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding movies response: %w", err)
	}

	if result.Failed() {
		return nil, &DomainError{Message: result.FailureMessage()}
	}

	if result.Results == nil {
		return []Movie{}, nil
	}
	return result.Results, nil
}

// encodeQuery percent-encodes a query value, spaces as %20.
func encodeQuery(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}
