package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/impel-lab/compass/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// Result is one web search hit
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Client queries the Tavily search API for market insight content the
// content agent summarizes. It covers only the small slice of the API
// this system needs.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests)
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new web search client
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.New("web search API key is required")
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    "https://api.tavily.com/search",
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// Search runs one search and returns up to five results
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(searchRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: 5,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create search request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "web search request failed", goerr.V("query", query))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("web search returned non-OK status",
			goerr.V("status", resp.StatusCode), goerr.V("query", query))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to decode search response")
	}

	return parsed.Results, nil
}
