package fx

import (
	"net/http"
	"net/url"
)

// DefaultBaseURL is the exchangerate.host API root.
const DefaultBaseURL = "https://api.exchangerate.host"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=fx_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for an exchangerate.host compatible rates API.
type Client struct {
	// baseURL is the API root, without a trailing slash.
	baseURL string
	// httpClient performs the requests.
	httpClient HTTPClient
	// header is sent with each request.
	header http.Header
	// query is added to each request.
	query url.Values
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the API root.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader adds headers to each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithAccessKey authenticates requests with the access_key query parameter.
func WithAccessKey(key string) ClientOption {
	return func(c *Client) {
		if key != "" {
			c.query.Set("access_key", key)
		}
	}
}

// NewClient creates a rates API client.
func NewClient(options ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}
