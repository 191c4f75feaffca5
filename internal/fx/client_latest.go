package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"findalleasy/internal/pricing"
)

var (
	// ErrUnauthorized is returned when the API rejects the access key.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited is returned on HTTP 429.
	ErrRateLimited = errors.New("rate limited")
)

type latestResponse struct {
	Success *bool                      `json:"success"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Error   json.RawMessage            `json:"error"`
}

// Latest fetches the latest rates relative to base. The returned table
// always contains base.
func (c *Client) Latest(ctx context.Context, base string, opts ...ClientOption) (pricing.RateTable, error) {
	override := &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		query:      maps.Clone(c.query),
	}
	for _, opt := range opts {
		opt(override)
	}

	base = strings.ToUpper(strings.TrimSpace(base))
	query := maps.Clone(override.query)
	if query == nil {
		query = url.Values{}
	}
	query.Set("base", base)

	endpoint := fmt.Sprintf("%s/latest?%s", strings.TrimRight(override.baseURL, "/"), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
	case res.StatusCode == http.StatusUnauthorized, res.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, fmt.Errorf("unexpected status code: %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}

	var body latestResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding rates response: %w", err)
	}
	if body.Success != nil && !*body.Success {
		return nil, fmt.Errorf("api error: %s", string(body.Error))
	}

	rates := make(pricing.RateTable, len(body.Rates)+1)
	for code, rate := range body.Rates {
		rates[strings.ToUpper(code)] = rate
	}
	if _, ok := rates[base]; !ok {
		rates[base] = decimal.NewFromInt(1)
	}
	return rates, nil
}
