package provider

import (
	"context"

	"github.com/shopspring/decimal"
)

// Listing is a raw offer as returned by a provider, before any currency
// conversion or pricing rules are applied.
type Listing struct {
	Title    string          `json:"title"`
	Site     string          `json:"site"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	URL      string          `json:"url"`
}

// Provider searches one marketplace for listings matching a free-text query.
//
//go:generate mockgen -package=aggregate_test -destination=../aggregate/mock_provider_test.go -source=provider.go Provider
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Listing, error)
}
