// Package marketplace holds the built-in listing providers. They answer
// from fixed data and make no outbound calls.
package marketplace

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"findalleasy/internal/provider"
)

// Amazon returns a single USD offer.
type Amazon struct{}

func (Amazon) Name() string { return "Amazon" }

func (Amazon) Search(_ context.Context, query string) ([]provider.Listing, error) {
	return []provider.Listing{{
		Title:    fmt.Sprintf("%s (Base)", query),
		Site:     "Amazon",
		Price:    decimal.RequireFromString("1299.0"),
		Currency: "USD",
		URL:      "https://www.amazon.com/s?k=" + url.QueryEscape(query),
	}}, nil
}

// Trendyol returns a single TRY offer.
type Trendyol struct{}

func (Trendyol) Name() string { return "Trendyol" }

func (Trendyol) Search(_ context.Context, query string) ([]provider.Listing, error) {
	return []provider.Listing{{
		Title:    fmt.Sprintf("%s Uyumlu", query),
		Site:     "Trendyol",
		Price:    decimal.RequireFromString("42999.0"),
		Currency: "TRY",
		URL:      "https://www.trendyol.com/sr?q=" + url.QueryEscape(query),
	}}, nil
}

// Hepsiburada returns a single TRY offer.
type Hepsiburada struct{}

func (Hepsiburada) Name() string { return "Hepsiburada" }

func (Hepsiburada) Search(_ context.Context, query string) ([]provider.Listing, error) {
	return []provider.Listing{{
		Title:    fmt.Sprintf("%s Serisi", query),
		Site:     "Hepsiburada",
		Price:    decimal.RequireFromString("41999.0"),
		Currency: "TRY",
		URL:      "https://www.hepsiburada.com/ara?q=" + url.QueryEscape(query),
	}}, nil
}

// Registry returns the built-in providers in their fixed order.
func Registry() []provider.Provider {
	return []provider.Provider{Amazon{}, Trendyol{}, Hepsiburada{}}
}
