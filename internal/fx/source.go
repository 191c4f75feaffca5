// Package fx supplies the exchange-rate table a search request prices
// against: a live table from the rates API, or a fixed fallback.
package fx

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"findalleasy/internal/pricing"
)

// FallbackBase is the currency the fallback table is expressed in.
const FallbackBase = "TRY"

// Fallback returns the static table used when the API cannot be reached.
func Fallback() pricing.RateTable {
	return pricing.RateTable{
		"TRY": decimal.RequireFromString("1.0"),
		"USD": decimal.RequireFromString("0.034"),
		"EUR": decimal.RequireFromString("0.031"),
		"GBP": decimal.RequireFromString("0.026"),
		"JPY": decimal.RequireFromString("5.2"),
		"RUB": decimal.RequireFromString("3.2"),
		"AED": decimal.RequireFromString("0.125"),
	}
}

// Rebase re-expresses a table quoted in from so that base maps to 1.
// If base is not in the table it is returned unchanged, so conversions into
// base are skipped rather than computed against the wrong base.
func Rebase(rates pricing.RateTable, from, base string) pricing.RateTable {
	from = strings.ToUpper(from)
	base = strings.ToUpper(base)
	if from == base {
		return rates.Clone()
	}
	pivot, ok := rates[base]
	if !ok || pivot.IsZero() {
		return rates.Clone()
	}
	out := make(pricing.RateTable, len(rates))
	for code, rate := range rates {
		out[code] = rate.Div(pivot)
	}
	out[base] = decimal.NewFromInt(1)
	return out
}

// Result is the outcome of one rate lookup. Rates is always usable; Err
// records why the fallback was used when Live is false.
type Result struct {
	Base  string
	Rates pricing.RateTable
	Live  bool
	Err   error
}

// Fetcher is the subset of Client used by Source.
type Fetcher interface {
	Latest(ctx context.Context, base string, opts ...ClientOption) (pricing.RateTable, error)
}

// Source resolves a rate table per request. It keeps no state between calls.
type Source struct {
	client Fetcher
	logger *slog.Logger
}

// NewSource wraps client. A nil logger discards log output.
func NewSource(client Fetcher, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{client: client, logger: logger}
}

// Rates fetches a fresh table for base, falling back to the static table on
// any failure. It never returns an error; see Result.Err.
func (s *Source) Rates(ctx context.Context, base string) Result {
	base = strings.ToUpper(strings.TrimSpace(base))
	err := errNoClient
	if s.client != nil {
		var rates pricing.RateTable
		rates, err = s.client.Latest(ctx, base)
		if err == nil {
			return Result{Base: base, Rates: rates, Live: true}
		}
	}
	s.logger.WarnContext(ctx, "fx fetch failed, using fallback rates", "base", base, "error", err)
	return Result{Base: base, Rates: Rebase(Fallback(), FallbackBase, base), Err: err}
}

var errNoClient = errors.New("no rates client configured")
