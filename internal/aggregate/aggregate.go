package aggregate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"findalleasy/internal/fx"
	"findalleasy/internal/pricing"
	"findalleasy/internal/provider"
)

// ErrEmptyQuery is returned by Search when the query is blank.
var ErrEmptyQuery = errors.New("missing q")

// Defaults applied to blank request fields.
const (
	DefaultRegion   = "TR"
	DefaultLanguage = "tr"
)

// RateSource resolves the rate table for one request.
type RateSource interface {
	Rates(ctx context.Context, base string) fx.Result
}

// Listing is a provider listing with its normalized prices.
type Listing struct {
	provider.Listing
	PriceInBase        decimal.Decimal
	PriceInBaseWithVAT decimal.Decimal
	FinalPrice         decimal.Decimal
}

// MarshalJSON writes prices as JSON numbers, using the original field names.
func (l Listing) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title            string  `json:"title"`
		Site             string  `json:"site"`
		ProductURL       string  `json:"product_url"`
		OriginalPrice    float64 `json:"original_price"`
		OriginalCurrency string  `json:"original_currency"`
		PriceTry         float64 `json:"price_try"`
		PriceTryWithVAT  float64 `json:"price_try_with_vat"`
		OurPriceTry      float64 `json:"our_price_try"`
	}{
		Title:            l.Title,
		Site:             l.Site,
		ProductURL:       l.URL,
		OriginalPrice:    l.Price.InexactFloat64(),
		OriginalCurrency: l.Currency,
		PriceTry:         l.PriceInBase.InexactFloat64(),
		PriceTryWithVAT:  l.PriceInBaseWithVAT.InexactFloat64(),
		OurPriceTry:      l.FinalPrice.InexactFloat64(),
	})
}

// Outcome records what one provider contributed to a search.
type Outcome struct {
	Provider string
	Count    int
	Err      error
}

// Request is a search request after query-string parsing.
type Request struct {
	Query    string
	Region   string
	Language string
}

// Response is the search envelope.
type Response struct {
	Query          string    `json:"query"`
	Region         string    `json:"region"`
	Language       string    `json:"language"`
	CommissionRate float64   `json:"commission_rate"`
	FXBase         string    `json:"fx_base"`
	Count          int       `json:"count"`
	Results        []Listing `json:"results"`
	Time           string    `json:"time"`
}

// Pipeline runs searches against a fixed set of providers.
type Pipeline struct {
	providers  []provider.Provider
	rates      RateSource
	normalizer pricing.Normalizer
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for provider and FX failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock overrides the time source used for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New builds a Pipeline. Providers are queried in the given order.
func New(providers []provider.Provider, rates RateSource, normalizer pricing.Normalizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		providers:  providers,
		rates:      rates,
		normalizer: normalizer,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Search runs one request end to end. The only error is ErrEmptyQuery;
// provider and FX failures degrade the result instead.
func (p *Pipeline) Search(ctx context.Context, req Request) (Response, error) {
	req = normalizeRequest(req)
	if req.Query == "" {
		return Response{}, ErrEmptyQuery
	}

	fxr := p.rates.Rates(ctx, p.normalizer.Base)
	if !fxr.Live {
		p.logger.DebugContext(ctx, "pricing with fallback rates", "base", fxr.Base, "error", fxr.Err)
	}

	raw, outcomes := Collect(ctx, p.providers, req.Query)
	for _, o := range outcomes {
		if o.Err != nil {
			p.logger.WarnContext(ctx, "provider failed", "provider", o.Provider, "query", req.Query, "error", o.Err)
		}
	}

	results := Enrich(raw, p.normalizer, req.Region, fxr.Rates)
	SortByFinalPrice(results)

	return Response{
		Query:          req.Query,
		Region:         req.Region,
		Language:       req.Language,
		CommissionRate: p.normalizer.Commission.InexactFloat64(),
		FXBase:         p.normalizer.Base,
		Count:          len(results),
		Results:        results,
		Time:           Timestamp(p.now()),
	}, nil
}

func normalizeRequest(req Request) Request {
	req.Query = strings.TrimSpace(req.Query)
	req.Region = strings.ToUpper(strings.TrimSpace(req.Region))
	if req.Region == "" {
		req.Region = DefaultRegion
	}
	req.Language = strings.ToLower(strings.TrimSpace(req.Language))
	if req.Language == "" {
		req.Language = DefaultLanguage
	}
	return req
}

// Collect queries every provider concurrently and joins their listings in
// provider order. A failing or panicking provider contributes nothing.
func Collect(ctx context.Context, providers []provider.Provider, query string) ([]provider.Listing, []Outcome) {
	found := make([][]provider.Listing, len(providers))
	outcomes := make([]Outcome, len(providers))

	var g errgroup.Group
	for i, pr := range providers {
		g.Go(func() error {
			name, ls, err := searchOne(ctx, pr, query)
			outcomes[i] = Outcome{Provider: name, Count: len(ls), Err: err}
			if err == nil {
				found[i] = ls
			}
			return nil
		})
	}
	_ = g.Wait()

	var all []provider.Listing
	for _, ls := range found {
		all = append(all, ls...)
	}
	return all, outcomes
}

// searchOne runs one provider. Panics from Name or Search become its error.
func searchOne(ctx context.Context, pr provider.Provider, query string) (name string, ls []provider.Listing, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if name == "" {
				name = fmt.Sprintf("%T", pr)
			}
			ls, err = nil, fmt.Errorf("provider panic: %v", rec)
		}
	}()
	name = pr.Name()
	ls, err = pr.Search(ctx, query)
	return name, ls, err
}

// Enrich normalizes every listing against one shared rate table.
func Enrich(raw []provider.Listing, n pricing.Normalizer, region string, rates pricing.RateTable) []Listing {
	out := make([]Listing, 0, len(raw))
	for _, l := range raw {
		l.Currency = strings.ToUpper(strings.TrimSpace(l.Currency))
		if l.Currency == "" {
			l.Currency = n.Base
		}
		prices := n.Normalize(l.Price, l.Currency, region, rates)
		out = append(out, Listing{
			Listing:            l,
			PriceInBase:        prices.Base.Round(2),
			PriceInBaseWithVAT: prices.BaseWithVAT,
			FinalPrice:         prices.Final,
		})
	}
	return out
}

// SortByFinalPrice orders listings by ascending final price, keeping input
// order between equal prices.
func SortByFinalPrice(ls []Listing) {
	sort.SliceStable(ls, func(i, j int) bool {
		return ls[i].FinalPrice.LessThan(ls[j].FinalPrice)
	})
}

// Timestamp formats t as a UTC RFC 3339 time with a Z suffix.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
