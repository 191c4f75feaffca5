// Package app wires configuration into the search pipeline. Both the HTTP
// server and the CLI build their pipeline here.
package app

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"findalleasy/internal/aggregate"
	"findalleasy/internal/config"
	"findalleasy/internal/fx"
	"findalleasy/internal/httpx"
	"findalleasy/internal/pricing"
	"findalleasy/internal/provider"
	"findalleasy/internal/provider/marketplace"
)

// RateSource builds the FX source from cfg.
func RateSource(cfg config.Config, logger *slog.Logger) *fx.Source {
	hc := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
	client := fx.NewClient(
		fx.WithHTTPClient(hc),
		fx.WithBaseURL(cfg.FX.Endpoint),
		fx.WithAccessKey(cfg.FX.AccessKey),
	)
	return fx.NewSource(client, logger)
}

// Normalizer builds the price normalizer from cfg.
func Normalizer(cfg config.Config) pricing.Normalizer {
	return pricing.NewNormalizer(cfg.FX.Base, decimal.NewFromFloat(cfg.Pricing.CommissionRate))
}

// Pipeline builds the search pipeline over the built-in marketplaces.
func Pipeline(cfg config.Config, logger *slog.Logger) *aggregate.Pipeline {
	return PipelineWith(cfg, logger, marketplace.Registry(), RateSource(cfg, logger))
}

// PipelineWith builds a pipeline over the given providers and rate source.
func PipelineWith(cfg config.Config, logger *slog.Logger, providers []provider.Provider, rates aggregate.RateSource) *aggregate.Pipeline {
	return aggregate.New(providers, rates, Normalizer(cfg), aggregate.WithLogger(logger))
}
