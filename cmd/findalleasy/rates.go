package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"findalleasy/internal/app"
)

type ratesOutput struct {
	Base  string             `json:"base"`
	Live  bool               `json:"live"`
	Error string             `json:"error,omitempty"`
	Rates map[string]float64 `json:"rates"`
}

// NewRatesCmd creates the rates subcommand.
func NewRatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Print the exchange-rate table a search would use",
		Args:  cobra.NoArgs,
		RunE:  runRates,
	}
	cmd.Flags().String("base", "", "base currency (defaults to the configured FX base)")
	return cmd
}

func runRates(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base, _ := cmd.Flags().GetString("base")
	if base == "" {
		base = cfg.FX.Base
	}

	res := app.RateSource(cfg, logger).Rates(cmd.Context(), base)
	out := ratesOutput{Base: res.Base, Live: res.Live, Rates: make(map[string]float64, len(res.Rates))}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	for code, rate := range res.Rates {
		out.Rates[code] = rate.InexactFloat64()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
