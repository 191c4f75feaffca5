package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"findalleasy/internal/aggregate"
	"findalleasy/internal/app"
)

// NewSearchCmd creates the search subcommand.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one search and print the JSON response",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}
	cmd.Flags().String("region", aggregate.DefaultRegion, "region code used for VAT")
	cmd.Flags().String("lang", aggregate.DefaultLanguage, "response language")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	region, _ := cmd.Flags().GetString("region")
	lang, _ := cmd.Flags().GetString("lang")

	resp, err := app.Pipeline(cfg, logger).Search(cmd.Context(), aggregate.Request{
		Query:    strings.Join(args, " "),
		Region:   region,
		Language: lang,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
