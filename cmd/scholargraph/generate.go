// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholargraph/internal/generate"
	"github.com/pdiddy/scholargraph/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [kinds...]",
	Short: "Synthesize auxiliary tables alongside the prepared ones",
	Long: `Generate produces synthetic node and edge tables that have no source in
the Semantic Scholar data: a city pool fetched from a public API, city
assignments for proceedings, reviewer assignments with verdicts, and paper
keywords. With no arguments every kind is generated, in canonical order.

Sampling is seeded, so repeated runs over the same prepared tables produce
identical output.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("out-dir", "prepared", "directory holding the prepared CSV tables")
	generateCmd.Flags().Int("batch-size", 10000, "rows per CSV batch file (0 = single file)")
	generateCmd.Flags().Int64("seed", generate.DefaultSeed, "random seed")
	generateCmd.Flags().Int("max-retries", 3, "retries against the cities API")
	generateCmd.Flags().String("country", generate.DefaultCountry, "country the city pool is drawn from")
	generateCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")

	viper.BindPFlag("generate.out_dir", generateCmd.Flags().Lookup("out-dir"))
	viper.BindPFlag("generate.batch_size", generateCmd.Flags().Lookup("batch-size"))
	viper.BindPFlag("generate.seed", generateCmd.Flags().Lookup("seed"))
	viper.BindPFlag("generate.max_retries", generateCmd.Flags().Lookup("max-retries"))
	viper.BindPFlag("generate.country", generateCmd.Flags().Lookup("country"))

	rootCmd.AddCommand(generateCmd)
}

func generateConfig(cmd *cobra.Command, kinds []string) types.GenerateConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if len(kinds) == 0 {
		kinds = generate.ValidKinds
	}
	return types.GenerateConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Kinds:      kinds,
		OutDir:     viper.GetString("generate.out_dir"),
		BatchSize:  viper.GetInt("generate.batch_size"),
		Seed:       viper.GetInt64("generate.seed"),
		MaxRetries: viper.GetInt("generate.max_retries"),
		Country:    viper.GetString("generate.country"),
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := generateConfig(cmd, args)
	client := &http.Client{Timeout: cfg.Timeout}
	return generate.Run(cmd.Context(), client, cfg, os.Stdout)
}
