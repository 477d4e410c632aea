// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholargraph/internal/fetch"
	"github.com/pdiddy/scholargraph/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "scholargraph/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <query>",
	Short: "Download paper and citation records from Semantic Scholar",
	Long: `Fetch searches the Semantic Scholar Graph API for papers matching the
query, downloads their full records and citation edges, and writes them as
JSONL batches under the data directory together with a run manifest.

An API key raises the rate limits; provide it via --api-key, the
SCHOLARGRAPH_FETCH_API_KEY environment variable, or
.secrets/semantic-scholar-api-key.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Int("min-citations", 0, "drop papers below this citation count")
	fetchCmd.Flags().String("year", "", "publication year filter: YYYY, YYYY-YYYY, YYYY-, or -YYYY")
	fetchCmd.Flags().String("fields-of-study", "", "comma-separated field-of-study filter")
	fetchCmd.Flags().Int("limit", 100, "maximum number of papers to fetch")
	fetchCmd.Flags().Int("batch-size", 1000, "records per JSONL batch file (0 = single file)")
	fetchCmd.Flags().Int("max-retries", 3, "retries per failed page request")
	fetchCmd.Flags().Float64("rate-limit", 1, "requests per second")
	fetchCmd.Flags().String("api-key", "", "Semantic Scholar API key")
	fetchCmd.Flags().String("data-dir", "data", "directory for raw JSONL batches")
	fetchCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	fetchCmd.Flags().Bool("dry-run", false, "fetch everything but write nothing")

	viper.BindPFlag("fetch.min_citations", fetchCmd.Flags().Lookup("min-citations"))
	viper.BindPFlag("fetch.year", fetchCmd.Flags().Lookup("year"))
	viper.BindPFlag("fetch.fields_of_study", fetchCmd.Flags().Lookup("fields-of-study"))
	viper.BindPFlag("fetch.limit", fetchCmd.Flags().Lookup("limit"))
	viper.BindPFlag("fetch.batch_size", fetchCmd.Flags().Lookup("batch-size"))
	viper.BindPFlag("fetch.max_retries", fetchCmd.Flags().Lookup("max-retries"))
	viper.BindPFlag("fetch.rate_limit", fetchCmd.Flags().Lookup("rate-limit"))
	viper.BindPFlag("fetch.api_key", fetchCmd.Flags().Lookup("api-key"))
	viper.BindPFlag("fetch.data_dir", fetchCmd.Flags().Lookup("data-dir"))

	rootCmd.AddCommand(fetchCmd)
}

func fetchConfig(cmd *cobra.Command, query string) types.FetchConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var fields []string
	if raw := viper.GetString("fetch.fields_of_study"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Query:         query,
		MinCitations:  viper.GetInt("fetch.min_citations"),
		Year:          viper.GetString("fetch.year"),
		FieldsOfStudy: fields,
		Limit:         viper.GetInt("fetch.limit"),
		BatchSize:     viper.GetInt("fetch.batch_size"),
		MaxRetries:    viper.GetInt("fetch.max_retries"),
		RateLimit:     viper.GetFloat64("fetch.rate_limit"),
		APIKey:        secretDefault("semantic-scholar-api-key", viper.GetString("fetch.api_key")),
		DataDir:       viper.GetString("fetch.data_dir"),
		DryRun:        dryRun,
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig(cmd, args[0])
	client := fetch.NewClient(cfg)
	_, err := fetch.Run(cmd.Context(), client, cfg, os.Stdout)
	return err
}
