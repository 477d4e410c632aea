// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholargraph CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholargraph/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, otherwise the secret value for
// key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the scholargraph CLI.
var rootCmd = &cobra.Command{
	Use:   "scholargraph",
	Short: "Build a citation graph from Semantic Scholar data",
	Long: `scholargraph builds a Neo4j citation graph from the Semantic Scholar
Graph API. The pipeline has four stages, each a subcommand: fetch downloads
raw paper and citation records as JSONL batches, prepare normalizes them
into CSV node and edge tables, generate synthesizes auxiliary tables
(reviews, cities, keywords), and load bulk-imports everything into Neo4j.

The run subcommand executes all stages in order, skipping stages that
already completed.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env first, so secrets files win over it.
		_ = godotenv.Load()
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholargraph.yaml or ~/.config/scholargraph/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholargraph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholargraph"))
		}
	}

	viper.SetEnvPrefix("SCHOLARGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
