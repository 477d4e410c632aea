// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholargraph/internal/load"
	"github.com/pdiddy/scholargraph/pkg/types"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load the CSV tables into Neo4j",
	Long: `Load runs the bulk-load Cypher script against Neo4j, once per batch
file per table. The CSV tables must be visible to the server's import
mechanism, typically by mounting the output directory as the Neo4j
import directory.

The password can be provided via --password, the SCHOLARGRAPH_LOAD_PASSWORD
environment variable, or .secrets/neo4j-password.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().String("uri", "neo4j://localhost:7687", "Neo4j connection URI")
	loadCmd.Flags().String("user", "neo4j", "Neo4j user")
	loadCmd.Flags().String("password", "", "Neo4j password")
	loadCmd.Flags().String("database", "", "target database (empty = server default)")
	loadCmd.Flags().String("script", "cypher/bulk-load.cypher", "bulk-load Cypher script")
	loadCmd.Flags().String("out-dir", "prepared", "directory holding the CSV tables")

	viper.BindPFlag("load.uri", loadCmd.Flags().Lookup("uri"))
	viper.BindPFlag("load.user", loadCmd.Flags().Lookup("user"))
	viper.BindPFlag("load.password", loadCmd.Flags().Lookup("password"))
	viper.BindPFlag("load.database", loadCmd.Flags().Lookup("database"))
	viper.BindPFlag("load.script_path", loadCmd.Flags().Lookup("script"))
	viper.BindPFlag("load.out_dir", loadCmd.Flags().Lookup("out-dir"))

	rootCmd.AddCommand(loadCmd)
}

func loadConfig() types.LoadConfig {
	return types.LoadConfig{
		URI:        viper.GetString("load.uri"),
		User:       viper.GetString("load.user"),
		Password:   secretDefault("neo4j-password", viper.GetString("load.password")),
		Database:   viper.GetString("load.database"),
		ScriptPath: viper.GetString("load.script_path"),
		OutDir:     viper.GetString("load.out_dir"),
	}
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	loader, err := load.NewLoader(ctx, loadConfig())
	if err != nil {
		return err
	}
	defer loader.Close(ctx)
	return loader.Run(ctx, os.Stdout)
}
