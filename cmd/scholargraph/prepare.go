// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholargraph/internal/prepare"
	"github.com/pdiddy/scholargraph/pkg/types"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare [files...]",
	Short: "Normalize raw JSONL batches into CSV node and edge tables",
	Long: `Prepare reads the raw JSONL batches produced by fetch and projects them
into the CSV node and edge tables of the graph schema. With no file
arguments it processes every raw batch of the selected type under the
data directory. Malformed records are skipped with a warning.`,
	RunE: runPrepare,
}

func init() {
	prepareCmd.Flags().String("type", prepare.TypePapers, `record type: "papers" or "references"`)
	prepareCmd.Flags().String("data-dir", "data", "directory holding raw JSONL batches")
	prepareCmd.Flags().String("out-dir", "prepared", "directory for CSV tables")
	prepareCmd.Flags().Int("batch-size", 10000, "rows per CSV batch file (0 = single file)")

	viper.BindPFlag("prepare.data_dir", prepareCmd.Flags().Lookup("data-dir"))
	viper.BindPFlag("prepare.out_dir", prepareCmd.Flags().Lookup("out-dir"))
	viper.BindPFlag("prepare.batch_size", prepareCmd.Flags().Lookup("batch-size"))

	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, args []string) error {
	recType, _ := cmd.Flags().GetString("type")

	cfg := types.PrepareConfig{
		InputFiles: args,
		Type:       recType,
		DataDir:    viper.GetString("prepare.data_dir"),
		OutDir:     viper.GetString("prepare.out_dir"),
		BatchSize:  viper.GetInt("prepare.batch_size"),
	}
	_, err := prepare.Run(cfg, os.Stdout)
	return err
}
