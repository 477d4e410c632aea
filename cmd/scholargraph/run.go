// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholargraph/internal/fetch"
	"github.com/pdiddy/scholargraph/internal/generate"
	"github.com/pdiddy/scholargraph/internal/load"
	"github.com/pdiddy/scholargraph/internal/prepare"
	"github.com/pdiddy/scholargraph/internal/stage"
	"github.com/pdiddy/scholargraph/pkg/types"
)

// Pipeline stage names, also the tracker flag names.
const (
	stageFetch    = "fetch"
	stagePrepare  = "prepare"
	stageGenerate = "generate"
	stageLoad     = "load"
)

var runCmd = &cobra.Command{
	Use:   "run <query>",
	Short: "Run the full pipeline: fetch, prepare, generate, load",
	Long: `Run executes every pipeline stage in order. Each completed stage is
flagged in the stage tracker and skipped on re-runs, so an interrupted
pipeline resumes where it stopped. Use --redo to clear the flags and run
everything again, or --skip-load to stop before the Neo4j import.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().AddFlagSet(fetchCmd.Flags())
	runCmd.Flags().AddFlagSet(generateCmd.Flags())
	runCmd.Flags().AddFlagSet(loadCmd.Flags())
	runCmd.Flags().String("logs-dir", "logs", "directory for stage tracker state")
	runCmd.Flags().String("tracker", "file", `stage tracker backend: "file" or "sqlite"`)
	runCmd.Flags().Bool("skip-load", false, "stop before the Neo4j import")
	runCmd.Flags().Bool("redo", false, "clear all stage flags and run everything again")

	viper.BindPFlag("logs_dir", runCmd.Flags().Lookup("logs-dir"))
	viper.BindPFlag("tracker", runCmd.Flags().Lookup("tracker"))

	rootCmd.AddCommand(runCmd)
}

func newTracker() (stage.Tracker, func() error, error) {
	logsDir := viper.GetString("logs_dir")
	switch backend := viper.GetString("tracker"); backend {
	case "file", "":
		t, err := stage.NewFileTracker(logsDir)
		return t, func() error { return nil }, err
	case "sqlite":
		t, err := stage.NewSQLiteTracker(filepath.Join(logsDir, "stages.db"))
		if err != nil {
			return nil, nil, err
		}
		return t, t.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown tracker backend %q: want \"file\" or \"sqlite\"", backend)
	}
}

// pipelineConfig assembles the per-stage configurations for one full
// run. Merging the subcommand flag sets keeps only the first instance
// of a flag shared between stages, so shared values (--out-dir,
// --batch-size) are read once from the run command and pushed into
// every stage config; without this the load stage would glob a
// different directory than the one the pipeline wrote to.
func pipelineConfig(cmd *cobra.Command, query string) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Fetch:    fetchConfig(cmd, query),
		Generate: generateConfig(cmd, nil),
		Load:     loadConfig(),
		LogsDir:  viper.GetString("logs_dir"),
		Tracker:  viper.GetString("tracker"),
	}
	cfg.SkipLoad, _ = cmd.Flags().GetBool("skip-load")

	if cmd.Flags().Changed("out-dir") {
		outDir, _ := cmd.Flags().GetString("out-dir")
		cfg.Generate.OutDir = outDir
	}
	if cmd.Flags().Changed("batch-size") {
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		cfg.Fetch.BatchSize = batchSize
		cfg.Generate.BatchSize = batchSize
	}

	cfg.Prepare = types.PrepareConfig{
		DataDir:   cfg.Fetch.DataDir,
		OutDir:    cfg.Generate.OutDir,
		BatchSize: viper.GetInt("prepare.batch_size"),
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.Prepare.BatchSize = cfg.Generate.BatchSize
	}
	cfg.Load.OutDir = cfg.Generate.OutDir
	return cfg
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd, args[0])
	fetchCfg := cfg.Fetch
	prepareCfg := cfg.Prepare
	generateCfg := cfg.Generate
	loadCfg := cfg.Load
	skipLoad := cfg.SkipLoad
	redo, _ := cmd.Flags().GetBool("redo")

	tracker, closeTracker, err := newTracker()
	if err != nil {
		return err
	}
	defer closeTracker()

	allStages := []string{stageFetch, stagePrepare, stageGenerate, stageLoad}
	if redo {
		for _, name := range allStages {
			if err := tracker.Clear(name); err != nil {
				return err
			}
		}
	}

	stages := []stage.Stage{
		{Name: stageFetch, Run: func(ctx context.Context) error {
			client := fetch.NewClient(fetchCfg)
			_, err := fetch.Run(ctx, client, fetchCfg, os.Stdout)
			return err
		}},
		{Name: stagePrepare, Run: func(ctx context.Context) error {
			for _, recType := range []string{prepare.TypePapers, prepare.TypeReferences} {
				cfg := prepareCfg
				cfg.Type = recType
				if _, err := prepare.Run(cfg, os.Stdout); err != nil {
					return err
				}
			}
			return nil
		}},
		{Name: stageGenerate, Run: func(ctx context.Context) error {
			client := &http.Client{Timeout: generateCfg.Timeout}
			return generate.Run(ctx, client, generateCfg, os.Stdout)
		}},
	}
	if !skipLoad {
		stages = append(stages, stage.Stage{Name: stageLoad, Run: func(ctx context.Context) error {
			loader, err := load.NewLoader(ctx, loadCfg)
			if err != nil {
				return err
			}
			defer loader.Close(ctx)
			return loader.Run(ctx, os.Stdout)
		}})
	}

	logf := func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
	return stage.RunPipeline(cmd.Context(), tracker, stages, logf)
}
