// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads paper metadata and citation edges from the
// Semantic Scholar Graph API and writes them as raw JSONL batches.
package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholargraph/internal/batch"
	"github.com/pdiddy/scholargraph/internal/httputil"
	"github.com/pdiddy/scholargraph/pkg/types"
)

// ErrExhausted is returned when a page request kept failing transiently
// until the retry budget ran out. Batches already written stay on disk
// so a re-run can redo the stage without losing the partial artifact.
var ErrExhausted = httputil.ErrExhausted

const (
	papersPrefix     = "raw-papers"
	referencesPrefix = "raw-references"
	manifestFile     = "manifest.yaml"
)

// Result summarizes one fetch run.
type Result struct {
	Papers         int
	References     int
	PaperFiles     []string
	ReferenceFiles []string
}

// Manifest is the run summary written next to the raw batches.
type Manifest struct {
	Query          string    `yaml:"query"`
	MinCitations   int       `yaml:"min_citations,omitempty"`
	Year           string    `yaml:"year,omitempty"`
	FieldsOfStudy  []string  `yaml:"fields_of_study,omitempty"`
	Limit          int       `yaml:"limit"`
	BatchSize      int       `yaml:"batch_size"`
	Papers         int       `yaml:"papers"`
	References     int       `yaml:"references"`
	PaperFiles     []string  `yaml:"paper_files"`
	ReferenceFiles []string  `yaml:"reference_files"`
	FetchedAt      time.Time `yaml:"fetched_at"`
}

// Validate checks the fetch configuration before any network call.
func Validate(cfg types.FetchConfig) error {
	if cfg.Query == "" {
		return fmt.Errorf("query is required")
	}
	if cfg.Limit < 1 {
		return fmt.Errorf("limit must be at least 1, got %d", cfg.Limit)
	}
	if cfg.BatchSize < 0 {
		return fmt.Errorf("batch size must not be negative, got %d", cfg.BatchSize)
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", cfg.MaxRetries)
	}
	if _, err := ParseYearFilter(cfg.Year); err != nil {
		return err
	}
	return nil
}

// Run executes the download stage: search for paper IDs, fetch full
// records, fetch the citation edges of every paper, and write the two
// JSONL batch sets plus a manifest under cfg.DataDir. In dry-run mode
// everything is fetched but nothing is written.
func Run(ctx context.Context, c *Client, cfg types.FetchConfig, w io.Writer) (*Result, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	ids, err := c.SearchPaperIDs(ctx, cfg)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "found %d paper(s) for %q\n", len(ids), cfg.Query)
	if len(ids) == 0 {
		// An empty manifest still records that the run happened.
		result := &Result{}
		if !cfg.DryRun {
			if err := writeManifest(cfg, result); err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	papers, err := c.PaperDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	var paperWriter, refWriter *batch.JSONLWriter
	if !cfg.DryRun {
		if paperWriter, err = batch.NewJSONLWriter(cfg.DataDir, papersPrefix, cfg.BatchSize); err != nil {
			return nil, err
		}
		defer paperWriter.Close()
		if refWriter, err = batch.NewJSONLWriter(cfg.DataDir, referencesPrefix, cfg.BatchSize); err != nil {
			return nil, err
		}
		defer refWriter.Close()
	}

	for _, p := range papers {
		if paperWriter != nil {
			if err := paperWriter.Write(p); err != nil {
				return nil, err
			}
		}
		result.Papers++
	}
	fmt.Fprintf(w, "retrieved %d paper record(s)\n", result.Papers)

	bar := newBar(w, len(ids), "fetching citations")
	for _, id := range ids {
		err := c.Citations(ctx, id, func(cit types.Citation) error {
			if refWriter != nil {
				if err := refWriter.Write(cit); err != nil {
					return err
				}
			}
			result.References++
			return nil
		})
		if err != nil {
			return nil, err
		}
		bar.Add(1)
	}
	bar.Finish()
	fmt.Fprintf(w, "\nretrieved %d citation edge(s)\n", result.References)

	if cfg.DryRun {
		fmt.Fprintln(w, "dry run: nothing written")
		return result, nil
	}

	if err := paperWriter.Close(); err != nil {
		return nil, err
	}
	if err := refWriter.Close(); err != nil {
		return nil, err
	}
	result.PaperFiles = paperWriter.Files()
	result.ReferenceFiles = refWriter.Files()

	if err := writeManifest(cfg, result); err != nil {
		return nil, err
	}
	return result, nil
}

func writeManifest(cfg types.FetchConfig, result *Result) error {
	m := Manifest{
		Query:          cfg.Query,
		MinCitations:   cfg.MinCitations,
		Year:           cfg.Year,
		FieldsOfStudy:  cfg.FieldsOfStudy,
		Limit:          cfg.Limit,
		BatchSize:      cfg.BatchSize,
		Papers:         result.Papers,
		References:     result.References,
		PaperFiles:     result.PaperFiles,
		ReferenceFiles: result.ReferenceFiles,
		FetchedAt:      time.Now().UTC(),
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	// A zero-result run writes no batches, so the directory may not exist yet.
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return os.WriteFile(filepath.Join(cfg.DataDir, manifestFile), data, 0o644)
}

// newBar builds a progress bar that renders to w.
func newBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetItsString("papers"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
	)
}
