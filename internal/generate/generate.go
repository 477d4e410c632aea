// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate synthesizes auxiliary node and edge tables from
// already-normalized ones: reviewer assignments, a city pool, city
// placements for proceedings, and paper keywords. All sampling comes
// from a seeded source, so a fixed seed and fixed input tables yield
// identical output across runs. Each kind draws from its own source,
// making the output independent of the order kinds are requested in.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"github.com/pdiddy/scholargraph/internal/batch"
	"github.com/pdiddy/scholargraph/internal/schema"
	"github.com/pdiddy/scholargraph/pkg/types"
)

// ErrMissingPrerequisite is returned when a requested kind needs a
// table that no prior stage has produced. Nothing is written in that
// case; the check runs before any output file is created.
var ErrMissingPrerequisite = errors.New("missing prerequisite table")

// Synthetic table kinds.
const (
	KindCities            = "cities"
	KindReviews           = "reviews"
	KindProceedingsCities = "proceedings-cities"
	KindKeywords          = "keywords"
)

// ValidKinds lists every kind Run accepts, in canonical order.
var ValidKinds = []string{KindCities, KindReviews, KindProceedingsCities, KindKeywords}

// DefaultSeed matches the seed the pipeline has always used.
const DefaultSeed = 42

// Run generates the requested kinds in the order given. Kinds are
// independent; a failure aborts the run at that kind.
func Run(ctx context.Context, client *http.Client, cfg types.GenerateConfig, w io.Writer) error {
	for _, kind := range cfg.Kinds {
		if !validKind(kind) {
			return fmt.Errorf("unknown synthetic kind %q: want one of %v", kind, ValidKinds)
		}
	}

	for _, kind := range cfg.Kinds {
		var err error
		switch kind {
		case KindCities:
			err = Cities(ctx, client, cfg, w)
		case KindReviews:
			err = Reviews(cfg, newSource(cfg), w)
		case KindProceedingsCities:
			err = ProceedingsCities(cfg, newSource(cfg), w)
		case KindKeywords:
			err = Keywords(cfg, newSource(cfg), w)
		}
		if err != nil {
			return fmt.Errorf("generating %s: %w", kind, err)
		}
	}
	return nil
}

func validKind(kind string) bool {
	for _, k := range ValidKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func newSource(cfg types.GenerateConfig) *rand.Rand {
	seed := cfg.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

// requireTable loads every row of a prerequisite table, failing with
// ErrMissingPrerequisite when the table has no batch files at all.
func requireTable(dir string, t schema.Table) ([]map[string]string, error) {
	files, err := batch.TableFiles(dir, t)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", t.Prefix, ErrMissingPrerequisite)
	}
	return batch.ReadTable(dir, t)
}
