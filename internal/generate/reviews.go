// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"

	"github.com/pdiddy/scholargraph/internal/batch"
	"github.com/pdiddy/scholargraph/internal/schema"
	"github.com/pdiddy/scholargraph/pkg/types"
)

// reviewPhrases is the pool of synthesized review bodies.
var reviewPhrases = []string{
	"Sound methodology and clear presentation.",
	"Interesting problem, but the evaluation is thin.",
	"The contribution is incremental over prior work.",
	"Well written; the experiments support the claims.",
	"The approach is novel but the related work section is incomplete.",
	"Results are convincing, minor clarity issues remain.",
}

// Reviews samples 3-5 reviewers per paper from the author pool,
// excluding the paper's own authors, and synthesizes a verdict for each
// assignment. Requires the papers, authors and wrote tables.
func Reviews(cfg types.GenerateConfig, rng *rand.Rand, w io.Writer) error {
	papers, err := requireTable(cfg.OutDir, schema.Papers)
	if err != nil {
		return err
	}
	authorRows, err := requireTable(cfg.OutDir, schema.Authors)
	if err != nil {
		return err
	}
	wroteRows, err := requireTable(cfg.OutDir, schema.Wrote)
	if err != nil {
		return err
	}

	// Sorted pool, so sampling is reproducible regardless of how the
	// author table batches were laid out.
	pool := make([]string, 0, len(authorRows))
	seen := make(map[string]bool)
	for _, row := range authorRows {
		id := row["authorID"]
		if id != "" && !seen[id] {
			seen[id] = true
			pool = append(pool, id)
		}
	}
	sort.Strings(pool)

	wroteBy := make(map[string]map[string]bool)
	for _, row := range wroteRows {
		paperID := row["paperID"]
		if wroteBy[paperID] == nil {
			wroteBy[paperID] = make(map[string]bool)
		}
		wroteBy[paperID][row["authorID"]] = true
	}

	out, err := batch.NewCSVWriter(cfg.OutDir, schema.Reviewed, cfg.BatchSize)
	if err != nil {
		return err
	}

	totalReviews := 0
	for _, row := range papers {
		paperID := row["paperID"]
		own := wroteBy[paperID]

		candidates := make([]string, 0, len(pool))
		for _, id := range pool {
			if !own[id] {
				candidates = append(candidates, id)
			}
		}
		want := 3 + rng.Intn(3)
		if want > len(candidates) {
			want = len(candidates)
		}

		picked := make(map[int]bool)
		for len(picked) < want {
			idx := rng.Intn(len(candidates))
			if picked[idx] {
				continue
			}
			picked[idx] = true

			verdict := reviewVerdict(rng)
			err := out.Write([]string{
				paperID,
				candidates[idx],
				strconv.FormatBool(verdict.accepted),
				strconv.Itoa(verdict.minor),
				strconv.Itoa(verdict.major),
				verdict.content,
			})
			if err != nil {
				out.Close()
				return err
			}
			totalReviews++
		}
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(w, "generated %d review(s) for %d paper(s)\n", totalReviews, len(papers))
	return nil
}

type verdict struct {
	accepted     bool
	minor, major int
	content      string
}

func reviewVerdict(rng *rand.Rand) verdict {
	return verdict{
		accepted: rng.Float64() < 0.7,
		minor:    rng.Intn(4),
		major:    rng.Intn(3),
		content:  reviewPhrases[rng.Intn(len(reviewPhrases))],
	}
}
