// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/pdiddy/scholargraph/internal/batch"
	"github.com/pdiddy/scholargraph/internal/schema"
	"github.com/pdiddy/scholargraph/pkg/types"
)

// keywordVocabulary is the fixed pool keywords are sampled from.
var keywordVocabulary = []string{
	"data management",
	"indexing",
	"data modeling",
	"big data",
	"data processing",
	"data storage",
	"data querying",
	"graph databases",
	"query optimization",
	"distributed systems",
	"machine learning",
	"information retrieval",
}

// Keywords assigns 1-3 distinct vocabulary keywords to every paper,
// producing the keyword node table and the has-keyword edge table.
// Requires the papers table.
func Keywords(cfg types.GenerateConfig, rng *rand.Rand, w io.Writer) error {
	papers, err := requireTable(cfg.OutDir, schema.Papers)
	if err != nil {
		return err
	}

	edges, err := batch.NewCSVWriter(cfg.OutDir, schema.HasKeyword, cfg.BatchSize)
	if err != nil {
		return err
	}

	used := make(map[string]bool)
	var usedOrder []string
	totalEdges := 0
	for _, row := range papers {
		paperID := row["paperID"]
		want := 1 + rng.Intn(3)

		picked := make(map[int]bool)
		for len(picked) < want {
			idx := rng.Intn(len(keywordVocabulary))
			if picked[idx] {
				continue
			}
			picked[idx] = true

			kw := keywordVocabulary[idx]
			if !used[kw] {
				used[kw] = true
				usedOrder = append(usedOrder, kw)
			}
			if err := edges.Write([]string{paperID, kw}); err != nil {
				edges.Close()
				return err
			}
			totalEdges++
		}
	}
	if err := edges.Close(); err != nil {
		return err
	}

	// Only keywords actually assigned become nodes, in first-use order.
	nodes, err := batch.NewCSVWriter(cfg.OutDir, schema.Keywords, cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, kw := range usedOrder {
		if err := nodes.Write([]string{kw}); err != nil {
			nodes.Close()
			return err
		}
	}
	if err := nodes.Close(); err != nil {
		return err
	}

	fmt.Fprintf(w, "assigned %d keyword(s) across %d paper(s)\n", totalEdges, len(papers))
	return nil
}
