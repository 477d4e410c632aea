// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prepare normalizes raw JSONL batches into the node and edge
// CSV tables of the graph schema. Output is deterministic: rows appear
// in input order and entities are deduplicated by natural key with the
// first occurrence winning, so running twice over identical input
// reproduces byte-identical tables.
//
// Malformed records are skipped and logged rather than aborting the
// run; the skip count is reported in the summary.
package prepare

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/scholargraph/internal/batch"
	"github.com/pdiddy/scholargraph/internal/schema"
	"github.com/pdiddy/scholargraph/pkg/types"
)

// TypePapers and TypeReferences select the record kind being normalized.
const (
	TypePapers     = "papers"
	TypeReferences = "references"
)

// Summary reports what one normalize run produced.
type Summary struct {
	// Rows counts the primary rows written: paper nodes or citation edges.
	Rows int

	// Skipped counts malformed records that were dropped.
	Skipped int

	// DanglingVenues counts papers whose venue could not be resolved to
	// a venue entity; their venue edges were dropped.
	DanglingVenues int
}

// Run normalizes cfg.InputFiles (or, when empty, the raw batches of the
// configured kind under cfg.DataDir) into CSV tables under cfg.OutDir.
func Run(cfg types.PrepareConfig, w io.Writer) (*Summary, error) {
	inputs := cfg.InputFiles
	if len(inputs) == 0 {
		pattern := "raw-papers-*.jsonl"
		if cfg.Type == TypeReferences {
			pattern = "raw-references-*.jsonl"
		}
		var err error
		if inputs, err = filepath.Glob(filepath.Join(cfg.DataDir, pattern)); err != nil {
			return nil, err
		}
		batch.SortByBatch(inputs)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input files to normalize")
	}

	switch cfg.Type {
	case TypePapers:
		return Papers(inputs, cfg.OutDir, cfg.BatchSize, w)
	case TypeReferences:
		return References(inputs, cfg.OutDir, cfg.BatchSize, w)
	default:
		return nil, fmt.Errorf("unknown record type %q: want %q or %q", cfg.Type, TypePapers, TypeReferences)
	}
}

// dedup tracks which natural keys have already produced a node row.
type dedup struct {
	papers         map[string]bool
	authors        map[string]bool
	organizations  map[string]bool
	fieldsOfStudy  map[string]bool
	journals       map[string]bool
	conferences    map[string]bool
	workshops      map[string]bool
	otherVenues    map[string]bool
	journalVolumes map[string]bool
	proceedings    map[string]bool
}

func newDedup() *dedup {
	return &dedup{
		papers:         make(map[string]bool),
		authors:        make(map[string]bool),
		organizations:  make(map[string]bool),
		fieldsOfStudy:  make(map[string]bool),
		journals:       make(map[string]bool),
		conferences:    make(map[string]bool),
		workshops:      make(map[string]bool),
		otherVenues:    make(map[string]bool),
		journalVolumes: make(map[string]bool),
		proceedings:    make(map[string]bool),
	}
}

// Papers projects raw paper records into the paper, author, venue and
// field-of-study node tables and their relationship tables.
func Papers(inputs []string, outDir string, batchSize int, w io.Writer) (*Summary, error) {
	tables := newTableSet(outDir, batchSize)
	seen := newDedup()
	summary := &Summary{}
	bar := newBar(w, "normalizing papers")

	err := eachLine(inputs, func(line []byte) error {
		var p types.Paper
		if err := json.Unmarshal(line, &p); err != nil {
			fmt.Fprintf(w, "warning: skipping malformed paper record: %v\n", err)
			summary.Skipped++
			return nil
		}
		if p.PaperID == "" {
			fmt.Fprintln(w, "warning: skipping paper record without paperId")
			summary.Skipped++
			return nil
		}
		if seen.papers[p.PaperID] {
			return nil
		}
		seen.papers[p.PaperID] = true

		if err := writePaper(tables, &p); err != nil {
			return err
		}
		if err := writeAuthors(tables, seen, &p, w); err != nil {
			return err
		}
		if err := writeFieldsOfStudy(tables, seen, &p); err != nil {
			return err
		}
		dangling, err := writeVenue(tables, seen, &p)
		if err != nil {
			return err
		}
		if dangling {
			fmt.Fprintf(w, "warning: paper %s has no resolvable venue; venue edges dropped\n", p.PaperID)
			summary.DanglingVenues++
		}

		summary.Rows++
		bar.Add(1)
		return nil
	})
	if err != nil {
		tables.Close()
		return nil, err
	}
	if err := tables.Close(); err != nil {
		return nil, err
	}
	bar.Finish()

	fmt.Fprintf(w, "\nnormalized %d paper(s), skipped %d malformed record(s)\n", summary.Rows, summary.Skipped)
	return summary, nil
}

// References projects raw citation records into the citations edge
// table. Edges to papers outside this run's node set are kept; the
// loader drops edges it cannot match.
func References(inputs []string, outDir string, batchSize int, w io.Writer) (*Summary, error) {
	tables := newTableSet(outDir, batchSize)
	summary := &Summary{}
	bar := newBar(w, "normalizing citations")

	err := eachLine(inputs, func(line []byte) error {
		var c types.Citation
		if err := json.Unmarshal(line, &c); err != nil {
			fmt.Fprintf(w, "warning: skipping malformed citation record: %v\n", err)
			summary.Skipped++
			return nil
		}
		if c.CitingPaper.PaperID == "" || c.CitedPaper.PaperID == "" {
			fmt.Fprintln(w, "warning: skipping citation with missing endpoint")
			summary.Skipped++
			return nil
		}

		err := tables.write(schema.Citations,
			c.CitedPaper.PaperID,
			c.CitingPaper.PaperID,
			strconv.FormatBool(c.IsInfluential),
			jsonField(c.ContextsWithIntent),
		)
		if err != nil {
			return err
		}
		summary.Rows++
		bar.Add(1)
		return nil
	})
	if err != nil {
		tables.Close()
		return nil, err
	}
	if err := tables.Close(); err != nil {
		return nil, err
	}
	bar.Finish()

	fmt.Fprintf(w, "\nnormalized %d citation edge(s), skipped %d malformed record(s)\n", summary.Rows, summary.Skipped)
	return summary, nil
}

func writePaper(tables *tableSet, p *types.Paper) error {
	var pdfURL string
	if p.OpenAccessPDF != nil {
		pdfURL = p.OpenAccessPDF.URL
	}
	var embedding string
	if p.Embedding != nil {
		embedding = jsonField(p.Embedding.Vector)
	}
	var tldr string
	if p.TLDR != nil {
		tldr = p.TLDR.Text
	}
	return tables.write(schema.Papers,
		p.PaperID, p.URL, p.Title, p.Abstract,
		strconv.Itoa(p.Year),
		strconv.FormatBool(p.IsOpenAccess),
		pdfURL,
		jsonField(p.PublicationTypes),
		embedding,
		tldr,
	)
}

func writeAuthors(tables *tableSet, seen *dedup, p *types.Paper, w io.Writer) error {
	mainDone := false
	for _, a := range p.Authors {
		if a.AuthorID == nil || *a.AuthorID == "" {
			fmt.Fprintf(w, "warning: paper %s: skipping author %q without ID\n", p.PaperID, a.Name)
			continue
		}
		id := *a.AuthorID
		if !seen.authors[id] {
			seen.authors[id] = true
			err := tables.write(schema.Authors, id, a.URL, a.Name, a.Homepage, strconv.Itoa(a.HIndex))
			if err != nil {
				return err
			}
		}
		if err := tables.write(schema.Wrote, p.PaperID, id); err != nil {
			return err
		}
		// The first author with a resolvable ID is taken as main author.
		if !mainDone {
			mainDone = true
			if err := tables.write(schema.MainAuthor, p.PaperID, id); err != nil {
				return err
			}
		}
		for _, org := range a.Affiliations {
			if !seen.organizations[org] {
				seen.organizations[org] = true
				if err := tables.write(schema.Organizations, org); err != nil {
					return err
				}
			}
			if err := tables.write(schema.IsAffiliatedWith, id, org); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeFieldsOfStudy(tables *tableSet, seen *dedup, p *types.Paper) error {
	for _, fos := range p.FieldsOfStudy {
		if !seen.fieldsOfStudy[fos] {
			seen.fieldsOfStudy[fos] = true
			if err := tables.write(schema.FieldsOfStudy, fos); err != nil {
				return err
			}
		}
		if err := tables.write(schema.HasFieldOfStudy, p.PaperID, fos); err != nil {
			return err
		}
	}
	return nil
}

// writeVenue materializes the venue entities of one paper. A paper
// whose venue record is missing or carries no ID produces no venue
// nodes or edges at all; an edge must never point at a node the loader
// cannot create.
func writeVenue(tables *tableSet, seen *dedup, p *types.Paper) (dangling bool, err error) {
	v := p.PublicationVenue
	if v == nil || v.ID == "" {
		return true, nil
	}

	var volume, pages string
	if p.Journal != nil {
		volume = p.Journal.Volume
		pages = p.Journal.Pages
	}
	year := strconv.Itoa(p.Year)

	switch v.Type {
	case "journal":
		if !seen.journals[v.ID] {
			seen.journals[v.ID] = true
			if err := tables.write(schema.Journals, v.ID, v.Name, v.URL, jsonField(v.AlternateNames)); err != nil {
				return false, err
			}
		}
		volID := compoundID(v.ID, volume)
		if !seen.journalVolumes[volID] {
			seen.journalVolumes[volID] = true
			if err := tables.write(schema.JournalVolumes, volID, year, volume); err != nil {
				return false, err
			}
			if err := tables.write(schema.IsEditionOfJournal, volID, v.ID); err != nil {
				return false, err
			}
		}
		return false, tables.write(schema.IsPublishedInJournal, p.PaperID, volID, pages)

	case "conference", "workshop":
		venueTable, editionTable := schema.Conferences, schema.IsEditionOfConference
		venueSeen := seen.conferences
		if v.Type == "workshop" {
			venueTable, editionTable = schema.Workshops, schema.IsEditionOfWorkshop
			venueSeen = seen.workshops
		}
		if !venueSeen[v.ID] {
			venueSeen[v.ID] = true
			if err := tables.write(venueTable, v.ID, v.Name, v.URL, jsonField(v.AlternateNames)); err != nil {
				return false, err
			}
		}
		procID := compoundID(v.ID, year)
		if !seen.proceedings[procID] {
			seen.proceedings[procID] = true
			if err := tables.write(schema.Proceedings, procID, year); err != nil {
				return false, err
			}
			if err := tables.write(editionTable, procID, v.ID); err != nil {
				return false, err
			}
		}
		return false, tables.write(schema.IsPublishedInProceedings, p.PaperID, procID, pages)

	default:
		if !seen.otherVenues[v.ID] {
			seen.otherVenues[v.ID] = true
			if err := tables.write(schema.OtherVenues, v.ID, v.Name, v.URL, jsonField(v.AlternateNames)); err != nil {
				return false, err
			}
		}
		return false, tables.write(schema.IsPublishedInOther, p.PaperID, v.ID, pages)
	}
}

// newBar builds a spinner-style progress counter; the record total is
// not known up front.
func newBar(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
	)
}

// compoundID builds a composite natural key as a JSON array, e.g.
// ["4d9ce1c4","2021"] for the 2021 proceedings of a conference.
func compoundID(parts ...string) string {
	data, _ := json.Marshal(parts)
	return string(data)
}

// jsonField JSON-encodes a value into a single CSV field; empty slices
// and nil produce an empty field.
func jsonField(v any) string {
	switch s := v.(type) {
	case []string:
		if len(s) == 0 {
			return ""
		}
	case []float64:
		if len(s) == 0 {
			return ""
		}
	case []types.CitationContext:
		if len(s) == 0 {
			return ""
		}
	case nil:
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
