// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records and configuration shared across
// pipeline stages.
package types

// Paper is one raw paper record as returned by the Semantic Scholar
// Graph API and persisted to the raw-papers JSONL batches. Field names
// match the API's JSON keys exactly so records round-trip unchanged.
type Paper struct {
	PaperID          string         `json:"paperId"`
	URL              string         `json:"url,omitempty"`
	Title            string         `json:"title,omitempty"`
	Abstract         string         `json:"abstract,omitempty"`
	Year             int            `json:"year,omitempty"`
	IsOpenAccess     bool           `json:"isOpenAccess,omitempty"`
	OpenAccessPDF    *OpenAccessPDF `json:"openAccessPdf,omitempty"`
	PublicationTypes []string       `json:"publicationTypes,omitempty"`
	FieldsOfStudy    []string       `json:"fieldsOfStudy,omitempty"`
	Authors          []Author       `json:"authors,omitempty"`
	Journal          *JournalRef    `json:"journal,omitempty"`
	PublicationVenue *Venue         `json:"publicationVenue,omitempty"`
	Embedding        *Embedding     `json:"embedding,omitempty"`
	TLDR             *TLDR          `json:"tldr,omitempty"`
}

// OpenAccessPDF holds the open-access PDF location for a paper.
type OpenAccessPDF struct {
	URL    string `json:"url"`
	Status string `json:"status,omitempty"`
}

// Author is a paper author. AuthorID is a pointer because the API
// returns null for authors it could not disambiguate; such authors are
// skipped during normalization.
type Author struct {
	AuthorID     *string  `json:"authorId"`
	URL          string   `json:"url,omitempty"`
	Name         string   `json:"name"`
	Homepage     string   `json:"homepage,omitempty"`
	HIndex       int      `json:"hIndex,omitempty"`
	Affiliations []string `json:"affiliations,omitempty"`
}

// Venue is the publication venue of a paper. Type is one of "journal",
// "conference", "workshop", or another venue kind the API reports.
type Venue struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	URL            string   `json:"url,omitempty"`
	AlternateNames []string `json:"alternate_names,omitempty"`
}

// JournalRef carries the volume and page placement of a paper within
// its venue. For proceedings papers only Pages is meaningful.
type JournalRef struct {
	Name   string `json:"name,omitempty"`
	Volume string `json:"volume,omitempty"`
	Pages  string `json:"pages,omitempty"`
}

// Embedding is a paper's SPECTER document embedding.
type Embedding struct {
	Model  string    `json:"model,omitempty"`
	Vector []float64 `json:"vector"`
}

// TLDR is the machine-generated one-sentence summary of a paper.
type TLDR struct {
	Model string `json:"model,omitempty"`
	Text  string `json:"text"`
}

// Citation is one citation edge as persisted to the raw-references
// JSONL batches: CitingPaper cites CitedPaper.
type Citation struct {
	CitingPaper        PaperRef          `json:"citingPaper"`
	CitedPaper         PaperRef          `json:"citedPaper"`
	IsInfluential      bool              `json:"isInfluential"`
	ContextsWithIntent []CitationContext `json:"contextsWithIntent,omitempty"`
}

// PaperRef identifies one endpoint of a citation edge.
type PaperRef struct {
	PaperID string `json:"paperId"`
}

// CitationContext is a text snippet in which the citation occurs,
// tagged with the intents the API inferred for it.
type CitationContext struct {
	Context string   `json:"context"`
	Intents []string `json:"intents,omitempty"`
}
