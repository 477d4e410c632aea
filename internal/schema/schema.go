// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema defines the CSV table contract shared by the normalize
// and synthesize stages and the bulk-load Cypher script. Column names
// here are binding: the loader references them as row.<column>, so a
// change on either side must happen in both.
package schema

import "fmt"

// Table describes one node or relationship CSV table.
type Table struct {
	// Name is the graph label or relationship type (e.g. "Paper", "Wrote").
	Name string

	// Prefix is the batch filename prefix (e.g. "nodes-papers").
	Prefix string

	// Columns is the ordered CSV header.
	Columns []string
}

// Filename returns the name of the batch-th file of the table (1-based).
func (t Table) Filename(batch int) string {
	return fmt.Sprintf("%s-%d.csv", t.Prefix, batch)
}

// Glob returns the pattern matching every batch file of the table.
func (t Table) Glob() string {
	return t.Prefix + "-*.csv"
}

// HasColumn reports whether name is one of the table's columns.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Node tables. Natural keys are the first column of each.
var (
	Papers = Table{
		Name:   "Paper",
		Prefix: "nodes-papers",
		Columns: []string{
			"paperID", "url", "title", "abstract", "year", "isOpenAccess",
			"openAccessPDFUrl", "publicationTypes", "embedding", "tldr",
		},
	}

	Authors = Table{
		Name:    "Author",
		Prefix:  "nodes-authors",
		Columns: []string{"authorID", "url", "name", "homepage", "hIndex"},
	}

	Organizations = Table{
		Name:    "Organization",
		Prefix:  "nodes-organizations",
		Columns: []string{"name"},
	}

	Journals = Table{
		Name:    "Journal",
		Prefix:  "nodes-journals",
		Columns: []string{"journalID", "name", "url", "alternateNames"},
	}

	Conferences = Table{
		Name:    "Conference",
		Prefix:  "nodes-conferences",
		Columns: []string{"conferenceID", "name", "url", "alternateNames"},
	}

	Workshops = Table{
		Name:    "Workshop",
		Prefix:  "nodes-workshops",
		Columns: []string{"workshopID", "name", "url", "alternateNames"},
	}

	OtherVenues = Table{
		Name:    "OtherVenue",
		Prefix:  "nodes-othervenues",
		Columns: []string{"venueID", "name", "url", "alternateNames"},
	}

	Proceedings = Table{
		Name:    "Proceedings",
		Prefix:  "nodes-proceedings",
		Columns: []string{"proceedingsID", "year"},
	}

	JournalVolumes = Table{
		Name:    "JournalVolume",
		Prefix:  "nodes-journalvolumes",
		Columns: []string{"journalVolumeID", "year", "volume"},
	}

	FieldsOfStudy = Table{
		Name:    "FieldOfStudy",
		Prefix:  "nodes-fieldsofstudy",
		Columns: []string{"name"},
	}

	Cities = Table{
		Name:    "City",
		Prefix:  "nodes-cities",
		Columns: []string{"name"},
	}

	Keywords = Table{
		Name:    "Keyword",
		Prefix:  "nodes-keywords",
		Columns: []string{"name"},
	}
)

// Relationship tables.
var (
	Citations = Table{
		Name:    "Cites",
		Prefix:  "edges-citations",
		Columns: []string{"citedPaperID", "citingPaperID", "isInfluential", "contextsWithIntent"},
	}

	Wrote = Table{
		Name:    "Wrote",
		Prefix:  "edges-wrote",
		Columns: []string{"paperID", "authorID"},
	}

	MainAuthor = Table{
		Name:    "MainAuthor",
		Prefix:  "edges-mainauthor",
		Columns: []string{"paperID", "authorID"},
	}

	IsAffiliatedWith = Table{
		Name:    "IsAffiliatedWith",
		Prefix:  "edges-isaffiliatedwith",
		Columns: []string{"authorID", "organization"},
	}

	HasFieldOfStudy = Table{
		Name:    "HasFieldOfStudy",
		Prefix:  "edges-hasfieldofstudy",
		Columns: []string{"paperID", "fieldOfStudy"},
	}

	IsPublishedInJournal = Table{
		Name:    "IsPublishedInJournal",
		Prefix:  "edges-ispublishedinjournal",
		Columns: []string{"paperID", "journalVolumeID", "pages"},
	}

	IsPublishedInProceedings = Table{
		Name:    "IsPublishedInProceedings",
		Prefix:  "edges-ispublishedinproceedings",
		Columns: []string{"paperID", "proceedingsID", "pages"},
	}

	IsPublishedInOther = Table{
		Name:    "IsPublishedInOther",
		Prefix:  "edges-ispublishedinother",
		Columns: []string{"paperID", "venueID", "pages"},
	}

	IsEditionOfJournal = Table{
		Name:    "IsEditionOfJournal",
		Prefix:  "edges-iseditionofjournal",
		Columns: []string{"journalVolumeID", "journalID"},
	}

	IsEditionOfConference = Table{
		Name:    "IsEditionOfConference",
		Prefix:  "edges-iseditionofconference",
		Columns: []string{"proceedingsID", "conferenceID"},
	}

	IsEditionOfWorkshop = Table{
		Name:    "IsEditionOfWorkshop",
		Prefix:  "edges-iseditionofworkshop",
		Columns: []string{"proceedingsID", "workshopID"},
	}

	IsHeldIn = Table{
		Name:    "IsHeldIn",
		Prefix:  "edges-isheldin",
		Columns: []string{"proceedingsID", "city"},
	}

	Reviewed = Table{
		Name:   "Reviewed",
		Prefix: "edges-reviewed",
		Columns: []string{
			"paperID", "authorID", "accepted", "minorRevisions",
			"majorRevisions", "reviewContent",
		},
	}

	HasKeyword = Table{
		Name:    "HasKeyword",
		Prefix:  "edges-haskeyword",
		Columns: []string{"paperID", "keyword"},
	}
)

// All lists every table in the contract, nodes first.
var All = []Table{
	Papers, Authors, Organizations, Journals, Conferences, Workshops,
	OtherVenues, Proceedings, JournalVolumes, FieldsOfStudy, Cities, Keywords,
	Citations, Wrote, MainAuthor, IsAffiliatedWith, HasFieldOfStudy,
	IsPublishedInJournal, IsPublishedInProceedings, IsPublishedInOther,
	IsEditionOfJournal, IsEditionOfConference, IsEditionOfWorkshop,
	IsHeldIn, Reviewed, HasKeyword,
}

// ByPrefix returns the table with the given filename prefix.
func ByPrefix(prefix string) (Table, bool) {
	for _, t := range All {
		if t.Prefix == prefix {
			return t, true
		}
	}
	return Table{}, false
}
