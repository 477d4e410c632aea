// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholargraph/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the download stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Query is the free-text search query. Required.
	Query string `json:"query" yaml:"query"`

	// MinCitations filters out papers below this citation count (0 = no filter).
	MinCitations int `json:"min_citations" yaml:"min_citations"`

	// Year filters by publication year: "YYYY", "YYYY-YYYY", "YYYY-", or "-YYYY".
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	// FieldsOfStudy filters by field of study (e.g. "Computer Science").
	FieldsOfStudy []string `json:"fields_of_study,omitempty" yaml:"fields_of_study,omitempty"`

	// Limit caps the total number of papers fetched (default 100).
	Limit int `json:"limit" yaml:"limit"`

	// BatchSize is the maximum number of records per output file
	// (default 1000; 0 writes a single unbounded batch).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// MaxRetries bounds retries of a failed page request (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RateLimit is the request pacing in requests per second (default 1).
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// DataDir is the directory raw JSONL batches are written to.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DryRun performs all fetches but writes nothing to disk.
	DryRun bool `json:"dry_run" yaml:"dry_run"`
}

// PrepareConfig holds settings for the normalize stage.
type PrepareConfig struct {
	// InputFiles are the raw JSONL batches to normalize. When empty the
	// stage globs DataDir for the batches matching Type.
	InputFiles []string `json:"input_files,omitempty" yaml:"input_files,omitempty"`

	// Type selects the record kind: "papers" or "references".
	Type string `json:"type" yaml:"type"`

	// DataDir is the directory holding raw JSONL batches.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// OutDir is the directory CSV tables are written to.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// BatchSize is the maximum number of rows per CSV batch file
	// (default 10000; 0 writes a single unbounded batch).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// GenerateConfig holds settings for the synthesize stage.
type GenerateConfig struct {
	HTTPConfig `yaml:",inline"`

	// Kinds are the synthetic table kinds to generate: "cities",
	// "reviews", "proceedings-cities", "keywords".
	Kinds []string `json:"kinds" yaml:"kinds"`

	// OutDir is the directory holding the prepared CSV tables; synthetic
	// tables are written alongside them.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// BatchSize is the maximum number of rows per CSV batch file
	// (0 writes a single unbounded batch).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Seed seeds the random source so repeated runs over the same input
	// produce identical tables (default 42).
	Seed int64 `json:"seed" yaml:"seed"`

	// MaxRetries bounds retries against the cities API (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Country restricts the city pool to one country (default "Spain").
	Country string `json:"country" yaml:"country"`
}

// LoadConfig holds settings for the bulk-load stage.
type LoadConfig struct {
	// URI is the Neo4j connection URI (e.g. "neo4j://localhost:7687").
	URI string `json:"uri" yaml:"uri"`

	// User and Password authenticate against Neo4j.
	User     string `json:"user" yaml:"user"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// Database is the target database name ("" = server default).
	Database string `json:"database,omitempty" yaml:"database,omitempty"`

	// ScriptPath locates the bulk-load Cypher script.
	ScriptPath string `json:"script_path" yaml:"script_path"`

	// OutDir is the directory holding the CSV tables to load. It must be
	// visible to the Neo4j server's import mechanism.
	OutDir string `json:"out_dir" yaml:"out_dir"`
}

// PipelineConfig groups all stage configurations for a full gated run.
type PipelineConfig struct {
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`
	Prepare  PrepareConfig  `json:"prepare" yaml:"prepare"`
	Generate GenerateConfig `json:"generate" yaml:"generate"`
	Load     LoadConfig     `json:"load" yaml:"load"`

	// LogsDir is where the file-backed stage tracker keeps its markers
	// (and the SQLite tracker its database).
	LogsDir string `json:"logs_dir" yaml:"logs_dir"`

	// Tracker selects the stage tracker backend: "file" or "sqlite".
	Tracker string `json:"tracker" yaml:"tracker"`

	// SkipLoad runs the pipeline without the final bulk-load stage.
	SkipLoad bool `json:"skip_load" yaml:"skip_load"`
}
