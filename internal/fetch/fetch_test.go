// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholargraph/pkg/types"
)

// apiStub emulates the three Graph API endpoints the fetch stage uses.
func apiStub(t *testing.T, totalPapers int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/paper/search/bulk":
			refs := make([]map[string]string, totalPapers)
			for i := range refs {
				refs[i] = map[string]string{"paperId": "p" + strconv.Itoa(i)}
			}
			json.NewEncoder(w).Encode(map[string]any{"total": totalPapers, "data": refs})

		case r.URL.Path == "/paper/batch":
			var body struct {
				IDs []string `json:"ids"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			papers := make([]map[string]any, len(body.IDs))
			for i, id := range body.IDs {
				papers[i] = map[string]any{"paperId": id, "title": "Paper " + id}
			}
			json.NewEncoder(w).Encode(papers)

		case strings.HasSuffix(r.URL.Path, "/citations"):
			fmt.Fprint(w, `{"offset":0,"data":[{"citingPaper":{"paperId":"citer"}}]}`)

		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	}))
}

func TestRunWritesBatchesAndManifest(t *testing.T) {
	srv := apiStub(t, 50)
	defer srv.Close()

	dir := t.TempDir()
	cfg := types.FetchConfig{
		Query:     "graph databases",
		Limit:     50,
		BatchSize: 20,
		RateLimit: 1000,
		DataDir:   dir,
	}
	c := NewClient(cfg)
	c.SetBaseURL(srv.URL)

	result, err := Run(context.Background(), c, cfg, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 50, result.Papers)
	assert.Equal(t, 50, result.References, "one citation per paper")

	// 50 records at 20 per batch: 20, 20, 10.
	require.Len(t, result.PaperFiles, 3)
	require.Len(t, result.ReferenceFiles, 3)
	for _, name := range result.PaperFiles {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, yaml.Unmarshal(data, &m))
	assert.Equal(t, "graph databases", m.Query)
	assert.Equal(t, 50, m.Papers)
	assert.Equal(t, result.PaperFiles, m.PaperFiles)
	assert.False(t, m.FetchedAt.IsZero())
}

func TestRunZeroResultsWritesManifest(t *testing.T) {
	srv := apiStub(t, 0)
	defer srv.Close()

	dir := t.TempDir()
	cfg := types.FetchConfig{
		Query:     "no such topic",
		Limit:     10,
		RateLimit: 1000,
		DataDir:   dir,
	}
	c := NewClient(cfg)
	c.SetBaseURL(srv.URL)

	result, err := Run(context.Background(), c, cfg, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Papers)

	// No batch files, but the manifest records the run.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "manifest.yaml", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, yaml.Unmarshal(data, &m))
	assert.Equal(t, "no such topic", m.Query)
	assert.Equal(t, 0, m.Papers)
	assert.False(t, m.FetchedAt.IsZero())
}

func TestRunDryRunWritesNothing(t *testing.T) {
	srv := apiStub(t, 5)
	defer srv.Close()

	dir := t.TempDir()
	cfg := types.FetchConfig{
		Query:     "graphs",
		Limit:     5,
		BatchSize: 2,
		RateLimit: 1000,
		DataDir:   dir,
		DryRun:    true,
	}
	c := NewClient(cfg)
	c.SetBaseURL(srv.URL)

	result, err := Run(context.Background(), c, cfg, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Papers)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.FetchConfig
		wantErr string
	}{
		{
			name: "valid",
			cfg:  types.FetchConfig{Query: "q", Limit: 10},
		},
		{
			name:    "missing query",
			cfg:     types.FetchConfig{Limit: 10},
			wantErr: "query is required",
		},
		{
			name:    "zero limit",
			cfg:     types.FetchConfig{Query: "q"},
			wantErr: "limit",
		},
		{
			name:    "negative batch size",
			cfg:     types.FetchConfig{Query: "q", Limit: 10, BatchSize: -1},
			wantErr: "batch size",
		},
		{
			name:    "negative retries",
			cfg:     types.FetchConfig{Query: "q", Limit: 10, MaxRetries: -1},
			wantErr: "max retries",
		},
		{
			name:    "bad year filter",
			cfg:     types.FetchConfig{Query: "q", Limit: 10, Year: "20xx"},
			wantErr: "invalid year",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunSurfacesExhaustion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := types.FetchConfig{
		Query:     "q",
		Limit:     5,
		RateLimit: 1000,
		DataDir:   t.TempDir(),
	}
	c := NewClient(cfg)
	c.SetBaseURL(srv.URL)

	_, err := Run(context.Background(), c, cfg, io.Discard)
	require.ErrorIs(t, err, ErrExhausted)
}
