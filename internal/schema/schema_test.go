// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesAreWellFormed(t *testing.T) {
	prefixes := make(map[string]bool)
	names := make(map[string]bool)
	for _, table := range All {
		assert.False(t, prefixes[table.Prefix], "duplicate prefix %s", table.Prefix)
		prefixes[table.Prefix] = true
		assert.False(t, names[table.Name], "duplicate name %s", table.Name)
		names[table.Name] = true

		assert.NotEmpty(t, table.Columns, table.Prefix)
		ok := strings.HasPrefix(table.Prefix, "nodes-") || strings.HasPrefix(table.Prefix, "edges-")
		assert.True(t, ok, "prefix %s must start with nodes- or edges-", table.Prefix)

		cols := make(map[string]bool)
		for _, c := range table.Columns {
			assert.False(t, cols[c], "%s: duplicate column %s", table.Prefix, c)
			cols[c] = true
		}
	}
}

func TestFilenameAndGlob(t *testing.T) {
	assert.Equal(t, "nodes-papers-3.csv", Papers.Filename(3))
	assert.Equal(t, "nodes-papers-*.csv", Papers.Glob())
}

func TestByPrefix(t *testing.T) {
	table, ok := ByPrefix("edges-citations")
	require.True(t, ok)
	assert.Equal(t, "Cites", table.Name)

	_, ok = ByPrefix("nodes-nope")
	assert.False(t, ok)
}

func TestHasColumn(t *testing.T) {
	assert.True(t, Papers.HasColumn("paperID"))
	assert.False(t, Papers.HasColumn("paperId"))
}
