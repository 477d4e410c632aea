// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTrackerContract(t *testing.T, tracker Tracker) {
	t.Helper()

	done, err := tracker.IsComplete("fetch")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, tracker.MarkComplete("fetch"))
	done, err = tracker.IsComplete("fetch")
	require.NoError(t, err)
	assert.True(t, done)

	// Other stages are unaffected.
	done, err = tracker.IsComplete("prepare")
	require.NoError(t, err)
	assert.False(t, done)

	// Marking twice is fine.
	require.NoError(t, tracker.MarkComplete("fetch"))

	require.NoError(t, tracker.Clear("fetch"))
	done, err = tracker.IsComplete("fetch")
	require.NoError(t, err)
	assert.False(t, done)

	// Clearing an unflagged stage is fine.
	require.NoError(t, tracker.Clear("never-ran"))
}

func TestFileTracker(t *testing.T) {
	tracker, err := NewFileTracker(t.TempDir())
	require.NoError(t, err)
	testTrackerContract(t, tracker)
}

func TestSQLiteTracker(t *testing.T) {
	tracker, err := NewSQLiteTracker(filepath.Join(t.TempDir(), "stages.db"))
	require.NoError(t, err)
	defer tracker.Close()
	testTrackerContract(t, tracker)
}

func TestSQLiteTrackerPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stages.db")

	tracker, err := NewSQLiteTracker(path)
	require.NoError(t, err)
	require.NoError(t, tracker.MarkComplete("fetch"))
	require.NoError(t, tracker.Close())

	reopened, err := NewSQLiteTracker(path)
	require.NoError(t, err)
	defer reopened.Close()
	done, err := reopened.IsComplete("fetch")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestRunPipelineSkipsCompletedStages(t *testing.T) {
	tracker, err := NewFileTracker(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, tracker.MarkComplete("fetch"))

	var ran []string
	stages := []Stage{
		{Name: "fetch", Run: func(context.Context) error { ran = append(ran, "fetch"); return nil }},
		{Name: "prepare", Run: func(context.Context) error { ran = append(ran, "prepare"); return nil }},
	}
	require.NoError(t, RunPipeline(context.Background(), tracker, stages, nil))
	assert.Equal(t, []string{"prepare"}, ran, "flagged stage must do zero work")

	done, err := tracker.IsComplete("prepare")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestRunPipelineStopsAtFirstFailure(t *testing.T) {
	tracker, err := NewFileTracker(t.TempDir())
	require.NoError(t, err)

	boom := errors.New("boom")
	var ranLoad bool
	stages := []Stage{
		{Name: "prepare", Run: func(context.Context) error { return boom }},
		{Name: "load", Run: func(context.Context) error { ranLoad = true; return nil }},
	}
	err = RunPipeline(context.Background(), tracker, stages, nil)
	require.ErrorIs(t, err, boom)
	assert.False(t, ranLoad)

	// The failed stage stays unflagged and runs again next time.
	done, err := tracker.IsComplete("prepare")
	require.NoError(t, err)
	assert.False(t, done)
}
