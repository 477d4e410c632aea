// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stage tracks pipeline stage completion so re-runs skip work
// already done. A stage is complete only after its flag is recorded; a
// crash before that leaves the stage incomplete and it runs again.
package stage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Tracker records which stages have completed.
type Tracker interface {
	// IsComplete reports whether the named stage has a completion flag.
	IsComplete(name string) (bool, error)

	// MarkComplete records the named stage as done.
	MarkComplete(name string) error

	// Clear removes the named stage's flag so it runs again.
	Clear(name string) error
}

// FileTracker keeps one zero-byte flag file per completed stage.
type FileTracker struct {
	dir string
}

// NewFileTracker creates the flag directory if needed.
func NewFileTracker(dir string) (*FileTracker, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating flag directory: %w", err)
	}
	return &FileTracker{dir: dir}, nil
}

func (t *FileTracker) flagPath(name string) string {
	// Stage names become filenames; keep them flat.
	return filepath.Join(t.dir, strings.ReplaceAll(name, string(os.PathSeparator), "_")+".done")
}

func (t *FileTracker) IsComplete(name string) (bool, error) {
	_, err := os.Stat(t.flagPath(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (t *FileTracker) MarkComplete(name string) error {
	f, err := os.Create(t.flagPath(name))
	if err != nil {
		return fmt.Errorf("writing flag for %s: %w", name, err)
	}
	return f.Close()
}

func (t *FileTracker) Clear(name string) error {
	err := os.Remove(t.flagPath(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

var _ Tracker = (*FileTracker)(nil)

// Stage is one unit of pipeline work guarded by a completion flag.
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunPipeline executes stages in order, skipping any stage whose flag is
// already set and flagging each stage after it succeeds. The first
// failure stops the pipeline with that stage's flag unset.
func RunPipeline(ctx context.Context, tracker Tracker, stages []Stage, logf func(format string, args ...any)) error {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	for _, s := range stages {
		done, err := tracker.IsComplete(s.Name)
		if err != nil {
			return fmt.Errorf("checking stage %s: %w", s.Name, err)
		}
		if done {
			logf("stage %s already complete, skipping", s.Name)
			continue
		}
		logf("running stage %s", s.Name)
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("stage %s: %w", s.Name, err)
		}
		if err := tracker.MarkComplete(s.Name); err != nil {
			return fmt.Errorf("flagging stage %s: %w", s.Name, err)
		}
	}
	return nil
}
