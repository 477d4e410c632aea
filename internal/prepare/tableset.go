// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prepare

import (
	"github.com/pdiddy/scholargraph/internal/batch"
	"github.com/pdiddy/scholargraph/internal/schema"
)

// tableSet lazily opens one batched CSV writer per table. Tables never
// written to produce no files, so a run without e.g. workshop papers
// leaves no empty nodes-workshops table behind.
type tableSet struct {
	dir     string
	size    int
	writers map[string]*batch.CSVWriter
}

func newTableSet(dir string, size int) *tableSet {
	return &tableSet{dir: dir, size: size, writers: make(map[string]*batch.CSVWriter)}
}

func (s *tableSet) write(t schema.Table, row ...string) error {
	w, ok := s.writers[t.Prefix]
	if !ok {
		var err error
		if w, err = batch.NewCSVWriter(s.dir, t, s.size); err != nil {
			return err
		}
		s.writers[t.Prefix] = w
	}
	return w.Write(row)
}

// Close closes every opened writer, returning the first error.
func (s *tableSet) Close() error {
	var firstErr error
	for _, w := range s.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
