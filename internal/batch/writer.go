// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch writes size-bounded batches of JSONL and CSV records and
// reads them back. Batch files are numbered from 1 and a new file starts
// whenever the current one reaches the configured size; a size of 0
// disables splitting. CSV batches repeat the header row in every file so
// each batch is independently loadable.
package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/scholargraph/internal/schema"
)

// JSONLWriter writes records as newline-delimited JSON across numbered
// batch files named <prefix>-<n>.jsonl.
type JSONLWriter struct {
	dir    string
	prefix string
	size   int

	batch int
	rows  int
	file  *os.File
	files []string
}

// NewJSONLWriter creates a writer rooted at dir and opens the first batch.
func NewJSONLWriter(dir, prefix string, size int) (*JSONLWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	w := &JSONLWriter{dir: dir, prefix: prefix, size: size}
	if err := w.rotate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Write marshals v and appends it as one line, rotating to the next
// batch file first if the current one is full.
func (w *JSONLWriter) Write(v any) error {
	if w.size > 0 && w.rows >= w.size {
		if err := w.rotate(); err != nil {
			return err
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	if _, err := w.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	w.rows++
	return nil
}

// Files lists the batch files written so far, in order.
func (w *JSONLWriter) Files() []string {
	return w.files
}

// Close flushes and closes the current batch file.
func (w *JSONLWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *JSONLWriter) rotate() error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return fmt.Errorf("closing batch %d: %w", w.batch, err)
		}
	}
	w.batch++
	w.rows = 0
	name := fmt.Sprintf("%s-%d.jsonl", w.prefix, w.batch)
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return fmt.Errorf("creating batch file: %w", err)
	}
	w.file = f
	w.files = append(w.files, name)
	return nil
}

// CSVWriter writes rows of one schema table across numbered batch files.
// The header does not count toward the batch size.
type CSVWriter struct {
	dir   string
	table schema.Table
	size  int

	batch int
	rows  int
	file  *os.File
	csv   *csv.Writer
}

// NewCSVWriter creates a writer for table rooted at dir and opens the
// first batch, writing its header row.
func NewCSVWriter(dir string, table schema.Table, size int) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	w := &CSVWriter{dir: dir, table: table, size: size}
	if err := w.rotate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Write appends one row. The row length must match the table's columns.
func (w *CSVWriter) Write(row []string) error {
	if len(row) != len(w.table.Columns) {
		return fmt.Errorf("%s: row has %d fields, want %d", w.table.Prefix, len(row), len(w.table.Columns))
	}
	if w.size > 0 && w.rows >= w.size {
		if err := w.rotate(); err != nil {
			return err
		}
	}
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("writing %s row: %w", w.table.Prefix, err)
	}
	w.rows++
	return nil
}

// Close flushes and closes the current batch file.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		w.file = nil
		return fmt.Errorf("flushing %s: %w", w.table.Prefix, err)
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *CSVWriter) rotate() error {
	if w.file != nil {
		w.csv.Flush()
		if err := w.csv.Error(); err != nil {
			return fmt.Errorf("flushing batch %d: %w", w.batch, err)
		}
		if err := w.file.Close(); err != nil {
			return fmt.Errorf("closing batch %d: %w", w.batch, err)
		}
	}
	w.batch++
	w.rows = 0
	f, err := os.Create(filepath.Join(w.dir, w.table.Filename(w.batch)))
	if err != nil {
		return fmt.Errorf("creating batch file: %w", err)
	}
	w.file = f
	w.csv = csv.NewWriter(f)
	if err := w.csv.Write(w.table.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}
