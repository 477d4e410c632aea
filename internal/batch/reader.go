// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/scholargraph/internal/schema"
)

// TableFiles lists a table's batch files under dir in batch order.
func TableFiles(dir string, table schema.Table) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, table.Glob()))
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", table.Prefix, err)
	}
	SortByBatch(files)
	return files, nil
}

// SortByBatch orders batch file paths by their numeric batch suffix.
// Lexical order would put batch 10 before batch 2.
func SortByBatch(files []string) {
	sort.Slice(files, func(i, j int) bool {
		return batchIndex(files[i]) < batchIndex(files[j])
	})
}

func batchIndex(path string) int {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	i := strings.LastIndex(base, "-")
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(base[i+1:])
	if err != nil {
		return 0
	}
	return n
}

// ReadTable reads every batch file of a table under dir and returns the
// rows in file order as column-name → value maps.
func ReadTable(dir string, table schema.Table) ([]map[string]string, error) {
	files, err := TableFiles(dir, table)
	if err != nil {
		return nil, err
	}

	var rows []map[string]string
	for _, file := range files {
		fileRows, err := readCSV(file)
		if err != nil {
			return nil, err
		}
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
}
