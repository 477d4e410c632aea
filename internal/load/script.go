// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package load bulk-loads the prepared CSV tables into Neo4j. The
// Cypher statements live in a script file rather than in code, so the
// graph model can change without recompiling; each statement is tagged
// with the table it consumes and is run once per batch file of that
// table with the file passed as the $file parameter.
package load

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const tableMarker = "// table:"

// Statement is one script entry: a Cypher statement bound to the table
// prefix whose batch files it loads.
type Statement struct {
	Table  string
	Cypher string
}

// ParseScript reads a load script. Statements are introduced by a
// "// table: <prefix>" marker line and run until the next marker; other
// comment lines and blank lines outside statements are ignored.
// Statement order in the script is preserved, so nodes can be created
// before the edges that reference them.
func ParseScript(path string) ([]Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening load script: %w", err)
	}
	defer f.Close()

	var (
		stmts   []Statement
		current *Statement
		seen    = make(map[string]bool)
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Cypher = strings.TrimSpace(current.Cypher)
		if current.Cypher != "" {
			stmts = append(stmts, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, tableMarker) {
			flush()
			table := strings.TrimSpace(strings.TrimPrefix(trimmed, tableMarker))
			if table == "" {
				return nil, fmt.Errorf("load script: empty table marker")
			}
			if seen[table] {
				return nil, fmt.Errorf("load script: duplicate statement for table %s", table)
			}
			seen[table] = true
			current = &Statement{Table: table}
			continue
		}
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		if current != nil {
			current.Cypher += line + "\n"
		} else if trimmed != "" {
			return nil, fmt.Errorf("load script: statement before first table marker: %q", trimmed)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading load script: %w", err)
	}
	flush()

	if len(stmts) == 0 {
		return nil, fmt.Errorf("load script %s contains no statements", path)
	}
	return stmts, nil
}
