// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package load

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pdiddy/scholargraph/internal/schema"
	"github.com/pdiddy/scholargraph/pkg/types"
)

// Runner abstracts the write path of a Neo4j session so the loader can
// be exercised without a live database.
type Runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
}

// Loader feeds the prepared batch files through the load script.
type Loader struct {
	driver neo4j.DriverWithContext
	cfg    types.LoadConfig
}

// NewLoader connects to Neo4j and verifies the connection.
func NewLoader(ctx context.Context, cfg types.LoadConfig) (*Loader, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connecting to %s: %w", cfg.URI, err)
	}
	return &Loader{driver: driver, cfg: cfg}, nil
}

// Close releases the driver.
func (l *Loader) Close(ctx context.Context) error {
	return l.driver.Close(ctx)
}

// Run parses the load script and executes it against the database.
func (l *Loader) Run(ctx context.Context, w io.Writer) error {
	stmts, err := ParseScript(l.cfg.ScriptPath)
	if err != nil {
		return err
	}

	session := l.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: l.cfg.Database,
	})
	defer session.Close(ctx)

	return Execute(ctx, sessionRunner{session}, stmts, l.cfg.OutDir, w)
}

type sessionRunner struct {
	session neo4j.SessionWithContext
}

func (r sessionRunner) Run(ctx context.Context, cypher string, params map[string]any) error {
	result, err := r.session.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	// Consume so server-side errors surface here, not on the next query.
	_, err = result.Consume(ctx)
	return err
}

// Execute runs every script statement once per batch file of its table,
// in script order. Neo4j resolves $file against its import directory,
// so only the base name is passed. A table with no batch files is
// skipped; optional tables such as workshops often have none.
func Execute(ctx context.Context, runner Runner, stmts []Statement, dir string, w io.Writer) error {
	for _, stmt := range stmts {
		table, ok := schema.ByPrefix(stmt.Table)
		if !ok {
			return fmt.Errorf("load script references unknown table %s", stmt.Table)
		}
		pattern := filepath.Join(dir, table.Glob())
		files, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("globbing %s: %w", stmt.Table, err)
		}
		if len(files) == 0 {
			fmt.Fprintf(w, "no batch files for %s, skipping\n", stmt.Table)
			continue
		}
		for _, file := range files {
			params := map[string]any{"file": "file:///" + filepath.Base(file)}
			if err := runner.Run(ctx, stmt.Cypher, params); err != nil {
				return fmt.Errorf("loading %s from %s: %w", stmt.Table, filepath.Base(file), err)
			}
		}
		fmt.Fprintf(w, "loaded %s (%d batch file(s))\n", stmt.Table, len(files))
	}
	return nil
}
