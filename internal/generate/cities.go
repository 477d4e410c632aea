// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sort"

	"github.com/pdiddy/scholargraph/internal/batch"
	"github.com/pdiddy/scholargraph/internal/httputil"
	"github.com/pdiddy/scholargraph/internal/schema"
	"github.com/pdiddy/scholargraph/pkg/types"
)

// CitiesAPIURL is the public countries/cities listing the city pool is
// drawn from. Declared as a var so tests can substitute an httptest
// server.
var CitiesAPIURL = "https://countriesnow.space/api/v0.1/countries"

// DefaultCountry bounds the city pool to a single country; the full
// listing is far larger than the graph needs.
const DefaultCountry = "Spain"

type countriesResponse struct {
	Error bool   `json:"error"`
	Msg   string `json:"msg"`
	Data  []struct {
		Country string   `json:"country"`
		Cities  []string `json:"cities"`
	} `json:"data"`
}

// Cities fetches the city pool and writes the nodes-cities table. City
// names are prefixed with their country ("Spain/Sevilla") and sorted,
// so the table is stable across runs against the same API data.
func Cities(ctx context.Context, client *http.Client, cfg types.GenerateConfig, w io.Writer) error {
	country := cfg.Country
	if country == "" {
		country = DefaultCountry
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, CitiesAPIURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	var resp countriesResponse
	if err := httputil.DoJSON(ctx, client, req, cfg.MaxRetries, &resp); err != nil {
		return fmt.Errorf("fetching city pool: %w", err)
	}
	if resp.Error {
		return fmt.Errorf("cities API error: %s", resp.Msg)
	}

	seen := make(map[string]bool)
	var names []string
	for _, c := range resp.Data {
		if c.Country != country {
			continue
		}
		for _, city := range c.Cities {
			name := c.Country + "/" + city
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("cities API returned no cities for %q", country)
	}
	sort.Strings(names)

	out, err := batch.NewCSVWriter(cfg.OutDir, schema.Cities, cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := out.Write([]string{name}); err != nil {
			out.Close()
			return err
		}
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(w, "generated %d city node(s)\n", len(names))
	return nil
}

// ProceedingsCities assigns one random city to every proceedings node,
// producing the edges-isheldin table. Requires the proceedings and
// cities tables.
func ProceedingsCities(cfg types.GenerateConfig, rng *rand.Rand, w io.Writer) error {
	proceedings, err := requireTable(cfg.OutDir, schema.Proceedings)
	if err != nil {
		return err
	}
	cityRows, err := requireTable(cfg.OutDir, schema.Cities)
	if err != nil {
		return err
	}

	cities := make([]string, 0, len(cityRows))
	seen := make(map[string]bool)
	for _, row := range cityRows {
		name := row["name"]
		if name != "" && !seen[name] {
			seen[name] = true
			cities = append(cities, name)
		}
	}
	if len(cities) == 0 {
		return fmt.Errorf("%s: %w", schema.Cities.Prefix, ErrMissingPrerequisite)
	}
	sort.Strings(cities)

	out, err := batch.NewCSVWriter(cfg.OutDir, schema.IsHeldIn, cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, row := range proceedings {
		city := cities[rng.Intn(len(cities))]
		if err := out.Write([]string{row["proceedingsID"], city}); err != nil {
			out.Close()
			return err
		}
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(w, "assigned cities to %d proceedings\n", len(proceedings))
	return nil
}
