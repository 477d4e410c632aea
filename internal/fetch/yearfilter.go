// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseYearFilter validates a publication-year filter and returns it in
// the form the API accepts. Valid shapes: "YYYY", "YYYY-YYYY" (inclusive,
// start not after end), and the open-ended "YYYY-" and "-YYYY". An empty
// string means no filter. Anything else is rejected before any network
// call is made.
func ParseYearFilter(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	parts := strings.Split(s, "-")
	switch len(parts) {
	case 1:
		if _, err := parseYear(parts[0]); err != nil {
			return "", err
		}
		return s, nil
	case 2:
		if parts[0] == "" && parts[1] == "" {
			return "", fmt.Errorf("invalid year filter %q", s)
		}
		var from, to int
		var err error
		if parts[0] != "" {
			if from, err = parseYear(parts[0]); err != nil {
				return "", err
			}
		}
		if parts[1] != "" {
			if to, err = parseYear(parts[1]); err != nil {
				return "", err
			}
		}
		if parts[0] != "" && parts[1] != "" && from > to {
			return "", fmt.Errorf("invalid year range %q: start is after end", s)
		}
		return s, nil
	default:
		return "", fmt.Errorf("invalid year filter %q", s)
	}
}

func parseYear(s string) (int, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("invalid year %q: want 4 digits", s)
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q: not a number", s)
	}
	return y, nil
}
