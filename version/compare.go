// Package version provides application version tracking, update discovery,
// and upgrade notices.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Compare orders two semantic version strings, with or without a "v" prefix.
// Returns 1 if a > b, -1 if a < b, and 0 when equal.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, fmt.Errorf("parse version %q: %w", a, err)
	}

	bv, err := parse(b)
	if err != nil {
		return 0, fmt.Errorf("parse version %q: %w", b, err)
	}

	for i := range av {
		switch {
		case av[i] > bv[i]:
			return 1, nil
		case av[i] < bv[i]:
			return -1, nil
		}
	}

	return 0, nil
}

// parse splits a version string into its major, minor and patch components.
func parse(s string) (v [3]int, err error) {
	parts := strings.SplitN(strings.TrimPrefix(s, "v"), ".", 3)
	if len(parts) != 3 {
		return v, fmt.Errorf("expected major.minor.patch")
	}

	for i, part := range parts {
		if v[i], err = strconv.Atoi(part); err != nil {
			return v, err
		}
	}

	return v, nil
}
