package suite

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultPattern is the conventional project-relative location of band
// datasets.
const DefaultPattern = "test_data/band_*.csv"

// Discover locates band dataset files under root.
//
// The pattern is tried as a glob relative to root first. When nothing
// matches there, Discover falls back to a recursive walk matching the
// pattern's base name anywhere under root (skipping dot-directories).
// Results are sorted, so discovery order is deterministic.
//
// Zero results is not an error here; the runner classifies it as a
// discovery failure.
func Discover(root, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(root, pattern))
	if err != nil {
		return nil, fmt.Errorf("discover: bad pattern %q: %w", pattern, err)
	}
	if len(matches) > 0 {
		sort.Strings(matches)
		return matches, nil
	}

	base := filepath.Base(pattern)
	var found []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ok, matchErr := filepath.Match(base, d.Name())
		if matchErr != nil {
			return fmt.Errorf("discover: bad pattern %q: %w", pattern, matchErr)
		}
		if ok {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover: walk %s: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}
