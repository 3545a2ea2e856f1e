package lattice

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// CoreMap is a possibly ragged grid of assembly labels, top row first.
type CoreMap [][]string

// MaxRowLen returns the length of the longest row.
func (m CoreMap) MaxRowLen() int {
	n := 0
	for _, row := range m {
		n = max(n, len(row))
	}
	return n
}

// Labels returns the distinct labels in order of first appearance.
func (m CoreMap) Labels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range m {
		for _, l := range row {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	return out
}

// LoadCoreMap reads a core map file.
func LoadCoreMap(path string) (CoreMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening core map: %w", err)
	}
	defer f.Close()

	m, err := ParseCoreMap(f)
	if err != nil {
		return nil, fmt.Errorf("reading core map %s: %w", path, err)
	}
	return m, nil
}

// ParseCoreMap reads one row per line. A line containing whitespace is split
// into whitespace-separated labels; otherwise every character is a label.
// Blank lines and lines starting with '#' are skipped.
func ParseCoreMap(r io.Reader) (CoreMap, error) {
	var m CoreMap
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var row []string
		if strings.ContainsAny(line, " \t") {
			row = strings.Fields(line)
		} else {
			row = strings.Split(line, "")
		}
		m = append(m, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, ErrEmptyMap
	}
	return m, nil
}
