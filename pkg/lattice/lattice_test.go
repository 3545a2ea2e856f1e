package lattice

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCoreMapCharacters(t *testing.T) {
	src := `# two-region core
 WUW
UMMU

 WUW
`
	m, err := ParseCoreMap(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseCoreMap: %v", err)
	}
	want := CoreMap{
		{"W", "U", "W"},
		{"U", "M", "M", "U"},
		{"W", "U", "W"},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("core map mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCoreMapFields(t *testing.T) {
	m, err := ParseCoreMap(strings.NewReader("U1 U2\nM1 W M1\n"))
	if err != nil {
		t.Fatalf("ParseCoreMap: %v", err)
	}
	want := CoreMap{{"U1", "U2"}, {"M1", "W", "M1"}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("core map mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCoreMapEmpty(t *testing.T) {
	_, err := ParseCoreMap(strings.NewReader("# nothing\n\n"))
	if !errors.Is(err, ErrEmptyMap) {
		t.Errorf("expected ErrEmptyMap, got %v", err)
	}
}

func TestLoadCoreMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "core.map")
	if err := os.WriteFile(path, []byte("UUU\nUMU\nUUU\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadCoreMap(path)
	if err != nil {
		t.Fatalf("LoadCoreMap: %v", err)
	}
	if len(m) != 3 || m.MaxRowLen() != 3 {
		t.Errorf("unexpected shape %v", m)
	}
	if diff := cmp.Diff([]string{"U", "M"}, m.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadCoreMap(filepath.Join(t.TempDir(), "missing.map")); err == nil {
		t.Error("expected error for missing core map")
	}
}

func TestNormalizeExtents(t *testing.T) {
	m := CoreMap{
		{"U", "U", "U"},
		{"U", "M", "M", "U", "U"},
		{"U", "U", "U"},
	}
	f, err := Normalize(m, "W", "99")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if f.XExtent != 3 {
		t.Errorf("x_extent = %d, want 3", f.XExtent)
	}
	if f.YExtent != 1 {
		t.Errorf("y_extent = %d, want 1", f.YExtent)
	}
	if f.Ranges() != "-3:3 -1:1 0:0" {
		t.Errorf("ranges = %q", f.Ranges())
	}
	if len(f.Tokens) != f.Width()*f.Height() {
		t.Errorf("token count = %d, want %d", len(f.Tokens), f.Width()*f.Height())
	}
}

func TestNormalizeSymmetricPadding(t *testing.T) {
	m := CoreMap{
		{"U"},
		{"U", "W", "U"},
		{"M"},
	}
	f, err := Normalize(m, "W", "99")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	// longest=3 -> x_extent=2, width=5.
	want := []string{
		"99", "99", "1000", "99", "99",
		"99", "2000", "99", "2002", "99",
		"99", "99", "3000", "99", "99",
	}
	if diff := cmp.Diff(want, f.Tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if f.Text() != strings.Join(want, " ") {
		t.Errorf("text = %q", f.Text())
	}
	if strings.Contains(f.Text(), "imp:") {
		t.Error("translator must not emit importance directives")
	}
}

func TestNormalizeOddPaddingGoesRight(t *testing.T) {
	m := CoreMap{{"U", "U"}, {"U", "U", "U", "U"}, {"U", "U"}}
	f, err := Normalize(m, "W", "99")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	// longest=4 -> width=5; short rows pad 3 -> left 1, right 2.
	row0 := f.Tokens[:5]
	want := []string{"99", "1000", "1001", "99", "99"}
	if diff := cmp.Diff(want, row0); diff != "" {
		t.Errorf("row 0 mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeUniqueUniverses(t *testing.T) {
	m := CoreMap{
		{"W", "U", "U", "W"},
		{"U", "M", "M", "M", "U"},
		{"U", "M", "C", "M", "U", "U"},
		{"U", "M", "M", "M", "U"},
		{"W", "U", "U", "W"},
	}
	f, err := Normalize(m, "W", "99")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	nonFiller := 0
	for _, row := range m {
		for _, l := range row {
			if l != "W" {
				nonFiller++
			}
		}
	}
	if len(f.Assemblies) != nonFiller {
		t.Fatalf("assemblies = %d, want %d", len(f.Assemblies), nonFiller)
	}

	seen := make(map[int]bool)
	for _, a := range f.Assemblies {
		if seen[a.Universe] {
			t.Errorf("universe %d assigned twice", a.Universe)
		}
		seen[a.Universe] = true
		if a.Universe != UniverseID(a.Row, a.Col) {
			t.Errorf("universe %d does not match position (%d,%d)", a.Universe, a.Row, a.Col)
		}
		if a.I < -f.XExtent || a.I > f.XExtent || a.J < -f.YExtent || a.J > f.YExtent {
			t.Errorf("assembly %+v outside index range", a)
		}
		idx := (a.J+f.YExtent)*f.Width() + (a.I + f.XExtent)
		if f.Tokens[idx] != strconv.Itoa(a.Universe) {
			t.Errorf("token at (%d,%d) = %s, want %d", a.I, a.J, f.Tokens[idx], a.Universe)
		}
	}
	if len(f.Tokens) != f.Width()*f.Height() {
		t.Errorf("token count = %d, want %d", len(f.Tokens), f.Width()*f.Height())
	}
}

func TestNormalizeErrors(t *testing.T) {
	if _, err := Normalize(nil, "W", "99"); !errors.Is(err, ErrEmptyMap) {
		t.Errorf("expected ErrEmptyMap, got %v", err)
	}
	if _, err := Normalize(CoreMap{{"U"}, {"U"}}, "W", "99"); !errors.Is(err, ErrEvenRowCount) {
		t.Errorf("expected ErrEvenRowCount, got %v", err)
	}
	if _, err := Normalize(CoreMap{{"U"}}, "W", ""); !errors.Is(err, ErrEmptyFiller) {
		t.Errorf("expected ErrEmptyFiller, got %v", err)
	}
	if _, err := Normalize(CoreMap{{"U"}, {}, {"U"}}, "W", "99"); err == nil {
		t.Error("expected error for empty row")
	} else {
		var rowErr *EmptyRowError
		if !errors.As(err, &rowErr) || rowErr.Row != 1 {
			t.Errorf("expected EmptyRowError for row 1, got %v", err)
		}
	}
	if _, err := Normalize(CoreMap{{"U"}}, "W", "1000"); !errors.Is(err, ErrFillerCollision) {
		t.Errorf("expected ErrFillerCollision, got %v", err)
	}
	long := make([]string, 1000)
	for i := range long {
		long[i] = "U"
	}
	if _, err := Normalize(CoreMap{long}, "W", "99"); !errors.Is(err, ErrRowTooLong) {
		t.Errorf("expected ErrRowTooLong, got %v", err)
	}
}
