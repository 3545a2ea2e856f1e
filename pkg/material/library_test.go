package material

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/scwdeck/pkg/nuc"
)

const yamlLib = `
materials:
  - name: water
    number: 2
    density: 0.6
    thermal: lwtr.10t
    atom_fractions: true
    composition:
      "1001": 2
      "8016": 1
  - name: steel
    number: 3
    density: 7.9
    composition:
      "26000": 0.7
      "24000": 0.2
      "28000": 0.1
`

const tomlLib = `
[[materials]]
name = "zirc"
number = 4
density = 6.55
[materials.composition]
"40000" = 0.98
"50000" = 0.015
"8018" = 0.005
`

const jsonLib = `{"materials":[{"name":"fuel","number":5,"density":10.4,"composition":{"92235.70c":0.05,"92238":0.83,"8016":0.12}}]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFormats(t *testing.T) {
	cases := []struct {
		file, content, name string
	}{
		{"lib.yaml", yamlLib, "steel"},
		{"lib.toml", tomlLib, "zirc"},
		{"lib.json", jsonLib, "fuel"},
	}
	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			lib, err := Load(writeFile(t, tc.file, tc.content))
			require.NoError(t, err)
			m, err := lib.Lookup(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.name, m.Name)
			assert.NotEmpty(t, m.Fractions())
		})
	}
}

func TestLoadUnknownExtension(t *testing.T) {
	_, err := Load(writeFile(t, "lib.ini", "x"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLookupUnknown(t *testing.T) {
	lib, err := Parse([]byte(yamlLib), "yaml")
	require.NoError(t, err)
	_, err = lib.Lookup("unobtainium")
	assert.ErrorIs(t, err, ErrUnknownMaterial)
	assert.Equal(t, []string{"water", "steel"}, lib.Names())
	assert.Equal(t, 2, lib.Len())
}

func TestFractionsNormalized(t *testing.T) {
	lib, err := Parse([]byte(yamlLib), "yaml")
	require.NoError(t, err)
	water, _ := lib.Lookup("water")
	fr := water.Fractions()
	require.Len(t, fr, 2)
	assert.Equal(t, nuc.Nuc(1001), fr[0].Nuc)
	assert.InDelta(t, 2.0/3, fr[0].Fraction, 1e-12)
	assert.InDelta(t, 1.0/3, fr[1].Fraction, 1e-12)
	assert.True(t, water.Atom)
}

func TestFractionsOmitRenormalizes(t *testing.T) {
	lib, err := Parse([]byte(tomlLib), "toml")
	require.NoError(t, err)
	zirc, _ := lib.Lookup("zirc")

	fr := zirc.Fractions(nuc.O18)
	require.Len(t, fr, 2)
	sum := 0.0
	for _, f := range fr {
		assert.NotEqual(t, nuc.O18, f.Nuc)
		sum += f.Fraction
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.InDelta(t, 0.98/0.995, fr[0].Fraction, 1e-12)
}

func TestNewRejects(t *testing.T) {
	good := Material{Name: "a", Number: 1, Density: 1, Composition: map[string]float64{"1001": 1}}
	cases := map[string][]Material{
		"duplicate name":   {good, {Name: "a", Number: 2, Density: 1, Composition: good.Composition}},
		"duplicate number": {good, {Name: "b", Number: 1, Density: 1, Composition: good.Composition}},
		"zero density":     {{Name: "b", Number: 2, Composition: good.Composition}},
		"no composition":   {{Name: "b", Number: 2, Density: 1}},
		"bad zaid":         {{Name: "b", Number: 2, Density: 1, Composition: map[string]float64{"U235": 1}}},
		"zero sum":         {{Name: "b", Number: 2, Density: 1, Composition: map[string]float64{"1001": 0}}},
		"negative":         {{Name: "b", Number: 2, Density: 1, Composition: map[string]float64{"1001": -1}}},
		"reserved":         {{Name: "void", Number: 2, Density: 1, Composition: good.Composition}},
	}
	for name, mats := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(mats...)
			assert.Error(t, err)
		})
	}
}

func TestNewCollectsAllErrors(t *testing.T) {
	_, err := New(
		Material{Name: "a", Number: 1},
		Material{Name: "b", Number: 2},
	)
	require.Error(t, err)
	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 2)
}

func TestFractionsEmptyMaterial(t *testing.T) {
	var m Material
	assert.Empty(t, m.Fractions())
}
