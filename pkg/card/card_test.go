package card

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/scwdeck/pkg/lattice"
	"github.com/ChicagoDave/scwdeck/pkg/surface"
)

func ptr[T any](v T) *T { return &v }

// unwrap strips comments and continuation indents and joins the pieces.
func unwrap(t *testing.T, f Format, lines []string, delim, comment string) string {
	t.Helper()
	pieces := make([]string, len(lines))
	for i, l := range lines {
		if comment != "" {
			require.True(t, strings.HasSuffix(l, f.Marker+comment), "line %q lacks comment", l)
			l = strings.TrimRight(strings.TrimSuffix(l, f.Marker+comment), " ")
		}
		if i > 0 {
			require.True(t, strings.HasPrefix(l, strings.Repeat(" ", f.Indent)), "line %q lacks indent", l)
			l = l[f.Indent:]
		}
		pieces[i] = l
	}
	return strings.Join(pieces, delim)
}

func TestWrapFits(t *testing.T) {
	f := DefaultFormat()
	lines, err := f.Wrap("800 80000 -8.0 -801 802 imp:n=1", " ", "Outer_PV")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Len(t, lines[0], 80)
	assert.True(t, strings.HasPrefix(lines[0], "800 80000 -8.0 -801 802 imp:n=1 "))
	assert.True(t, strings.HasSuffix(lines[0], " $Outer_PV"))
}

func TestWrapSplits(t *testing.T) {
	f := DefaultFormat()
	f.Width = 30
	lines, err := f.Wrap("800 80000 -8.0 -801 802 imp:n=1", " ", "Outer_PV")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "800 80000 -8.0 -801  $Outer_PV", lines[0])
	assert.Equal(t, "         802 imp:n=1 $Outer_PV", lines[1])
}

func TestWrapWidthAndLossless(t *testing.T) {
	text := strings.Repeat("-1001 1002 1003:1004 ", 30) + "imp:n=1"
	for _, width := range []int{40, 60, 80, 120} {
		for _, comment := range []string{"", "c", "Core level water"} {
			f := DefaultFormat()
			f.Width = width
			lines, err := f.Wrap(text, " ", comment)
			require.NoError(t, err)
			for _, l := range lines {
				assert.LessOrEqual(t, len(l), width, "line %q", l)
			}
			assert.Equal(t, text, unwrap(t, f, lines, " ", comment))
		}
	}
}

func TestWrapReservesMarkerWithoutComment(t *testing.T) {
	f := DefaultFormat()
	f.Width = 20
	lines, err := f.Wrap("aaaa bbbb cccc dddd eeee", " ", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaa bbbb cccc", "         dddd eeee"}, lines)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), f.Width-len(" "+f.Marker))
	}
}

func TestWrapMultiCharDelimiter(t *testing.T) {
	f := DefaultFormat()
	f.Width = 40
	text := "m1  1001 -1.1e-01  8016 -8.8e-01  5010 -1.0e-02  5011 -4.0e-02"
	lines, err := f.Wrap(text, "  ", "Water")
	require.NoError(t, err)
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 40)
	}
	assert.Equal(t, text, unwrap(t, f, lines, "  ", "Water"))
}

func TestWrapOverflow(t *testing.T) {
	f := DefaultFormat()
	f.Width = 20
	_, err := f.Wrap("short "+strings.Repeat("x", 40), " ", "")
	var overflow *OverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, strings.Repeat("x", 40), overflow.Token)

	_, err = f.Wrap(strings.Repeat("y", 40), " ", "")
	require.ErrorAs(t, err, &overflow)

	_, err = f.Wrap("a b", "", "")
	assert.ErrorIs(t, err, ErrEmptyDelimiter)

	_, err = f.Wrap("a b", " ", strings.Repeat("z", 20))
	assert.ErrorAs(t, err, &overflow)
}

func TestRightAlign(t *testing.T) {
	f := DefaultFormat()
	assert.Equal(t, "abc", f.RightAlign("abc", ""))
	line := f.RightAlign("abc", "note")
	assert.Len(t, line, 80)
	assert.True(t, strings.HasSuffix(line, "$note"))
	assert.Equal(t, strings.Repeat("a", 79)+" $n", f.RightAlign(strings.Repeat("a", 79), "n"))
}

func TestBannerAndComment(t *testing.T) {
	f := DefaultFormat()
	b := f.Banner("CELL CARD")
	assert.Len(t, b, 80)
	assert.True(t, strings.HasPrefix(b, "c  ---"))
	assert.True(t, strings.HasSuffix(b, "---  c"))
	assert.Contains(t, b, "  CELL CARD  ")
	assert.Equal(t, "c  Core level", f.Comment("Core level"))
	assert.Equal(t, "c", f.Comment(""))
}

func TestNumberFormatting(t *testing.T) {
	assert.Equal(t, "-150", Number(-150))
	assert.Equal(t, "1.25", Number(1.25))
	assert.Equal(t, "-8.0", Density(-8))
	assert.Equal(t, "0.0998", Density(0.0998))
	assert.Equal(t, "-6.500000e-01", Fraction(-0.65))
}

func TestCellEndToEnd(t *testing.T) {
	c := Cell{
		Number:     800,
		Comment:    "Outer_PV",
		Material:   80000,
		Density:    -8.0,
		Region:     surface.And{surface.Ref(-801), surface.Ref(802)},
		Importance: 1,
	}
	known := surface.Index([]surface.Surface{
		{ID: 801, Kind: surface.RCC, Params: make([]float64, 7)},
		{ID: 802, Kind: surface.RCC, Params: make([]float64, 7)},
	})
	lines, err := c.Lines(DefaultFormat(), known)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "800 80000 -8.0 -801 802 imp:n=1", strings.TrimRight(strings.TrimSuffix(lines[0], "$Outer_PV"), " "))
	assert.Len(t, lines[0], 80)

	delete(known, 802)
	_, err = c.Lines(DefaultFormat(), known)
	var unknown *surface.UnknownSurfaceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 802, unknown.Surface)
}

func TestCellVoidHeader(t *testing.T) {
	c := Cell{
		Number:   900,
		Comment:  "Outside world",
		Material: Void,
		Region:   surface.Or{surface.Ref(801), surface.Ref(804), surface.Ref(806)},
	}
	assert.Equal(t, []string{"900", "0", "801:804:806", "imp:n=0"}, c.Tokens())
}

func TestCellOptionalAttributes(t *testing.T) {
	c := Cell{
		Number:     1100,
		Material:   1,
		Density:    -0.7,
		Region:     surface.Ref(-1101),
		Volume:     ptr(12.5),
		Universe:   ptr(11),
		Importance: 1,
	}
	assert.Equal(t, []string{"1100", "1", "-0.7", "-1101", "vol=12.5", "u=11", "imp:n=1"}, c.Tokens())

	c.Volume, c.Universe = nil, nil
	c.Fill = &Fill{Universe: 50}
	assert.Equal(t, []string{"1100", "1", "-0.7", "-1101", "fill=50", "imp:n=1"}, c.Tokens())
}

func TestLatticeCell(t *testing.T) {
	fill, err := lattice.Normalize(lattice.CoreMap{{"U"}, {"U", "M", "U"}, {"U"}}, "W", "99")
	require.NoError(t, err)

	c := Cell{
		Number:     500,
		Material:   Void,
		Region:     surface.Ref(-501),
		Universe:   ptr(50),
		Lattice:    Hexagonal,
		Fill:       &Fill{Array: fill},
		Importance: 1,
	}
	lines, err := c.Lines(DefaultFormat(), nil)
	require.NoError(t, err)
	joined := unwrap(t, DefaultFormat(), lines, " ", "")
	assert.True(t, strings.HasPrefix(joined, "500 0 -501 u=50 lat=2 fill=-2:2 -1:1 0:0 99 99 1000 99 99"))
	assert.True(t, strings.HasSuffix(joined, "imp:n=1"))
}

func TestCellValidate(t *testing.T) {
	region := surface.Ref(-1)
	cases := []struct {
		name string
		cell Cell
		want error
	}{
		{"void with density", Cell{Number: 1, Density: -1, Region: region}, ErrVoidDensity},
		{"material without density", Cell{Number: 1, Material: 5, Region: region}, ErrMissingDensity},
		{"lattice without universe", Cell{Number: 1, Region: region, Lattice: Hexagonal}, ErrLatticeUniverse},
		{"array without lattice", Cell{Number: 1, Region: region, Fill: &Fill{Array: &lattice.Fill{}}}, ErrFillArray},
		{"empty region", Cell{Number: 1, Region: surface.And{}}, surface.ErrEmptyGroup},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cell.Validate()
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
	assert.Error(t, Cell{Number: 0, Region: region}.Validate())
	assert.Error(t, Cell{Number: 1, Region: region, Lattice: 7, Universe: ptr(1)}.Validate())
}

func TestLikeBut(t *testing.T) {
	l := LikeBut{Number: 2003, Base: 1100, Universe: ptr(2003), Material: ptr(2003), Importance: 1}
	lines, err := l.Lines(DefaultFormat())
	require.NoError(t, err)
	assert.Equal(t, []string{"2003 like 1100 but u=2003 mat=2003 imp:n=1"}, lines)

	_, err = LikeBut{Number: 5, Base: 5}.Lines(DefaultFormat())
	assert.Error(t, err)
}

func TestSurfaceLines(t *testing.T) {
	s := surface.Surface{ID: 801, Kind: surface.RCC, Params: []float64{0, 0, -350, 0, 0, 700, 275}, Comment: "Outer_PV"}
	lines, err := SurfaceLines(s, DefaultFormat())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "801 rcc 0 0 -350 0 0 700 275 "))

	_, err = SurfaceLines(surface.Surface{ID: 1, Kind: surface.Sphere}, DefaultFormat())
	assert.ErrorIs(t, err, surface.ErrParamCount)

	_, err = SurfaceLines(surface.Surface{ID: 601, Kind: surface.CylZ, Params: []float64{math.NaN()}}, DefaultFormat())
	assert.ErrorIs(t, err, surface.ErrNonFinite)
}

func TestMaterialLines(t *testing.T) {
	m := Material{
		Number:  1,
		Comment: "Water, Liquid",
		Nuclides: []Nuclide{
			{ZAID: 1001, Fraction: 0.111894},
			{ZAID: 8016, Fraction: 0.888106},
		},
		Library: "70c",
		Thermal: "lwtr.20t",
	}
	lines, err := m.Lines(DefaultFormat())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "m1  1001.70c -1.118940e-01  8016.70c -8.881060e-01 "))
	assert.True(t, strings.HasPrefix(lines[1], "mt1 lwtr.20t "))
	assert.True(t, strings.HasSuffix(lines[1], "$Thermal Treatment"))

	m.Atom = true
	m.Thermal = ""
	lines, err = m.Lines(DefaultFormat())
	require.NoError(t, err)
	assert.Contains(t, lines[0], "1001.70c 1.118940e-01")

	_, err = Material{Number: 2}.Lines(DefaultFormat())
	assert.Error(t, err)
}

func TestMaterialPairsNeverSplit(t *testing.T) {
	var nucs []Nuclide
	for z := 1; z <= 20; z++ {
		nucs = append(nucs, Nuclide{ZAID: z*1000 + 2*z, Fraction: 0.05})
	}
	lines, err := Material{Number: 80000, Nuclides: nucs, Comment: "Steel"}.Lines(DefaultFormat())
	require.NoError(t, err)
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		content := strings.TrimSpace(strings.TrimSuffix(l, "$Steel"))
		fields := strings.Fields(strings.TrimPrefix(content, "m80000"))
		assert.Equal(t, 0, len(fields)%2, "line %q splits a pair", l)
	}
}

func TestModeAndKCode(t *testing.T) {
	assert.Equal(t, []string{"mode n", "print"}, Mode(nil))
	lines, err := KCode("5000 1.0 50 250", "0 0 0", DefaultFormat())
	require.NoError(t, err)
	assert.Equal(t, []string{"kcode 5000 1.0 50 250", "ksrc 0 0 0"}, lines)
}

func TestBurnLines(t *testing.T) {
	b := DefaultBurn()
	b.Materials = []int{1001, 1002, 2000}
	b.Omit = []int{8018, 6014}
	lines, err := b.Lines(DefaultFormat())
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "burn time=54.75 9R power=1341 pfrac=1 9R bopt=1 14 -1", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "     mat=1001 1002 2000 "))
	assert.True(t, strings.HasSuffix(lines[1], "$burn_mat"))
	assert.True(t, strings.HasPrefix(lines[2], "     omit=-1 2 8018 6014 "))

	_, err = Burn{}.Lines(DefaultFormat())
	assert.Error(t, err)
}
