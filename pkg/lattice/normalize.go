package lattice

import (
	"fmt"
	"strconv"
	"strings"
)

// maxCols bounds a row so that UniverseID stays unique per position.
const maxCols = 1000

// UniverseID is the universe synthesized for the assembly at (row, col) of the
// unpadded core map.
func UniverseID(row, col int) int {
	return maxCols*(row+1) + col
}

// Assembly is one non-filler position of the core map.
type Assembly struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	I        int    `json:"i"`
	J        int    `json:"j"`
	Label    string `json:"label"`
	Universe int    `json:"universe"`
}

// Fill is a core map flattened into a lattice fill array.
type Fill struct {
	Tokens     []string   `json:"tokens"`
	XExtent    int        `json:"x_extent"`
	YExtent    int        `json:"y_extent"`
	Assemblies []Assembly `json:"assemblies"`
}

// Width returns the number of lattice columns, 2*XExtent+1.
func (f *Fill) Width() int { return 2*f.XExtent + 1 }

// Height returns the number of lattice rows, 2*YExtent+1.
func (f *Fill) Height() int { return 2*f.YExtent + 1 }

// Text returns the fill tokens joined by single spaces.
func (f *Fill) Text() string {
	return strings.Join(f.Tokens, " ")
}

// Ranges returns the index bounds of a fill= entry, e.g. "-4:4 -3:3 0:0".
func (f *Fill) Ranges() string {
	return fmt.Sprintf("-%d:%d -%d:%d 0:0", f.XExtent, f.XExtent, f.YExtent, f.YExtent)
}

// Universes returns the universe of every assembly in map order.
func (f *Fill) Universes() []int {
	out := make([]int, len(f.Assemblies))
	for i, a := range f.Assemblies {
		out[i] = a.Universe
	}
	return out
}

// Normalize converts m into a lattice fill. Positions labelled fillerLabel
// become fillerToken; every other position becomes its UniverseID. Rows are
// padded on both sides with fillerToken to 2*XExtent+1 tokens, the extra
// token going to the right when the padding is odd.
//
// XExtent is ceil(longest/2), so every row carries at least one filler
// column. YExtent is ceil(rows/2)-1, so rows map onto -YExtent..YExtent with
// no filler rows; an even row count is rejected.
func Normalize(m CoreMap, fillerLabel, fillerToken string) (*Fill, error) {
	if len(m) == 0 {
		return nil, ErrEmptyMap
	}
	if fillerToken == "" {
		return nil, ErrEmptyFiller
	}
	if len(m)%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrEvenRowCount, len(m))
	}
	longest := m.MaxRowLen()
	if longest >= maxCols {
		return nil, fmt.Errorf("%w: got %d", ErrRowTooLong, longest)
	}
	for i, row := range m {
		if len(row) == 0 {
			return nil, &EmptyRowError{Row: i}
		}
	}

	f := &Fill{
		XExtent: (longest + 1) / 2,
		YExtent: (len(m)+1)/2 - 1,
	}
	width := f.Width()
	f.Tokens = make([]string, 0, width*f.Height())

	for r, row := range m {
		pad := width - len(row)
		left := pad / 2
		for k := 0; k < left; k++ {
			f.Tokens = append(f.Tokens, fillerToken)
		}
		for c, label := range row {
			if label == fillerLabel {
				f.Tokens = append(f.Tokens, fillerToken)
				continue
			}
			u := UniverseID(r, c)
			if fillerToken == strconv.Itoa(u) {
				return nil, fmt.Errorf("%w: %s", ErrFillerCollision, fillerToken)
			}
			f.Tokens = append(f.Tokens, strconv.Itoa(u))
			f.Assemblies = append(f.Assemblies, Assembly{
				Row:      r,
				Col:      c,
				I:        left + c - f.XExtent,
				J:        r - f.YExtent,
				Label:    label,
				Universe: u,
			})
		}
		for k := left + len(row); k < width; k++ {
			f.Tokens = append(f.Tokens, fillerToken)
		}
	}
	return f, nil
}
