package card

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ChicagoDave/scwdeck/pkg/lattice"
	"github.com/ChicagoDave/scwdeck/pkg/surface"
)

// Void is the material number of an empty cell.
const Void = 0

// LatticeType is the MCNP lat= value.
type LatticeType int

const (
	NoLattice LatticeType = 0
	Square    LatticeType = 1 // hexahedral elements
	Hexagonal LatticeType = 2 // hexagonal prism elements
)

var (
	// ErrVoidDensity indicates a void cell that carries a density.
	ErrVoidDensity = errors.New("card: void cell must not have a density")
	// ErrMissingDensity indicates a material cell with zero density.
	ErrMissingDensity = errors.New("card: material cell needs a non-zero density")
	// ErrLatticeUniverse indicates a lattice cell outside any universe.
	ErrLatticeUniverse = errors.New("card: lattice cell needs a universe")
	// ErrFillArray indicates a fill array on a cell that is not a lattice.
	ErrFillArray = errors.New("card: fill array requires a lattice cell")
)

// Fill is the fill= entry of a cell: a single universe, or a lattice array.
type Fill struct {
	Universe int
	Array    *lattice.Fill
}

func (f Fill) String() string {
	if f.Array != nil {
		return "fill=" + f.Array.Ranges() + " " + f.Array.Text()
	}
	return "fill=" + strconv.Itoa(f.Universe)
}

// Cell is one cell card. Optional attributes are emitted only when set.
type Cell struct {
	Number     int
	Comment    string
	Material   int
	Density    float64
	Region     surface.Expr
	Volume     *float64
	Universe   *int
	Lattice    LatticeType
	Fill       *Fill
	Importance int
}

// Validate checks the cell's own fields. Surface existence is checked by
// the deck, which knows every declared surface.
func (c Cell) Validate() error {
	if c.Number <= 0 {
		return fmt.Errorf("cell %d: number must be positive", c.Number)
	}
	if c.Material < 0 {
		return fmt.Errorf("cell %d: material number %d is negative", c.Number, c.Material)
	}
	if c.Material == Void && c.Density != 0 {
		return fmt.Errorf("cell %d: %w", c.Number, ErrVoidDensity)
	}
	if c.Material != Void && c.Density == 0 {
		return fmt.Errorf("cell %d: %w", c.Number, ErrMissingDensity)
	}
	if err := surface.Validate(c.Region, nil); err != nil {
		return fmt.Errorf("cell %d: %w", c.Number, err)
	}
	switch c.Lattice {
	case NoLattice, Square, Hexagonal:
	default:
		return fmt.Errorf("cell %d: unknown lattice type %d", c.Number, c.Lattice)
	}
	if c.Lattice != NoLattice && c.Universe == nil {
		return fmt.Errorf("cell %d: %w", c.Number, ErrLatticeUniverse)
	}
	if c.Fill != nil && c.Fill.Array != nil && c.Lattice == NoLattice {
		return fmt.Errorf("cell %d: %w", c.Number, ErrFillArray)
	}
	if c.Importance < 0 {
		return fmt.Errorf("cell %d: importance must not be negative", c.Number)
	}
	return nil
}

// Tokens returns the card fields in order: number, material, density (omitted
// for void cells), geometry, vol=, u=, lat=, fill=, imp:n=.
func (c Cell) Tokens() []string {
	geom, _ := surface.Compile(c.Region)
	return c.tokens(geom)
}

func (c Cell) tokens(geom string) []string {
	tokens := []string{strconv.Itoa(c.Number), strconv.Itoa(c.Material)}
	if c.Material != Void {
		tokens = append(tokens, Density(c.Density))
	}
	tokens = append(tokens, geom)

	if c.Volume != nil {
		tokens = append(tokens, "vol="+Number(*c.Volume))
	}
	if c.Universe != nil {
		tokens = append(tokens, "u="+strconv.Itoa(*c.Universe))
	}
	if c.Lattice != NoLattice {
		tokens = append(tokens, "lat="+strconv.Itoa(int(c.Lattice)))
	}
	if c.Fill != nil {
		tokens = append(tokens, c.Fill.String())
	}
	return append(tokens, "imp:n="+strconv.Itoa(c.Importance))
}

// Lines renders the cell card. Every surface the region references must be
// in known; a nil known skips that check.
func (c Cell) Lines(f Format, known map[int]surface.Surface) ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	geom, err := surface.Render(c.Region, known)
	if err != nil {
		return nil, fmt.Errorf("cell %d: %w", c.Number, err)
	}
	lines, err := f.Wrap(strings.Join(c.tokens(geom), " "), " ", c.Comment)
	if err != nil {
		return nil, fmt.Errorf("cell %d: %w", c.Number, err)
	}
	return lines, nil
}

// LikeBut is a "like m but" cell that copies a base cell into another
// universe, optionally with its own material and volume.
type LikeBut struct {
	Number     int
	Base       int
	Comment    string
	Universe   *int
	Material   *int
	Volume     *float64
	Importance int
}

// Tokens returns the card fields.
func (l LikeBut) Tokens() []string {
	tokens := []string{strconv.Itoa(l.Number), "like", strconv.Itoa(l.Base), "but"}
	if l.Universe != nil {
		tokens = append(tokens, "u="+strconv.Itoa(*l.Universe))
	}
	if l.Material != nil {
		tokens = append(tokens, "mat="+strconv.Itoa(*l.Material))
	}
	if l.Volume != nil {
		tokens = append(tokens, "vol="+Number(*l.Volume))
	}
	return append(tokens, "imp:n="+strconv.Itoa(l.Importance))
}

// Lines renders the like-but card.
func (l LikeBut) Lines(f Format) ([]string, error) {
	if l.Number <= 0 || l.Base <= 0 {
		return nil, fmt.Errorf("like-but cell %d: number and base must be positive", l.Number)
	}
	if l.Number == l.Base {
		return nil, fmt.Errorf("like-but cell %d: cannot be like itself", l.Number)
	}
	lines, err := f.Wrap(strings.Join(l.Tokens(), " "), " ", l.Comment)
	if err != nil {
		return nil, fmt.Errorf("like-but cell %d: %w", l.Number, err)
	}
	return lines, nil
}
