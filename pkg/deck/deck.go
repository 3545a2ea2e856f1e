package deck

import (
	"github.com/ChicagoDave/scwdeck/pkg/card"
	"github.com/ChicagoDave/scwdeck/pkg/geo"
	"github.com/ChicagoDave/scwdeck/pkg/lattice"
	"github.com/ChicagoDave/scwdeck/pkg/surface"
)

// Deck is an assembled MCNP input deck, ready to render.
type Deck struct {
	Title     string
	Format    card.Format
	Regions   []Region
	Lattice   *Lattice
	Materials []MaterialCard // library materials in order of first use
	Fuels     []MaterialCard // one per lattice assembly
	Mode      []string
	KCode     string
	KSrc      string
	Burn      *card.Burn
}

// Region is one level of the model, rendered under its own comment header in
// the cell and surface sections.
type Region struct {
	Name     string
	Cells    []Cell
	Surfaces []Surface
}

// Cell is a cell card and the spec path it came from.
type Cell struct {
	card.Cell
	Path string
}

// Surface is a surface card and the spec path it came from.
type Surface struct {
	surface.Surface
	Path string
}

// Lattice is the core lattice cell and the assemblies that fill it.
type Lattice struct {
	Cell        card.Cell     `json:"-"`
	Fill        *lattice.Fill `json:"fill"`
	Shape       string        `json:"shape"`
	Pitch       float64       `json:"pitch"`
	BoundRadius float64       `json:"bound_radius,omitempty"`
	Height      float64       `json:"height,omitempty"`
	Assemblies  []Assembly    `json:"assemblies"`
}

// Assembly is one filled lattice position: a like-but copy of the base cell
// of its type, carrying its own material.
type Assembly struct {
	lattice.Assembly
	Cell     card.LikeBut `json:"-"`
	Material string       `json:"material"`
	Center   geo.Point2D  `json:"center"`
	Reach    float64      `json:"reach"`
}

// MaterialCard is a material card and the library material it renders.
type MaterialCard struct {
	Name string
	Card card.Material
}

// Summary counts the cards of a deck.
type Summary struct {
	Title      string `json:"title"`
	Regions    int    `json:"regions"`
	Cells      int    `json:"cells"`
	Surfaces   int    `json:"surfaces"`
	Materials  int    `json:"materials"`
	Assemblies int    `json:"assemblies"`
}

// Summary returns the card counts. Lattice and assembly cells count as cells.
func (d *Deck) Summary() Summary {
	s := Summary{
		Title:     d.Title,
		Regions:   len(d.Regions),
		Materials: len(d.Materials) + len(d.Fuels),
	}
	for _, r := range d.Regions {
		s.Cells += len(r.Cells)
		s.Surfaces += len(r.Surfaces)
	}
	if d.Lattice != nil {
		s.Cells += 1 + len(d.Lattice.Assemblies)
		s.Assemblies = len(d.Lattice.Assemblies)
	}
	return s
}

// Surfaces returns every declared surface indexed by id.
func (d *Deck) Surfaces() map[int]surface.Surface {
	var all []surface.Surface
	for _, r := range d.Regions {
		for _, s := range r.Surfaces {
			all = append(all, s.Surface)
		}
	}
	return surface.Index(all)
}
