package spec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/scwdeck/pkg/card"
	"github.com/ChicagoDave/scwdeck/pkg/surface"
)

// ReactorSpec is the top-level model of a reactor deck.
type ReactorSpec struct {
	Title        string                        `yaml:"title" json:"title" validate:"required"`
	Output       string                        `yaml:"output" json:"output"`
	Format       card.Format                   `yaml:"format" json:"format"`
	Materials    string                        `yaml:"materials" json:"materials" validate:"required"`
	XSLibrary    string                        `yaml:"xs_library" json:"xs_library"`
	OmitNuclides []string                      `yaml:"omit_nuclides" json:"omit_nuclides"`
	Dimensions   DimensionsDef                 `yaml:"dimensions" json:"dimensions"`
	Pins         map[string]map[string]float64 `yaml:"pins" json:"pins"`
	CoreMap      string                        `yaml:"core_map" json:"core_map"`
	Lattice      *LatticeDef                   `yaml:"lattice" json:"lattice,omitempty"`
	Regions      []RegionDef                   `yaml:"regions" json:"regions" validate:"required,min=1,dive"`
	Data         DataDef                       `yaml:"data" json:"data"`

	// Dir is the project directory relative paths resolve against.
	Dir string `yaml:"-" json:"-"`
}

// DimensionsDef holds named lengths. Derived entries are expressions over
// base values, pin constants ("group.key") and other derived entries.
type DimensionsDef struct {
	Base    map[string]float64 `yaml:"base" json:"base"`
	Derived map[string]Expr    `yaml:"derived" json:"derived"`
}

// Expr is an arithmetic expression over dimensions. A plain number is the
// simplest expression.
type Expr string

// UnmarshalYAML accepts any scalar, so numbers need no quoting.
func (e *Expr) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expression must be a scalar", n.Line)
	}
	*e = Expr(n.Value)
	return nil
}

// RegionDef groups the cells and surfaces of one level of the model
// (core level, reactor level, outside world).
type RegionDef struct {
	Name     string       `yaml:"name" json:"name" validate:"required"`
	Cells    []CellDef    `yaml:"cells" json:"cells" validate:"dive"`
	Surfaces []SurfaceDef `yaml:"surfaces" json:"surfaces" validate:"dive"`
}

// CellDef is a cell of the model. Material is "void", a library material
// name or a literal material number.
type CellDef struct {
	Number     int            `yaml:"number" json:"number" validate:"gt=0"`
	Comment    string         `yaml:"comment" json:"comment"`
	Material   string         `yaml:"material" json:"material" validate:"required"`
	Density    *float64       `yaml:"density" json:"density,omitempty"`
	Surfaces   surface.Region `yaml:"surfaces" json:"-"`
	Volume     Expr           `yaml:"volume" json:"volume,omitempty"`
	Universe   *int           `yaml:"universe" json:"universe,omitempty" validate:"omitempty,gt=0"`
	Fill       *int           `yaml:"fill" json:"fill,omitempty" validate:"omitempty,gt=0"`
	Importance *int           `yaml:"importance" json:"importance,omitempty" validate:"omitempty,gte=0"`
}

// Imp returns the neutron importance, 1 when unset.
func (c CellDef) Imp() int {
	if c.Importance == nil {
		return 1
	}
	return *c.Importance
}

// SurfaceDef is a surface card. Params are expressions over dimensions.
type SurfaceDef struct {
	Number  int    `yaml:"number" json:"number" validate:"gt=0"`
	Type    string `yaml:"type" json:"type" validate:"required"`
	Params  []Expr `yaml:"params" json:"params" validate:"required,min=1"`
	Comment string `yaml:"comment" json:"comment"`
}

// Lattice types.
const (
	LatticeSquare = "square"
	LatticeHex    = "hex"
)

// LatticeDef describes the core lattice cell and the assemblies filling it.
type LatticeDef struct {
	Cell           int                    `yaml:"cell" json:"cell" validate:"gt=0"`
	Universe       int                    `yaml:"universe" json:"universe" validate:"gt=0"`
	Type           string                 `yaml:"type" json:"type" validate:"oneof=square hex"`
	Region         surface.Region         `yaml:"region" json:"-"`
	Comment        string                 `yaml:"comment" json:"comment"`
	Filler         string                 `yaml:"filler" json:"filler" validate:"required"`
	FillerUniverse int                    `yaml:"filler_universe" json:"filler_universe" validate:"gt=0"`
	Pitch          Expr                   `yaml:"pitch" json:"pitch"`
	BoundRadius    Expr                   `yaml:"bound_radius" json:"bound_radius"`
	Height         Expr                   `yaml:"height" json:"height,omitempty"` // axial extent of an element; sets default assembly volumes
	Assemblies     map[string]AssemblyDef `yaml:"assemblies" json:"assemblies" validate:"dive"`
}

// AssemblyDef maps a core-map label to the cell every assembly of that type
// copies and the material it is filled with.
type AssemblyDef struct {
	BaseCell int    `yaml:"base_cell" json:"base_cell" validate:"gt=0"`
	Material string `yaml:"material" json:"material" validate:"required"`
	Volume   Expr   `yaml:"volume" json:"volume,omitempty"`
	Comment  string `yaml:"comment" json:"comment"`
}

// DataDef holds the problem data cards.
type DataDef struct {
	Mode  []string `yaml:"mode" json:"mode"`
	KCode string   `yaml:"kcode" json:"kcode"`
	KSrc  string   `yaml:"ksrc" json:"ksrc"`
	Burn  *BurnDef `yaml:"burn" json:"burn,omitempty"`
}

// BurnDef overrides the depletion schedule. Empty fields keep the defaults.
// Omit replaces the default omitted-nuclide list when set.
type BurnDef struct {
	Time  string   `yaml:"time" json:"time"`
	Power string   `yaml:"power" json:"power"`
	PFrac string   `yaml:"pfrac" json:"pfrac"`
	Bopt  string   `yaml:"bopt" json:"bopt"`
	Omit  []string `yaml:"omit" json:"omit"`
}
