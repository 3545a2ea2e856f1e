package surface

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Kind is an MCNP surface mnemonic.
type Kind string

const (
	Plane   Kind = "p"
	PlaneX  Kind = "px"
	PlaneY  Kind = "py"
	PlaneZ  Kind = "pz"
	SphereO Kind = "so"
	Sphere  Kind = "s"
	SphereX Kind = "sx"
	SphereY Kind = "sy"
	SphereZ Kind = "sz"
	CylX    Kind = "cx"
	CylY    Kind = "cy"
	CylZ    Kind = "cz"
	CylParX Kind = "c/x"
	CylParY Kind = "c/y"
	CylParZ Kind = "c/z"

	// Macrobodies.
	RPP Kind = "rpp"
	BOX Kind = "box"
	SPH Kind = "sph"
	RCC Kind = "rcc"
	RHP Kind = "rhp"
	HEX Kind = "hex"
	REC Kind = "rec"
	TRC Kind = "trc"
)

type kindInfo struct {
	params []int // accepted parameter counts
	facets int   // 0 for simple surfaces
}

var kinds = map[Kind]kindInfo{
	Plane:   {params: []int{4}},
	PlaneX:  {params: []int{1}},
	PlaneY:  {params: []int{1}},
	PlaneZ:  {params: []int{1}},
	SphereO: {params: []int{1}},
	Sphere:  {params: []int{4}},
	SphereX: {params: []int{2}},
	SphereY: {params: []int{2}},
	SphereZ: {params: []int{2}},
	CylX:    {params: []int{1}},
	CylY:    {params: []int{1}},
	CylZ:    {params: []int{1}},
	CylParX: {params: []int{3}},
	CylParY: {params: []int{3}},
	CylParZ: {params: []int{3}},
	RPP:     {params: []int{6}, facets: 6},
	BOX:     {params: []int{12}, facets: 6},
	SPH:     {params: []int{4}},
	RCC:     {params: []int{7}, facets: 3},
	RHP:     {params: []int{9, 15}, facets: 8},
	HEX:     {params: []int{9, 15}, facets: 8},
	REC:     {params: []int{10, 12}, facets: 3},
	TRC:     {params: []int{8}, facets: 3},
}

// ParseKind returns the Kind for an MCNP mnemonic. Mnemonics are case-insensitive.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Facets returns the number of facets a macrobody exposes, or 0.
func (k Kind) Facets() int {
	return kinds[k].facets
}

// IsMacrobody reports whether k is a macrobody.
func (k Kind) IsMacrobody() bool {
	return kinds[k].facets > 0 || k == SPH
}

// ParamCounts returns the accepted parameter list lengths for k.
func (k Kind) ParamCounts() []int {
	return slices.Clone(kinds[k].params)
}

// Surface is one surface card.
type Surface struct {
	ID      int
	Kind    Kind
	Params  []float64
	Comment string
}

// Validate checks the id, kind, parameter count and that every parameter is
// a finite number.
func (s Surface) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("surface %d: id must be positive", s.ID)
	}
	info, ok := kinds[s.Kind]
	if !ok {
		return fmt.Errorf("surface %d: %w: %q", s.ID, ErrUnknownKind, s.Kind)
	}
	if !slices.Contains(info.params, len(s.Params)) {
		return fmt.Errorf("surface %d: %w: %s takes %v, got %d",
			s.ID, ErrParamCount, s.Kind, info.params, len(s.Params))
	}
	for i, p := range s.Params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("surface %d: %w: parameter %d is %v", s.ID, ErrNonFinite, i+1, p)
		}
	}
	return nil
}

// Index maps surfaces by id. Later duplicates overwrite earlier ones; callers
// that care about uniqueness check it first.
func Index(surfaces []Surface) map[int]Surface {
	m := make(map[int]Surface, len(surfaces))
	for _, s := range surfaces {
		m[s.ID] = s
	}
	return m
}
