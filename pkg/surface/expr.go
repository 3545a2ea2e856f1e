package surface

import (
	"math"
	"strconv"
	"strings"
)

// Expr is a region of space built from signed surface references.
// The concrete types are Ref (a half-space), And (intersection) and Or (union).
type Expr interface {
	isExpr()
}

// Ref is a signed surface reference. A negative sign selects the inside
// half-space. A fractional part selects a macrobody facet, as in -801.2.
type Ref float64

// And is the intersection of its children.
type And []Expr

// Or is the union of its children.
type Or []Expr

func (Ref) isExpr() {}
func (And) isExpr() {}
func (Or) isExpr()  {}

// String returns the reference exactly as it appears on a cell card.
func (r Ref) String() string {
	return strconv.FormatFloat(float64(r), 'f', -1, 64)
}

// Surface returns the unsigned surface id.
func (r Ref) Surface() int {
	return int(math.Abs(float64(r)))
}

// Facet returns the macrobody facet number, or 0 for a whole surface.
func (r Ref) Facet() int {
	s := strconv.FormatFloat(math.Abs(float64(r)), 'f', -1, 64)
	_, frac, ok := strings.Cut(s, ".")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(frac)
	if err != nil {
		return 0
	}
	return n
}

// maxDepth is the depth at which groups start needing parentheses. Depth
// never grows past it.
const maxDepth = 2

// Compile renders e as MCNP geometry text. Intersections are joined by a
// space and unions by a colon. A group is wrapped in parentheses only when
// it sits two or more container levels deep. The returned depth is the
// container depth of the outermost group (0 for a bare reference).
func Compile(e Expr) (string, int) {
	return compile(e, 0)
}

func compile(e Expr, depth int) (string, int) {
	var (
		children []Expr
		sep      string
	)
	switch v := e.(type) {
	case Ref:
		return v.String(), depth
	case And:
		children, sep = v, " "
	case Or:
		children, sep = v, ":"
	default:
		return "", depth
	}

	if depth < maxDepth {
		depth++
	}
	items := make([]string, 0, len(children))
	for _, child := range children {
		text, _ := compile(child, depth)
		items = append(items, text)
	}
	text := strings.Join(items, sep)
	if depth > 1 {
		text = "(" + text + ")"
	}
	return text, depth
}

// Refs returns every surface reference in e in the order they appear.
func Refs(e Expr) []Ref {
	var out []Ref
	walk(e, func(r Ref) { out = append(out, r) })
	return out
}

func walk(e Expr, fn func(Ref)) {
	switch v := e.(type) {
	case Ref:
		fn(v)
	case And:
		for _, c := range v {
			walk(c, fn)
		}
	case Or:
		for _, c := range v {
			walk(c, fn)
		}
	}
}

// Validate checks that e is well formed and that every reference names a
// surface in known. A nil known skips the existence check.
func Validate(e Expr, known map[int]Surface) error {
	switch v := e.(type) {
	case nil:
		return ErrNilExpression
	case Ref:
		return validateRef(v, known)
	case And:
		return validateGroup(v, known)
	case Or:
		return validateGroup(v, known)
	default:
		return ErrNilExpression
	}
}

func validateGroup(children []Expr, known map[int]Surface) error {
	if len(children) == 0 {
		return ErrEmptyGroup
	}
	for _, c := range children {
		if err := Validate(c, known); err != nil {
			return err
		}
	}
	return nil
}

func validateRef(r Ref, known map[int]Surface) error {
	if r == 0 {
		return ErrZeroReference
	}
	if known == nil {
		return nil
	}
	s, ok := known[r.Surface()]
	if !ok {
		return &UnknownSurfaceError{Surface: r.Surface(), Ref: r}
	}
	facet := r.Facet()
	if facet == 0 {
		return nil
	}
	if facet > s.Kind.Facets() {
		return &FacetError{Ref: r, Kind: s.Kind}
	}
	return nil
}

// Render validates e against known and compiles it.
func Render(e Expr, known map[int]Surface) (string, error) {
	if err := Validate(e, known); err != nil {
		return "", err
	}
	text, _ := Compile(e)
	return text, nil
}
