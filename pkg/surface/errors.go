package surface

import (
	"errors"
	"fmt"
)

var (
	// ErrNilExpression indicates a missing region expression.
	ErrNilExpression = errors.New("surface: nil expression")
	// ErrEmptyGroup indicates an intersection or union with no children.
	ErrEmptyGroup = errors.New("surface: empty intersection or union")
	// ErrZeroReference indicates a reference to surface 0, which MCNP has no use for.
	ErrZeroReference = errors.New("surface: reference to surface 0")
	// ErrUnknownKind indicates a surface mnemonic that is not supported.
	ErrUnknownKind = errors.New("surface: unknown surface kind")
	// ErrParamCount indicates a parameter list of the wrong length for its kind.
	ErrParamCount = errors.New("surface: wrong number of parameters")
	// ErrNonFinite indicates a NaN or infinite parameter.
	ErrNonFinite = errors.New("surface: parameter is not finite")
)

// UnknownSurfaceError reports a reference to a surface that was never declared.
type UnknownSurfaceError struct {
	Surface int
	Ref     Ref
}

func (e *UnknownSurfaceError) Error() string {
	return fmt.Sprintf("surface: reference %s names undeclared surface %d", e.Ref, e.Surface)
}

// FacetError reports a facet suffix that the referenced surface does not have.
type FacetError struct {
	Ref  Ref
	Kind Kind
}

func (e *FacetError) Error() string {
	if !e.Kind.IsMacrobody() {
		return fmt.Sprintf("surface: reference %s uses a facet but %q is not a macrobody", e.Ref, e.Kind)
	}
	if e.Kind.Facets() == 0 {
		return fmt.Sprintf("surface: reference %s uses a facet but macrobody %q has none", e.Ref, e.Kind)
	}
	return fmt.Sprintf("surface: reference %s uses facet %d but %q has %d facets",
		e.Ref, e.Ref.Facet(), e.Kind, e.Kind.Facets())
}
