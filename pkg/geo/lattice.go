package geo

import (
	"fmt"
	"math"
)

// Shape is the element shape of a lattice.
type Shape int

const (
	Square Shape = iota + 1
	Hexagonal
)

// ParseShape maps the spec lattice type ("square", "hex") to a Shape.
func ParseShape(s string) (Shape, error) {
	switch s {
	case "square":
		return Square, nil
	case "hex":
		return Hexagonal, nil
	}
	return 0, fmt.Errorf("geo: unknown lattice shape %q", s)
}

// Center returns the centre of lattice element (i, j). Square elements sit
// on a pitch grid. Hexagonal elements have flats normal to X, so i steps
// along X and j steps 60 degrees from it.
func Center(shape Shape, pitch float64, i, j int) Point2D {
	if shape == Hexagonal {
		return Pt(pitch*(float64(i)+float64(j)/2), pitch*float64(j)*math.Sqrt(3)/2)
	}
	return Pt(pitch*float64(i), pitch*float64(j))
}

// Element returns the outline of the lattice element centred at c. pitch is
// the distance across flats.
func Element(shape Shape, pitch float64, c Point2D) Polygon {
	if shape == Hexagonal {
		r := pitch / math.Sqrt(3)
		pts := make([]Point2D, 6)
		for k := range pts {
			pts[k] = c.Add(Pt(r, 0).Rotate(math.Pi/6 + float64(k)*math.Pi/3))
		}
		return NewPolygon(pts...)
	}
	h := pitch / 2
	return NewPolygon(
		c.Add(Pt(-h, -h)), c.Add(Pt(h, -h)),
		c.Add(Pt(h, h)), c.Add(Pt(-h, h)),
	)
}

// Reach returns how far from the origin element (i, j) extends.
func Reach(shape Shape, pitch float64, i, j int) float64 {
	return Element(shape, pitch, Center(shape, pitch, i, j)).MaxDistanceTo(Origin)
}
