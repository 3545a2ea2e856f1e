package nuc

import (
	"fmt"
	"strconv"
	"strings"
)

// Nuc describes a nuclide by its MCNP ZAID, ZZZAAA. A is 0 for a natural
// element.
type Nuc int

// Z returns the atomic number of a nuclide.
func (n Nuc) Z() int {
	return int(n) / 1000
}

// A returns the mass number of a nuclide, 0 for a natural element.
func (n Nuc) A() int {
	return int(n) % 1000
}

// Natural reports whether n names a natural element rather than an isotope.
func (n Nuc) Natural() bool {
	return n.A() == 0
}

// Valid reports whether n is a plausible ZAID.
func (n Nuc) Valid() bool {
	z, a := n.Z(), n.A()
	if z < 1 || z > 118 {
		return false
	}
	return a == 0 || a >= z
}

func (n Nuc) String() string {
	return strconv.Itoa(int(n))
}

// Parse reads a ZAID, dropping any cross-section suffix ("92235.70c").
func Parse(s string) (Nuc, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("nuc: %q is not a ZAID", s)
	}
	n := Nuc(v)
	if !n.Valid() {
		return 0, fmt.Errorf("nuc: %d is not a valid ZAID", v)
	}
	return n, nil
}

// Ints converts a nuclide list for card output.
func Ints(ns []Nuc) []int {
	out := make([]int, len(ns))
	for i, n := range ns {
		out[i] = int(n)
	}
	return out
}
