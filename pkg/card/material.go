package card

import (
	"fmt"
	"strconv"
	"strings"
)

// pairDelim separates nuclide/fraction pairs so a break never lands between
// a ZAID and its fraction.
const pairDelim = "  "

// Nuclide is one ZAID entry of a material card.
type Nuclide struct {
	ZAID     int
	Fraction float64
}

// Material is an m card plus its optional mt thermal-treatment card.
type Material struct {
	Number   int
	Comment  string
	Nuclides []Nuclide
	// Atom marks atom fractions; otherwise fractions are by mass and are
	// written negative.
	Atom    bool
	Library string // cross-section suffix such as "70c", may be empty
	Thermal string // S(a,b) table such as "lwtr.20t", may be empty
}

// Lines renders the material card followed by its mt card, if any.
func (m Material) Lines(f Format) ([]string, error) {
	if m.Number <= 0 {
		return nil, fmt.Errorf("material %d: number must be positive", m.Number)
	}
	if len(m.Nuclides) == 0 {
		return nil, fmt.Errorf("material %d: no nuclides", m.Number)
	}

	parts := []string{"m" + strconv.Itoa(m.Number)}
	for _, n := range m.Nuclides {
		zaid := strconv.Itoa(n.ZAID)
		if m.Library != "" {
			zaid += "." + m.Library
		}
		frac := n.Fraction
		if !m.Atom {
			frac = -frac
		}
		parts = append(parts, zaid+" "+Fraction(frac))
	}
	lines, err := f.Wrap(strings.Join(parts, pairDelim), pairDelim, m.Comment)
	if err != nil {
		return nil, fmt.Errorf("material %d: %w", m.Number, err)
	}

	if m.Thermal != "" {
		mt := fmt.Sprintf("mt%d %s", m.Number, m.Thermal)
		mtLines, err := f.Wrap(mt, " ", "Thermal Treatment")
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", m.Number, err)
		}
		lines = append(lines, mtLines...)
	}
	return lines, nil
}
