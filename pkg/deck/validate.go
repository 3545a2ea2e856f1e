package deck

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ChicagoDave/scwdeck/pkg/card"
	"github.com/ChicagoDave/scwdeck/pkg/surface"
	"github.com/ChicagoDave/scwdeck/pkg/validation"
)

// ValidateDeck performs Level 3 (deck) validation: cross references between
// cells, surfaces, universes and materials, and a trial render to catch
// formatting overflow.
func ValidateDeck(d *Deck) *validation.Report {
	r := validation.NewReport()

	if d == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelDeck,
			Message: "deck is nil",
		})
		return r
	}

	validateCellNumbers(d, r)
	validateSurfaceIDs(d, r)
	validateRegions(d, r)
	validateSurfaceUse(d, r)
	validateUniverses(d, r)
	validateLikeBut(d, r)
	validateMaterialNumbers(d, r)
	validateBurn(d, r)
	validateFit(d, r)
	if r.Valid {
		validateRender(d, r)
	}

	sum := d.Summary()
	r.AddInfo(validation.Result{
		Level: validation.LevelDeck,
		Message: fmt.Sprintf("%d cells, %d surfaces, %d materials, %d assemblies",
			sum.Cells, sum.Surfaces, sum.Materials, sum.Assemblies),
	})
	return r
}

const latticePath = "lattice"

func validateCellNumbers(d *Deck, r *validation.Report) {
	seen := make(map[int]string)
	check := func(number int, path string) {
		if prev, exists := seen[number]; exists {
			r.AddError(validation.Result{
				Level:        validation.LevelDeck,
				Message:      fmt.Sprintf("duplicate cell number %d", number),
				SpecPath:     path,
				ActualValue:  number,
				ConflictWith: prev,
			})
			return
		}
		seen[number] = path
	}

	for _, reg := range d.Regions {
		for _, c := range reg.Cells {
			check(c.Number, c.Path+".number")
		}
	}
	if d.Lattice != nil {
		check(d.Lattice.Cell.Number, latticePath+".cell")
		for _, a := range d.Lattice.Assemblies {
			check(a.Cell.Number, fmt.Sprintf("core_map[%d][%d]", a.Row, a.Col))
		}
	}
}

func validateSurfaceIDs(d *Deck, r *validation.Report) {
	seen := make(map[int]string)
	for _, reg := range d.Regions {
		for _, s := range reg.Surfaces {
			if prev, exists := seen[s.ID]; exists {
				r.AddError(validation.Result{
					Level:        validation.LevelDeck,
					Message:      fmt.Sprintf("duplicate surface number %d", s.ID),
					SpecPath:     s.Path + ".number",
					ActualValue:  s.ID,
					ConflictWith: prev,
				})
				continue
			}
			seen[s.ID] = s.Path
		}
	}
}

func validateRegions(d *Deck, r *validation.Report) {
	known := d.Surfaces()
	check := func(c card.Cell, path string) {
		if err := c.Validate(); err != nil {
			r.AddError(validation.Result{
				Level:    validation.LevelDeck,
				Message:  err.Error(),
				SpecPath: path,
			})
			return
		}
		err := surface.Validate(c.Region, known)
		if err == nil {
			return
		}
		res := validation.Result{
			Level:    validation.LevelDeck,
			Message:  fmt.Sprintf("cell %d: %v", c.Number, err),
			SpecPath: path + ".surfaces",
		}
		var unknown *surface.UnknownSurfaceError
		var facet *surface.FacetError
		switch {
		case errors.As(err, &unknown):
			res.ActualValue = unknown.Surface
			res.Suggestions = []string{fmt.Sprintf("Declare surface %d in a region's surfaces", unknown.Surface)}
		case errors.As(err, &facet):
			res.ActualValue = facet.Ref.String()
			res.Expected = fmt.Sprintf("facet 1..%d of %s", facet.Kind.Facets(), facet.Kind)
			if facet.Kind.Facets() == 0 {
				res.Expected = "a whole-surface reference"
			}
		}
		r.AddError(res)
	}

	for _, reg := range d.Regions {
		for _, c := range reg.Cells {
			check(c.Cell, c.Path)
		}
	}
	if d.Lattice != nil {
		check(d.Lattice.Cell, latticePath)
	}
}

// validateSurfaceUse warns about declared surfaces no cell region refers to.
func validateSurfaceUse(d *Deck, r *validation.Report) {
	used := make(map[int]bool)
	mark := func(e surface.Expr) {
		for _, ref := range surface.Refs(e) {
			used[ref.Surface()] = true
		}
	}
	for _, reg := range d.Regions {
		for _, c := range reg.Cells {
			mark(c.Region)
		}
	}
	if d.Lattice != nil {
		mark(d.Lattice.Cell.Region)
	}

	for _, reg := range d.Regions {
		for _, s := range reg.Surfaces {
			if used[s.ID] {
				continue
			}
			r.AddWarning(validation.Result{
				Level:       validation.LevelDeck,
				Message:     fmt.Sprintf("surface %d is declared but no cell uses it", s.ID),
				SpecPath:    s.Path,
				ActualValue: s.ID,
			})
		}
	}
}

// definedUniverses returns every universe some cell declares with u=.
func definedUniverses(d *Deck) map[int]bool {
	defined := make(map[int]bool)
	for _, reg := range d.Regions {
		for _, c := range reg.Cells {
			if c.Universe != nil {
				defined[*c.Universe] = true
			}
		}
	}
	if d.Lattice != nil {
		defined[*d.Lattice.Cell.Universe] = true
		for _, a := range d.Lattice.Assemblies {
			defined[a.Universe] = true
		}
	}
	return defined
}

func validateUniverses(d *Deck, r *validation.Report) {
	defined := definedUniverses(d)
	filled := make(map[int]bool)

	for _, reg := range d.Regions {
		for _, c := range reg.Cells {
			if c.Fill == nil {
				continue
			}
			filled[c.Fill.Universe] = true
			if !defined[c.Fill.Universe] {
				r.AddError(validation.Result{
					Level:       validation.LevelDeck,
					Message:     fmt.Sprintf("cell %d fills universe %d, which no cell belongs to", c.Number, c.Fill.Universe),
					SpecPath:    c.Path + ".fill",
					ActualValue: c.Fill.Universe,
				})
			}
		}
	}

	if d.Lattice == nil {
		return
	}
	l := d.Lattice
	for _, tok := range uniqueTokens(l.Fill.Tokens) {
		u, err := strconv.Atoi(tok)
		if err != nil || defined[u] {
			continue
		}
		r.AddError(validation.Result{
			Level:       validation.LevelDeck,
			Message:     fmt.Sprintf("lattice fill uses universe %s, which no cell belongs to", tok),
			SpecPath:    latticePath + ".filler_universe",
			ActualValue: tok,
			Suggestions: []string{"Add a cell with universe: " + tok},
		})
	}
	if !filled[*l.Cell.Universe] {
		r.AddWarning(validation.Result{
			Level:       validation.LevelDeck,
			Message:     fmt.Sprintf("no cell fills the lattice universe %d", *l.Cell.Universe),
			SpecPath:    latticePath + ".universe",
			ActualValue: *l.Cell.Universe,
			Suggestions: []string{fmt.Sprintf("Give the core cell fill: %d", *l.Cell.Universe)},
		})
	}
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func validateLikeBut(d *Deck, r *validation.Report) {
	if d.Lattice == nil {
		return
	}
	cells := make(map[int]Cell)
	for _, reg := range d.Regions {
		for _, c := range reg.Cells {
			cells[c.Number] = c
		}
	}
	reported := make(map[int]bool)
	for _, a := range d.Lattice.Assemblies {
		if reported[a.Cell.Base] {
			continue
		}
		base, ok := cells[a.Cell.Base]
		switch {
		case !ok:
			reported[a.Cell.Base] = true
			r.AddError(validation.Result{
				Level:       validation.LevelDeck,
				Message:     fmt.Sprintf("assembly %s copies cell %d, which is not defined", a.Label, a.Cell.Base),
				SpecPath:    "lattice.assemblies." + a.Label + ".base_cell",
				ActualValue: a.Cell.Base,
			})
		case base.Material == card.Void:
			reported[a.Cell.Base] = true
			r.AddError(validation.Result{
				Level:        validation.LevelDeck,
				Message:      fmt.Sprintf("assembly %s copies void cell %d but overrides its material", a.Label, a.Cell.Base),
				SpecPath:     "lattice.assemblies." + a.Label + ".base_cell",
				ActualValue:  a.Cell.Base,
				ConflictWith: base.Path,
			})
		}
	}
}

func validateMaterialNumbers(d *Deck, r *validation.Report) {
	seen := make(map[int]string)
	cards := append(append([]MaterialCard(nil), d.Materials...), d.Fuels...)
	for _, m := range cards {
		if prev, exists := seen[m.Card.Number]; exists {
			r.AddError(validation.Result{
				Level:        validation.LevelDeck,
				Message:      fmt.Sprintf("material number %d is used by %q and %q", m.Card.Number, prev, m.Name),
				SpecPath:     "materials",
				ActualValue:  m.Card.Number,
				ConflictWith: prev,
				Suggestions:  []string{"Renumber the library material so it does not collide with an assembly universe"},
			})
			continue
		}
		seen[m.Card.Number] = m.Name
	}
}

func validateBurn(d *Deck, r *validation.Report) {
	if d.Burn != nil && len(d.Burn.Materials) == 0 {
		r.AddError(validation.Result{
			Level:    validation.LevelDeck,
			Message:  "burn card has no assembly materials to burn",
			SpecPath: "data.burn",
		})
	}
}

func validateFit(d *Deck, r *validation.Report) {
	l := d.Lattice
	if l == nil || l.BoundRadius <= 0 {
		return
	}
	for _, a := range l.Assemblies {
		if a.Reach > l.BoundRadius {
			r.AddWarning(validation.Result{
				Level: validation.LevelDeck,
				Message: fmt.Sprintf("assembly %s at (%d,%d) reaches %.2f, outside the lattice bound radius %.2f",
					a.Label, a.I, a.J, a.Reach, l.BoundRadius),
				SpecPath:    fmt.Sprintf("core_map[%d][%d]", a.Row, a.Col),
				ActualValue: a.Reach,
				Expected:    fmt.Sprintf("<= %.2f", l.BoundRadius),
			})
		}
	}
}

func validateRender(d *Deck, r *validation.Report) {
	if err := d.Render(io.Discard); err != nil {
		res := validation.Result{
			Level:   validation.LevelDeck,
			Message: err.Error(),
		}
		var overflow *card.OverflowError
		if errors.As(err, &overflow) {
			res.SpecPath = "format.width"
			res.ActualValue = overflow.Token
			res.Suggestions = []string{"Shorten the comment or token, or widen format.width"}
		}
		r.AddError(res)
	}
}
