package deck

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ChicagoDave/scwdeck/pkg/card"
	"github.com/ChicagoDave/scwdeck/pkg/dimensions"
	"github.com/ChicagoDave/scwdeck/pkg/geo"
	"github.com/ChicagoDave/scwdeck/pkg/lattice"
	"github.com/ChicagoDave/scwdeck/pkg/material"
	"github.com/ChicagoDave/scwdeck/pkg/nuc"
	"github.com/ChicagoDave/scwdeck/pkg/spec"
	"github.com/ChicagoDave/scwdeck/pkg/surface"
	"github.com/ChicagoDave/scwdeck/pkg/validation"
)

// assembler carries the inputs and the report through one Assemble call.
type assembler struct {
	s      *spec.ReactorSpec
	dims   *dimensions.Dimensions
	lib    material.Source
	omit   []nuc.Nuc
	report *validation.Report
	log    *zap.Logger

	deck    *Deck
	matSeen map[string]bool
}

// Assemble converts a resolved spec into a deck. core may be nil when the
// spec has no lattice. Problems that prevent a card from being built, such
// as an unknown material or an expression that does not evaluate, are
// model-level errors in the report; the deck is still returned so that
// callers can show what was built.
func Assemble(
	s *spec.ReactorSpec,
	dims *dimensions.Dimensions,
	lib material.Source,
	core lattice.CoreMap,
	log *zap.Logger,
) (*Deck, *validation.Report) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &assembler{
		s:       s,
		dims:    dims,
		lib:     lib,
		omit:    omitList(s.OmitNuclides, []nuc.Nuc{nuc.O18}),
		report:  validation.NewReport(),
		log:     log,
		matSeen: make(map[string]bool),
		deck: &Deck{
			Title:  s.Title,
			Format: s.Format.WithDefaults(),
			Mode:   s.Data.Mode,
			KCode:  s.Data.KCode,
			KSrc:   s.Data.KSrc,
		},
	}

	for i, r := range s.Regions {
		a.assembleRegion(i, r)
	}
	if s.Lattice != nil {
		a.assembleLattice(core)
	}
	if s.Data.Burn != nil {
		a.assembleBurn()
	}

	sum := a.deck.Summary()
	log.Debug("deck assembled",
		zap.Int("cells", sum.Cells),
		zap.Int("surfaces", sum.Surfaces),
		zap.Int("materials", sum.Materials),
		zap.Int("assemblies", sum.Assemblies),
		zap.Bool("valid", a.report.Valid),
	)
	return a.deck, a.report
}

// omitList parses ZAIDs, falling back to def when zaids is nil. Entries
// that do not parse were already reported by schema validation.
func omitList(zaids []string, def []nuc.Nuc) []nuc.Nuc {
	if zaids == nil {
		return def
	}
	out := make([]nuc.Nuc, 0, len(zaids))
	for _, z := range zaids {
		if n, err := nuc.Parse(z); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func (a *assembler) errorf(path, format string, args ...any) {
	a.report.AddError(validation.Result{
		Level:    validation.LevelModel,
		Message:  fmt.Sprintf(format, args...),
		SpecPath: path,
	})
}

// eval evaluates an optional expression; ok is false when it is empty or
// failed (the failure is reported).
func (a *assembler) eval(path string, e spec.Expr) (float64, bool) {
	if e == "" {
		return 0, false
	}
	v, err := a.dims.Eval(string(e))
	if err != nil {
		a.errorf(path, "%v", err)
		return 0, false
	}
	return v, true
}

func (a *assembler) assembleRegion(i int, r spec.RegionDef) {
	region := Region{Name: r.Name}

	for j, sd := range r.Surfaces {
		path := fmt.Sprintf("regions[%d].surfaces[%d]", i, j)
		if s, ok := a.buildSurface(path, sd); ok {
			region.Surfaces = append(region.Surfaces, Surface{Surface: s, Path: path})
		}
	}
	for j, cd := range r.Cells {
		path := fmt.Sprintf("regions[%d].cells[%d]", i, j)
		if c, ok := a.buildCell(path, cd); ok {
			region.Cells = append(region.Cells, Cell{Cell: c, Path: path})
		}
	}

	a.log.Debug("region assembled",
		zap.String("region", r.Name),
		zap.Int("cells", len(region.Cells)),
		zap.Int("surfaces", len(region.Surfaces)),
	)
	a.deck.Regions = append(a.deck.Regions, region)
}

func (a *assembler) buildSurface(path string, sd spec.SurfaceDef) (surface.Surface, bool) {
	kind, err := surface.ParseKind(sd.Type)
	if err != nil {
		a.errorf(path+".type", "surface %d: %v", sd.Number, err)
		return surface.Surface{}, false
	}
	s := surface.Surface{ID: sd.Number, Kind: kind, Comment: sd.Comment}
	ok := true
	for k, p := range sd.Params {
		v, err := a.dims.Eval(string(p))
		if err != nil {
			a.errorf(fmt.Sprintf("%s.params[%d]", path, k), "surface %d: %v", sd.Number, err)
			ok = false
			continue
		}
		s.Params = append(s.Params, v)
	}
	return s, ok
}

func (a *assembler) buildCell(path string, cd spec.CellDef) (card.Cell, bool) {
	c := card.Cell{
		Number:     cd.Number,
		Comment:    cd.Comment,
		Region:     cd.Surfaces.Expr,
		Universe:   cd.Universe,
		Importance: cd.Imp(),
	}
	if cd.Fill != nil {
		c.Fill = &card.Fill{Universe: *cd.Fill}
	}
	if v, ok := a.eval(path+".volume", cd.Volume); ok {
		c.Volume = &v
	}

	num, density, ok := a.resolveMaterial(path+".material", cd.Material)
	if !ok {
		return c, false
	}
	c.Material = num
	if num == card.Void {
		if cd.Density != nil {
			a.errorf(path+".density", "void cell %d must not have a density", cd.Number)
			return c, false
		}
	} else {
		switch {
		case cd.Density != nil:
			c.Density = *cd.Density
		case density != 0:
			c.Density = density
		default:
			a.errorf(path+".density", "cell %d uses material number %d and needs an explicit density", cd.Number, num)
			return c, false
		}
	}
	return c, true
}

// resolveMaterial maps a cell material to its number and default density.
// Library densities are in g/cc and become negative (mass) densities.
func (a *assembler) resolveMaterial(path, name string) (int, float64, bool) {
	if validation.IsVoid(name) {
		return card.Void, 0, true
	}
	if n, err := strconv.Atoi(name); err == nil {
		if n < 0 {
			a.errorf(path, "material number %d is negative", n)
			return 0, 0, false
		}
		return n, 0, true
	}
	m, ok := a.lookup(path, name)
	if !ok {
		return 0, 0, false
	}
	if !a.matSeen[name] {
		a.matSeen[name] = true
		a.deck.Materials = append(a.deck.Materials, MaterialCard{
			Name: name,
			Card: a.materialCard(m, m.Number, name),
		})
	}
	return m.Number, -m.Density, true
}

func (a *assembler) lookup(path, name string) (material.Material, bool) {
	m, err := a.lib.Lookup(name)
	if err != nil {
		a.report.AddError(validation.Result{
			Level:       validation.LevelModel,
			Message:     err.Error(),
			SpecPath:    path,
			ActualValue: name,
			Suggestions: []string{
				"Add the material to the library or fix the name",
				"Library materials: " + strings.Join(a.lib.Names(), "; "),
			},
		})
		return material.Material{}, false
	}
	return m, true
}

func (a *assembler) materialCard(m material.Material, number int, comment string) card.Material {
	fr := m.Fractions(a.omit...)
	nuclides := make([]card.Nuclide, len(fr))
	for i, f := range fr {
		nuclides[i] = card.Nuclide{ZAID: int(f.Nuc), Fraction: f.Fraction}
	}
	return card.Material{
		Number:   number,
		Comment:  comment,
		Nuclides: nuclides,
		Atom:     m.Atom,
		Library:  a.s.XSLibrary,
		Thermal:  m.Thermal,
	}
}

func (a *assembler) assembleLattice(core lattice.CoreMap) {
	def := a.s.Lattice
	fill, err := lattice.Normalize(core, def.Filler, strconv.Itoa(def.FillerUniverse))
	if err != nil {
		a.errorf("core_map", "%v", err)
		return
	}

	shape, err := geo.ParseShape(def.Type)
	if err != nil {
		a.errorf("lattice.type", "%v", err)
		return
	}
	latType := card.Square
	if shape == geo.Hexagonal {
		latType = card.Hexagonal
	}

	universe := def.Universe
	l := &Lattice{
		Cell: card.Cell{
			Number:     def.Cell,
			Comment:    def.Comment,
			Region:     def.Region.Expr,
			Universe:   &universe,
			Lattice:    latType,
			Fill:       &card.Fill{Array: fill},
			Importance: 1,
		},
		Fill:  fill,
		Shape: def.Type,
	}
	l.Pitch, _ = a.eval("lattice.pitch", def.Pitch)
	l.BoundRadius, _ = a.eval("lattice.bound_radius", def.BoundRadius)
	l.Height, _ = a.eval("lattice.height", def.Height)

	a.checkLabels(core)
	for _, pos := range fill.Assemblies {
		asm, ok := a.buildAssembly(pos, shape, l)
		if ok {
			l.Assemblies = append(l.Assemblies, asm)
		}
	}

	a.log.Debug("lattice assembled",
		zap.Int("x_extent", fill.XExtent),
		zap.Int("y_extent", fill.YExtent),
		zap.Int("assemblies", len(l.Assemblies)),
	)
	a.deck.Lattice = l
}

// checkLabels reports core map labels without an assembly type once each,
// and warns about assembly types the core map never places.
func (a *assembler) checkLabels(core lattice.CoreMap) {
	def := a.s.Lattice
	placed := make(map[string]bool)
	for _, label := range core.Labels() {
		if label == def.Filler {
			continue
		}
		placed[label] = true
		if _, ok := def.Assemblies[label]; ok {
			continue
		}
		a.report.AddError(validation.Result{
			Level:       validation.LevelModel,
			Message:     fmt.Sprintf("core map label %q has no assembly type", label),
			SpecPath:    "lattice.assemblies",
			ActualValue: label,
			Suggestions: []string{fmt.Sprintf("Add %s under lattice.assemblies", label)},
		})
	}

	types := make([]string, 0, len(def.Assemblies))
	for label := range def.Assemblies {
		types = append(types, label)
	}
	sort.Strings(types)
	for _, label := range types {
		if !placed[label] {
			a.report.AddWarning(validation.Result{
				Level:    validation.LevelModel,
				Message:  fmt.Sprintf("assembly type %s is not placed in the core map", label),
				SpecPath: "lattice.assemblies." + label,
			})
		}
	}
}

func (a *assembler) buildAssembly(pos lattice.Assembly, shape geo.Shape, l *Lattice) (Assembly, bool) {
	path := "lattice.assemblies." + pos.Label
	def, ok := a.s.Lattice.Assemblies[pos.Label]
	if !ok {
		return Assembly{}, false
	}
	m, ok := a.lookup(path+".material", def.Material)
	if !ok {
		return Assembly{}, false
	}

	u := pos.Universe
	like := card.LikeBut{
		Number:     u,
		Base:       def.BaseCell,
		Comment:    assemblyComment(def, pos),
		Universe:   &u,
		Material:   &u,
		Importance: 1,
	}
	center := geo.Center(shape, l.Pitch, pos.I, pos.J)
	if v, ok := a.eval(path+".volume", def.Volume); ok {
		like.Volume = &v
	} else if def.Volume == "" && l.Height > 0 {
		v := geo.Element(shape, l.Pitch, center).Area() * l.Height
		like.Volume = &v
	}

	a.deck.Fuels = append(a.deck.Fuels, MaterialCard{
		Name: def.Material,
		Card: a.materialCard(m, u, like.Comment),
	})

	return Assembly{
		Assembly: pos,
		Cell:     like,
		Material: def.Material,
		Center:   center,
		Reach:    geo.Reach(shape, l.Pitch, pos.I, pos.J),
	}, true
}

func assemblyComment(def spec.AssemblyDef, pos lattice.Assembly) string {
	name := def.Comment
	if name == "" {
		name = pos.Label
	}
	return fmt.Sprintf("%s_%d_%d", name, pos.I, pos.J)
}

func (a *assembler) assembleBurn() {
	def := a.s.Data.Burn
	b := card.DefaultBurn()
	for _, kv := range []struct {
		dst *string
		src string
	}{
		{&b.Time, def.Time}, {&b.Power, def.Power}, {&b.PFrac, def.PFrac}, {&b.Bopt, def.Bopt},
	} {
		if kv.src != "" {
			*kv.dst = kv.src
		}
	}
	if a.deck.Lattice != nil {
		b.Materials = a.deck.Lattice.Fill.Universes()
	}
	b.Omit = nuc.Ints(omitList(def.Omit, nuc.BurnOmit))
	a.deck.Burn = &b
}
