package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ChicagoDave/scwdeck/pkg/nuc"
	"github.com/ChicagoDave/scwdeck/pkg/spec"
	"github.com/ChicagoDave/scwdeck/pkg/surface"
)

// VoidMaterial is the material name of an empty cell.
const VoidMaterial = "void"

// MinIndent is the narrowest continuation indent MCNP reads as a
// continuation rather than a new card.
const MinIndent = 5

// IsVoid reports whether a cell material names the void, either by name or
// as material number 0.
func IsVoid(material string) bool {
	if strings.EqualFold(material, VoidMaterial) {
		return true
	}
	n, err := strconv.Atoi(material)
	return err == nil && n == 0
}

var schemaValidate *validator.Validate

func init() {
	schemaValidate = validator.New()
	schemaValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateSchema performs Level 1 (schema) validation on a parsed ReactorSpec.
// It checks structural correctness before any dimension is evaluated or any
// file is read.
func ValidateSchema(s *spec.ReactorSpec) *Report {
	r := NewReport()

	validateTags(s, r)
	validateFormat(s, r)
	validateNuclides(s, r)
	validateRegions(s, r)
	validateLattice(s, r)
	validateData(s, r)

	return r
}

func validateTags(s *spec.ReactorSpec, r *Report) {
	err := schemaValidate.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		r.AddError(Result{Level: LevelSchema, Message: err.Error()})
		return
	}
	for _, fe := range fieldErrs {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s %s", fe.Field(), describeTag(fe)),
			SpecPath:    specPath(fe.Namespace()),
			ActualValue: fe.Value(),
			Expected:    strings.TrimSpace(fe.Tag() + " " + fe.Param()),
		})
	}
}

// specPath drops the root struct name from a validator namespace.
func specPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func validateFormat(s *spec.ReactorSpec, r *Report) {
	f := s.Format.WithDefaults()
	if f.Width < 0 || f.Indent < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "format width and indent must not be negative",
			SpecPath:    "format",
			ActualValue: s.Format,
		})
		return
	}
	if f.Indent < MinIndent {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("continuation indent %d would start a new card", f.Indent),
			SpecPath:    "format.indent",
			ActualValue: f.Indent,
			Expected:    fmt.Sprintf(">= %d", MinIndent),
		})
	}
	if f.Indent >= f.Width/2 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("continuation indent %d leaves too little of the %d-column line", f.Indent, f.Width),
			SpecPath:    "format.indent",
			ActualValue: f.Indent,
			Expected:    fmt.Sprintf("< %d", f.Width/2),
		})
	}
}

// validateNuclides checks ZAID lists. Depletion tracks isotopes, so a
// natural element in the burn omit list only draws a warning.
func validateNuclides(s *spec.ReactorSpec, r *Report) {
	check := func(path string, zaids []string, isotopes bool) {
		for i, z := range zaids {
			n, err := nuc.Parse(z)
			if err != nil {
				r.AddError(Result{
					Level:       LevelSchema,
					Message:     err.Error(),
					SpecPath:    fmt.Sprintf("%s[%d]", path, i),
					ActualValue: z,
					Expected:    "ZZZAAA",
				})
				continue
			}
			if isotopes && n.Natural() {
				r.AddWarning(Result{
					Level:       LevelSchema,
					Message:     fmt.Sprintf("%s names a natural element; burn omits isotopes", z),
					SpecPath:    fmt.Sprintf("%s[%d]", path, i),
					ActualValue: z,
					Suggestions: []string{"List the element's isotopes instead"},
				})
			}
		}
	}
	check("omit_nuclides", s.OmitNuclides, false)
	if s.Data.Burn != nil {
		check("data.burn.omit", s.Data.Burn.Omit, true)
	}
}

func validateRegions(s *spec.ReactorSpec, r *Report) {
	names := make(map[string]int)
	for i, reg := range s.Regions {
		if prev, dup := names[reg.Name]; dup && reg.Name != "" {
			r.AddWarning(Result{
				Level:        LevelSchema,
				Message:      fmt.Sprintf("region name %q is used twice", reg.Name),
				SpecPath:     fmt.Sprintf("regions[%d].name", i),
				ConflictWith: fmt.Sprintf("regions[%d]", prev),
			})
		}
		names[reg.Name] = i

		if len(reg.Cells) == 0 && len(reg.Surfaces) == 0 {
			r.AddWarning(Result{
				Level:    LevelSchema,
				Message:  fmt.Sprintf("region %q has no cells or surfaces", reg.Name),
				SpecPath: fmt.Sprintf("regions[%d]", i),
			})
		}

		for j, c := range reg.Cells {
			path := fmt.Sprintf("regions[%d].cells[%d]", i, j)
			validateCellDef(c, path, r)
		}
		for j, sd := range reg.Surfaces {
			path := fmt.Sprintf("regions[%d].surfaces[%d]", i, j)
			validateSurfaceDef(sd, path, r)
		}
	}
}

func validateCellDef(c spec.CellDef, path string, r *Report) {
	if c.Surfaces.Expr == nil {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  fmt.Sprintf("cell %d has no surfaces", c.Number),
			SpecPath: path + ".surfaces",
		})
	} else if err := surface.Validate(c.Surfaces.Expr, nil); err != nil {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  fmt.Sprintf("cell %d: %v", c.Number, err),
			SpecPath: path + ".surfaces",
		})
	}

	if IsVoid(c.Material) {
		if c.Density != nil {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("void cell %d must not have a density", c.Number),
				SpecPath:    path + ".density",
				ActualValue: *c.Density,
				Suggestions: []string{"Remove the density or give the cell a material"},
			})
		}
	} else if c.Density != nil && *c.Density == 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("cell %d density must not be zero", c.Number),
			SpecPath:    path + ".density",
			ActualValue: 0,
			Expected:    "< 0 (g/cc) or > 0 (atoms/b-cm)",
		})
	}

	if c.Fill != nil && c.Universe != nil && *c.Fill == *c.Universe {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("cell %d fills its own universe %d", c.Number, *c.Fill),
			SpecPath:    path + ".fill",
			ActualValue: *c.Fill,
		})
	}
}

func validateSurfaceDef(sd spec.SurfaceDef, path string, r *Report) {
	kind, err := surface.ParseKind(sd.Type)
	if err != nil {
		if sd.Type != "" {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("surface %d: %v", sd.Number, err),
				SpecPath:    path + ".type",
				ActualValue: sd.Type,
			})
		}
		return
	}
	counts := kind.ParamCounts()
	for _, n := range counts {
		if n == len(sd.Params) {
			return
		}
	}
	r.AddError(Result{
		Level:       LevelSchema,
		Message:     fmt.Sprintf("surface %d (%s) takes %v parameters, got %d", sd.Number, kind, counts, len(sd.Params)),
		SpecPath:    path + ".params",
		ActualValue: len(sd.Params),
		Expected:    fmt.Sprint(counts),
	})
}

func validateLattice(s *spec.ReactorSpec, r *Report) {
	l := s.Lattice
	if l == nil {
		if s.CoreMap != "" {
			r.AddWarning(Result{
				Level:    LevelSchema,
				Message:  "core_map is set but there is no lattice to fill",
				SpecPath: "core_map",
			})
		}
		return
	}
	if s.CoreMap == "" {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "lattice needs a core_map",
			SpecPath: "core_map",
		})
	}
	if l.Region.Expr == nil {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "lattice element needs a region",
			SpecPath: "lattice.region",
		})
	}
	if l.Pitch == "" {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "lattice pitch is required",
			SpecPath: "lattice.pitch",
		})
	}
	if len(l.Assemblies) == 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "lattice defines no assembly types",
			SpecPath:    "lattice.assemblies",
			Suggestions: []string{"Map every core map label to a base cell and material"},
		})
	}
	if _, ok := l.Assemblies[l.Filler]; ok {
		r.AddError(Result{
			Level:        LevelSchema,
			Message:      fmt.Sprintf("filler label %q is also an assembly type", l.Filler),
			SpecPath:     "lattice.assemblies." + l.Filler,
			ConflictWith: "lattice.filler",
		})
	}
	if l.FillerUniverse == l.Universe && l.Universe != 0 {
		r.AddError(Result{
			Level:        LevelSchema,
			Message:      "the filler universe cannot be the lattice universe",
			SpecPath:     "lattice.filler_universe",
			ConflictWith: "lattice.universe",
			ActualValue:  l.FillerUniverse,
		})
	}
}

func validateData(s *spec.ReactorSpec, r *Report) {
	if s.Data.Burn != nil && s.Lattice == nil {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "burn card needs lattice assemblies to burn",
			SpecPath:    "data.burn",
			Suggestions: []string{"Add a lattice or remove data.burn"},
		})
	}
	if (s.Data.KCode == "") != (s.Data.KSrc == "") {
		r.AddWarning(Result{
			Level:    LevelSchema,
			Message:  "kcode and ksrc are normally given together",
			SpecPath: "data",
		})
	}
}
