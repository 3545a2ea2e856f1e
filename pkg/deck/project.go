package deck

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ChicagoDave/scwdeck/pkg/dimensions"
	"github.com/ChicagoDave/scwdeck/pkg/lattice"
	"github.com/ChicagoDave/scwdeck/pkg/material"
	"github.com/ChicagoDave/scwdeck/pkg/spec"
	"github.com/ChicagoDave/scwdeck/pkg/validation"
)

// Build is a project run through every stage. Deck is nil when a stage
// before assembly failed.
type Build struct {
	Spec       *spec.ReactorSpec
	Dimensions *dimensions.Dimensions
	Deck       *Deck
	Report     *validation.Report
}

// BuildProject loads the project in dir and runs schema validation,
// dimension resolution, material and core-map loading, assembly and deck
// validation. Each stage runs only if the ones before it left the report
// valid. The error is reserved for a spec that cannot be read at all.
func BuildProject(dir string, log *zap.Logger) (*Build, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s, err := spec.LoadProject(dir)
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}
	return BuildSpec(s, log), nil
}

// BuildSpec runs the stages of BuildProject on an already loaded spec.
func BuildSpec(s *spec.ReactorSpec, log *zap.Logger) *Build {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Build{Spec: s, Report: validation.ValidateSchema(s)}
	log.Debug("schema validated", zap.String("summary", b.Report.Summary))
	if !b.Report.Valid {
		return b
	}

	dims, dimReport := dimensions.Resolve(s)
	b.Report.Merge(dimReport)
	if !b.Report.Valid {
		return b
	}
	b.Dimensions = dims

	lib, err := material.Load(s.Path(s.Materials))
	if err != nil {
		b.Report.AddError(validation.Result{
			Level:       validation.LevelModel,
			Message:     err.Error(),
			SpecPath:    "materials",
			ActualValue: s.Materials,
		})
		return b
	}
	log.Debug("material library loaded", zap.String("path", s.Materials), zap.Int("materials", lib.Len()))

	var core lattice.CoreMap
	if s.Lattice != nil {
		core, err = lattice.LoadCoreMap(s.Path(s.CoreMap))
		if err != nil {
			b.Report.AddError(validation.Result{
				Level:       validation.LevelModel,
				Message:     err.Error(),
				SpecPath:    "core_map",
				ActualValue: s.CoreMap,
			})
			return b
		}
	}

	d, asmReport := Assemble(s, dims, lib, core, log)
	b.Report.Merge(asmReport)
	b.Deck = d
	if !b.Report.Valid {
		return b
	}

	b.Report.Merge(ValidateDeck(d))
	log.Debug("deck validated", zap.String("summary", b.Report.Summary))
	return b
}
