// Package dimensions builds the immutable table of named lengths a reactor
// model is written in. Derived entries are expressions over base values, pin
// constants and other derived entries, evaluated in dependency order.
package dimensions

import (
	"errors"
	"fmt"
	"go/token"
	"sort"

	"github.com/ChicagoDave/scwdeck/pkg/spec"
	"github.com/ChicagoDave/scwdeck/pkg/validation"
)

// Dimensions is a resolved dimension table. It is safe for concurrent reads.
type Dimensions struct {
	values map[string]float64
	order  []string
}

// Get returns the value of name. Pin constants are named "group.key".
func (d *Dimensions) Get(name string) (float64, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Names returns all dimension names in sorted order.
func (d *Dimensions) Names() []string {
	names := make([]string, 0, len(d.values))
	for n := range d.values {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Order returns the derived dimensions in evaluation order.
func (d *Dimensions) Order() []string {
	return append([]string(nil), d.order...)
}

// Values returns a copy of the table.
func (d *Dimensions) Values() map[string]float64 {
	out := make(map[string]float64, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}

// Eval evaluates an expression against the table.
func (d *Dimensions) Eval(src string) (float64, error) {
	e, err := parse(src)
	if err != nil {
		return 0, err
	}
	v, err := e.eval(d.Get)
	var unknown *UnknownDimensionError
	if errors.As(err, &unknown) {
		unknown.In = src
	}
	return v, err
}

// New builds a dimension table. pins are flattened into "group.key" names.
func New(base map[string]float64, pins map[string]map[string]float64, derived map[string]string) (*Dimensions, error) {
	d := &Dimensions{values: make(map[string]float64, len(base)+len(derived))}

	for name, v := range base {
		if err := checkName(name); err != nil {
			return nil, err
		}
		if !finite(v) {
			return nil, fmt.Errorf("%w: %s = %v", ErrNotFinite, name, v)
		}
		d.values[name] = v
	}
	for group, keys := range pins {
		if err := checkName(group); err != nil {
			return nil, err
		}
		for key, v := range keys {
			if !token.IsIdentifier(key) {
				return nil, fmt.Errorf("%w: pin key %s.%s is not an identifier", ErrSyntax, group, key)
			}
			if !finite(v) {
				return nil, fmt.Errorf("%w: %s.%s = %v", ErrNotFinite, group, key, v)
			}
			d.values[group+"."+key] = v
		}
	}

	exprs := make(map[string]*expr, len(derived))
	for name, src := range derived {
		if err := checkName(name); err != nil {
			return nil, err
		}
		if _, dup := d.values[name]; dup {
			return nil, fmt.Errorf("dimensions: %s is both a base and a derived dimension", name)
		}
		e, err := parse(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		exprs[name] = e
	}

	order, err := topoSort(exprs, d.values)
	if err != nil {
		return nil, err
	}
	for _, name := range order {
		v, err := exprs[name].eval(d.Get)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		d.values[name] = v
	}
	d.order = order
	return d, nil
}

func checkName(name string) error {
	if !token.IsIdentifier(name) {
		return fmt.Errorf("%w: %q is not an identifier", ErrSyntax, name)
	}
	if reserved(name) {
		return fmt.Errorf("%w: %s", ErrReservedName, name)
	}
	return nil
}

// topoSort orders derived dimensions so each comes after everything it
// references (Kahn's algorithm, ties broken by name).
func topoSort(exprs map[string]*expr, known map[string]float64) ([]string, error) {
	indegree := make(map[string]int, len(exprs))
	dependents := make(map[string][]string)

	names := make([]string, 0, len(exprs))
	for name := range exprs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, ref := range exprs[name].refs {
			if _, ok := exprs[ref]; ok {
				indegree[name]++
				dependents[ref] = append(dependents[ref], name)
				continue
			}
			if _, ok := known[ref]; !ok {
				return nil, &UnknownDimensionError{Name: ref, In: name}
			}
		}
	}

	var queue []string
	for _, name := range names {
		if indegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	order := make([]string, 0, len(exprs))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)

		next := dependents[name]
		sort.Strings(next)
		for _, dep := range next {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) < len(exprs) {
		var cycle []string
		for _, name := range names {
			if indegree[name] > 0 {
				cycle = append(cycle, name)
			}
		}
		return nil, &CycleError{Names: cycle}
	}
	return order, nil
}

// Resolve builds the dimension table of a spec. Failures are reported as
// model-level errors; the table is nil when the report is invalid.
func Resolve(s *spec.ReactorSpec) (*Dimensions, *validation.Report) {
	report := validation.NewReport()

	derived := make(map[string]string, len(s.Dimensions.Derived))
	for name, e := range s.Dimensions.Derived {
		derived[name] = string(e)
	}

	d, err := New(s.Dimensions.Base, s.Pins, derived)
	if err != nil {
		report.AddError(dimensionResult(err))
		return nil, report
	}

	report.AddInfo(validation.Result{
		Level:       validation.LevelModel,
		Message:     fmt.Sprintf("resolved %d dimensions (%d derived)", len(d.values), len(d.order)),
		SpecPath:    "dimensions",
		ActualValue: len(d.values),
	})
	return d, report
}

func dimensionResult(err error) validation.Result {
	res := validation.Result{
		Level:    validation.LevelModel,
		Message:  err.Error(),
		SpecPath: "dimensions",
	}
	var unknown *UnknownDimensionError
	var cycle *CycleError
	switch {
	case errors.As(err, &unknown):
		if unknown.In != "" {
			res.SpecPath = "dimensions.derived." + unknown.In
		}
		res.ActualValue = unknown.Name
		res.Suggestions = []string{
			fmt.Sprintf("Define %s under dimensions.base or dimensions.derived", unknown.Name),
			"Pin constants are referenced as group.key",
		}
	case errors.As(err, &cycle):
		res.SpecPath = "dimensions.derived"
		res.ActualValue = cycle.Names
		res.Suggestions = []string{"Express one of the cycle members in terms of base dimensions"}
	case errors.Is(err, ErrNotFinite):
		res.Suggestions = []string{"Check for square roots of negative values and divisors close to zero"}
	}
	return res
}
