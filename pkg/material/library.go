package material

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/scwdeck/pkg/nuc"
)

// VoidName is the reserved name of the empty material.
const VoidName = "void"

var (
	// ErrUnknownMaterial indicates a lookup of a name the library does not hold.
	ErrUnknownMaterial = errors.New("material: unknown material")
	// ErrUnknownFormat indicates a library file with an unsupported extension.
	ErrUnknownFormat = errors.New("material: unknown library format")
)

var validate = validator.New()

// Material is one library entry. Composition keys are ZAIDs; fractions are
// by mass unless Atom is set. Density is in g/cc.
type Material struct {
	Name        string             `yaml:"name" json:"name" toml:"name" validate:"required"`
	Number      int                `yaml:"number" json:"number" toml:"number" validate:"gt=0"`
	Density     float64            `yaml:"density" json:"density" toml:"density" validate:"gt=0"`
	Thermal     string             `yaml:"thermal,omitempty" json:"thermal,omitempty" toml:"thermal"`
	Atom        bool               `yaml:"atom_fractions,omitempty" json:"atom_fractions,omitempty" toml:"atom_fractions"`
	Composition map[string]float64 `yaml:"composition" json:"composition" toml:"composition" validate:"min=1,dive,gte=0"`

	fractions map[nuc.Nuc]float64
}

// Fraction is one normalized nuclide fraction.
type Fraction struct {
	Nuc      nuc.Nuc
	Fraction float64
}

// Fractions returns the normalized composition sorted by ZAID, without the
// omitted nuclides. The remaining fractions are renormalized to sum to 1.
func (m Material) Fractions(omit ...nuc.Nuc) []Fraction {
	skip := make(map[nuc.Nuc]bool, len(omit))
	for _, n := range omit {
		skip[n] = true
	}
	var out []Fraction
	for n, f := range m.fractions {
		if !skip[n] && f > 0 {
			out = append(out, Fraction{Nuc: n, Fraction: f})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nuc < out[j].Nuc })

	vals := make([]float64, len(out))
	for i, f := range out {
		vals[i] = f.Fraction
	}
	if sum := floats.Sum(vals); sum > 0 {
		floats.Scale(1/sum, vals)
	}
	for i := range out {
		out[i].Fraction = vals[i]
	}
	return out
}

// Source resolves material names.
type Source interface {
	Lookup(name string) (Material, error)
	Names() []string
}

// Library is an immutable set of materials keyed by name.
type Library struct {
	byName map[string]Material
	names  []string
}

type libraryFile struct {
	Materials []Material `yaml:"materials" json:"materials" toml:"materials"`
}

// New validates mats and builds a library. Names and numbers must be unique.
func New(mats ...Material) (*Library, error) {
	l := &Library{byName: make(map[string]Material, len(mats))}
	numbers := make(map[int]string, len(mats))
	var errs []error

	for i, m := range mats {
		if err := validate.Struct(m); err != nil {
			errs = append(errs, fmt.Errorf("materials[%d] %q: %w", i, m.Name, err))
			continue
		}
		if strings.EqualFold(m.Name, VoidName) {
			errs = append(errs, fmt.Errorf("materials[%d]: %q is reserved", i, m.Name))
			continue
		}
		if _, dup := l.byName[m.Name]; dup {
			errs = append(errs, fmt.Errorf("materials[%d]: duplicate name %q", i, m.Name))
			continue
		}
		if prev, dup := numbers[m.Number]; dup {
			errs = append(errs, fmt.Errorf("materials[%d] %q: number %d already used by %q", i, m.Name, m.Number, prev))
			continue
		}
		fr, err := parseComposition(m.Composition)
		if err != nil {
			errs = append(errs, fmt.Errorf("materials[%d] %q: %w", i, m.Name, err))
			continue
		}
		m.fractions = fr
		numbers[m.Number] = m.Name
		l.byName[m.Name] = m
		l.names = append(l.names, m.Name)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return l, nil
}

func parseComposition(c map[string]float64) (map[nuc.Nuc]float64, error) {
	out := make(map[nuc.Nuc]float64, len(c))
	total := 0.0
	for k, v := range c {
		n, err := nuc.Parse(k)
		if err != nil {
			return nil, err
		}
		out[n] += v
		total += v
	}
	if total <= 0 {
		return nil, fmt.Errorf("composition sums to %g", total)
	}
	return out, nil
}

// Lookup returns the named material.
func (l *Library) Lookup(name string) (Material, error) {
	m, ok := l.byName[name]
	if !ok {
		return Material{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// Names returns material names in library order.
func (l *Library) Names() []string {
	return append([]string(nil), l.names...)
}

// Len returns the number of materials.
func (l *Library) Len() int {
	return len(l.names)
}

// Parse decodes a library in the given format: "yaml", "json" or "toml".
func Parse(data []byte, format string) (*Library, error) {
	var f libraryFile
	var err error
	switch format {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &f)
	case "json":
		err = json.Unmarshal(data, &f)
	case "toml":
		err = toml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing material library: %w", err)
	}
	return New(f.Materials...)
}

// Load reads a library file; the format follows the extension.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading material library: %w", err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	l, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}
