package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the model file name inside a project directory.
const ProjectFile = "reactor.yaml"

// Load reads a reactor spec from a YAML file. Relative paths in the spec
// resolve against the file's directory.
func Load(path string) (*ReactorSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	s.Dir = filepath.Dir(path)
	return s, nil
}

// Parse decodes a reactor spec from YAML.
func Parse(data []byte) (*ReactorSpec, error) {
	var s ReactorSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing spec YAML: %w", err)
	}
	return &s, nil
}

// LoadProject loads a reactor spec from a project directory.
// It looks for reactor.yaml in the given directory.
func LoadProject(projectDir string) (*ReactorSpec, error) {
	specPath := filepath.Join(projectDir, ProjectFile)
	return Load(specPath)
}

// Path resolves p against the project directory.
func (s *ReactorSpec) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Dir, p)
}

// OutputPath returns where the deck is written: Output if set, otherwise
// the project name with an ".i" suffix.
func (s *ReactorSpec) OutputPath() string {
	if s.Output != "" {
		return s.Path(s.Output)
	}
	name := filepath.Base(s.Dir)
	if name == "." || name == string(filepath.Separator) {
		name = "deck"
	}
	return filepath.Join(s.Dir, name+".i")
}

// Files lists the project files a deck depends on.
func (s *ReactorSpec) Files() []string {
	files := []string{filepath.Join(s.Dir, ProjectFile)}
	for _, p := range []string{s.Materials, s.CoreMap} {
		if p != "" {
			files = append(files, s.Path(p))
		}
	}
	return files
}
