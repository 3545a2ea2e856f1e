package card

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ChicagoDave/scwdeck/pkg/surface"
)

// SurfaceLines renders one surface card: id, mnemonic, parameters.
func SurfaceLines(s surface.Surface, f Format) ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	tokens := make([]string, 0, len(s.Params)+2)
	tokens = append(tokens, strconv.Itoa(s.ID), string(s.Kind))
	for _, p := range s.Params {
		tokens = append(tokens, Number(p))
	}
	lines, err := f.Wrap(strings.Join(tokens, " "), " ", s.Comment)
	if err != nil {
		return nil, fmt.Errorf("surface %d: %w", s.ID, err)
	}
	return lines, nil
}
