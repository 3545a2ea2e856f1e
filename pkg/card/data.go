package card

import (
	"fmt"
	"strconv"
	"strings"
)

// dataIndent starts burn-card continuation entries; MCNP needs at least five
// leading blanks there.
const dataIndent = "     "

// Mode renders the mode card and the print card that follows it.
func Mode(particles []string) []string {
	if len(particles) == 0 {
		particles = []string{"n"}
	}
	return []string{"mode " + strings.Join(particles, " "), "print"}
}

// KCode renders the criticality source cards.
func KCode(kcode, ksrc string, f Format) ([]string, error) {
	var lines []string
	for _, c := range []struct{ name, value string }{{"kcode", kcode}, {"ksrc", ksrc}} {
		if c.value == "" {
			continue
		}
		l, err := f.Wrap(c.name+" "+c.value, " ", "")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		lines = append(lines, l...)
	}
	return lines, nil
}

// Burn is the depletion card.
type Burn struct {
	Time      string
	Power     string
	PFrac     string
	Bopt      string
	Materials []int
	Omit      []int
}

// DefaultBurn returns the ten-step, 1341 MW depletion schedule.
func DefaultBurn() Burn {
	return Burn{
		Time:  "54.75 9R",
		Power: "1341",
		PFrac: "1 9R",
		Bopt:  "1 14 -1",
	}
}

// Lines renders the burn card: keyword entries, the mat= list and the omit=
// list applied to every burned material.
func (b Burn) Lines(f Format) ([]string, error) {
	if len(b.Materials) == 0 {
		return nil, fmt.Errorf("burn: no materials to burn")
	}
	head := []string{"burn"}
	for _, kv := range []struct{ k, v string }{
		{"time", b.Time}, {"power", b.Power}, {"pfrac", b.PFrac}, {"bopt", b.Bopt},
	} {
		if kv.v != "" {
			head = append(head, kv.k+"="+kv.v)
		}
	}
	lines, err := f.Wrap(strings.Join(head, " "), " ", "")
	if err != nil {
		return nil, fmt.Errorf("burn: %w", err)
	}

	mat := dataIndent + "mat=" + joinInts(b.Materials)
	matLines, err := f.Wrap(mat, " ", "burn_mat")
	if err != nil {
		return nil, fmt.Errorf("burn mat: %w", err)
	}
	lines = append(lines, matLines...)

	if len(b.Omit) > 0 {
		omit := dataIndent + "omit=-1 " + strconv.Itoa(len(b.Omit)) + " " + joinInts(b.Omit)
		omitLines, err := f.Wrap(omit, " ", "burn_omit")
		if err != nil {
			return nil, fmt.Errorf("burn omit: %w", err)
		}
		lines = append(lines, omitLines...)
	}
	return lines, nil
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, " ")
}
