package lattice

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMap indicates a core map with no rows.
	ErrEmptyMap = errors.New("lattice: core map has no rows")
	// ErrEvenRowCount indicates a row count that cannot be centred on the
	// y index range -y..y.
	ErrEvenRowCount = errors.New("lattice: core map needs an odd number of rows")
	// ErrRowTooLong indicates a row whose column index would spill into the
	// next row's universe numbers.
	ErrRowTooLong = errors.New("lattice: row longer than 999 positions")
	// ErrFillerCollision indicates a filler token equal to a synthesized universe id.
	ErrFillerCollision = errors.New("lattice: filler token collides with an assembly universe")
	// ErrEmptyFiller indicates a missing filler token.
	ErrEmptyFiller = errors.New("lattice: filler token is empty")
)

// EmptyRowError reports a row with no labels.
type EmptyRowError struct {
	Row int
}

func (e *EmptyRowError) Error() string {
	return fmt.Sprintf("lattice: row %d is empty", e.Row)
}
