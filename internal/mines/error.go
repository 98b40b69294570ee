package mines

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimensions = errors.New("invalid board dimensions")
	ErrOutOfBounds       = errors.New("cell is out of bounds")
	ErrNoSafeCell        = errors.New("mine layout leaves no safe cell")
)

type OutOfBoundsError struct {
	Point
	Rows, Cols int
}

// [*OutOfBoundsError] implements [error]
func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf(
		"cell %d:%d is out of bounds of a %dx%d board",
		e.Row, e.Col, e.Rows, e.Cols,
	)
}

func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// MaxCells bounds rows*cols so that boards fit in memory and the product
// cannot overflow.
const MaxCells = 1 << 24

func checkDimensions(rows, cols int) error {
	if rows < 1 || cols < 1 || rows > MaxCells/cols {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}
	return nil
}
