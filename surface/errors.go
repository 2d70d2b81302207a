package surface

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig  = errors.New("invalid control config")
	ErrDuplicateKey   = errors.New("duplicate control key")
	ErrMissingTarget  = errors.New("random target is not a registered radio control")
	ErrCellOutOfRange = errors.New("cell out of range")
	ErrUnknownControl = errors.New("unknown control")
)

// DuplicateCellError reports a cell already claimed by another control
// (or listed twice by the same one).
type DuplicateCellError struct {
	Cell  Cell
	Owner string
	Key   string
}

func (e *DuplicateCellError) Error() string {
	return fmt.Sprintf("cell %s of control %q already belongs to %q", e.Cell, e.Key, e.Owner)
}
