package 围碁

import (
	"fmt"

	"github.com/gorgonia/familiar/game"
)

// BoardError is a violated invariant of the group board. It is never caused by a rule violation.
type BoardError struct {
	Point game.Point
	msg   string
}

func (err BoardError) Error() string { return fmt.Sprintf("Board error at %d: %s", err.Point, err.msg) }

// ReplayError is returned when a stored game cannot be replayed.
type ReplayError struct {
	Index int
	Move  game.Move
	Err   error
}

func (err ReplayError) Error() string {
	return fmt.Sprintf("Unable to replay move %d (%v): %v", err.Index, err.Move, err.Err)
}

func (err ReplayError) Unwrap() error { return err.Err }
