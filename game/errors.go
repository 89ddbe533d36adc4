package game

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reason tags why a move was rejected.
type Reason uint8

const (
	BadColour Reason = iota
	OffBoard
	Occupied
	KoLocked
	FriendlyEye
	SelfCapture
)

func (r Reason) String() string {
	switch r {
	case BadColour:
		return "Unrecognized colour"
	case OffBoard:
		return "Point is off the board"
	case Occupied:
		return "Point is occupied"
	case KoLocked:
		return "Ko locked point"
	case FriendlyEye:
		return "Playing in a friendly eye"
	case SelfCapture:
		return "Playing self capture"
	}
	return "UNKNOWN REASON"
}

// IllegalMoveError is returned when a move breaks the rules. It is routine control flow for random
// playouts and tree search, which catch it and try something else.
type IllegalMoveError struct {
	Move   Move
	Reason Reason
}

func (err IllegalMoveError) Error() string {
	return fmt.Sprintf("Unable to make %v: %v", err.Move, err.Reason)
}

// IsIllegal returns true if err is (or wraps) an IllegalMoveError.
func IsIllegal(err error) bool {
	var ime IllegalMoveError
	return errors.As(err, &ime)
}

// ReasonOf returns the reason tag of a wrapped IllegalMoveError.
func ReasonOf(err error) (Reason, bool) {
	var ime IllegalMoveError
	if errors.As(err, &ime) {
		return ime.Reason, true
	}
	return 0, false
}
