package game

import (
	"fmt"
	"math/rand"
)

// Colour is the tri-state value of a point. Black and White are signed so that sums of colours
// read as a score from Black's point of view.
type Colour int8

const (
	White Colour = -1
	None  Colour = 0
	Black Colour = 1
)

// Opponent returns the other player's colour. None has no opponent.
func (cl Colour) Opponent() Colour { return -cl }

// IsPlayer returns true for Black and White.
func (cl Colour) IsPlayer() bool { return cl == Black || cl == White }

func (cl Colour) String() string { return fmt.Sprintf("%v", cl) }

func (cl Colour) Format(s fmt.State, c rune) {
	switch c {
	case 'v': // used in debug
		switch cl {
		case None:
			fmt.Fprint(s, "None")
		case Black:
			fmt.Fprint(s, "Black")
		case White:
			fmt.Fprint(s, "White")
		default:
			fmt.Fprintf(s, "Colour(%d)", int8(cl))
		}
	case 's': // used in board games
		switch cl {
		case None:
			fmt.Fprint(s, "·")
		case Black:
			fmt.Fprint(s, "X")
		case White:
			fmt.Fprint(s, "O")
		default:
			fmt.Fprint(s, "?")
		}
	}
}

// Point represents a board location as a single number, utilized in a rowmajor fashion.
//		- 0 represents the top left
//		- 8 represents the top right of a 9x9 board
//		- 9 represents (1, 0)
// 		- -1 represents the "pass" move
//		- -2 represents the "resignation" move
type Point int32

const (
	Pass   Point = -1
	Resign Point = -2
)

// IsResignation returns true when the point represents a "resignation" move
func (p Point) IsResignation() bool { return p == Resign }

// IsPass returns true when the point represents a "pass" move
func (p Point) IsPass() bool { return p == Pass }

// Move is a tuple indicating the colour and the point to be played.
type Move struct {
	Colour
	Point
}

// Eq returns true if both are equal
func (m Move) Eq(other Move) bool { return m.Colour == other.Colour && m.Point == other.Point }

func (m Move) Format(s fmt.State, c rune) {
	switch {
	case m.Point.IsPass():
		fmt.Fprintf(s, "%v@pass", m.Colour)
	case m.Point.IsResignation():
		fmt.Fprintf(s, "%v@resign", m.Colour)
	default:
		fmt.Fprintf(s, "%v@%d", m.Colour, m.Point)
	}
}

// Coord represents a (row, col) coordinate.
//
// The Coord uses a standard computer cartesian coordinates
//		- (0, 0) represents the top left
//		- (18, 18) represents the bottom right of a 19x19 board
type Coord struct {
	X, Y int16
}

// Ltoi converts a coordinate into a Point given the board size.
func Ltoi(c Coord, size int) Point { return Point(int(c.X)*size + int(c.Y)) }

// Itol converts a Point into a coordinate given the board size.
func Itol(p Point, size int) Coord {
	return Coord{X: int16(int(p) / size), Y: int16(int(p) % size)}
}

// Played records, for every point, the colour that first played there during a single simulation.
// A Played of length size² is the per-colour move set used by AMAF.
type Played []Colour

// MakePlayed makes a Played for an action space.
func MakePlayed(actionSpace int) Played { return make(Played, actionSpace) }

// Mark records that c played p, unless p was already played this simulation.
func (pl Played) Mark(c Colour, p Point) {
	if p < 0 || int(p) >= len(pl) {
		return
	}
	if pl[p] == None {
		pl[p] = c
	}
}

// Has returns true if c was the first colour to play p.
func (pl Played) Has(c Colour, p Point) bool { return pl[p] == c }

// Reset clears the record.
func (pl Played) Reset() {
	for i := range pl {
		pl[i] = None
	}
}

// Points returns the points first played by c, in ascending order.
func (pl Played) Points(c Colour) []Point {
	var retVal []Point
	for i, cl := range pl {
		if cl == c {
			retVal = append(retVal, Point(i))
		}
	}
	return retVal
}

// State is the game state that a search is able to drive.
type State interface {
	// These methods represent the game state
	BoardSize() int        // returns the length of a side of the board
	Board() []Colour       // returns a copy of the board state
	ActionSpace() int      // returns the number of points
	Actions() []Point      // returns the open points that are not ko locked
	IsOpen(p Point) bool   // returns true if p is an open point that is not ko locked
	ToMove() Colour        // returns the next player to move
	Passes() int           // returns number of consecutive passes that have been made
	MoveNumber() int       // returns count of moves so far that led to this point.
	LastMove() Move        // returns the last move that was made
	Ended() bool           // two consecutive passes have been made
	Komi() float32         // returns the komi, signed in Black's favour
	Score() float32        // positive favours Black
	Hash() Zobrist         // returns the hash of the board

	// interactions
	Move(p Point, c Colour) error // plays a stone. Rule violations are IllegalMoveErrors
	Pass()                        // passes for the player to move

	// For MCTS
	Playout(r *rand.Rand, played Played) error // plays randomly until the game ends, recording first plays

	// generics
	Eq(other State) bool
	Clone() State
}

// Zobrist is a type representing a "zobrist" hash.
type Zobrist uint64
