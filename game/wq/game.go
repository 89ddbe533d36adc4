package 围碁

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/gorgonia/familiar/game"
	"github.com/pkg/errors"
)

// DefaultKomi is the usual compensation for White, expressed in Black's favour.
const DefaultKomi float32 = -7.5

// noKo marks the absence of a ko point.
const noKo = game.Pass

var _ game.State = &Position{}

// Position implements game.State. It is the rule engine: moves are only made through Move/Commit and Pass.
type Position struct {
	adj   *Adjacency
	board *Board
	*zobrist

	actions *bitset.BitSet // open points that are not ko locked
	toMove  game.Colour
	ko      game.Point
	komi    float32 // komidashi, signed in Black's favour
	last    game.Move
	hash    game.Zobrist

	moveCount int    // number of moves and passes made
	passes    int    // count of consecutive passes
	captures  [2]int // stones captured by Black, White
	serial    uint64 // bumped on every mutation. Guards PendingMoves
}

// NewPosition creates an empty board of the given size. Black moves first.
func NewPosition(size int, komi float32) (*Position, error) {
	if size > MaxSize {
		return nil, errors.Errorf("Invalid board size %d. The largest supported board is %d", size, MaxSize)
	}
	adj, err := NewAdjacency(size)
	if err != nil {
		return nil, err
	}
	points := adj.Points()
	actions := bitset.New(uint(points))
	for i := 0; i < points; i++ {
		actions.Set(uint(i))
	}
	return &Position{
		adj:     adj,
		board:   NewBoard(adj),
		zobrist: makeZobrist(size),
		actions: actions,
		toMove:  Black,
		ko:      noKo,
		komi:    komi,
		last:    game.Move{Colour: None, Point: game.Pass},
	}, nil
}

// Replay creates a Position of the given size and komi, places the setup stones, then plays the moves in order.
// Setup stones are placed as they are, without the rules of play, and Black moves first after them.
// A move at game.Pass is a pass.
func Replay(size int, komi float32, setup, moves []game.Move) (*Position, error) {
	p, err := NewPosition(size, komi)
	if err != nil {
		return nil, err
	}
	for i, m := range setup {
		if err := p.place(m.Point, m.Colour); err != nil {
			return nil, errors.WithMessage(ReplayError{Index: i, Move: m, Err: err}, "Setup failure.")
		}
	}
	p.clearKo()
	p.captures = [2]int{}
	p.toMove = Black
	p.moveCount = 0
	p.passes = 0
	p.last = game.Move{Colour: None, Point: game.Pass}
	for i, m := range moves {
		if m.Point.IsPass() {
			if m.Colour.IsPlayer() {
				p.toMove = m.Colour
			}
			p.Pass()
			continue
		}
		if err := p.Move(m.Point, m.Colour); err != nil {
			return nil, errors.WithStack(ReplayError{Index: i, Move: m, Err: err})
		}
	}
	return p, nil
}

func (p *Position) BoardSize() int { return p.adj.Size() }

// Board returns a copy of the board state
func (p *Position) Board() []game.Colour {
	retVal := make([]game.Colour, len(p.board.colours))
	copy(retVal, p.board.colours)
	return retVal
}

// GroupBoard returns the underlying group board.
func (p *Position) GroupBoard() *Board { return p.board }

// Adjacency returns the adjacency tables shared by this position and its clones.
func (p *Position) Adjacency() *Adjacency { return p.adj }

func (p *Position) Colour(pt game.Point) game.Colour { return p.board.Colour(pt) }

func (p *Position) ActionSpace() int { return p.adj.Points() }

// Actions returns the open points that are not ko locked, in ascending order.
func (p *Position) Actions() []game.Point {
	return points(p.actions, make([]game.Point, 0, p.actions.Count()))
}

func (p *Position) IsOpen(pt game.Point) bool { return p.adj.Valid(pt) && p.actions.Test(uint(pt)) }

func (p *Position) ToMove() game.Colour { return p.toMove }

// SetToMove sets the next player to move
func (p *Position) SetToMove(c game.Colour) {
	p.toMove = c
	p.serial++
}

// Ko returns the ko locked point, if any.
func (p *Position) Ko() (game.Point, bool) { return p.ko, p.ko != noKo }

func (p *Position) LastMove() game.Move { return p.last }

func (p *Position) Passes() int { return p.passes }

func (p *Position) MoveNumber() int { return p.moveCount }

func (p *Position) Ended() bool { return p.passes >= 2 }

func (p *Position) Komi() float32 { return p.komi }

func (p *Position) SetKomi(komi float32) { p.komi = komi }

func (p *Position) Hash() game.Zobrist { return p.hash }

// Captures returns the number of stones captured by c.
func (p *Position) Captures(c game.Colour) int {
	switch c {
	case Black:
		return p.captures[0]
	case White:
		return p.captures[1]
	}
	return 0
}

// Pass passes for the player to move. Any ko lock is lifted.
func (p *Position) Pass() {
	p.clearKo()
	p.last = game.Move{Colour: p.toMove, Point: game.Pass}
	p.toMove = p.toMove.Opponent()
	p.passes++
	p.moveCount++
	p.serial++
}

// Score sums the colours of the stones, then, for every open point, adds one for each colour that
// borders it. Komi is added. A positive score favours Black.
func (p *Position) Score() float32 {
	var score float32
	for i, c := range p.board.colours {
		if c != None {
			score += float32(c)
			continue
		}
		var black, white bool
		for _, q := range p.adj.Neighbours(game.Point(i)) {
			switch p.board.colours[q] {
			case Black:
				black = true
			case White:
				white = true
			}
		}
		if black {
			score++
		}
		if white {
			score--
		}
	}
	return score + p.komi
}

// Winner returns the colour the score favours, or None on a draw.
func (p *Position) Winner() game.Colour {
	score := p.Score()
	switch {
	case score > 0:
		return Black
	case score < 0:
		return White
	}
	return None
}

func (p *Position) Eq(other game.State) bool {
	ot, ok := other.(*Position)
	if !ok {
		return false
	}
	if p == ot {
		return true
	}

	// easy to check stuff first
	if p.adj.Size() != ot.adj.Size() ||
		p.toMove != ot.toMove ||
		p.ko != ot.ko ||
		p.komi != ot.komi ||
		p.passes != ot.passes ||
		p.moveCount != ot.moveCount ||
		p.hash != ot.hash ||
		p.captures != ot.captures {
		return false
	}

	// heavier checks
	return p.board.Eq(ot.board) && p.actions.Equal(ot.actions)
}

// Clone makes a deep copy. The board and the action set of the clone are independent of the original.
func (p *Position) Clone() game.State { return p.clone() }

func (p *Position) clone() *Position {
	retVal := *p
	retVal.board = p.board.Clone()
	retVal.actions = p.actions.Clone()
	return &retVal
}

// Format implements fmt.Formatter
func (p *Position) Format(s fmt.State, c rune) {
	switch c {
	case 's':
		fmt.Fprintf(s, "%s", p.board)
	case 'v':
		fmt.Fprintf(s, "Move %d. %v to move. Last %v. Komi %v. Captures X:%d O:%d\n%s", p.moveCount, p.toMove, p.last, p.komi, p.captures[0], p.captures[1], p.board)
	}
}

// place puts a setup stone of colour c at pt. Only the colour, the board bounds and occupation are checked.
func (p *Position) place(pt game.Point, c game.Colour) error {
	m := game.Move{Colour: c, Point: pt}
	switch {
	case !c.IsPlayer():
		return game.IllegalMoveError{Move: m, Reason: game.BadColour}
	case !p.adj.Valid(pt):
		return game.IllegalMoveError{Move: m, Reason: game.OffBoard}
	case p.board.Colour(pt) != None:
		return game.IllegalMoveError{Move: m, Reason: game.Occupied}
	}
	if err := p.board.ChangeColour(pt, c); err != nil {
		return err
	}
	p.actions.Clear(uint(pt))
	p.hash ^= p.key(c, pt)
	p.serial++
	return nil
}

// clearKo lifts the ko lock, returning the point to the action set.
func (p *Position) clearKo() {
	if p.ko == noKo {
		return
	}
	if p.board.Colour(p.ko) == None {
		p.actions.Set(uint(p.ko))
	}
	p.ko = noKo
}
