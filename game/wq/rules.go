package 围碁

import (
	"github.com/gorgonia/familiar/game"
	"github.com/pkg/errors"
)

// PendingMove is a move that has passed every check, along with the groups it will merge with and
// the groups it will capture. It is applied with Commit on the Position that produced it.
type PendingMove struct {
	game.Move

	friends  [4]int32 // representatives of neighbouring friendly groups
	captures [4]int32 // representatives of neighbouring enemy groups in atari
	nf, nc   int

	pos    *Position
	serial uint64
}

// Captures returns the number of groups the move will capture.
func (pm PendingMove) Captures() int { return pm.nc }

func (pm *PendingMove) addFriend(rep int32) {
	for _, r := range pm.friends[:pm.nf] {
		if r == rep {
			return
		}
	}
	pm.friends[pm.nf] = rep
	pm.nf++
}

func (pm *PendingMove) addCapture(rep int32) {
	for _, r := range pm.captures[:pm.nc] {
		if r == rep {
			return
		}
	}
	pm.captures[pm.nc] = rep
	pm.nc++
}

// Move plays a stone of colour c at pt. If the move is illegal, a game.IllegalMoveError is returned
// and the position is left unchanged.
func (p *Position) Move(pt game.Point, c game.Colour) error {
	pm, err := p.Check(pt, c)
	if err != nil {
		return err
	}
	return p.Commit(pm)
}

// Check checks that a stone of colour c may be played at pt. Nothing observable about the position
// changes, although groups may be merged internally while their liberties are counted.
//
// The rules, in the order they are checked:
//	- the colour must be Black or White, and pt must be on the board
//	- pt must not be the ko point
//	- pt must be open
//	- pt must not be a friendly eye: every neighbour is friendly, and at most one of four diagonals
//	  (none, at the edges) is an enemy
//	- the stone must have a liberty after the move, or capture something
func (p *Position) Check(pt game.Point, c game.Colour) (PendingMove, error) {
	m := game.Move{Colour: c, Point: pt}
	switch {
	case !c.IsPlayer():
		return PendingMove{}, game.IllegalMoveError{Move: m, Reason: game.BadColour}
	case !p.adj.Valid(pt):
		return PendingMove{}, game.IllegalMoveError{Move: m, Reason: game.OffBoard}
	case pt == p.ko:
		return PendingMove{}, game.IllegalMoveError{Move: m, Reason: game.KoLocked}
	case p.board.Colour(pt) != None:
		return PendingMove{}, game.IllegalMoveError{Move: m, Reason: game.Occupied}
	case p.isFriendlyEye(pt, c):
		return PendingMove{}, game.IllegalMoveError{Move: m, Reason: game.FriendlyEye}
	}

	pm := PendingMove{Move: m, pos: p, serial: p.serial}
	var open, alive int
	for _, q := range p.adj.Neighbours(pt) {
		switch p.board.Colour(q) {
		case None:
			open++
		case c:
			libs, err := p.board.DiscoverLiberties(q, 2)
			if err != nil {
				return PendingMove{}, err
			}
			if libs >= 2 {
				alive++ // pt is one of them. The other one survives the move
			}
			pm.addFriend(p.board.Find(q))
		default:
			libs, err := p.board.DiscoverLiberties(q, 2)
			if err != nil {
				return PendingMove{}, err
			}
			if libs == 1 {
				pm.addCapture(p.board.Find(q))
			}
		}
	}

	if open == 0 && alive == 0 && pm.nc == 0 {
		return PendingMove{}, game.IllegalMoveError{Move: m, Reason: game.SelfCapture}
	}
	return pm, nil
}

// Commit applies a move returned by Check. The position must not have changed since Check.
func (p *Position) Commit(pm PendingMove) error {
	if pm.pos != p || pm.serial != p.serial {
		return errors.Errorf("Unable to commit %v. The pending move was checked against a different position", pm.Move)
	}
	c, pt := pm.Colour, pm.Point
	if err := p.board.ChangeColour(pt, c); err != nil {
		return errors.WithMessage(err, "Commit failure.")
	}
	p.actions.Clear(uint(pt))
	p.hash ^= p.key(c, pt)

	for _, rep := range pm.friends[:pm.nf] {
		if p.board.Find(game.Point(rep)) == p.board.Find(pt) {
			continue
		}
		if _, err := p.board.union(int32(pt), rep); err != nil {
			return errors.WithMessage(err, "Commit failure.")
		}
	}

	var captured int
	var lastCaptured game.Point
	for _, rep := range pm.captures[:pm.nc] {
		if p.board.Colour(game.Point(rep)) == None {
			continue
		}
		dead, err := p.board.RemoveGroup(game.Point(rep))
		if err != nil {
			return errors.WithMessage(err, "Commit failure.")
		}
		for _, s := range dead {
			p.actions.Set(uint(s))
			p.hash ^= p.key(c.Opponent(), s)
		}
		captured += len(dead)
		lastCaptured = dead[0]
	}

	// A point is a ko point if:
	//    - it was the site of the only stone captured this turn
	//    - the capturing stone has no friendly neighbours
	//    - the capturing stone has one liberty
	p.clearKo()
	if captured == 1 && pm.nf == 0 && p.openNeighbours(pt) == 1 {
		p.ko = lastCaptured
		p.actions.Clear(uint(lastCaptured))
	}

	if c == Black {
		p.captures[0] += captured
	} else {
		p.captures[1] += captured
	}
	p.last = pm.Move
	p.toMove = c.Opponent()
	p.passes = 0
	p.moveCount++
	p.serial++
	return nil
}

// isFriendlyEye is a play-quality heuristic, not a rule of Go.
func (p *Position) isFriendlyEye(pt game.Point, c game.Colour) bool {
	for _, q := range p.adj.Neighbours(pt) {
		if p.board.Colour(q) != c {
			return false
		}
	}
	diags := p.adj.Diagonals(pt)
	var enemies int
	for _, q := range diags {
		if p.board.Colour(q) == c.Opponent() {
			enemies++
		}
	}
	if len(diags) == 4 {
		return enemies <= 1
	}
	return enemies == 0
}

func (p *Position) openNeighbours(pt game.Point) (retVal int) {
	for _, q := range p.adj.Neighbours(pt) {
		if p.board.Colour(q) == None {
			retVal++
		}
	}
	return
}
