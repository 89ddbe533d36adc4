package 围碁

import (
	"math/rand"

	"github.com/gorgonia/familiar/game"
)

// RandomPlayout plays a random game to the end on a clone of p. It returns the terminal position and
// the record of which colour first played each point.
func (p *Position) RandomPlayout(r *rand.Rand) (*Position, game.Played, error) {
	retVal := p.clone()
	played := game.MakePlayed(p.ActionSpace())
	if err := retVal.Playout(r, played); err != nil {
		return nil, nil, err
	}
	return retVal, played, nil
}

// Playout plays random legal moves until two consecutive passes are made.
//
// For each turn, points are drawn uniformly from the action set. An illegal point is dropped and another
// one is drawn. When none is left, the player passes. The first colour to play each point is recorded
// in played, which may be nil.
//
// Games that have not ended after 3·size² moves are abandoned where they stand.
func (p *Position) Playout(r *rand.Rand, played game.Played) error {
	maxMoves := 3 * p.ActionSpace()
	trial := make([]game.Point, 0, p.ActionSpace())
	for moves := 0; p.passes < 2 && moves < maxMoves; moves++ {
		colour := p.toMove
		trial = points(p.actions, trial[:0])

		var ok bool
		for len(trial) > 0 {
			i := r.Intn(len(trial))
			pt := trial[i]
			err := p.Move(pt, colour)
			if err == nil {
				if played != nil {
					played.Mark(colour, pt)
				}
				ok = true
				break
			}
			if _, illegal := err.(game.IllegalMoveError); !illegal {
				return err
			}
			trial[i] = trial[len(trial)-1]
			trial = trial[:len(trial)-1]
		}
		if !ok {
			p.Pass()
		}
	}
	return nil
}

// LegalMoves returns every point c may legally play. Checking may merge groups internally.
func (p *Position) LegalMoves(c game.Colour) []game.Point {
	var retVal []game.Point
	for i, ok := p.actions.NextSet(0); ok; i, ok = p.actions.NextSet(i + 1) {
		if _, err := p.Check(game.Point(i), c); err == nil {
			retVal = append(retVal, game.Point(i))
		}
	}
	return retVal
}
