package mcts

import (
	"github.com/gorgonia/familiar/game"
)

// fancySort sorts the list of nodes under a certain condition of evaluation (i.e. which colour are we considering).
// The most simulated nodes come first. Equal simulation counts are sorted on win rate, then on move.
type fancySort struct {
	underEval game.Colour
	l         []naughty
	t         *MCTS
}

func (l fancySort) Len() int      { return len(l.l) }
func (l fancySort) Swap(i, j int) { l.l[i], l.l[j] = l.l[j], l.l[i] }
func (l fancySort) Less(i, j int) bool {
	li := l.t.nodeFromNaughty(l.l[i])
	lj := l.t.nodeFromNaughty(l.l[j])

	liSims := li.Sims()
	ljSims := lj.Sims()
	if liSims != ljSims {
		return liSims > ljSims
	}

	// same simulation count. Evaluate
	liRate, ljRate := li.WinRate(l.underEval), lj.WinRate(l.underEval)
	if liRate != ljRate {
		return liRate > ljRate
	}
	return li.move < lj.move
}

// Pair is a tuple of score and point
type Pair struct {
	Point game.Point
	Score float32
}

// byScore is a sortable list of pairs It sorts the list with best score fist
type byScore []Pair

func (l byScore) Len() int { return len(l) }
func (l byScore) Less(i, j int) bool {
	if l[i].Score == l[j].Score {
		return l[i].Point < l[j].Point
	}
	return l[i].Score > l[j].Score
}
func (l byScore) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

type byMove struct {
	t *MCTS
	l []naughty
}

func (l byMove) Len() int { return len(l.l) }
func (l byMove) Less(i, j int) bool {
	li := l.t.nodeFromNaughty(l.l[i])
	lj := l.t.nodeFromNaughty(l.l[j])
	return li.move < lj.move
}
func (l byMove) Swap(i, j int) {
	l.l[i], l.l[j] = l.l[j], l.l[i]
}
