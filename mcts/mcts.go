// Package mcts implements a Monte Carlo tree search with All-Moves-As-First (AMAF) statistics.
//
// The tree is stored as an arena of Nodes referenced by index. Each simulation descends the tree,
// expands one node, plays a random game to the end and feeds the result back twice: once up the
// path that was taken, and once as AMAF statistics over every node of the tree.
package mcts

import (
	"fmt"
	"sort"

	"github.com/gorgonia/familiar/game"
)

// Pass is returned by a search that found no legal move.
const Pass = game.Pass

// Snapshot is a periodic view of the scores of the moves available at the root.
type Snapshot struct {
	Sims   uint32
	Scores map[game.Point]float32
}

// Ranked returns the scores with the best first.
func (s Snapshot) Ranked() []Pair {
	retVal := make([]Pair, 0, len(s.Scores))
	for pt, score := range s.Scores {
		retVal = append(retVal, Pair{Point: pt, Score: score})
	}
	sort.Sort(byScore(retVal))
	return retVal
}

func (s Snapshot) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "Sims %d:", s.Sims)
	for i, p := range s.Ranked() {
		if i == 5 {
			fmt.Fprint(f, " ...")
			break
		}
		fmt.Fprintf(f, " %d:%.3f", p.Point, p.Score)
	}
}

// outcome turns a final score into a result from Black's point of view.
func outcome(score float32) float32 {
	switch {
	case score > 0:
		return 1
	case score < 0:
		return -1
	}
	return 0
}
