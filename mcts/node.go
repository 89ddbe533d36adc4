package mcts

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/chewxy/math32"
	"github.com/gorgonia/familiar/game"
)

// Node is a position in the search tree, along with the statistics of the simulations that passed through it.
//
// wins is a sum of results from Black's point of view (+1 for a Black win, -1 for a White win), so
// a win rate is always read relative to the colour that is interested in it.
type Node struct {
	id     naughty
	move   game.Point // the move that led here from the parent
	parent naughty    // not owning
	state  game.State
	colour game.Colour // the player to move

	sims uint32
	wins float32

	// AMAF statistics of the moves available to colour, indexed by point
	amafSims []uint32
	amafWins []float32

	kids     []naughty      // child per point. nilNode until the child is materialized
	children []naughty      // materialized children in order of creation
	pool     *bitset.BitSet // candidate moves that have not been found to be illegal
}

func (n *Node) ID() int { return int(n.id) }

// Move gets the move associated with the node
func (n *Node) Move() game.Point { return n.move }

// Colour is the player to move at the node.
func (n *Node) Colour() game.Colour { return n.colour }

func (n *Node) Sims() uint32 { return n.sims }

// Wins returns the sum of results from Black's point of view.
func (n *Node) Wins() float32 { return n.wins }

// State returns the position at the node. It must not be modified.
func (n *Node) State() game.State { return n.state }

// WinRate returns the average result of the node for the given colour, between -1 and 1.
func (n *Node) WinRate(of game.Colour) float32 {
	if n.sims == 0 {
		return 0
	}
	return float32(of) * n.wins / float32(n.sims)
}

// AMAF returns the AMAF statistics of move m at this node.
func (n *Node) AMAF(m game.Point) (sims uint32, wins float32) { return n.amafSims[m], n.amafWins[m] }

func (n *Node) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "{NodeID: %v Move: %v Colour: %v Sims: %v Wins: %v Children: %d}", n.id, n.move, n.colour, n.sims, n.wins, len(n.children))
}

// isLeaf returns true when there is nothing left to descend into.
func (n *Node) isLeaf() bool { return n.state.Ended() || n.pool.None() }

// score is the urgency of playing m at n:
//
//	(1-β)·winrate + β·amafRate + C·sqrt(ln(N+1) / (n+1))
//
// where N is the number of simulations through n, and n the number through the child reached with m.
// β decays logistically with n. A child that has not been visited uses its AMAF rate as its win rate.
func (t *MCTS) score(n *Node, m game.Point, c float32) float32 {
	sign := float32(n.colour)
	amafRate := t.FirstPlayUrgency
	if s := n.amafSims[m]; s > 0 {
		amafRate = sign * n.amafWins[m] / float32(s)
	}

	var sims uint32
	winRate := amafRate
	if kid := n.kids[m]; kid.isValid() {
		child := t.nodeFromNaughty(kid)
		if child.sims > 0 {
			sims = child.sims
			winRate = sign * child.wins / float32(sims)
		}
	}

	beta := 1 / (1 + math32.Exp((float32(sims)-t.RaveMidpoint)/t.RaveWidth))
	explore := c * math32.Sqrt(math32.Log(float32(n.sims)+1)/(float32(sims)+1))
	return (1-beta)*winRate + beta*amafRate + explore
}

// bestChild returns the highest scoring move in the pool of n. Ties go to the lower point.
// It returns false when the pool is empty.
func (t *MCTS) bestChild(of naughty, c float32) (game.Point, bool) {
	n := t.nodeFromNaughty(of)
	best := Pass
	bestScore := math32.Inf(-1)
	for i, ok := n.pool.NextSet(0); ok; i, ok = n.pool.NextSet(i + 1) {
		m := game.Point(i)
		if s := t.score(n, m, c); s > bestScore || best == Pass {
			best, bestScore = m, s
		}
	}
	return best, best != Pass
}

// countChildren counts the number of descendants of a node.
func (t *MCTS) countChildren(of naughty) (retVal int) {
	for _, kid := range t.Children(of) {
		retVal += t.countChildren(kid) + 1
	}
	return
}
