package mcts

import (
	"context"
	"sort"

	"github.com/gorgonia/familiar/game"
	"github.com/pkg/errors"
)

/*
Here lies the majority of the MCTS search code, while node.go and tree.go handles the data structure stuff.

Each simulation goes through four steps:
	SELECT and EXPAND: descend with bestChild until a new child is created, or a leaf is reached.
	SIMULATE: play randomly from a clone of that node's position until the game ends.
	BACKPROPAGATE: add the result to every node on the path back to the root.
	AMAF: credit the result to every node of the tree whose player first played a move that was open to it.
*/

// MoveSearch searches state with the default configuration and the given number of simulations.
func MoveSearch(state game.State, simLimit uint32) (game.Point, error) {
	conf := DefaultConfig(state.BoardSize())
	conf.SimLimit = simLimit
	return New(conf).Search(context.Background(), state)
}

// Search finds a move for the player to move in state. state is cloned and never modified.
//
// The search stops after SimLimit simulations, when ctx is done, or when the root has no moves left to
// try. The move with the most simulations is returned. Pass is returned when no move is legal.
func (t *MCTS) Search(ctx context.Context, state game.State) (game.Point, error) {
	if !t.IsValid() {
		return Pass, errors.Errorf("Invalid search configuration %+v", t.Config)
	}
	t.Lock()
	defer t.Unlock()

	t.reset()
	t.root = t.alloc(state.Clone(), Pass, nilNode)
	if state.Ended() {
		return Pass, nil
	}

	played := game.MakePlayed(state.ActionSpace())
	var stopped bool
	for t.nodes[t.root].sims < t.SimLimit && !t.nodes[t.root].isLeaf() {
		if ctx.Err() != nil {
			stopped = true
			break
		}

		played.Reset()
		leaf, err := t.treePolicy(t.root, played)
		if err != nil {
			return Pass, err
		}
		result, err := t.rollout(leaf, played)
		if err != nil {
			return Pass, err
		}
		t.backup(leaf, result)
		t.updateAMAF(t.root, played, result)
		t.snapshot()
	}

	retVal, err := t.bestMove()
	if err != nil {
		return Pass, err
	}
	root := t.nodeFromNaughty(t.root)
	t.log.Debug().
		Int("moveNumber", state.MoveNumber()).
		Stringer("player", root.colour).
		Uint32("sims", root.sims).
		Int("nodes", len(t.nodes)).
		Int("children", len(root.children)).
		Bool("stopped", stopped).
		Int32("best", int32(retVal)).
		Msg("search complete")
	return retVal, nil
}

// treePolicy descends from the root and returns the node a rollout should start from.
// Every move along the way is recorded in played.
func (t *MCTS) treePolicy(start naughty, played game.Played) (naughty, error) {
	cur := start
	for {
		n := t.nodeFromNaughty(cur)
		if n.state.Ended() {
			return cur, nil
		}
		m, ok := t.bestChild(cur, t.Exploration)
		if !ok {
			return cur, nil // no legal moves left. The rollout passes
		}
		colour := n.colour
		if kid := n.kids[m]; kid.isValid() {
			played.Mark(colour, m)
			cur = kid
			continue
		}

		kid, err := t.expand(cur, m)
		if err != nil {
			if game.IsIllegal(err) {
				t.nodeFromNaughty(cur).pool.Clear(uint(m))
				continue
			}
			return nilNode, err
		}
		played.Mark(colour, m)
		return kid, nil
	}
}

// expand materializes the child of parent reached by playing m.
func (t *MCTS) expand(parent naughty, m game.Point) (naughty, error) {
	p := t.nodeFromNaughty(parent)
	state := p.state.Clone()
	if err := state.Move(m, p.colour); err != nil {
		return nilNode, err
	}
	kid := t.alloc(state, m, parent) // p is stale from here on

	p = t.nodeFromNaughty(parent)
	p.kids[m] = kid
	p.children = append(p.children, kid)
	return kid, nil
}

// rollout plays a random game from a clone of the leaf's position and returns the result from Black's point of view.
func (t *MCTS) rollout(leaf naughty, played game.Played) (float32, error) {
	state := t.nodeFromNaughty(leaf).state.Clone()
	if err := state.Playout(t.rand, played); err != nil {
		return 0, errors.WithMessage(err, "Rollout failure.")
	}
	return outcome(state.Score()), nil
}

// backup adds the result to every node from the leaf up to the root.
func (t *MCTS) backup(leaf naughty, result float32) {
	for cur := leaf; cur.isValid(); {
		n := t.nodeFromNaughty(cur)
		n.sims++
		n.wins += result
		cur = n.parent
	}
}

// updateAMAF walks the whole tree. Each node is credited for the moves that its player made first in the
// simulation, as long as the move was still open at that node.
func (t *MCTS) updateAMAF(root naughty, played game.Played, result float32) {
	t.credits = t.credits[:0]
	for pt, c := range played {
		if c != game.None {
			t.credits = append(t.credits, game.Move{Colour: c, Point: game.Point(pt)})
		}
	}
	if len(t.credits) == 0 {
		return
	}

	worklist := append(t.worklist[:0], root)
	for len(worklist) > 0 {
		cur := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		n := t.nodeFromNaughty(cur)
		for _, m := range t.credits {
			if m.Colour != n.colour || !n.state.IsOpen(m.Point) {
				continue
			}
			n.amafSims[m.Point]++
			n.amafWins[m.Point] += result
		}
		worklist = append(worklist, n.children...)
	}
	t.worklist = worklist
}

// snapshot sends the scores of the root's moves to the listener, if it is time to.
func (t *MCTS) snapshot() {
	root := t.nodeFromNaughty(t.root)
	if t.listener == nil || t.SnapshotEvery == 0 || root.sims%t.SnapshotEvery != 0 {
		return
	}
	s := Snapshot{
		Sims:   root.sims,
		Scores: make(map[game.Point]float32, len(root.children)),
	}
	for _, kid := range root.children {
		m := t.nodeFromNaughty(kid).move
		s.Scores[m] = t.score(root, m, t.Exploration)
	}
	select {
	case t.listener <- s:
	default:
		t.log.Debug().Uint32("sims", s.Sims).Msg("snapshot dropped")
	}
}

// bestMove picks the most simulated child of the root. Without children, the best scoring legal move
// in the pool is picked with exploration suppressed.
func (t *MCTS) bestMove() (game.Point, error) {
	root := t.nodeFromNaughty(t.root)
	if len(root.children) > 0 {
		children := make([]naughty, len(root.children))
		copy(children, root.children)
		sort.Sort(fancySort{underEval: root.colour, l: children, t: t})
		return t.nodeFromNaughty(children[0]).move, nil
	}

	for {
		m, ok := t.bestChild(t.root, 0)
		if !ok {
			return Pass, nil
		}
		err := root.state.Clone().Move(m, root.colour)
		switch {
		case err == nil:
			return m, nil
		case game.IsIllegal(err):
			root.pool.Clear(uint(m))
		default:
			return Pass, err
		}
	}
}
