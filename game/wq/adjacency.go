package 围碁

import (
	"github.com/gorgonia/familiar/game"
	"github.com/pkg/errors"
)

// MaxSize is the largest supported board. GTP vertices run out of letters after 25 columns.
const MaxSize = 25

// Adjacency holds, for every point of a board, its orthogonal neighbours and its diagonals.
// Directions that fall off the board are omitted.
//
// Neighbours are listed up, down, left, right. Diagonals are listed up-left, up-right, down-right, down-left.
//
// An Adjacency is never modified after it is made, so it is shared by a Position and all of its clones.
type Adjacency struct {
	size  int
	nbrs  [][]game.Point // iterator into nbrBacking
	diags [][]game.Point // iterator into diagBacking

	nbrBacking  []game.Point
	diagBacking []game.Point
}

// NewAdjacency computes the adjacency tables of an n×n board. n must be odd and positive.
func NewAdjacency(n int) (*Adjacency, error) {
	if n < 1 || n%2 == 0 {
		return nil, errors.Errorf("Invalid board size %d. Board sizes must be odd and at least 1", n)
	}
	points := n * n
	a := &Adjacency{
		size:        n,
		nbrs:        make([][]game.Point, points),
		diags:       make([][]game.Point, points),
		nbrBacking:  make([]game.Point, 0, 4*points),
		diagBacking: make([]game.Point, 0, 4*points),
	}

	for pt := 0; pt < points; pt++ {
		row, col := pt/n, pt%n
		hasUp, hasDown := row > 0, row < n-1
		hasLeft, hasRight := col > 0, col < n-1

		start := len(a.nbrBacking)
		if hasUp {
			a.nbrBacking = append(a.nbrBacking, game.Point(pt-n))
		}
		if hasDown {
			a.nbrBacking = append(a.nbrBacking, game.Point(pt+n))
		}
		if hasLeft {
			a.nbrBacking = append(a.nbrBacking, game.Point(pt-1))
		}
		if hasRight {
			a.nbrBacking = append(a.nbrBacking, game.Point(pt+1))
		}
		a.nbrs[pt] = a.nbrBacking[start:len(a.nbrBacking):len(a.nbrBacking)]

		start = len(a.diagBacking)
		if hasUp && hasLeft {
			a.diagBacking = append(a.diagBacking, game.Point(pt-n-1))
		}
		if hasUp && hasRight {
			a.diagBacking = append(a.diagBacking, game.Point(pt-n+1))
		}
		if hasDown && hasRight {
			a.diagBacking = append(a.diagBacking, game.Point(pt+n+1))
		}
		if hasDown && hasLeft {
			a.diagBacking = append(a.diagBacking, game.Point(pt+n-1))
		}
		a.diags[pt] = a.diagBacking[start:len(a.diagBacking):len(a.diagBacking)]
	}
	return a, nil
}

// Size returns the length of a side of the board.
func (a *Adjacency) Size() int { return a.size }

// Points returns the number of points on the board.
func (a *Adjacency) Points() int { return a.size * a.size }

// Neighbours returns the orthogonal neighbours of p. The returned slice must not be modified.
func (a *Adjacency) Neighbours(p game.Point) []game.Point { return a.nbrs[p] }

// Diagonals returns the diagonal neighbours of p. The returned slice must not be modified.
func (a *Adjacency) Diagonals(p game.Point) []game.Point { return a.diags[p] }

// Valid returns true if p is on the board.
func (a *Adjacency) Valid(p game.Point) bool { return p >= 0 && int(p) < a.size*a.size }
