// package 围碁 implements Go (the board game) related code
//
// 围碁 is a bastardized word.
// The first character is read "wei" in Chinese. The second is read "qi" in Chinese.
// However, the charcter 碁 is no longer actively used in Chinese.
// It is however, actively used in Japanese. Specifically, it's read "go" in Japanese.
//
// The main reason why this package is named with unicode characters instead of `package go`
// is because the standard library of the Go language have the prefix "go"
package 围碁

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/gorgonia/familiar/game"
	"github.com/pkg/errors"
)

const (
	None  = game.None
	Black = game.Black
	White = game.White
)

// Unlimited is the liberty limit that makes DiscoverLiberties resolve a whole group.
const Unlimited = math.MaxInt32

// group is the record held by a representative point.
type group struct {
	colour game.Colour
	size   int32
	stones *bitset.BitSet
	libs   *bitset.BitSet
}

// Board is a union-find forest over the points of a board. Each stone's representative holds the
// colour, the stones and the liberties of its group.
//
// Stones placed next to each other are not merged when they are placed. Merging happens lazily
// when DiscoverLiberties crawls a region. Because of this, two stones of the same Go group may
// still have different representatives; each representative's liberties are exactly the open
// points next to its own stones.
type Board struct {
	adj     *Adjacency
	colours []game.Colour
	parent  []int32 // -1 for open points
	groups  []group // indexed by representative

	spare   []*bitset.BitSet // released bitsets, cleared
	visited *bitset.BitSet   // scratch space for crawling
	stack   []game.Point     // scratch space for crawling
}

// NewBoard creates an empty board.
func NewBoard(adj *Adjacency) *Board {
	points := adj.Points()
	b := &Board{
		adj:     adj,
		colours: make([]game.Colour, points),
		parent:  make([]int32, points),
		groups:  make([]group, points),
		visited: bitset.New(uint(points)),
		stack:   make([]game.Point, 0, points),
	}
	for i := range b.parent {
		b.parent[i] = -1
	}
	return b
}

// Clone clones the board. The clone shares nothing mutable with the original.
func (b *Board) Clone() *Board {
	points := b.adj.Points()
	retVal := &Board{
		adj:     b.adj,
		colours: make([]game.Colour, points),
		parent:  make([]int32, points),
		groups:  make([]group, points),
		visited: bitset.New(uint(points)),
		stack:   make([]game.Point, 0, points),
	}
	copy(retVal.colours, b.colours)
	copy(retVal.parent, b.parent)
	for i, g := range b.groups {
		if g.stones == nil {
			continue
		}
		retVal.groups[i] = group{
			colour: g.colour,
			size:   g.size,
			stones: g.stones.Clone(),
			libs:   g.libs.Clone(),
		}
	}
	return retVal
}

// Eq checks that both boards have the same stones.
func (b *Board) Eq(other *Board) bool {
	if b == other {
		return true
	}
	if b.adj.Size() != other.adj.Size() {
		return false
	}
	for i, c := range b.colours {
		if c != other.colours[i] {
			return false
		}
	}
	return true
}

// Format implements fmt.Formatter
func (b *Board) Format(s fmt.State, c rune) {
	switch c {
	case 's', 'v':
		size := b.adj.Size()
		for i, col := range b.colours {
			if i%size == 0 {
				fmt.Fprint(s, "⎢ ")
			}
			fmt.Fprintf(s, "%s ", col)
			if (i+1)%size == 0 {
				fmt.Fprint(s, "⎥\n")
			}
		}
	}
}

// Reset resets the board state
func (b *Board) Reset() {
	for i := range b.colours {
		b.colours[i] = None
		b.parent[i] = -1
		if g := &b.groups[i]; g.stones != nil {
			b.release(g.stones)
			b.release(g.libs)
			*g = group{}
		}
	}
}

// Size returns the length of a side of the board.
func (b *Board) Size() int { return b.adj.Size() }

// Colour returns the colour at p.
func (b *Board) Colour(p game.Point) game.Colour { return b.colours[p] }

// Colours returns the backing slice of colours. It must not be modified.
func (b *Board) Colours() []game.Colour { return b.colours }

// Find returns the representative of the group p belongs to, or -1 if p is open.
// The path from p to its representative is compressed as a side effect.
func (b *Board) Find(p game.Point) int32 {
	if b.parent[p] < 0 {
		return -1
	}
	root := int32(p)
	for b.parent[root] != root {
		root = b.parent[root]
	}
	for cur := int32(p); b.parent[cur] != root; {
		next := b.parent[cur]
		b.parent[cur] = root
		cur = next
	}
	return root
}

// ChangeColour places a stone of colour c at p, or, when c is None, removes the lone stone at p.
//
// A placed stone starts as its own group, whose liberties are its open neighbours. p stops being a
// liberty of every neighbouring group. A removed stone becomes a liberty of every neighbouring group.
func (b *Board) ChangeColour(p game.Point, c game.Colour) error {
	switch c {
	case Black, White:
		if b.colours[p] != None {
			return errors.WithStack(BoardError{p, "cannot place a stone on an occupied point"})
		}
		b.colours[p] = c
		b.parent[p] = int32(p)
		g := &b.groups[p]
		g.colour = c
		g.size = 1
		g.stones = b.alloc()
		g.stones.Set(uint(p))
		g.libs = b.alloc()
		for _, q := range b.adj.Neighbours(p) {
			if b.colours[q] == None {
				g.libs.Set(uint(q))
				continue
			}
			b.groups[b.Find(q)].libs.Clear(uint(p))
		}
		return nil
	case None:
		if b.colours[p] == None {
			return nil
		}
		rep := b.Find(p)
		if b.groups[rep].size > 1 {
			return errors.WithStack(BoardError{p, "cannot remove one stone of a larger group"})
		}
		b.clearGroup(rep)
		b.open(p)
		b.credit(p)
		return nil
	}
	return errors.WithStack(BoardError{p, fmt.Sprintf("unrecognized colour %v", c)})
}

// DiscoverLiberties crawls the region of same coloured stones connected to p, merging the groups it
// finds and recording their liberties. It returns the number of liberties known when the crawl
// ends. The crawl stops early once limit liberties are known, so a result below limit is exact.
func (b *Board) DiscoverLiberties(p game.Point, limit int) (int, error) {
	colour := b.colours[p]
	if colour == None {
		return 0, errors.WithStack(BoardError{p, "open points do not have liberties"})
	}
	rep := b.Find(p)
	if count := int(b.groups[rep].libs.Count()); count >= limit {
		return count, nil
	}

	b.visited.ClearAll()
	b.visited.Set(uint(p))
	stack := append(b.stack[:0], p)
	defer func() { b.stack = stack[:0] }()

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, q := range b.adj.Neighbours(cur) {
			if b.visited.Test(uint(q)) {
				continue
			}
			switch b.colours[q] {
			case None:
				b.groups[rep].libs.Set(uint(q))
			case colour:
				b.visited.Set(uint(q))
				stack = append(stack, q)
				if b.Find(q) == rep {
					continue
				}
				var err error
				if rep, err = b.union(rep, int32(q)); err != nil {
					return 0, err
				}
			default:
				continue
			}
			if count := int(b.groups[rep].libs.Count()); count >= limit {
				return count, nil
			}
		}
	}
	return int(b.groups[rep].libs.Count()), nil
}

// Liberties returns a copy of the liberties known to the representative of p.
// Call DiscoverLiberties with Unlimited first for the liberties of the whole group.
func (b *Board) Liberties(p game.Point) (*bitset.BitSet, error) {
	if b.colours[p] == None {
		return nil, errors.WithStack(BoardError{p, "open points do not have liberties"})
	}
	return b.groups[b.Find(p)].libs.Clone(), nil
}

// Group fully resolves the group at p and returns its stones in ascending order.
func (b *Board) Group(p game.Point) ([]game.Point, error) {
	if _, err := b.DiscoverLiberties(p, Unlimited); err != nil {
		return nil, err
	}
	return points(b.groups[b.Find(p)].stones, nil), nil
}

// RemoveGroup fully resolves the group at p, opens every one of its stones, and returns them.
// The removed stones become liberties of the neighbouring groups.
func (b *Board) RemoveGroup(p game.Point) ([]game.Point, error) {
	if _, err := b.DiscoverLiberties(p, Unlimited); err != nil {
		return nil, err
	}
	rep := b.Find(p)
	dead := points(b.groups[rep].stones, make([]game.Point, 0, b.groups[rep].size))
	b.clearGroup(rep)
	for _, s := range dead {
		b.open(s)
	}
	for _, s := range dead {
		b.credit(s)
	}
	return dead, nil
}

// union merges the groups of a and c. The group with more stones survives as the representative.
func (b *Board) union(a, c int32) (int32, error) {
	ra, rc := b.Find(game.Point(a)), b.Find(game.Point(c))
	switch {
	case ra < 0 || rc < 0:
		return -1, errors.WithStack(BoardError{game.Point(a), "cannot union open points"})
	case ra == rc:
		return ra, errors.WithStack(BoardError{game.Point(a), "cannot union same group"})
	case b.groups[ra].colour != b.groups[rc].colour:
		return ra, errors.WithStack(BoardError{game.Point(a), "cannot union different colour stones"})
	}
	if b.groups[ra].size < b.groups[rc].size {
		ra, rc = rc, ra
	}
	b.parent[rc] = ra
	winner, loser := &b.groups[ra], &b.groups[rc]
	winner.size += loser.size
	winner.stones.InPlaceUnion(loser.stones)
	winner.libs.InPlaceUnion(loser.libs)
	b.release(loser.stones)
	b.release(loser.libs)
	*loser = group{}
	return ra, nil
}

// clearGroup releases the record held by a representative.
func (b *Board) clearGroup(rep int32) {
	g := &b.groups[rep]
	b.release(g.stones)
	b.release(g.libs)
	*g = group{}
}

// open empties p and resets its pointer.
func (b *Board) open(p game.Point) {
	b.colours[p] = None
	b.parent[p] = -1
}

// credit gives p back to every neighbouring group as a liberty.
func (b *Board) credit(p game.Point) {
	for _, q := range b.adj.Neighbours(p) {
		if b.colours[q] != None {
			b.groups[b.Find(q)].libs.Set(uint(p))
		}
	}
}

func (b *Board) alloc() *bitset.BitSet {
	if l := len(b.spare); l > 0 {
		bs := b.spare[l-1]
		b.spare = b.spare[:l-1]
		return bs
	}
	return bitset.New(uint(b.adj.Points()))
}

func (b *Board) release(bs *bitset.BitSet) {
	if bs == nil {
		return
	}
	bs.ClearAll()
	b.spare = append(b.spare, bs)
}

// points appends the set bits of bs to retVal.
func points(bs *bitset.BitSet, retVal []game.Point) []game.Point {
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		retVal = append(retVal, game.Point(i))
	}
	return retVal
}
