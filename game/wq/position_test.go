package 围碁

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorgonia/familiar/game"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureSizes = []int{9, 11, 13, 19, 25}

// fixture plays the following patterns with explicit colours. X is black, O is white.
//
//	upper left   lower right
//	· X · X O    · O O O O
//	X · X O O    O O O X X
//	X X X · ·    O X X X ·
func fixture(t testing.TB, size int) *Position {
	p, err := NewPosition(size, DefaultKomi)
	require.NoError(t, err)

	rest := strings.Repeat(".", size-5)
	top := strings.Join([]string{".X.XO", "X.XOO", "XXX..", ""}, rest)
	bottom := strings.Join([]string{"", ".OOOO", "OOOXX", "OXXX."}, rest)
	layout := top + strings.Repeat(".", size*(size-6)) + bottom
	require.Equal(t, size*size, len(layout))

	for i, r := range layout {
		var c game.Colour
		switch r {
		case 'X':
			c = Black
		case 'O':
			c = White
		default:
			continue
		}
		require.NoError(t, p.Move(game.Point(i), c), "Fixture move %d\n%s", i, p)
	}
	return p
}

// bruteGroups flood fills the board from scratch.
func bruteGroups(p *Position) (groups [][]game.Point, libs [][]game.Point) {
	size := p.BoardSize()
	seen := make([]bool, size*size)
	for start := range p.board.colours {
		c := p.board.colours[start]
		if c == None || seen[start] {
			continue
		}
		var stones []game.Point
		libSet := make(map[game.Point]struct{})
		stack := []game.Point{game.Point(start)}
		seen[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stones = append(stones, cur)
			for _, q := range p.adj.Neighbours(cur) {
				switch p.board.colours[q] {
				case None:
					libSet[q] = struct{}{}
				case c:
					if !seen[q] {
						seen[q] = true
						stack = append(stack, q)
					}
				}
			}
		}
		var l []game.Point
		for q := range libSet {
			l = append(l, q)
		}
		sort.Slice(stones, func(i, j int) bool { return stones[i] < stones[j] })
		sort.Slice(l, func(i, j int) bool { return l[i] < l[j] })
		groups = append(groups, stones)
		libs = append(libs, l)
	}
	return
}

func TestNewAdjacency(t *testing.T) {
	adj, err := NewAdjacency(3)
	require.NoError(t, err)

	nbrs := [][]game.Point{
		{3, 1}, {4, 0, 2}, {5, 1},
		{0, 6, 4}, {1, 7, 3, 5}, {2, 8, 4},
		{3, 7}, {4, 6, 8}, {5, 7},
	}
	diags := [][]game.Point{
		{4}, {5, 3}, {4},
		{1, 7}, {0, 2, 8, 6}, {1, 7},
		{4}, {3, 5}, {4},
	}
	for i := 0; i < adj.Points(); i++ {
		if diff := cmp.Diff(nbrs[i], adj.Neighbours(game.Point(i))); diff != "" {
			t.Errorf("Neighbours of %d (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(diags[i], adj.Diagonals(game.Point(i))); diff != "" {
			t.Errorf("Diagonals of %d (-want +got):\n%s", i, diff)
		}
	}

	for _, n := range []int{0, -1, 2, 8, 18} {
		_, err := NewAdjacency(n)
		assert.Error(t, err, "size %d", n)
	}
	_, err = NewPosition(27, 0)
	assert.Error(t, err)
}

func TestAdjacency_NeighbourCounts(t *testing.T) {
	for _, size := range fixtureSizes {
		adj, err := NewAdjacency(size)
		require.NoError(t, err)

		counts := make([]int, adj.Points())
		for i := range counts {
			for _, q := range adj.Neighbours(game.Point(i)) {
				counts[q]++
			}
		}
		for i, c := range counts {
			row, col := i/size, i%size
			edges := 0
			if row == 0 || row == size-1 {
				edges++
			}
			if col == 0 || col == size-1 {
				edges++
			}
			if c != 4-edges {
				t.Errorf("Size %d: point %d has %d neighbours. Expected %d", size, i, c, 4-edges)
			}
		}
	}
}

func TestScenarioA(t *testing.T) {
	p, err := NewPosition(3, 0)
	require.NoError(t, err)

	require.NoError(t, p.Move(4, Black))
	for _, pt := range []game.Point{1, 3, 5} {
		require.NoError(t, p.Move(pt, White))
		assert.Equal(t, Black, p.Colour(4))
	}
	require.NoError(t, p.Move(7, White))

	assert.Equal(t, None, p.Colour(4))
	assert.True(t, p.IsOpen(4))
	assert.Contains(t, p.Actions(), game.Point(4))
	assert.Equal(t, 1, p.Captures(White))
	_, ko := p.Ko()
	assert.False(t, ko, "a capture by a stone with more than one liberty is not a ko")
}

func TestFixture_Groups(t *testing.T) {
	for _, size := range fixtureSizes {
		p := fixture(t, size)

		sizes := map[game.Colour][]int{}
		libs := map[int]int{}
		seen := map[int32]bool{}
		for i, c := range p.board.colours {
			if c == None {
				continue
			}
			stones, err := p.board.Group(game.Point(i))
			require.NoError(t, err)
			rep := p.board.Find(game.Point(i))
			for _, s := range stones {
				assert.Equal(t, rep, p.board.Find(s), "Size %d: %d and %d should share a representative", size, i, s)
			}
			if seen[rep] {
				continue
			}
			seen[rep] = true
			sizes[c] = append(sizes[c], len(stones))
			l, err := p.board.Liberties(game.Point(i))
			require.NoError(t, err)
			libs[len(stones)*10+int(c)] += int(l.Count())
		}
		sort.Ints(sizes[Black])
		sort.Ints(sizes[White])

		if diff := cmp.Diff([]int{1, 1, 5, 5}, sizes[Black]); diff != "" {
			t.Errorf("Size %d: black groups (-want +got):\n%s", size, diff)
		}
		if diff := cmp.Diff([]int{3, 8}, sizes[White]); diff != "" {
			t.Errorf("Size %d: white groups (-want +got):\n%s", size, diff)
		}
		assert.Len(t, seen, 6)

		// liberties keyed by group size and colour: the two black singletons (3 + 1), the black 5s (7 + 1)
		want := map[int]int{10 + 1: 4, 50 + 1: 8, 30 - 1: 4, 80 - 1: 7}
		if diff := cmp.Diff(want, libs); diff != "" {
			t.Errorf("Size %d: liberties (-want +got):\n%s", size, diff)
		}

		assert.Equal(t, -2+DefaultKomi, p.Score(), "Size %d", size)
		assert.Equal(t, White, p.ToMove())
	}
}

func TestFixture_Moves(t *testing.T) {
	for _, size := range fixtureSizes {
		last := game.Point(size*size - 1)

		// black joins three groups
		p := fixture(t, size)
		require.NoError(t, p.Move(2, Black))
		stones, err := p.board.Group(1)
		require.NoError(t, err)
		assert.Len(t, stones, 8)
		n, err := p.board.DiscoverLiberties(1, Unlimited)
		require.NoError(t, err)
		assert.Equal(t, 6, n)

		// white captures the lower right group
		p = fixture(t, size)
		require.NoError(t, p.Move(last, White))
		assert.Equal(t, 5, p.Captures(White))
		for _, pt := range []game.Point{last - 1, last - 2, last - 3, last - game.Point(size), last - game.Point(size) - 1} {
			assert.Equal(t, None, p.Colour(pt))
			assert.True(t, p.IsOpen(pt), "Captured point %d should be open", pt)
		}
		n, err = p.board.DiscoverLiberties(last, Unlimited)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		// white captures one stone with a lone stone: ko
		p = fixture(t, size)
		require.NoError(t, p.Move(2, White))
		assert.Equal(t, 1, p.Captures(White))
		ko, ok := p.Ko()
		require.True(t, ok)
		assert.Equal(t, game.Point(3), ko)
		assert.False(t, p.IsOpen(2))
		assert.False(t, p.IsOpen(3))
		assert.NotContains(t, p.Actions(), game.Point(3))

		err = p.Move(3, Black)
		reason, ok := game.ReasonOf(err)
		require.True(t, ok, "Expected an IllegalMoveError. Got %v", err)
		assert.Equal(t, game.KoLocked, reason)

		// any other move lifts the lock
		require.NoError(t, p.Move(game.Point(size*(size/2)), Black))
		_, ok = p.Ko()
		assert.False(t, ok)
		assert.True(t, p.IsOpen(3))
		require.NoError(t, p.Move(game.Point(size*(size/2)+2), White))
		require.NoError(t, p.Move(3, Black))
		assert.Equal(t, None, p.Colour(2), "retaking the ko captures the white stone")
	}
}

func TestFixture_Illegal(t *testing.T) {
	for _, size := range fixtureSizes {
		p := fixture(t, size)
		before := p.Clone()

		check := func(pt game.Point, c game.Colour, want game.Reason) {
			err := p.Move(pt, c)
			reason, ok := game.ReasonOf(err)
			if !ok {
				t.Errorf("Size %d: Expected an IllegalMoveError for %v@%d. Got %v instead", size, c, pt, err)
				return
			}
			if reason != want {
				t.Errorf("Size %d: Expected %v for %v@%d. Got %v instead", size, want, c, pt, reason)
			}
		}

		check(game.Point(size*size-1), Black, game.FriendlyEye)
		check(0, White, game.SelfCapture)
		check(-1, White, game.OffBoard)
		check(game.Point(size*size), White, game.OffBoard)
		for i, c := range p.Board() {
			if c == None {
				continue
			}
			check(game.Point(i), White, game.Occupied)
			check(game.Point(i), Black, game.Occupied)
		}

		assert.True(t, p.Eq(before), "Illegal moves must not change the position")
	}
}

func TestPosition_Invariants(t *testing.T) {
	for seed := int64(0); seed < 6; seed++ {
		r := rand.New(rand.NewSource(seed))
		p, err := NewPosition(7, DefaultKomi)
		require.NoError(t, err)

		for moves := 0; moves < 150 && !p.Ended(); moves++ {
			colour := p.ToMove()
			legal := p.LegalMoves(colour)
			if len(legal) == 0 {
				p.Pass()
			} else {
				pt := legal[r.Intn(len(legal))]
				require.NoError(t, p.Move(pt, colour), "Seed %d: LegalMoves returned %d\n%s", seed, pt, p)
			}
			checkInvariants(t, p)
		}
	}
}

func checkInvariants(t *testing.T, p *Position) {
	t.Helper()
	ko, hasKo := p.Ko()
	for i, c := range p.board.colours {
		pt := game.Point(i)
		rep := p.board.Find(pt)
		if (c == None) != (rep < 0) {
			t.Fatalf("Point %d has colour %v but representative %d\n%s", i, c, rep, p)
		}
		if again := p.board.Find(pt); again != rep {
			t.Fatalf("Find(%d) is not idempotent: %d then %d", i, rep, again)
		}
		if rep >= 0 && p.board.groups[rep].colour != c {
			t.Fatalf("Point %d is %v but its group is %v", i, c, p.board.groups[rep].colour)
		}
		open := c == None && !(hasKo && ko == pt)
		if open != p.IsOpen(pt) {
			t.Fatalf("Point %d: expected IsOpen %t\n%v", i, open, p)
		}
	}

	groups, libs := bruteGroups(p)
	for i, stones := range groups {
		got, err := p.board.Group(stones[0])
		require.NoError(t, err)
		if diff := cmp.Diff(stones, got); diff != "" {
			t.Fatalf("Group at %d (-want +got):\n%s\n%s", stones[0], diff, p)
		}
		rep := p.board.Find(stones[0])
		for _, s := range stones {
			if p.board.Find(s) != rep {
				t.Fatalf("Stones %d and %d of one group have different representatives", stones[0], s)
			}
		}
		l, err := p.board.Liberties(stones[0])
		require.NoError(t, err)
		gotLibs := points(l, nil)
		if len(libs[i]) == 0 {
			libs[i] = nil
		}
		if diff := cmp.Diff(libs[i], gotLibs); diff != "" {
			t.Fatalf("Liberties of group at %d (-want +got):\n%s\n%s", stones[0], diff, p)
		}
		if len(got) != int(p.board.groups[rep].size) {
			t.Fatalf("Group at %d has %d stones but records %d", stones[0], len(got), p.board.groups[rep].size)
		}
	}
}

func TestPosition_Playout(t *testing.T) {
	var ended int
	for seed := int64(0); seed < 10; seed++ {
		r := rand.New(rand.NewSource(seed))
		p, err := NewPosition(5, 0)
		require.NoError(t, err)

		final, played, err := p.RandomPlayout(r)
		require.NoError(t, err)
		assert.Equal(t, 0, p.MoveNumber(), "RandomPlayout must not modify the original")
		checkInvariants(t, final)

		for i, c := range final.Board() {
			if c != None && played[i] == None {
				t.Errorf("Seed %d: point %d holds a stone but was never recorded as played", seed, i)
			}
		}
		if !final.Ended() {
			continue
		}
		ended++
		passer := final.LastMove().Colour
		assert.Equal(t, game.Pass, final.LastMove().Point)
		assert.Empty(t, final.LegalMoves(passer), "Seed %d: %v passed with a legal move\n%s", seed, passer, final)
	}
	assert.NotZero(t, ended)
}

func TestPosition_Hash(t *testing.T) {
	a, _ := NewPosition(5, 0)
	b, _ := NewPosition(5, 0)
	require.NoError(t, a.Move(0, Black))
	require.NoError(t, a.Move(24, White))
	require.NoError(t, a.Move(2, Black))

	require.NoError(t, b.Move(2, Black))
	require.NoError(t, b.Move(24, White))
	require.NoError(t, b.Move(0, Black))

	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, a.Eq(b))

	c, _ := NewPosition(5, 0)
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestReplay(t *testing.T) {
	setup := []game.Move{{Colour: Black, Point: 4}}
	moves := []game.Move{{Colour: White, Point: 1}, {Colour: Black, Point: 0}, {Colour: White, Point: game.Pass}, {Colour: Black, Point: game.Pass}}
	p, err := Replay(3, 0, setup, moves)
	require.NoError(t, err)
	assert.True(t, p.Ended())
	assert.Equal(t, White, p.ToMove())
	assert.Equal(t, 4, p.MoveNumber())
	assert.Equal(t, Black, p.Colour(4))

	_, err = Replay(3, 0, nil, []game.Move{{Colour: Black, Point: 4}, {Colour: White, Point: 4}})
	require.Error(t, err)
	var re ReplayError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 1, re.Index)
	assert.True(t, game.IsIllegal(err))
	reason, _ := game.ReasonOf(err)
	assert.Equal(t, game.Occupied, reason)

	_, err = Replay(3, 0, []game.Move{{Colour: None, Point: 4}}, nil)
	require.Error(t, err)
	assert.True(t, errors.As(err, &re))

	_, err = Replay(3, 0, []game.Move{{Colour: Black, Point: 4}, {Colour: White, Point: 4}}, nil)
	require.Error(t, err)
	reason, _ = game.ReasonOf(err)
	assert.Equal(t, game.Occupied, reason)

	_, err = Replay(3, 0, []game.Move{{Colour: Black, Point: 9}}, nil)
	require.Error(t, err)
	reason, _ = game.ReasonOf(err)
	assert.Equal(t, game.OffBoard, reason)

	_, err = Replay(4, 0, nil, nil)
	assert.Error(t, err)
}

func TestReplay_Setup(t *testing.T) {
	// a solid corner: the last stone fills what play would call a friendly eye
	setup := []game.Move{{Colour: Black, Point: 1}, {Colour: Black, Point: 9}, {Colour: Black, Point: 0}}
	p, err := Replay(9, DefaultKomi, setup, nil)
	require.NoError(t, err)
	for _, m := range setup {
		assert.Equal(t, Black, p.Colour(m.Point))
		assert.False(t, p.IsOpen(m.Point))
	}
	assert.Equal(t, Black, p.ToMove())
	assert.Equal(t, 0, p.MoveNumber())
	assert.Equal(t, game.Move{Colour: None, Point: game.Pass}, p.LastMove())
	group, err := p.GroupBoard().Group(0)
	require.NoError(t, err)
	assert.Equal(t, []game.Point{0, 1, 9}, group)

	// setup stones do not capture, and leave no ko or captures behind
	setup = []game.Move{{Colour: White, Point: 0}, {Colour: Black, Point: 1}, {Colour: Black, Point: 9}}
	p, err = Replay(9, DefaultKomi, setup, []game.Move{{Colour: Black, Point: 40}})
	require.NoError(t, err)
	assert.Equal(t, White, p.Colour(0))
	_, ko := p.Ko()
	assert.False(t, ko)
	assert.Equal(t, 0, p.Captures(Black))
	assert.Equal(t, 0, p.Captures(White))
	assert.Equal(t, White, p.ToMove())
	assert.Equal(t, 1, p.MoveNumber())

	// a setup hashes like the same stones played
	p, err = Replay(9, DefaultKomi, []game.Move{{Colour: Black, Point: 40}, {Colour: White, Point: 41}}, nil)
	require.NoError(t, err)
	q, _ := NewPosition(9, DefaultKomi)
	require.NoError(t, q.Move(40, Black))
	require.NoError(t, q.Move(41, White))
	assert.Equal(t, q.Hash(), p.Hash())
	assert.True(t, p.GroupBoard().Eq(q.GroupBoard()))
}

func TestPosition_Commit(t *testing.T) {
	p, _ := NewPosition(5, 0)
	pm, err := p.Check(12, Black)
	require.NoError(t, err)
	assert.Equal(t, 0, pm.Captures())

	q := p.clone()
	assert.Error(t, q.Commit(pm), "a pending move belongs to the position that checked it")

	p.Pass()
	assert.Error(t, p.Commit(pm), "a pending move goes stale when the position changes")

	pm, err = p.Check(12, White)
	require.NoError(t, err)
	require.NoError(t, p.Commit(pm))
	assert.Equal(t, White, p.Colour(12))
	assert.Equal(t, 0, p.Passes())
}

func TestBoard_Errors(t *testing.T) {
	p, _ := NewPosition(3, 0)
	b := p.board

	_, err := b.DiscoverLiberties(0, 2)
	var be BoardError
	assert.True(t, errors.As(err, &be))
	_, err = b.Liberties(0)
	assert.Error(t, err)

	require.NoError(t, b.ChangeColour(0, Black))
	require.NoError(t, b.ChangeColour(1, White))
	require.NoError(t, b.ChangeColour(3, Black))

	assert.Error(t, b.ChangeColour(0, White), "placing on a stone")
	assert.Error(t, b.ChangeColour(4, game.Colour(3)), "bad colour")

	_, err = b.union(0, 1)
	assert.True(t, errors.As(err, &be), "union across colours")

	_, err = b.union(0, 3)
	require.NoError(t, err)
	_, err = b.union(0, 3)
	assert.True(t, errors.As(err, &be), "union of a group with itself")

	assert.Error(t, b.ChangeColour(3, None), "removing one stone of a larger group")

	dead, err := b.RemoveGroup(3)
	require.NoError(t, err)
	assert.Equal(t, []game.Point{0, 3}, dead)
	assert.Equal(t, int32(-1), b.Find(0))
	assert.Equal(t, int32(-1), b.Find(3))

	l, err := b.Liberties(1)
	require.NoError(t, err)
	assert.True(t, l.Test(0), "removed stones become liberties of their neighbours")

	require.NoError(t, b.ChangeColour(1, None))
	assert.Equal(t, None, b.Colour(1))
}
