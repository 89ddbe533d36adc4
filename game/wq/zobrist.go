package 围碁

import (
	"math/rand"

	"github.com/gorgonia/familiar/game"
)

// zobrist is a table of random keys for calculating Zobrist hashes.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// Another way to think of the table is as a matrix of (BOARDSIZE * BOARDSIZE, 2): one key per
// point for each colour. The table is seeded by the board size, so every Position of the same size
// hashes the same way. A table is never modified once made and is shared by clones.
type zobrist struct {
	table []game.Zobrist
}

func makeZobrist(size int) *zobrist {
	r := rand.New(rand.NewSource(int64(size)))
	table := make([]game.Zobrist, size*size*2)
	for i := range table {
		table[i] = game.Zobrist(r.Uint64())
	}
	return &zobrist{table: table}
}

// key returns the key of a stone of colour c at p.
func (z *zobrist) key(c game.Colour, p game.Point) game.Zobrist {
	if c == White {
		return z.table[2*int(p)+1]
	}
	return z.table[2*int(p)]
}
