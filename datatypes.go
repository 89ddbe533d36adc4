package familiar

import (
	wq "github.com/gorgonia/familiar/game/wq"
	"github.com/gorgonia/familiar/mcts"
)

// Config configures a run of self-play games.
type Config struct {
	Name     string
	Size     int     // length of a side of the board
	Komi     float32 // in Black's favour
	MCTSConf mcts.Config

	Games    int // games in a tournament
	Workers  int // games played at the same time
	MaxMoves int // a game is scored after this many moves. 0 means 3·Size²
}

// DefaultConfig returns a configuration for self-play on a board of the given size.
func DefaultConfig(size int) Config {
	return Config{
		Name:     "familiar",
		Size:     size,
		Komi:     wq.DefaultKomi,
		MCTSConf: mcts.DefaultConfig(size),
		Games:    10,
		Workers:  1,
	}
}

func (c Config) IsValid() bool {
	return c.Size > 0 && c.Size%2 == 1 && c.Games >= 0 && c.Workers > 0 && c.MaxMoves >= 0 && c.MCTSConf.IsValid()
}

func (c Config) maxMoves() int {
	if c.MaxMoves > 0 {
		return c.MaxMoves
	}
	return 3 * c.Size * c.Size
}
