// Package familiar pits AMAF-MCTS players against each other on the Go board.
//
// The rules live in game/wq, the search in mcts. A Familiar runs tournaments of self-play games, keeps
// Statistics on the agents and stores every game in a library.
package familiar

import (
	"context"

	"github.com/gorgonia/familiar/library"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Familiar is the top level structure and the entry point of the API.
type Familiar struct {
	Statistics

	conf Config
	lib  *library.Memory
	log  zerolog.Logger
}

func New(conf Config) (*Familiar, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("Invalid configuration: size %d, %d games, %d workers, %d max moves",
			conf.Size, conf.Games, conf.Workers, conf.MaxMoves)
	}
	return &Familiar{
		Statistics: makeStatistics(),
		conf:       conf,
		lib:        library.NewMemory(),
		log:        log.With().Str("component", "familiar").Str("name", conf.Name).Logger(),
	}, nil
}

// Library returns the games played so far.
func (f *Familiar) Library() *library.Memory { return f.lib }

// Tournament plays the configured number of games between agent A and agent B, at most Workers at a time.
// Each game gets its own agents and search trees. The results are in game order.
func (f *Familiar) Tournament(ctx context.Context) ([]Result, error) {
	retVal := make([]Result, f.conf.Games)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(f.conf.Workers)
	for i := 0; i < f.conf.Games; i++ {
		i := i
		eg.Go(func() error {
			res, err := f.play(ctx, i)
			if err != nil {
				return err
			}
			retVal[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	f.log.Info().Int("games", f.conf.Games).Int("records", f.lib.Len()).Msg("tournament over")
	return retVal, nil
}

func (f *Familiar) play(ctx context.Context, i int) (Result, error) {
	seed := f.conf.MCTSConf.Seed + 3*int64(i)
	confA, confB := f.conf.MCTSConf, f.conf.MCTSConf
	confA.Seed, confB.Seed = seed+1, seed+2

	a, b := NewAgent("A", confA), NewAgent("B", confB)
	arena := NewArena(f.conf, a, b, f.lib, seed)
	res, err := arena.Play(ctx)
	if err != nil {
		return res, errors.WithMessagef(err, "Game %d", i)
	}

	switch arena.AgentOf(res.Winner) {
	case a:
		f.update(a.Name(), win)
		f.update(b.Name(), loss)
	case b:
		f.update(a.Name(), loss)
		f.update(b.Name(), win)
	default:
		f.update(a.Name(), draw)
		f.update(b.Name(), draw)
	}
	return res, nil
}
