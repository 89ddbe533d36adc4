// Command familiar plays Go.
//
// In gtp mode it speaks the Go Text Protocol on stdin and stdout, for use with a GUI or a match runner.
// In selfplay mode it plays a tournament between two agents and writes their statistics as CSV.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/gorgonia/familiar"
	wq "github.com/gorgonia/familiar/game/wq"
	"github.com/gorgonia/familiar/gtp"
	"github.com/gorgonia/familiar/mcts"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "0.1"

var (
	mode     = flag.String("mode", "gtp", "gtp or selfplay")
	size     = flag.Int("size", 9, "length of a side of the board")
	komi     = flag.Float64("komi", 7.5, "compensation for White")
	sims     = flag.Uint("sims", 0, "simulations per move. 0 means 25 per point")
	seed     = flag.Int64("seed", 0, "random seed. 0 means seeded from the clock")
	games    = flag.Int("games", 10, "selfplay: number of games")
	workers  = flag.Int("workers", 1, "selfplay: games played at the same time")
	maxMoves = flag.Int("maxmoves", 0, "selfplay: moves before a game is scored. 0 means 3 per point")
	stats    = flag.String("stats", "familiar.csv", "selfplay: file to write the statistics to")
	verbose  = flag.Bool("v", false, "log debug messages")
)

func main() {
	flag.Parse()

	// stdout carries GTP
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	conf := familiar.DefaultConfig(*size)
	conf.Komi = -float32(*komi)
	conf.MCTSConf = mcts.DefaultConfig(*size)
	if *sims > 0 {
		conf.MCTSConf.SimLimit = uint32(*sims)
	}
	if *seed != 0 {
		conf.MCTSConf.Seed = *seed
	}
	conf.Games = *games
	conf.Workers = *workers
	conf.MaxMoves = *maxMoves
	if !conf.IsValid() {
		log.Fatal().Int("size", *size).Int("games", *games).Int("workers", *workers).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch *mode {
	case "gtp":
		err = playGTP(ctx, conf)
	case "selfplay":
		err = selfplay(ctx, conf)
	default:
		err = errors.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", *mode).Msg("familiar")
	}
}

func playGTP(ctx context.Context, conf familiar.Config) error {
	g, err := wq.NewPosition(conf.Size, conf.Komi)
	if err != nil {
		return err
	}
	agent := familiar.NewAgent(conf.Name, conf.MCTSConf)
	e := gtp.New(g, conf.Name, version, nil)
	e.Generate = agent.Search
	return e.Run(ctx, os.Stdin, os.Stdout)
}

func selfplay(ctx context.Context, conf familiar.Config) error {
	f, err := familiar.New(conf)
	if err != nil {
		return err
	}
	start := time.Now()
	if _, err := f.Tournament(ctx); err != nil {
		return err
	}
	for _, name := range f.Creation {
		w, l, d := f.Totals(name)
		log.Info().Str("agent", name).Float32("wins", w).Float32("losses", l).Float32("draws", d).Msg("totals")
	}
	log.Info().Dur("took", time.Since(start)).Str("stats", *stats).Msg("selfplay done")
	return f.Dump(*stats)
}
