package familiar

import (
	"context"
	"math/rand"

	"github.com/gorgonia/familiar/game"
	wq "github.com/gorgonia/familiar/game/wq"
	"github.com/gorgonia/familiar/library"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Arena is where two agents play each other. Every game played is stored in the library.
type Arena struct {
	r    *rand.Rand
	game *wq.Position
	A, B *Agent

	// state
	currentPlayer *Agent
	conf          Config
	lib           *library.Memory
	log           zerolog.Logger

	gameNumber int
}

// NewArena makes an arena for the agents a and b. lib may be nil, in which case records are not kept.
func NewArena(conf Config, a, b *Agent, lib *library.Memory, seed int64) *Arena {
	return &Arena{
		r:    rand.New(rand.NewSource(seed)),
		A:    a,
		B:    b,
		conf: conf,
		lib:  lib,
		log:  log.With().Str("component", "arena").Str("name", conf.Name).Logger(),
	}
}

// Result is the outcome of a game.
type Result struct {
	Winner game.Colour // None on a draw
	Score  float32
	Moves  int
	Record string // the name the game is stored under in the library
}

// Play plays a game. Colours are assigned at random.
//
// The game ends after two passes, a resignation or the arena's move limit, and is then scored.
func (a *Arena) Play(ctx context.Context) (Result, error) {
	g, err := wq.NewPosition(a.conf.Size, a.conf.Komi)
	if err != nil {
		return Result{}, errors.WithMessage(err, "Unable to set up the arena")
	}
	a.game = g
	a.gameNumber++

	if a.r.Intn(2) == 0 {
		a.A.Player, a.B.Player = game.Black, game.White
		a.currentPlayer = a.A
	} else {
		a.A.Player, a.B.Player = game.White, game.Black
		a.currentPlayer = a.B
	}
	a.game.SetToMove(game.Black)

	rec := library.Record{Size: a.conf.Size, Komi: a.conf.Komi}
	var resigned game.Colour
	for !a.game.Ended() && a.game.MoveNumber() < a.conf.maxMoves() {
		best, err := a.currentPlayer.Search(ctx, a.game)
		if err != nil {
			return Result{}, errors.WithMessagef(err, "%v failed to search at move %d", a.currentPlayer.Player, a.game.MoveNumber())
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		a.log.Debug().
			Int("game", a.gameNumber).
			Str("agent", a.currentPlayer.Name()).
			Stringer("player", a.currentPlayer.Player).
			Int32("move", int32(best)).
			Msg("move")

		m := game.Move{Colour: a.currentPlayer.Player, Point: best}
		switch {
		case best.IsResignation():
			resigned = a.currentPlayer.Player
		case best.IsPass():
			a.game.Pass()
		default:
			if err := a.game.Move(best, a.currentPlayer.Player); err != nil {
				return Result{}, errors.WithMessagef(err, "%s made an illegal move", a.currentPlayer.Name())
			}
		}
		if resigned != game.None {
			break
		}
		rec.Moves = append(rec.Moves, m)
		a.switchPlayer()
	}

	retVal := Result{
		Winner: a.game.Winner(),
		Score:  a.game.Score(),
		Moves:  a.game.MoveNumber(),
	}
	if resigned != game.None {
		retVal.Winner = resigned.Opponent()
	}
	rec.Result = retVal.Score
	if a.lib != nil {
		retVal.Record = a.lib.Add(rec)
	}
	a.log.Info().
		Int("game", a.gameNumber).
		Stringer("winner", retVal.Winner).
		Float32("score", retVal.Score).
		Int("moves", retVal.Moves).
		Str("record", retVal.Record).
		Msg("game over")
	return retVal, nil
}

// AgentOf returns the agent playing colour c in the last game, or nil.
func (a *Arena) AgentOf(c game.Colour) *Agent {
	switch {
	case c == game.None:
		return nil
	case c == a.A.Player:
		return a.A
	case c == a.B.Player:
		return a.B
	}
	return nil
}

func (a *Arena) GameNumber() int     { return a.gameNumber }
func (a *Arena) State() *wq.Position { return a.game }

func (a *Arena) switchPlayer() {
	switch a.currentPlayer {
	case a.A:
		a.currentPlayer = a.B
	case a.B:
		a.currentPlayer = a.A
	}
}
