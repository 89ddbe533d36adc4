package gtp

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/gorgonia/familiar/game"
	wq "github.com/gorgonia/familiar/game/wq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Command interface {
	Do(ctx context.Context, args []string, e *Engine) (string, error)
}

type stdlib func(e *Engine) string

type stdlib2 func(e *Engine, args []string) (string, error)

// stdlib3 is for commands that may take a while.
type stdlib3 func(ctx context.Context, e *Engine, args []string) (string, error)

func (f stdlib) Do(ctx context.Context, args []string, e *Engine) (string, error) {
	return f(e), nil
}

func (f stdlib2) Do(ctx context.Context, args []string, e *Engine) (string, error) {
	return f(e, args)
}

func (f stdlib3) Do(ctx context.Context, args []string, e *Engine) (string, error) {
	return f(ctx, e, args)
}

func protocolVersion(e *Engine) string { return "2" }
func name(e *Engine) string            { return e.name }
func version(e *Engine) string         { return e.version }

func listCommands(e *Engine) string {
	names := make([]string, 0, len(e.known))
	for c := range e.known {
		names = append(names, c)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for i, c := range names {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(c)
	}
	return buf.String()
}

func quit(e *Engine) string { e.quit = true; return "" }

func clearBoard(e *Engine) string {
	g, err := wq.NewPosition(e.size, e.komi)
	if err != nil {
		panic(err) // the size was checked by boardsize
	}
	e.g = g
	e.history = e.history[:0]
	return ""
}

func showboard(e *Engine) string { return fmt.Sprintf("\n%v", e.g) }

func undo(e *Engine) (string, error) {
	l := len(e.history)
	if l == 0 {
		return "", errors.New("cannot undo")
	}
	e.g = e.history[l-1]
	e.history = e.history[:l-1]
	return "", nil
}

func knownCommand(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"known_command\"")
	}
	if _, ok := e.known[args[0]]; ok {
		return "true", nil
	}
	return "false", nil
}

func boardSize(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"boardsize\"")
	}
	newsize, err := strconv.Atoi(args[0])
	if err != nil {
		return "", errors.WithMessage(err, "Unable to parse first argument of boardsize")
	}
	g, err := wq.NewPosition(newsize, e.komi)
	if err != nil {
		return "", errors.New("unacceptable size")
	}
	e.g = g
	e.size = newsize
	e.history = e.history[:0]
	return "", nil
}

// komi accepts the compensation for White, as GTP specifies it. It is stored in Black's favour.
func komi(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"komi\"")
	}

	komi, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return "", errors.WithMessage(err, "Unable to parse komi argument")
	}
	e.komi = -float32(komi)
	e.g.SetKomi(e.komi) // accept komi even if ridiculous. GTP says so
	return "", nil
}

func play(e *Engine, args []string) (string, error) {
	if len(args) < 2 {
		return "", errors.New("Not enough arguments for \"play\"")
	}
	colour, err := ParseColour(args[0])
	if err != nil {
		return "", errors.WithMessage(err, "syntax error")
	}
	pt, err := ParseVertex(args[1], e.size)
	if err != nil {
		return "", errors.WithMessage(err, "syntax error")
	}
	if err := e.apply(colour, pt); err != nil {
		if game.IsIllegal(err) {
			return "", errors.WithMessage(err, "illegal move")
		}
		return "", err
	}
	return "", nil
}

func genmove(ctx context.Context, e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"genmove\"")
	}
	if e.Generate == nil {
		return "", errors.New("Unable to generate moves. No generator found")
	}
	colour, err := ParseColour(args[0])
	if err != nil {
		return "", errors.WithMessage(err, "syntax error")
	}

	// the generator searches a copy, so a failure leaves the game as it was
	g := e.g.Clone().(*wq.Position)
	g.SetToMove(colour)
	pt, err := e.Generate(ctx, g)
	if err != nil {
		return "", errors.WithMessage(err, "Unable to generate a move")
	}
	if pt.IsResignation() {
		return "resign", nil
	}
	if err := e.apply(colour, pt); err != nil {
		return "", errors.WithMessage(err, "Generated an illegal move")
	}
	log.Debug().Stringer("colour", colour).Int32("move", int32(pt)).Int("moveNumber", e.g.MoveNumber()).Msg("genmove")
	return Vertex(pt, e.size), nil
}

// apply plays or passes for colour. The position before the move is kept for undo.
func (e *Engine) apply(colour game.Colour, pt game.Point) error {
	prev := e.g.Clone().(*wq.Position)
	if pt.IsPass() {
		e.g.SetToMove(colour)
		e.g.Pass()
	} else if err := e.g.Move(pt, colour); err != nil {
		return err
	}
	e.history = append(e.history, prev)
	return nil
}

func StandardLib() map[string]Command {
	return map[string]Command{
		"protocol_version": stdlib(protocolVersion),
		"name":             stdlib(name),
		"version":          stdlib(version),
		"list_commands":    stdlib(listCommands),
		"quit":             stdlib(quit),
		"clear_board":      stdlib(clearBoard),
		"showboard":        stdlib(showboard),

		"undo":          stdlib2(func(e *Engine, _ []string) (string, error) { return undo(e) }),
		"known_command": stdlib2(knownCommand),
		"boardsize":     stdlib2(boardSize),
		"komi":          stdlib2(komi),
		"play":          stdlib2(play),

		"genmove": stdlib3(genmove),
	}
}
