// Package gtp implements an engine for the Go Text Protocol, version 2.
//
// https://www.lysator.liu.se/%7Egunnar/gtp/gtp2-spec-draft2/gtp2-spec.html
package gtp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gorgonia/familiar/game"
	wq "github.com/gorgonia/familiar/game/wq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Generator picks a move for the player to move in g.
type Generator func(ctx context.Context, g game.State) (game.Point, error)

type Engine struct {
	g       *wq.Position
	history []*wq.Position // positions before each move, for undo
	size    int
	komi    float32 // in Black's favour

	known map[string]Command

	ch  chan string
	ret chan string

	Generate      Generator
	name, version string
	quit          bool
}

// New creates an engine that plays on g. A nil g starts a 19×19 game with the default komi.
func New(g *wq.Position, name, version string, known map[string]Command) *Engine {
	if known == nil {
		known = StandardLib()
	}
	if g == nil {
		var err error
		if g, err = wq.NewPosition(19, wq.DefaultKomi); err != nil {
			panic(err) // 19 is always a valid size
		}
	}
	return &Engine{
		g:       g,
		size:    g.BoardSize(),
		komi:    g.Komi(),
		known:   known,
		name:    name,
		version: version,
	}
}

// Start starts an engine that reads commands from input and writes replies to output. output is closed after
// the engine quits.
func (e *Engine) Start() (input, output chan string) {
	e.ch = make(chan string)
	e.ret = make(chan string)
	go e.start()
	return e.ch, e.ret
}

func (e *Engine) State() *wq.Position { return e.g }

func (e *Engine) start() {
	defer close(e.ret)
	for cmd := range e.ch {
		reply, ok := e.Handle(context.Background(), cmd)
		if !ok {
			continue
		}
		e.ret <- reply
		if e.quit {
			return
		}
	}
}

// Run reads commands line by line from r and writes the replies to w until "quit" or the end of r.
func (e *Engine) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		reply, ok := e.Handle(ctx, scanner.Text())
		if !ok {
			continue
		}
		if _, err := io.WriteString(w, reply); err != nil {
			return errors.Wrap(err, "Unable to write reply")
		}
		if e.quit {
			return nil
		}
	}
	return errors.WithStack(scanner.Err())
}

// Handle executes one line of input and returns the reply. It returns false if there is nothing to reply to.
func (e *Engine) Handle(ctx context.Context, cmd string) (string, bool) {
	id, x, args, err := e.parse(cmd)
	if x == nil && err == nil {
		return "", false
	}
	if err != nil {
		return handleErr(id, err), true
	}
	result, err := x.Do(ctx, args, e)
	if err != nil {
		log.Debug().Str("cmd", cmd).Err(err).Msg("gtp command failed")
	}
	return handleResult(id, result, err), true
}

// refer to this
// https://www.lysator.liu.se/%7Egunnar/gtp/gtp2-spec-draft2/gtp2-spec.html#SECTION00030000000000000000
func (e *Engine) parse(cmd string) (id int, x Command, args []string, err error) {
	cmd = preprocess(cmd)
	tokens := strings.Fields(cmd)
	if len(tokens) == 0 {
		return -1, nil, nil, nil
	}
	if id, err = strconv.Atoi(tokens[0]); err == nil {
		// we've consumed ID
		tokens = tokens[1:]
	} else {
		// set err to nil because ID is optional
		err = nil
		id = -1
	}

	if len(tokens) == 0 {
		return id, nil, nil, nil // GNUGo some how does nothing when there are no tokens left. An ID may be passed in but it'll be ignored
	}

	var ok bool
	if x, ok = e.known[tokens[0]]; !ok {
		return id, nil, nil, errors.Errorf("Unknown command %q", tokens[0])
	}
	if len(tokens) > 1 {
		args = tokens[1:]
	}
	return
}

// preprocess lowercases the line and removes comments and control characters.
func preprocess(a string) string {
	if i := strings.IndexByte(a, '#'); i >= 0 {
		a = a[:i]
	}
	a = strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case r < ' ' || r == 127:
			return -1
		}
		return r
	}, a)
	return strings.ToLower(strings.TrimSpace(a))
}

func handleErr(id int, err error) string {
	if id != -1 {
		return fmt.Sprintf("? %d %v\n\n", id, err)
	}
	return fmt.Sprintf("? %v\n\n", err)
}

func handleResult(id int, result string, err error) string {
	if err != nil {
		return handleErr(id, err)
	}

	if id != -1 {
		return fmt.Sprintf("= %d %v\n\n", id, result)
	}
	return fmt.Sprintf("= %v\n\n", result)
}
