package familiar

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

// Statistics keeps the running totals of every agent, one entry per game played. It is safe for concurrent use.
type Statistics struct {
	sync.Mutex
	Creation []string // agent names in the order they were first seen
	Wins     map[string][]float32
	Losses   map[string][]float32
	Draws    map[string][]float32
}

func makeStatistics() Statistics {
	return Statistics{
		Creation: make([]string, 0, 64),
		Wins:     make(map[string][]float32),
		Losses:   make(map[string][]float32),
		Draws:    make(map[string][]float32),
	}
}

// outcomes of a game, from an agent's point of view
const (
	loss = iota - 1
	draw
	win
)

func (s *Statistics) update(name string, outcome int) {
	s.Lock()
	defer s.Unlock()
	var w, l, d float32
	if n := len(s.Wins[name]); n > 0 {
		w, l, d = s.Wins[name][n-1], s.Losses[name][n-1], s.Draws[name][n-1]
	} else {
		s.Creation = append(s.Creation, name)
	}
	switch outcome {
	case win:
		w++
	case loss:
		l++
	default:
		d++
	}
	s.Wins[name] = append(s.Wins[name], w)
	s.Losses[name] = append(s.Losses[name], l)
	s.Draws[name] = append(s.Draws[name], d)
}

// Totals returns the wins, losses and draws of the named agent.
func (s *Statistics) Totals(name string) (wins, losses, draws float32) {
	s.Lock()
	defer s.Unlock()
	n := len(s.Wins[name])
	if n == 0 {
		return 0, 0, 0
	}
	return s.Wins[name][n-1], s.Losses[name][n-1], s.Draws[name][n-1]
}

// WriteCSV writes one row per agent per game: the agent, the game count and the running totals.
func (s *Statistics) WriteCSV(w io.Writer) error {
	s.Lock()
	defer s.Unlock()
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"agent", "games", "wins", "losses", "draws", "winrate"}); err != nil {
		return err
	}
	var records [][]string
	for _, agent := range s.Creation {
		for j, wins := range s.Wins[agent] {
			games := wins + s.Losses[agent][j] + s.Draws[agent][j]
			winRate := wins / games
			records = append(records, []string{
				agent,
				strconv.Itoa(j + 1),
				strconv.FormatFloat(float64(wins), 'f', 0, 32),
				strconv.FormatFloat(float64(s.Losses[agent][j]), 'f', 0, 32),
				strconv.FormatFloat(float64(s.Draws[agent][j]), 'f', 0, 32),
				strconv.FormatFloat(float64(winRate), 'f', 3, 32),
			})
		}
	}
	return cw.WriteAll(records)
}

// Dump writes the statistics to a CSV file.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	return s.WriteCSV(f)
}
