// Package library holds records of games, and replays them into positions.
//
// Parsing game files and storing archives of games is left to implementations of Library. Memory is the one
// implementation provided.
package library

import (
	"sort"
	"sync"

	"github.com/gorgonia/familiar/game"
	wq "github.com/gorgonia/familiar/game/wq"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// Record is a game as it is stored: the board size, the komi in Black's favour, the setup stones and the moves.
// A move at game.Pass is a pass.
type Record struct {
	Size  int
	Komi  float32
	Setup []game.Move
	Moves []game.Move

	Result float32 // final score, if known
}

// Library is a collection of records.
type Library interface {
	Names() []string
	Record(name string) (Record, error)
}

// Load replays a record into a position. A record that cannot be replayed is corrupt.
func Load(lib Library, name string) (*wq.Position, error) {
	r, err := lib.Record(name)
	if err != nil {
		return nil, err
	}
	p, err := wq.Replay(r.Size, r.Komi, r.Setup, r.Moves)
	if err != nil {
		return nil, errors.Wrapf(err, "Record %q is corrupt", name)
	}
	return p, nil
}

// Memory is a Library that lives in memory. It is safe for concurrent use.
type Memory struct {
	sync.RWMutex
	records map[string]Record
}

func NewMemory() *Memory { return &Memory{records: make(map[string]Record)} }

// Add adds a record and returns the name it is stored under.
func (m *Memory) Add(r Record) string {
	name := xid.New().String()
	m.Lock()
	m.records[name] = r
	m.Unlock()
	return name
}

// Names returns the names of all the records, in the order they were added.
func (m *Memory) Names() []string {
	m.RLock()
	defer m.RUnlock()
	retVal := make([]string, 0, len(m.records))
	for name := range m.records {
		retVal = append(retVal, name)
	}
	sort.Strings(retVal) // xids sort by time
	return retVal
}

func (m *Memory) Record(name string) (Record, error) {
	m.RLock()
	defer m.RUnlock()
	r, ok := m.records[name]
	if !ok {
		return Record{}, errors.Errorf("No record named %q", name)
	}
	return r, nil
}

func (m *Memory) Len() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.records)
}
