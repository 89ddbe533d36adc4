package mcts

import (
	"math/rand"
	"sync"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/gorgonia/familiar/game"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is the structure to configure the search.
type Config struct {
	SimLimit uint32 // simulations per search

	// Exploration is the weight of the exploration term, C in the literature.
	Exploration float32

	// RaveMidpoint and RaveWidth shape the logistic curve that hands weight over from the AMAF rate to the
	// win rate as a child gathers simulations. At RaveMidpoint simulations both rates weigh the same.
	RaveMidpoint float32
	RaveWidth    float32

	// FirstPlayUrgency is the AMAF rate of a move that has no AMAF samples yet.
	FirstPlayUrgency float32

	SnapshotEvery uint32 // simulations between Snapshots. 0 turns them off
	Seed          int64

	Logger zerolog.Logger
}

func DefaultConfig(boardSize int) Config {
	return Config{
		SimLimit:         uint32(25 * boardSize * boardSize),
		Exploration:      0.5,
		RaveMidpoint:     50,
		RaveWidth:        10,
		FirstPlayUrgency: 1,
		SnapshotEvery:    100,
		Seed:             time.Now().UnixNano(),
		Logger:           log.With().Str("component", "mcts").Logger(),
	}
}

func (c Config) IsValid() bool {
	return c.SimLimit > 0 && c.Exploration >= 0 && c.RaveWidth > 0
}

// MCTS is essentially a "global" manager of sorts for the memories. The goal is to build MCTS without much pointer chasing.
//
// One search runs at a time. The tree of the last search is kept until the next one starts.
type MCTS struct {
	sync.Mutex
	Config
	rand *rand.Rand
	log  zerolog.Logger

	// memory related fields
	nodes []Node
	root  naughty

	listener chan<- Snapshot

	// scratch space for the AMAF update
	worklist []naughty
	credits  []game.Move
}

func New(conf Config) *MCTS {
	return &MCTS{
		Config: conf,
		rand:   rand.New(rand.NewSource(conf.Seed)),
		log:    conf.Logger,
		nodes:  make([]Node, 0, 1024),
		root:   nilNode,
	}
}

// SetListener sets the channel that Snapshots are sent to. Sends never block: a Snapshot is dropped when
// the channel is not ready.
func (t *MCTS) SetListener(ch chan<- Snapshot) {
	t.Lock()
	t.listener = ch
	t.Unlock()
}

// Nodes returns the number of nodes in the tree.
func (t *MCTS) Nodes() int { return len(t.nodes) }

// Reset throws the tree away. The memory is kept for the next search.
func (t *MCTS) Reset() {
	t.Lock()
	t.reset()
	t.Unlock()
}

func (t *MCTS) reset() {
	t.nodes = t.nodes[:0]
	t.root = nilNode
}

func (t *MCTS) nodeFromNaughty(ref naughty) *Node { return &t.nodes[int(ref)] }

// Children returns the materialized children of a node, in the order they were created.
func (t *MCTS) Children(of naughty) []naughty { return t.nodes[of].children }

// alloc creates a node for state, reached by playing move from parent. The arena grows by appending, so
// every *Node held by the caller is stale after a call to alloc.
//
// Nodes that were thrown away by reset are reused along with their tables.
func (t *MCTS) alloc(state game.State, move game.Point, parent naughty) naughty {
	points := state.ActionSpace()
	id := naughty(len(t.nodes))
	if len(t.nodes) < cap(t.nodes) {
		t.nodes = t.nodes[:id+1]
	} else {
		t.nodes = append(t.nodes, Node{})
	}
	n := &t.nodes[id]
	if len(n.kids) != points {
		n.kids = make([]naughty, points)
		n.amafSims = make([]uint32, points)
		n.amafWins = make([]float32, points)
		n.pool = bitset.New(uint(points))
	} else {
		for i := range n.amafSims {
			n.amafSims[i] = 0
			n.amafWins[i] = 0
		}
		n.pool.ClearAll()
	}
	for i := range n.kids {
		n.kids[i] = nilNode
	}

	n.id = id
	n.move = move
	n.parent = parent
	n.state = state
	n.colour = state.ToMove()
	n.sims = 0
	n.wins = 0
	n.children = n.children[:0]
	if !state.Ended() {
		for _, pt := range state.Actions() {
			n.pool.Set(uint(pt))
		}
	}
	return id
}
