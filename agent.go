package familiar

import (
	"context"

	"github.com/gorgonia/familiar/game"
	"github.com/gorgonia/familiar/mcts"
)

// An Agent is a player backed by its own search tree.
type Agent struct {
	MCTS   *mcts.MCTS
	Player game.Colour

	name string
}

func NewAgent(name string, conf mcts.Config) *Agent {
	return &Agent{
		MCTS: mcts.New(conf),
		name: name,
	}
}

func (a *Agent) Name() string { return a.name }

// Search searches the game state and returns a suggested point. Its signature matches gtp.Generator.
func (a *Agent) Search(ctx context.Context, g game.State) (game.Point, error) {
	return a.MCTS.Search(ctx, g)
}
