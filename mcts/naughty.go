package mcts

// naughty is essentially *Node. It indexes into the node arena of an MCTS, so it stays valid when the arena grows.
type naughty int

func (n naughty) isValid() bool { return n >= 0 }

const (
	nilNode naughty = -1
)
