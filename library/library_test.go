package library

import (
	"testing"

	"github.com/gorgonia/familiar/game"
	wq "github.com/gorgonia/familiar/game/wq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	lib := NewMemory()
	good := lib.Add(Record{
		Size:  5,
		Komi:  wq.DefaultKomi,
		Setup: []game.Move{{Colour: game.Black, Point: 12}},
		Moves: []game.Move{{Colour: game.White, Point: 7}, {Colour: game.Black, Point: 17}, {Colour: game.White, Point: game.Pass}},
	})
	bad := lib.Add(Record{
		Size:  5,
		Moves: []game.Move{{Colour: game.Black, Point: 12}, {Colour: game.White, Point: 12}},
	})
	assert.NotEqual(t, good, bad)
	assert.Equal(t, 2, lib.Len())
	assert.ElementsMatch(t, []string{good, bad}, lib.Names())

	p, err := Load(lib, good)
	require.NoError(t, err)
	assert.Equal(t, game.Black, p.Colour(12))
	assert.Equal(t, game.White, p.Colour(7))
	assert.Equal(t, game.Black, p.Colour(17))
	assert.Equal(t, 1, p.Passes())
	assert.Equal(t, game.Black, p.ToMove())
	assert.Equal(t, wq.DefaultKomi, p.Komi())

	_, err = Load(lib, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
	var re wq.ReplayError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 1, re.Index)
	assert.True(t, game.IsIllegal(err))

	_, err = Load(lib, "nonexistent")
	assert.Error(t, err)
}
