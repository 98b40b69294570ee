package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesKeepsPlayState(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	s, err := NewGameSafe(9, 9, 10, Point{4, 4}, r)
	require.NoError(t, err)
	_, err = s.Reveal(4, 4)
	require.NoError(t, err)
	require.NoError(t, s.Flag(0, 0))

	b, err := s.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeGameSession(b)
	require.NoError(t, err)

	assert.Equal(t, s.View(), decoded.View())
	assert.Equal(t, s.Grid, decoded.Grid)
	assert.Equal(t, s.Status, decoded.Status)
	assert.Equal(t, s.MinesRemaining(), decoded.MinesRemaining())
}

func TestDecodeRejectsCorruptSession(t *testing.T) {
	s, err := FromMines(3, 3, []Point{{0, 0}})
	require.NoError(t, err)
	s.Mines = 4

	b, err := s.Bytes()
	require.NoError(t, err)
	_, err = DecodeGameSession(b)
	assert.Error(t, err)

	_, err = DecodeGameSession([]byte("not a game"))
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	s, err := FromMines(3, 3, []Point{{0, 0}})
	require.NoError(t, err)

	c := s.Clone()
	_, err = c.Reveal(0, 0)
	require.NoError(t, err)

	assert.True(t, c.Lost())
	assert.True(t, s.Running())
	assert.Nil(t, s.Detonated)
}

func TestValidateRejectsOverflowingDimensions(t *testing.T) {
	s, err := FromMines(2, 2, nil)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	s.Grid.Rows, s.Grid.Cols = 1<<32, 1<<32
	assert.ErrorIs(t, s.Validate(), ErrInvalidDimensions)
}
