package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewWhileRunning(t *testing.T) {
	s, err := FromMines(3, 3, []Point{{0, 0}, {2, 2}})
	require.NoError(t, err)
	require.NoError(t, s.Flag(0, 0))
	_, err = s.Reveal(1, 1)
	require.NoError(t, err)

	assert.Equal(t, View{
		Flagged, Unknown, Unknown,
		Unknown, 2, Unknown,
		Unknown, Unknown, Unknown,
	}, s.View())
}

func TestViewAfterWin(t *testing.T) {
	s, err := FromMines(3, 3, []Point{{0, 0}})
	require.NoError(t, err)
	require.NoError(t, s.Flag(0, 0))
	_, err = s.Reveal(2, 2)
	require.NoError(t, err)
	require.True(t, s.Won())

	assert.Equal(t, View{
		CorrectlyFlagged, 1, 0,
		1, 1, 0,
		0, 0, 0,
	}, s.View())
}

func TestViewAfterLoss(t *testing.T) {
	s, err := FromMines(2, 3, []Point{{0, 0}, {0, 1}, {1, 2}})
	require.NoError(t, err)
	require.NoError(t, s.Flag(0, 0))
	require.NoError(t, s.Flag(1, 0))
	_, err = s.Reveal(1, 1)
	require.NoError(t, err)
	_, err = s.Reveal(0, 1)
	require.NoError(t, err)
	require.True(t, s.Lost())

	assert.Equal(t, View{
		CorrectlyFlagged, ExplodedMine, Unknown,
		FalselyFlagged, 3, UnflaggedMine,
	}, s.View())
}

func TestViewToString(t *testing.T) {
	s, err := FromMines(2, 3, []Point{{1, 2}})
	require.NoError(t, err)
	_, err = s.Reveal(0, 0)
	require.NoError(t, err)

	assert.Equal(t, "   012\n 0  1.\n 1  1.\n", s.String())
}
