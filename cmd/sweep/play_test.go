package main

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/mines"
)

func testConfig() config {
	return config{
		Params: mines.GameParams{Rows: 3, Cols: 4, MineCount: 0},
		Rand:   rand.New(rand.NewPCG(1, 2)),
	}
}

func TestPlayClearsEmptyBoard(t *testing.T) {
	var out strings.Builder
	err := play(strings.NewReader("o 0 0\nq\no 1 1\n"), &out, testConfig())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "mines left: 0")
	assert.Contains(t, out.String(), "cleared!")
	assert.Equal(t, 1, strings.Count(out.String(), "cleared!"))
}

func TestPlayReportsBadCommands(t *testing.T) {
	var out strings.Builder
	err := play(strings.NewReader("x 1 1\no 9 9\n\nn\n"), &out, testConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out.String(), "error: "))
	assert.Contains(t, out.String(), "out of bounds")
	assert.Equal(t, 2, strings.Count(out.String(), "mines left: 0"))
}

func TestPlayDifficulty(t *testing.T) {
	cfg := testConfig()
	cfg.Difficulty = "beginner"
	game, err := cfg.newGame()
	require.NoError(t, err)
	assert.Equal(t, 9, game.Rows())
	assert.Equal(t, 10, game.MineCount())

	cfg.Difficulty = "nope"
	_, err = cfg.newGame()
	assert.Error(t, err)
}
