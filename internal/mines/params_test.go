package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	p := GameParams{Rows: 16, Cols: 30, MineCount: 99}
	assert.Equal(t, "16:30:99", p.Seed())

	parsed, err := ParseSeed(p.Seed())
	require.NoError(t, err)
	assert.Equal(t, p, *parsed)

	_, err = ParseSeed("16:30")
	assert.Error(t, err)
}

func TestDifficulty(t *testing.T) {
	tests := []struct {
		input      string
		rows, cols int
		want       GameParams
	}{
		{"beginner", 0, 0, GameParams{9, 9, 10}},
		{"Intermediate", 5, 5, GameParams{16, 16, 40}},
		{" EXPERT ", 0, 0, GameParams{16, 30, 99}},
		{"easy", 10, 10, GameParams{10, 10, 10}},
		{"medium", 9, 9, GameParams{9, 9, 12}},
		{"hard", 7, 3, GameParams{7, 3, 4}},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			d, err := ParseDifficulty(test.input)
			require.NoError(t, err)
			p, err := d.Params(test.rows, test.cols)
			require.NoError(t, err)
			assert.Equal(t, test.want, p)
		})
	}

	_, err := ParseDifficulty("nightmare")
	assert.Error(t, err)
	_, err = Difficulty("nightmare").Params(9, 9)
	assert.Error(t, err)
	assert.True(t, Expert.IsPreset())
	assert.False(t, Hard.IsPreset())
}
