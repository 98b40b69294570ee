package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

type GameParams struct {
	Rows, Cols, MineCount int
}

func (p GameParams) Unpack() (rows int, cols int, mineCount int) {
	return p.Rows, p.Cols, p.MineCount
}

func (p GameParams) NewGame(r *rand.Rand) (*GameSession, error) {
	return NewGame(p.Rows, p.Cols, p.MineCount, r)
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Rows, p.Cols, p.MineCount)
}

// ParseSeed reads parameters in the rows:cols:mines form produced by
// [GameParams.Seed].
func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Rows, &p.Cols, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (seed = "%s", n = %d, err = %w)`,
			seed, n, err,
		)
	}
	return p, nil
}

// Difficulty names either a fixed board preset or a mine density that is
// applied to a board size chosen by the caller.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Expert       Difficulty = "expert"

	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var presets = map[Difficulty]GameParams{
	Beginner:     {Rows: 9, Cols: 9, MineCount: 10},
	Intermediate: {Rows: 16, Cols: 16, MineCount: 40},
	Expert:       {Rows: 16, Cols: 30, MineCount: 99},
}

var densities = map[Difficulty]float64{
	Easy:   0.10,
	Medium: 0.15,
	Hard:   0.20,
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := presets[d]; ok {
		return d, nil
	}
	if _, ok := densities[d]; ok {
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// IsPreset reports whether d fixes the board size.
func (d Difficulty) IsPreset() bool {
	_, ok := presets[d]
	return ok
}

// Params returns the parameters for d. Presets ignore rows and cols; density
// tiers place floor(rows*cols*density) mines on a rows x cols board.
func (d Difficulty) Params(rows, cols int) (GameParams, error) {
	if p, ok := presets[d]; ok {
		return p, nil
	}
	density, ok := densities[d]
	if !ok {
		return GameParams{}, fmt.Errorf("unknown difficulty %q", string(d))
	}
	if err := checkDimensions(rows, cols); err != nil {
		return GameParams{}, err
	}
	return GameParams{
		Rows:      rows,
		Cols:      cols,
		MineCount: int(float64(rows*cols) * density),
	}, nil
}
