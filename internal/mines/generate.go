package mines

import (
	"math/rand/v2"
)

// NewGame creates a rows x cols board with mineCount mines placed uniformly at
// random. mineCount is clamped to [0, rows*cols-1] so at least one square is
// always safe.
func NewGame(rows, cols, mineCount int, r *rand.Rand) (*GameSession, error) {
	if err := checkDimensions(rows, cols); err != nil {
		return nil, err
	}
	mineCount = clampMines(rows, cols, mineCount)

	candidates := make([]int, rows*cols)
	for i := range candidates {
		candidates[i] = i
	}

	grid := newGrid(rows, cols)
	grid.placeMines(candidates, mineCount, r)
	grid.countAdjacent()

	return newSession(grid, mineCount), nil
}

// NewGameSafe is like [NewGame] but keeps start free of mines. When there is
// room the whole neighbourhood of start is kept free as well, so the first
// reveal opens an area.
func NewGameSafe(rows, cols, mineCount int, start Point, r *rand.Rand) (*GameSession, error) {
	if err := checkDimensions(rows, cols); err != nil {
		return nil, err
	}
	if start.Row < 0 || start.Row >= rows || start.Col < 0 || start.Col >= cols {
		return nil, &OutOfBoundsError{Point: start, Rows: rows, Cols: cols}
	}
	mineCount = clampMines(rows, cols, mineCount)

	/*
	 * Write down the list of possible mine locations: everything not
	 * within one square of the start, falling back to everything but
	 * the start itself on crowded boards.
	 */
	candidates := make([]int, 0, rows*cols)
	for y := range rows {
		for x := range cols {
			if absDiff(start.Row, y) > 1 || absDiff(start.Col, x) > 1 {
				candidates = append(candidates, y*cols+x)
			}
		}
	}
	if len(candidates) < mineCount {
		candidates = candidates[:0]
		for i := range rows * cols {
			if i != start.Row*cols+start.Col {
				candidates = append(candidates, i)
			}
		}
	}

	grid := newGrid(rows, cols)
	grid.placeMines(candidates, mineCount, r)
	grid.countAdjacent()

	return newSession(grid, mineCount), nil
}

// FromMines builds a session with mines at exactly the given points.
// Duplicates are ignored.
func FromMines(rows, cols int, mines []Point) (*GameSession, error) {
	if err := checkDimensions(rows, cols); err != nil {
		return nil, err
	}

	grid := newGrid(rows, cols)
	count := 0
	for _, p := range mines {
		if !grid.InBounds(p.Row, p.Col) {
			return nil, &OutOfBoundsError{Point: p, Rows: rows, Cols: cols}
		}
		i := grid.index(p.Row, p.Col)
		if grid.Cells[i].IsMine() {
			continue
		}
		grid.Cells[i] = Mine
		count++
	}
	if count > rows*cols-1 {
		return nil, ErrNoSafeCell
	}
	grid.countAdjacent()

	return newSession(grid, count), nil
}

func clampMines(rows, cols, n int) int {
	return max(0, min(n, rows*cols-1))
}

// placeMines picks n of the candidate indices at random without
// replacement. candidates is reordered in the process.
func (g *Grid) placeMines(candidates []int, n int, r *rand.Rand) {
	k := len(candidates)
	for range n {
		i := r.IntN(k)
		g.Cells[candidates[i]] = Mine
		k--
		candidates[i] = candidates[k]
	}
}

func (g *Grid) countAdjacent() {
	for i, cell := range g.Cells {
		if !cell.IsMine() {
			continue
		}
		p := g.point(i)
		for n := range g.Neighbors(p.Row, p.Col) {
			j := g.index(n.Row, n.Col)
			if !g.Cells[j].IsMine() {
				g.Cells[j]++
			}
		}
	}
}

func absDiff(a, b int) int {
	if a < b {
		return b - a
	}
	return a - b
}
