package mines

import (
	"iter"
	"strconv"
)

// Cell is the hidden content of a square: either [Mine] or the number of
// mines among its neighbours (0 to 8).
type Cell int8

const Mine Cell = -1

// Clear returns the cell value of a safe square with n neighbouring mines.
func Clear(n int) Cell {
	return Cell(n)
}

func (c Cell) IsMine() bool {
	return c == Mine
}

// Count returns the neighbouring mine count of a safe cell and 0 for a mine.
func (c Cell) Count() int {
	if c < 0 {
		return 0
	}
	return int(c)
}

func (c Cell) String() string {
	if c.IsMine() {
		return "*"
	}
	return strconv.Itoa(int(c))
}

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Grid struct {
	Rows, Cols int
	Cells      []Cell
}

func newGrid(rows, cols int) Grid {
	return Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]Cell, rows*cols),
	}
}

func (g Grid) InBounds(r, c int) bool {
	return 0 <= r && r < g.Rows && 0 <= c && c < g.Cols
}

// At returns the cell at (r, c). The coordinates must be in bounds.
func (g Grid) At(r, c int) Cell {
	return g.Cells[g.index(r, c)]
}

func (g Grid) Neighbors(r, c int) iter.Seq[Point] {
	return Neighbors(r, c, g.Rows, g.Cols)
}

func (g Grid) index(r, c int) int {
	return r*g.Cols + c
}

func (g Grid) point(i int) Point {
	return Point{Row: i / g.Cols, Col: i % g.Cols}
}

// Neighbors yields the up to eight squares surrounding (r, c) that lie inside
// a rows x cols grid, row by row from the top left.
func Neighbors(r, c, rows, cols int) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for dr := -1; dr <= +1; dr++ {
			for dc := -1; dc <= +1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				rr, cc := r+dr, c+dc
				if rr < 0 || rr >= rows || cc < 0 || cc >= cols {
					continue
				}
				if !yield(Point{Row: rr, Col: cc}) {
					return
				}
			}
		}
	}
}
