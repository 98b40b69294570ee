package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellState is what a player gets to see of a square.
type CellState int8

const (
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * 0 to 8 mean the square is open and has that many neighbouring
	 * mines. The values from 64 up only show once the game is over:
	 *
	 *  - 64: a flag that was right,
	 *  - 65: the mine the player stepped on,
	 *  - 66: a flag on a safe square,
	 *  - 67: a mine nobody flagged.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "."
	case s == Flagged:
		return "F"
	case s == 0:
		return " "
	case 0 < s && s <= 8:
		return strconv.Itoa(int(s))
	case s == CorrectlyFlagged:
		return "F"
	case s == ExplodedMine:
		return "X"
	case s == FalselyFlagged:
		return "x"
	case s == UnflaggedMine:
		return "*"
	default:
		return "!"
	}
}

// View holds the visible state of every square in row-major order.
type View []CellState

// View renders the board as the player sees it. Once the game is over the
// mines and wrong flags are shown as well.
func (s *GameSession) View() View {
	over := s.Status != Running
	detonated := -1
	if s.Detonated != nil {
		detonated = s.Grid.index(s.Detonated.Row, s.Detonated.Col)
	}

	v := make(View, len(s.Grid.Cells))
	for i, cell := range s.Grid.Cells {
		switch {
		case s.Revealed[i]:
			v[i] = CellState(cell)
		case i == detonated:
			v[i] = ExplodedMine
		case s.Flagged[i] && over && cell.IsMine():
			v[i] = CorrectlyFlagged
		case s.Flagged[i] && over:
			v[i] = FalselyFlagged
		case s.Flagged[i]:
			v[i] = Flagged
		case over && cell.IsMine():
			v[i] = UnflaggedMine
		default:
			v[i] = Unknown
		}
	}
	return v
}

func (v View) ToString(cols int) string {
	var b strings.Builder
	fmt.Fprint(&b, "   ")
	for x := range cols {
		fmt.Fprintf(&b, "%d", x%10)
	}
	fmt.Fprint(&b, "\n")
	for y := range len(v) / cols {
		fmt.Fprintf(&b, "%2d ", y)
		for x := range cols {
			fmt.Fprint(&b, v[y*cols+x].String())
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

func (s *GameSession) String() string {
	return s.View().ToString(s.Grid.Cols)
}
