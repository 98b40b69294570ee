package mines

import (
	"log/slog"

	"github.com/gammazero/deque"
)

var Log *slog.Logger = slog.Default()

type Status uint8

const (
	Running Status = iota
	Lost
	Won
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Lost:
		return "lost"
	case Won:
		return "won"
	default:
		return "unknown"
	}
}

// GameSession is one game from its creation until it is won or lost. It is
// not safe for concurrent use.
type GameSession struct {
	Grid      Grid
	Revealed  []bool
	Flagged   []bool
	Mines     int
	Status    Status
	Detonated *Point /* the mine that ended the game, if any */
}

type RevealResult struct {
	OK      bool `json:"ok"`       // the session changed
	HitMine bool `json:"hit_mine"` // the game was lost by this call
	Opened  int  `json:"opened"`   // squares newly revealed
}

func newSession(grid Grid, mineCount int) *GameSession {
	return &GameSession{
		Grid:     grid,
		Revealed: make([]bool, len(grid.Cells)),
		Flagged:  make([]bool, len(grid.Cells)),
		Mines:    mineCount,
		Status:   Running,
	}
}

func (s *GameSession) Rows() int      { return s.Grid.Rows }
func (s *GameSession) Cols() int      { return s.Grid.Cols }
func (s *GameSession) MineCount() int { return s.Mines }

func (s *GameSession) Running() bool { return s.Status == Running }
func (s *GameSession) Lost() bool    { return s.Status == Lost }
func (s *GameSession) Won() bool     { return s.Status == Won }

func (s *GameSession) InBounds(r, c int) bool {
	return s.Grid.InBounds(r, c)
}

// At returns the hidden value of (r, c). The coordinates must be in bounds.
func (s *GameSession) At(r, c int) Cell {
	return s.Grid.At(r, c)
}

func (s *GameSession) IsRevealed(r, c int) bool {
	return s.Grid.InBounds(r, c) && s.Revealed[s.Grid.index(r, c)]
}

func (s *GameSession) IsFlagged(r, c int) bool {
	return s.Grid.InBounds(r, c) && s.Flagged[s.Grid.index(r, c)]
}

func (s *GameSession) RevealedCount() int {
	return countTrue(s.Revealed)
}

func (s *GameSession) FlagCount() int {
	return countTrue(s.Flagged)
}

// MinesRemaining is the mine count minus the number of flags. It goes
// negative when the player places more flags than there are mines.
func (s *GameSession) MinesRemaining() int {
	return s.Mines - s.FlagCount()
}

// Cleared reports whether every safe square has been revealed.
func (s *GameSession) Cleared() bool {
	safe := 0
	for i, open := range s.Revealed {
		if open && !s.Grid.Cells[i].IsMine() {
			safe++
		}
	}
	return safe == len(s.Grid.Cells)-s.Mines
}

func (s *GameSession) checkBounds(r, c int) error {
	if !s.Grid.InBounds(r, c) {
		return &OutOfBoundsError{
			Point: Point{Row: r, Col: c},
			Rows:  s.Grid.Rows,
			Cols:  s.Grid.Cols,
		}
	}
	return nil
}

// Reveal opens the square at (r, c). Flagged and already open squares are
// left alone, as is every square once the game is over. Opening a square
// with no neighbouring mines opens the whole connected empty area and its
// numbered border.
func (s *GameSession) Reveal(r, c int) (RevealResult, error) {
	if err := s.checkBounds(r, c); err != nil {
		return RevealResult{}, err
	}
	if s.Status != Running {
		return RevealResult{}, nil
	}

	i := s.Grid.index(r, c)
	if s.Flagged[i] || s.Revealed[i] {
		return RevealResult{}, nil
	}

	if s.Grid.Cells[i].IsMine() {
		/*
		 * The player has landed on a mine. Remember which one, but
		 * leave the revealed set alone: showing the mines is up to
		 * whoever draws the board.
		 */
		s.Status = Lost
		s.Detonated = &Point{Row: r, Col: c}
		Log.Debug("mine hit", "row", r, "col", c)
		return RevealResult{OK: true, HitMine: true}, nil
	}

	opened := s.flood(i)
	if s.Cleared() {
		s.Status = Won
		Log.Debug("board cleared", "rows", s.Grid.Rows, "cols", s.Grid.Cols)
	}

	return RevealResult{OK: true, Opened: opened}, nil
}

// flood opens start and, while the frontier holds squares with no
// neighbouring mines, all their unopened neighbours. Flags in the way are
// wrong by construction and are removed. A square is marked open when it is
// queued, so each one is queued at most once.
func (s *GameSession) flood(start int) int {
	var todo deque.Deque[int]

	s.Revealed[start] = true
	todo.PushBack(start)

	opened := 0
	for todo.Len() > 0 {
		i := todo.PopFront()
		opened++
		if s.Grid.Cells[i] != 0 {
			continue
		}
		p := s.Grid.point(i)
		for n := range s.Grid.Neighbors(p.Row, p.Col) {
			j := s.Grid.index(n.Row, n.Col)
			if s.Revealed[j] {
				continue
			}
			s.Flagged[j] = false
			s.Revealed[j] = true
			todo.PushBack(j)
		}
	}

	return opened
}

// ToggleFlag flags an unopened square or removes its flag.
func (s *GameSession) ToggleFlag(r, c int) error {
	if err := s.checkBounds(r, c); err != nil {
		return err
	}
	s.setFlag(r, c, !s.Flagged[s.Grid.index(r, c)])
	return nil
}

func (s *GameSession) Flag(r, c int) error {
	if err := s.checkBounds(r, c); err != nil {
		return err
	}
	s.setFlag(r, c, true)
	return nil
}

func (s *GameSession) Unflag(r, c int) error {
	if err := s.checkBounds(r, c); err != nil {
		return err
	}
	s.setFlag(r, c, false)
	return nil
}

// setFlag leaves open squares and finished games alone.
func (s *GameSession) setFlag(r, c int, flagged bool) {
	i := s.Grid.index(r, c)
	if s.Status != Running || s.Revealed[i] {
		return
	}
	s.Flagged[i] = flagged
}

// Chord opens every unflagged neighbour of the open square at (r, c) once
// the number of flags around it matches its mine count. A wrong flag makes
// this lose the game.
func (s *GameSession) Chord(r, c int) (RevealResult, error) {
	if err := s.checkBounds(r, c); err != nil {
		return RevealResult{}, err
	}
	if s.Status != Running {
		return RevealResult{}, nil
	}

	i := s.Grid.index(r, c)
	if !s.Revealed[i] || s.Grid.Cells[i] == 0 {
		return RevealResult{}, nil
	}

	flags := 0
	todo := make([]Point, 0, 8)
	for n := range s.Grid.Neighbors(r, c) {
		j := s.Grid.index(n.Row, n.Col)
		if s.Flagged[j] {
			flags++
		} else if !s.Revealed[j] {
			todo = append(todo, n)
		}
	}
	if flags != s.Grid.Cells[i].Count() {
		return RevealResult{}, nil
	}

	var result RevealResult
	for _, p := range todo {
		res, err := s.Reveal(p.Row, p.Col)
		if err != nil {
			return result, err
		}
		result.OK = result.OK || res.OK
		result.HitMine = result.HitMine || res.HitMine
		result.Opened += res.Opened
		if s.Status != Running {
			break
		}
	}

	return result, nil
}

// Forfeit ends a running game as lost.
func (s *GameSession) Forfeit() {
	if s.Status == Running {
		s.Status = Lost
	}
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
