package command

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper/internal/mines"
)

type Move uint8

const (
	Noop Move = iota + 1
	Open
	Toggle
	Flag
	Unflag
	Chord
	Forfeit
	lastMove
)

var moveNames = [...]string{
	Noop:    "noop",
	Open:    "open",
	Toggle:  "toggle",
	Flag:    "flag",
	Unflag:  "unflag",
	Chord:   "chord",
	Forfeit: "forfeit",
}

/* one-letter forms used on the wire, plus aliases */
var moveCodes = map[string]Move{
	"g":      Noop,
	"o":      Open,
	"reveal": Open,
	"f":      Toggle,
	"u":      Unflag,
	"c":      Chord,
	"r":      Forfeit, // =)
}

func (m Move) String() string {
	if m < Noop || m >= lastMove {
		return "Move(" + strconv.Itoa(int(m)) + ")"
	}
	return moveNames[m]
}

// Nargs is the number of coordinates the move takes.
func (m Move) Nargs() int {
	switch m {
	case Open, Toggle, Flag, Unflag, Chord:
		return 2
	default:
		return 0
	}
}

var ErrBadMove error

func init() {
	var allowedMoves []string
	for m := Noop; m < lastMove; m++ {
		allowedMoves = append(allowedMoves, "'"+m.String()+"'")
	}
	ErrBadMove = fmt.Errorf(
		"move must be one of %s",
		strings.Join(allowedMoves, ", "),
	)
}

var ErrBadArgs = errors.New("invalid number of arguments")

// ParseMove accepts both the long ("open") and the one-letter ("o") names.
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if m, ok := moveCodes[s]; ok {
		return m, nil
	}
	for m := Noop; m < lastMove; m++ {
		if moveNames[m] == s {
			return m, nil
		}
	}
	return 0, ErrBadMove
}

type Command struct {
	Move Move
	mines.Point
}

func (c Command) String() string {
	if c.Move.Nargs() == 0 {
		return c.Move.String()
	}
	return fmt.Sprintf("%s %d %d", c.Move, c.Row, c.Col)
}

// Parse reads a single command line such as "o 3 4" (open row 3, column 4).
func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrBadMove
	}

	move, err := ParseMove(parts[0])
	if err != nil {
		return Command{}, err
	}
	if move.Nargs() != len(parts)-1 {
		return Command{}, fmt.Errorf("%w for %s", ErrBadArgs, move)
	}

	cmd := Command{Move: move}
	if move.Nargs() == 2 {
		if cmd.Row, err = strconv.Atoi(parts[1]); err != nil {
			return Command{}, fmt.Errorf("first argument must be an int")
		}
		if cmd.Col, err = strconv.Atoi(parts[2]); err != nil {
			return Command{}, fmt.Errorf("second argument must be an int")
		}
	}
	return cmd, nil
}

// Lines yields the non-blank lines of a batch along with their zero-based
// position in it, blank lines included.
func Lines(batch string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		rest, found := batch, true
		var line string
		for i := 0; found; i++ {
			line, rest, found = strings.Cut(rest, "\n")
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !yield(i, line) {
				return
			}
		}
	}
}

// Apply runs cmd against game.
func Apply(game *mines.GameSession, cmd Command) (mines.RevealResult, error) {
	switch cmd.Move {
	case Noop:
		return mines.RevealResult{}, nil
	case Open:
		return game.Reveal(cmd.Row, cmd.Col)
	case Toggle:
		return mines.RevealResult{}, game.ToggleFlag(cmd.Row, cmd.Col)
	case Flag:
		return mines.RevealResult{}, game.Flag(cmd.Row, cmd.Col)
	case Unflag:
		return mines.RevealResult{}, game.Unflag(cmd.Row, cmd.Col)
	case Chord:
		return game.Chord(cmd.Row, cmd.Col)
	case Forfeit:
		game.Forfeit()
		return mines.RevealResult{}, nil
	default:
		return mines.RevealResult{}, ErrBadMove
	}
}

// Execute parses and applies every line of batch, stopping early once the
// game is over. It returns the number of commands applied.
func Execute(game *mines.GameSession, batch string) (int, error) {
	n := 0
	for i, line := range Lines(batch) {
		cmd, err := Parse(line)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", i+1, err)
		}
		if _, err := Apply(game, cmd); err != nil {
			return n, fmt.Errorf("line %d: %w", i+1, err)
		}
		n++
		if !game.Running() {
			break
		}
	}
	return n, nil
}
