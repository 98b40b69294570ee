package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/command"
	"github.com/vancomm/minesweeper/internal/mines"
)

type config struct {
	Params     mines.GameParams
	Difficulty string
	Rand       *rand.Rand
}

func (c config) newGame() (*mines.GameSession, error) {
	params := c.Params
	if c.Difficulty != "" {
		d, err := mines.ParseDifficulty(c.Difficulty)
		if err != nil {
			return nil, err
		}
		if params, err = d.Params(c.Params.Rows, c.Params.Cols); err != nil {
			return nil, err
		}
	}
	log.WithField("board", params.Seed()).Debug("new game")
	return params.NewGame(c.Rand)
}

const help = `commands, one per line:
  o ROW COL   open a square
  f ROW COL   toggle a flag
  u ROW COL   remove a flag
  c ROW COL   open around a satisfied number
  r           give up
  n           new game
  q           quit
`

func printGame(out io.Writer, game *mines.GameSession) {
	fmt.Fprint(out, game.String())
	switch {
	case game.Won():
		fmt.Fprintln(out, "cleared! n for a new game, q to quit")
	case game.Lost():
		fmt.Fprintln(out, "boom. n for a new game, q to quit")
	default:
		fmt.Fprintf(out, "mines left: %d\n", game.MinesRemaining())
	}
}

// play reads command lines from in until q or EOF and prints the board to out
// after each one.
func play(in io.Reader, out io.Writer, cfg config) error {
	game, err := cfg.newGame()
	if err != nil {
		return err
	}
	fmt.Fprint(out, help)
	printGame(out, game)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit":
			return nil
		case "n", "new":
			if game, err = cfg.newGame(); err != nil {
				return err
			}
			printGame(out, game)
			continue
		case "?", "h", "help":
			fmt.Fprint(out, help)
			continue
		}

		n, err := command.Execute(game, line)
		log.WithFields(logrus.Fields{
			"line":    line,
			"applied": n,
			"status":  game.Status.String(),
		}).Debug("command")
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			continue
		}
		printGame(out, game)
	}
	return scanner.Err()
}
