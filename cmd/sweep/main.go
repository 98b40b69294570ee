package main

import (
	"flag"
	"fmt"
	"hash/maphash"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper/internal/mines"
)

var log = logrus.New()

func init() {
	viper.SetEnvPrefix("sweep")
	viper.AutomaticEnv()
	viper.SetDefault("rows", 9)
	viper.SetDefault("cols", 9)
	viper.SetDefault("mines", 10)
	viper.SetDefault("difficulty", "")
	viper.SetDefault("log", "sweep.log")
}

func setupLogging(path string) error {
	log.SetLevel(logrus.DebugLevel)
	log.SetOutput(io.Discard)

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   path,
		MaxSize:    5, // MiB
		MaxBackups: 3,
		MaxAge:     7,
		Level:      logrus.DebugLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	log.AddHook(hook)

	mines.Log = slog.New(slog.NewTextHandler(log.WriterLevel(logrus.DebugLevel), nil))
	return nil
}

func main() {
	var (
		cfg     config
		board   string
		logPath string
		seed    uint64
	)
	flag.IntVar(&cfg.Params.Rows, "rows", viper.GetInt("rows"), "board rows")
	flag.IntVar(&cfg.Params.Cols, "cols", viper.GetInt("cols"), "board columns")
	flag.IntVar(&cfg.Params.MineCount, "mines", viper.GetInt("mines"), "number of mines")
	flag.StringVar(&board, "board", "", "board as rows:cols:mines")
	flag.StringVar(&cfg.Difficulty, "difficulty", viper.GetString("difficulty"),
		"beginner, intermediate, expert, or a density tier: easy, medium, hard")
	flag.Uint64Var(&seed, "seed", viper.GetUint64("seed"), "random seed, 0 picks one")
	flag.StringVar(&logPath, "log", viper.GetString("log"), "log file path")
	flag.Parse()

	if err := setupLogging(logPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if board != "" {
		p, err := mines.ParseSeed(board)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg.Params = *p
	}
	if seed == 0 {
		seed = new(maphash.Hash).Sum64()
	}
	cfg.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))

	log.WithFields(logrus.Fields{
		"board":      cfg.Params.Seed(),
		"difficulty": cfg.Difficulty,
		"seed":       seed,
	}).Info("starting up")

	if err := play(os.Stdin, os.Stdout, cfg); err != nil {
		log.WithError(err).Error("exit")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
