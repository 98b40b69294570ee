package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/handlers"
	"github.com/vancomm/minesweeper/internal/middleware"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// loadRoutes mounts the game API under basePath.
func (a *App) loadRoutes(basePath string) {
	game := handlers.NewGameHandler(a.logger, a.store, a.ws, createRand())

	basePath = strings.TrimSuffix(basePath, "/")
	if basePath == "" {
		a.router.Handle("/", game.Routes())
		return
	}
	a.router.Handle(basePath+"/", http.StripPrefix(basePath, game.Routes()))
}

func (a *App) handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Auth(a.logger, a.cookies),
		middleware.Cors(config.AllowedOrigins()),
		middleware.Logging(a.logger),
	)
}
