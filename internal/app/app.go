package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/database"
	"github.com/vancomm/minesweeper/internal/store"
)

type App struct {
	logger   *slog.Logger
	router   *http.ServeMux
	store    store.Store
	storeCfg *config.Store
	cookies  *config.Cookies
	ws       *config.WebSocket
}

func New(logger *slog.Logger) *App {
	router := http.NewServeMux()

	app := &App{
		logger: logger,
		router: router,
	}

	return app
}

func openStore(ctx context.Context, cfg *config.Store) (store.Store, error) {
	switch cfg.Backend {
	case config.SQLiteBackend:
		return store.OpenSQLite(cfg.SQLitePath)
	case config.PostgresBackend:
		pool, _, err := database.ConnectAndMigrate(ctx, database.Migrations)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to db: %w", err)
		}
		return store.NewPostgres(pool), nil
	default:
		return store.NewMemory(), nil
	}
}

func (a *App) setup(ctx context.Context) error {
	storeCfg, err := config.NewStore()
	if err != nil {
		return err
	}
	a.storeCfg = storeCfg

	jwt, err := config.NewJWT()
	if err != nil {
		return err
	}
	cookies, err := config.NewCookies(jwt)
	if err != nil {
		return err
	}
	a.cookies = cookies

	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}
	a.ws = ws

	st, err := openStore(ctx, storeCfg)
	if err != nil {
		return err
	}
	a.store = st
	return nil
}

// Start serves the game API until ctx is done, sweeping idle sessions in the
// background.
func (a *App) Start(ctx context.Context) error {
	if err := a.setup(ctx); err != nil {
		return err
	}
	defer a.store.Close()

	basePath := config.BasePath()
	a.loadRoutes(basePath)

	port := config.Port()
	server := &http.Server{
		Addr:    port,
		Handler: a.handler(),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return store.Sweep(gCtx, a.store, a.storeCfg.SessionTTL, a.storeCfg.SweepInterval, a.logger)
	})
	g.Go(func() error {
		<-gCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		return server.Shutdown(ctx)
	})

	a.logger.Info(
		"server listening",
		slog.String("addr", port),
		slog.String("base path", basePath),
		slog.String("store", string(a.storeCfg.Backend)),
	)

	return g.Wait()
}
