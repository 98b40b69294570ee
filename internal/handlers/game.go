package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper/internal/command"
	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/store"
)

var (
	ErrBadSessionId = errors.New("invalid game session id")
	ErrNotOwner     = errors.New("game session belongs to another player")
)

type GameHandler struct {
	logger *slog.Logger
	store  store.Store
	locks  *store.Locks
	ws     *config.WebSocket

	mu  sync.Mutex
	rnd *rand.Rand

	now func() time.Time
}

func NewGameHandler(
	logger *slog.Logger,
	st store.Store,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		logger: logger,
		store:  st,
		locks:  store.NewLocks(),
		ws:     ws,
		rnd:    rnd,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (g *GameHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /{$}", g.NewGame)
	mux.HandleFunc("GET /{id}", g.Fetch)
	mux.HandleFunc("POST /{id}/move", g.Move)
	mux.HandleFunc("POST /{id}/forfeit", g.Forfeit)
	mux.HandleFunc("GET /{id}/connect", g.Connect)
	return mux
}

func (g *GameHandler) newGame(params mines.GameParams, start *mines.Point) (*mines.GameSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if start != nil {
		return mines.NewGameSafe(params.Rows, params.Cols, params.MineCount, *start, g.rnd)
	}
	return params.NewGame(g.rnd)
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.OwnerClaims(r.Context())
	if !ok {
		sendErrorOrLog(w, g.logger, http.StatusUnauthorized, ErrNotOwner)
		return
	}

	query := r.URL.Query()
	dto, err := ParseNewGameDTO(query)
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	params, err := dto.Params()
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	start, hasStart, err := dto.Start()
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	var game *mines.GameSession
	if hasStart {
		game, err = g.newGame(params, &start)
	} else {
		game, err = g.newGame(params, nil)
	}
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	var result *mines.RevealResult
	if hasStart {
		res, err := game.Reveal(start.Row, start.Col)
		if err != nil {
			sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
			return
		}
		result = &res
	}

	session := store.NewSession(claims.OwnerId, game, g.now())
	if err := g.store.Create(r.Context(), session); err != nil {
		g.internalError(w, "unable to create game session", err)
		return
	}
	g.logger.Debug(
		"created game session",
		slog.String("id", session.ID.String()),
		slog.String("params", params.Seed()),
	)

	resp := NewGameSessionDTO(session)
	if result != nil {
		resp.WithResult(*result)
	}
	sendJSONStatusOrLog(w, g.logger, http.StatusCreated, resp)
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, ok := g.load(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.logger, NewGameSessionDTO(session))
}

func (g *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseMoveDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	move, err := command.ParseMove(dto.Move)
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	cmd := command.Command{Move: move, Point: mines.Point{Row: dto.Row, Col: dto.Col}}
	g.mutate(w, r, func(game *mines.GameSession) (mines.RevealResult, error) {
		return command.Apply(game, cmd)
	})
}

func (g *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	g.mutate(w, r, func(game *mines.GameSession) (mines.RevealResult, error) {
		game.Forfeit()
		return mines.RevealResult{}, nil
	})
}

// mutate runs fn on the session named in the path while holding its lock and
// persists the result.
func (g *GameHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	fn func(*mines.GameSession) (mines.RevealResult, error),
) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, ErrBadSessionId)
		return
	}
	unlock := g.locks.Lock(id)
	defer unlock()

	session, ok := g.load(w, r)
	if !ok {
		return
	}
	result, err := fn(session.Game)
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	session.Touch(g.now())
	if err := g.store.Update(r.Context(), session); err != nil {
		g.storeError(w, "unable to update game session", err)
		return
	}
	sendJSONOrLog(w, g.logger, NewGameSessionDTO(session).WithResult(result))
}

// load fetches the session named in the path and checks that it belongs to
// the caller. It writes the error response itself.
func (g *GameHandler) load(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, ErrBadSessionId)
		return nil, false
	}
	claims, ok := middleware.OwnerClaims(r.Context())
	if !ok {
		sendErrorOrLog(w, g.logger, http.StatusUnauthorized, ErrNotOwner)
		return nil, false
	}
	session, err := g.store.Get(r.Context(), id)
	if err != nil {
		g.storeError(w, "unable to fetch game session", err)
		return nil, false
	}
	if session.OwnerID != claims.OwnerId {
		sendErrorOrLog(w, g.logger, http.StatusUnauthorized, ErrNotOwner)
		return nil, false
	}
	return session, true
}

// applyBatch runs a batch of commands against a stored session. cmdErr is the
// first command that failed; commands before it are kept.
func (g *GameHandler) applyBatch(
	ctx context.Context, id uuid.UUID, batch string,
) (session *store.Session, cmdErr error, err error) {
	unlock := g.locks.Lock(id)
	defer unlock()

	session, err = g.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	n, cmdErr := command.Execute(session.Game, batch)
	g.logger.Debug(
		"applied batch",
		slog.String("id", id.String()),
		slog.Int("commands", n),
		slog.String("status", session.Game.Status.String()),
	)
	session.Touch(g.now())
	if err := g.store.Update(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("unable to update game session: %w", err)
	}
	return session, cmdErr, nil
}

func (g *GameHandler) storeError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		sendErrorOrLog(w, g.logger, http.StatusNotFound, err)
		return
	}
	g.internalError(w, msg, err)
}

func (g *GameHandler) internalError(w http.ResponseWriter, msg string, err error) {
	g.logger.Error(msg, slog.Any("error", err))
	sendErrorOrLog(w, g.logger, http.StatusInternalServerError, errors.New("internal error"))
}
