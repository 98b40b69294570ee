package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper/internal/store"
)

// Connect upgrades to a websocket. Every text frame is a batch of commands,
// one per line; the session is written back after each batch, or an error
// object if a command was rejected.
func (g *GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	session, ok := g.load(w, r)
	if !ok {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	g.logger.Debug("established WS connection", slog.String("id", session.ID.String()))

	if err := g.wsRunGameLoop(r, conn, session); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			g.logger.Debug("WS connection closed", slog.String("id", session.ID.String()))
			return
		}
		g.logger.Warn("error in ws loop", slog.Any("error", err))
	}
}

func (g *GameHandler) wsRunGameLoop(
	r *http.Request, conn *websocket.Conn, session *store.Session,
) error {
	if err := conn.WriteJSON(NewGameSessionDTO(session)); err != nil {
		return fmt.Errorf("unable to write json: %w", err)
	}
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}
		g.logger.Debug(fmt.Sprintf("\t> %s", buf))

		updated, cmdErr, err := g.applyBatch(r.Context(), session.ID, string(buf))
		if errors.Is(err, store.ErrNotFound) {
			conn.WriteJSON(wrapError(err))
			return conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session expired"),
			)
		}
		if err != nil {
			return err
		}

		var reply any = NewGameSessionDTO(updated)
		if cmdErr != nil {
			reply = wrapError(cmdErr)
		}
		if err := conn.WriteJSON(reply); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
		g.logger.Debug("\t< <session data>")
	}
}
