package handlers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	mrand "math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/store"
)

type fixture struct {
	t       *testing.T
	st      *store.Memory
	cookies *config.Cookies
	handler http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	t.Setenv("COOKIES_DOMAIN", "")
	t.Setenv("COOKIES_SECURE", "0")
	t.Setenv("COOKIES_SAMESITE", "lax")
	cookies, err := config.NewCookies(config.NewJWTFromKey(key))
	require.NoError(t, err)
	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewMemory()
	h := NewGameHandler(logger, st, ws, mrand.New(mrand.NewPCG(1, 2)))

	return &fixture{
		t:       t,
		st:      st,
		cookies: cookies,
		handler: middleware.Wrap(h.Routes(), middleware.Auth(logger, cookies)),
	}
}

func (f *fixture) ownerCookies(owner uuid.UUID) []*http.Cookie {
	rec := httptest.NewRecorder()
	_, err := f.cookies.Issue(rec, owner)
	require.NoError(f.t, err)
	return rec.Result().Cookies()
}

func (f *fixture) do(method, target string, owner uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range f.ownerCookies(owner) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) seed(owner uuid.UUID, rows, cols int, mineAt ...mines.Point) uuid.UUID {
	game, err := mines.FromMines(rows, cols, mineAt)
	require.NoError(f.t, err)
	s := store.NewSession(owner, game, time.Now())
	require.NoError(f.t, f.st.Create(context.Background(), s))
	return s.ID
}

func decodeDTO(t *testing.T, body io.Reader) GameSessionDTO {
	t.Helper()
	var dto GameSessionDTO
	require.NoError(t, json.NewDecoder(body).Decode(&dto))
	return dto
}

func TestNewGame(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	tests := []struct {
		name   string
		query  string
		code   int
		rows   int
		cols   int
		mines  int
		status string
	}{
		{"explicit", "rows=5&cols=6&mines=7", http.StatusCreated, 5, 6, 7, "running"},
		{"clamped", "rows=2&cols=2&mines=10", http.StatusCreated, 2, 2, 3, "running"},
		{"preset", "difficulty=Beginner", http.StatusCreated, 9, 9, 10, "running"},
		{"density", "difficulty=hard&rows=10&cols=10", http.StatusCreated, 10, 10, 20, "running"},
		{"safe start", "rows=3&cols=3&mines=0&row=1&col=1", http.StatusCreated, 3, 3, 0, "won"},
		{"no mines given", "rows=3&cols=3", http.StatusBadRequest, 0, 0, 0, ""},
		{"density needs size", "difficulty=easy", http.StatusBadRequest, 0, 0, 0, ""},
		{"unknown difficulty", "difficulty=insane", http.StatusBadRequest, 0, 0, 0, ""},
		{"zero rows", "rows=0&cols=3&mines=1", http.StatusBadRequest, 0, 0, 0, ""},
		{"too wide", "rows=3&cols=1000&mines=1", http.StatusBadRequest, 0, 0, 0, ""},
		{"negative mines", "rows=3&cols=3&mines=-1", http.StatusBadRequest, 0, 0, 0, ""},
		{"half a start", "rows=3&cols=3&mines=1&row=1", http.StatusBadRequest, 0, 0, 0, ""},
		{"start off board", "rows=3&cols=3&mines=1&row=3&col=0", http.StatusBadRequest, 0, 0, 0, ""},
		{"not a number", "rows=three&cols=3&mines=1", http.StatusBadRequest, 0, 0, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/?"+tt.query, owner)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code != http.StatusCreated {
				return
			}
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			dto := decodeDTO(t, rec.Body)
			assert.Equal(t, tt.rows, dto.Rows)
			assert.Equal(t, tt.cols, dto.Cols)
			assert.Equal(t, tt.mines, dto.MineCount)
			assert.Equal(t, tt.status, dto.Status)
			assert.Len(t, dto.Grid, tt.rows*tt.cols)

			id, err := uuid.Parse(dto.GameSessionId)
			require.NoError(t, err)
			s, err := f.st.Get(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, owner, s.OwnerID)
		})
	}
}

func TestSendJSONStatusMarshalsFirst(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rec := httptest.NewRecorder()
	sendJSONStatusOrLog(rec, logger, http.StatusCreated, map[string]any{"ch": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	sendJSONStatusOrLog(rec, logger, http.StatusCreated, map[string]int{"n": 1})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())
}

func TestNewGameSafeStartOpensArea(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/?rows=9&cols=9&mines=10&row=4&col=4", uuid.New())
	require.Equal(t, http.StatusCreated, rec.Code)

	dto := decodeDTO(t, rec.Body)
	require.NotNil(t, dto.Result)
	assert.True(t, dto.Result.OK)
	assert.False(t, dto.Result.HitMine)
	assert.Equal(t, mines.CellState(0), dto.Grid[4*9+4])
}

func TestFetch(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	id := f.seed(owner, 3, 3, mines.Point{Row: 0, Col: 0})

	rec := f.do(http.MethodGet, "/"+id.String(), owner)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeDTO(t, rec.Body)
	assert.Equal(t, id.String(), dto.GameSessionId)
	assert.Equal(t, "running", dto.Status)
	assert.Equal(t, 1, dto.MinesRemaining)
	assert.Nil(t, dto.EndedAt)
	for _, c := range dto.Grid {
		assert.Equal(t, mines.Unknown, c)
	}

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/"+id.String(), uuid.New()).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/"+uuid.NewString(), owner).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/42", owner).Code)
}

func TestMove(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	id := f.seed(owner, 3, 3, mines.Point{Row: 0, Col: 0})
	path := "/" + id.String() + "/move?"

	rec := f.do(http.MethodPost, path+"move=flag&row=0&col=0", owner)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dto := decodeDTO(t, rec.Body)
	assert.Equal(t, mines.Flagged, dto.Grid[0])
	assert.Equal(t, 0, dto.MinesRemaining)

	rec = f.do(http.MethodPost, path+"move=o&row=2&col=2", owner)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dto = decodeDTO(t, rec.Body)
	assert.Equal(t, "won", dto.Status)
	require.NotNil(t, dto.Result)
	assert.Equal(t, mines.RevealResult{OK: true, Opened: 8}, *dto.Result)
	assert.NotNil(t, dto.EndedAt)
	assert.Equal(t, mines.CorrectlyFlagged, dto.Grid[0])

	rec = f.do(http.MethodPost, path+"move=open&row=0&col=0", owner)
	require.Equal(t, http.StatusOK, rec.Code)
	dto = decodeDTO(t, rec.Body)
	assert.Equal(t, "won", dto.Status)
	assert.False(t, dto.Result.OK)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, path+"move=open&row=3&col=0", owner).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, path+"move=dance&row=0&col=0", owner).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, path+"row=0&col=0", owner).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, path+"move=open&row=1&col=1", uuid.New()).Code)
}

func TestMoveFlagAndUnflag(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	id := f.seed(owner, 3, 3, mines.Point{Row: 0, Col: 0})
	path := "/" + id.String() + "/move?"

	for _, step := range []struct {
		move string
		want mines.CellState
	}{
		{"flag", mines.Flagged},
		{"flag", mines.Flagged},
		{"unflag", mines.Unknown},
		{"unflag", mines.Unknown},
		{"toggle", mines.Flagged},
	} {
		rec := f.do(http.MethodPost, path+"move="+step.move+"&row=0&col=0", owner)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, step.want, decodeDTO(t, rec.Body).Grid[0], step.move)
	}
}

func TestMoveHitsMine(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	id := f.seed(owner, 2, 2, mines.Point{Row: 1, Col: 1})

	rec := f.do(http.MethodPost, "/"+id.String()+"/move?move=open&row=1&col=1", owner)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeDTO(t, rec.Body)
	assert.Equal(t, "lost", dto.Status)
	assert.True(t, dto.Result.HitMine)
	assert.Equal(t, mines.ExplodedMine, dto.Grid[3])
}

func TestForfeit(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	id := f.seed(owner, 3, 3, mines.Point{Row: 0, Col: 0})

	rec := f.do(http.MethodPost, "/"+id.String()+"/forfeit", owner)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeDTO(t, rec.Body)
	assert.Equal(t, "lost", dto.Status)
	assert.NotNil(t, dto.EndedAt)
	assert.Equal(t, mines.UnflaggedMine, dto.Grid[0])

	s, err := f.st.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, s.Game.Lost())
}

func TestConnect(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	id := f.seed(owner, 3, 3, mines.Point{Row: 0, Col: 0})

	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	header := http.Header{}
	for _, c := range f.ownerCookies(owner) {
		header.Add("Cookie", c.Name+"="+c.Value)
	}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + id.String() + "/connect"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	var dto GameSessionDTO
	require.NoError(t, conn.ReadJSON(&dto))
	assert.Equal(t, "running", dto.Status)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("x 1 1")))
	var reply map[string]any
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Contains(t, reply, "error")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("f 0 0\no 2 2\no 1 1")))
	dto = GameSessionDTO{}
	require.NoError(t, conn.ReadJSON(&dto))
	assert.Equal(t, "won", dto.Status)
	assert.Equal(t, mines.CorrectlyFlagged, dto.Grid[0])

	s, err := f.st.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, s.Game.Won())
	assert.NotNil(t, s.EndedAt)
}

func TestConnectRejectsOtherOwner(t *testing.T) {
	f := newFixture(t)
	id := f.seed(uuid.New(), 3, 3, mines.Point{Row: 0, Col: 0})

	rec := f.do(http.MethodGet, "/"+id.String()+"/connect", uuid.New())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
