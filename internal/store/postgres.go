package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/repository"
)

// Postgres keeps sessions in the game_session table. The game itself is
// stored as a gob blob next to the columns queries filter on.
type Postgres struct {
	pool *pgxpool.Pool
	repo *repository.Queries
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, repo: repository.New(pool)}
}

func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrConflict
	}
	return err
}

func (p *Postgres) Create(ctx context.Context, s *Session) error {
	state, err := s.Game.Bytes()
	if err != nil {
		return fmt.Errorf("unable to encode game state: %w", err)
	}
	_, err = p.repo.CreateGameSession(ctx, repository.CreateGameSessionParams{
		GameSessionId: s.ID,
		OwnerId:       s.OwnerID,
		RowCount:      s.Game.Rows(),
		ColCount:      s.Game.Cols(),
		MineCount:     s.Game.MineCount(),
		Status:        s.Game.Status.String(),
		State:         state,
		StartedAt:     s.StartedAt,
		EndedAt:       s.EndedAt,
		UpdatedAt:     s.UpdatedAt,
	})
	return mapPgError(err)
}

func (p *Postgres) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	row, err := p.repo.FetchGameSession(ctx, id)
	if err != nil {
		return nil, mapPgError(err)
	}
	game, err := mines.DecodeGameSession(row.State)
	if err != nil {
		return nil, fmt.Errorf("db returned invalid game_session.state: %w", err)
	}
	s := &Session{
		ID:        row.GameSessionId,
		OwnerID:   row.OwnerId,
		Game:      game,
		StartedAt: row.StartedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.EndedAt.Valid {
		e := row.EndedAt.Time
		s.EndedAt = &e
	}
	return s, nil
}

func (p *Postgres) Update(ctx context.Context, s *Session) error {
	state, err := s.Game.Bytes()
	if err != nil {
		return fmt.Errorf("unable to encode game state: %w", err)
	}
	status := s.Game.Status.String()
	_, err = p.repo.UpdateGameSession(ctx, s.ID, repository.UpdateGameSessionParams{
		Status:    &status,
		EndedAt:   s.EndedAt,
		State:     &state,
		UpdatedAt: &s.UpdatedAt,
	})
	return mapPgError(err)
}

func (p *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	return p.repo.DeleteGameSession(ctx, id)
}

func (p *Postgres) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	return p.repo.DeleteIdleGameSessions(ctx, before)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
