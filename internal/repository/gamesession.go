package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type GameSession struct {
	GameSessionId uuid.UUID
	OwnerId       uuid.UUID
	RowCount      int
	ColCount      int
	MineCount     int
	Status        string
	State         []byte
	StartedAt     time.Time
	EndedAt       pgtype.Timestamptz
	UpdatedAt     time.Time
}

type CreateGameSessionParams struct {
	GameSessionId uuid.UUID
	OwnerId       uuid.UUID
	RowCount      int
	ColCount      int
	MineCount     int
	Status        string
	State         []byte
	StartedAt     time.Time
	EndedAt       *time.Time
	UpdatedAt     time.Time
}

func (q Queries) CreateGameSession(
	ctx context.Context, params CreateGameSessionParams,
) (*GameSession, error) {
	args := pgx.NamedArgs{
		"game_session_id": params.GameSessionId,
		"owner_id":        params.OwnerId,
		"row_count":       params.RowCount,
		"col_count":       params.ColCount,
		"mine_count":      params.MineCount,
		"status":          params.Status,
		"state":           params.State,
		"started_at":      params.StartedAt,
		"ended_at":        params.EndedAt,
		"updated_at":      params.UpdatedAt,
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			game_session_id, owner_id, row_count, col_count, mine_count,
			status, state, started_at, ended_at, updated_at
		)
		VALUES (
			@game_session_id, @owner_id, @row_count, @col_count, @mine_count,
			@status, @state, @started_at, @ended_at, @updated_at
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[GameSession],
	)
}

func (q Queries) FetchGameSession(ctx context.Context, gameSessionId uuid.UUID) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_session WHERE game_session_id = $1",
		gameSessionId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

type UpdateGameSessionParams struct {
	Status    *string
	EndedAt   *time.Time
	State     *[]byte
	UpdatedAt *time.Time
}

func (p UpdateGameSessionParams) SetClause() (string, map[string]any) {
	parts := make([]string, 0)
	args := make(map[string]any)

	if p.Status != nil {
		parts = append(parts, "status = @status")
		args["status"] = *p.Status
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}
	if p.UpdatedAt != nil {
		parts = append(parts, "updated_at = @updated_at")
		args["updated_at"] = *p.UpdatedAt
	} else {
		parts = append(parts, "updated_at = now()")
	}

	return strings.Join(parts, ", "), args
}

func (q Queries) UpdateGameSession(
	ctx context.Context, gameSessionId uuid.UUID, params UpdateGameSessionParams,
) (*GameSession, error) {
	setClause, args := params.SetClause()
	args["game_session_id"] = gameSessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE game_session SET "+setClause+" WHERE game_session_id = @game_session_id RETURNING *",
		pgx.NamedArgs(args),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

func (q Queries) DeleteGameSession(ctx context.Context, gameSessionId uuid.UUID) error {
	_, err := q.db.Exec(
		ctx,
		"DELETE FROM game_session WHERE game_session_id = $1",
		gameSessionId,
	)
	return err
}

func (q Queries) DeleteIdleGameSessions(ctx context.Context, before time.Time) (int64, error) {
	tag, err := q.db.Exec(
		ctx,
		"DELETE FROM game_session WHERE updated_at < $1",
		before,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
