package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var ErrBadName = fmt.Errorf("bad name for store")

// SQLite keeps gob-encoded sessions in a single key/value table.
type SQLite struct {
	name string
	db   *sql.DB
}

func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isLetters(s string) bool {
	for _, c := range s {
		if !isLetter(c) {
			return false
		}
	}
	return s != ""
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	s, err := NewSQLite(db, "game_session")
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Creates a new [SQLite] store over db. name may only contain Latin letters
// and underscores since it is spliced into the queries.
func NewSQLite(db *sql.DB, name string) (*SQLite, error) {
	if !isLetters(name) {
		return nil, ErrBadName
	}

	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS ` + name + ` (
	key			TEXT PRIMARY KEY,
	updated_at	INTEGER NOT NULL,
	value		BLOB
);`)
	if err != nil {
		return nil, err
	}
	return &SQLite{name: name, db: db}, nil
}

func encodeSession(s *Session) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *SQLite) Create(ctx context.Context, session *Session) error {
	value, err := encodeSession(session)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO `+s.name+` (key, updated_at, value)
VALUES (?, ?, ?)
ON CONFLICT(key) DO NOTHING;`,
		session.ID.String(), session.UpdatedAt.UnixMilli(), value)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrConflict
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	var v []uint8
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM `+s.name+` WHERE key = ?;`,
		id.String()).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	var session Session
	if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&session); err != nil {
		return nil, fmt.Errorf("unable to decode session %s: %w", id, err)
	}
	if session.Game == nil {
		return nil, fmt.Errorf("session %s has no game state", id)
	}
	if err := session.Game.Validate(); err != nil {
		return nil, fmt.Errorf("db returned invalid game state for %s: %w", id, err)
	}
	return &session, nil
}

func (s *SQLite) Update(ctx context.Context, session *Session) error {
	value, err := encodeSession(session)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE `+s.name+` SET updated_at = ?, value = ? WHERE key = ?;`,
		session.UpdatedAt.UnixMilli(), value, session.ID.String())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Deletes a session without checking if it existed.
func (s *SQLite) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM `+s.name+` WHERE key = ?;`, id.String())
	return err
}

func (s *SQLite) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM `+s.name+` WHERE updated_at < ?;`, before.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
