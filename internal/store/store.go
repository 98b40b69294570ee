package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper/internal/mines"
)

var (
	ErrNotFound = errors.New("game session not found")
	ErrConflict = errors.New("game session already exists")
)

// Session is a game together with the bookkeeping the server needs around
// it.
type Session struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Game      *mines.GameSession
	StartedAt time.Time
	UpdatedAt time.Time
	EndedAt   *time.Time
}

func NewSession(owner uuid.UUID, game *mines.GameSession, now time.Time) *Session {
	s := &Session{
		ID:        uuid.New(),
		OwnerID:   owner,
		Game:      game,
		StartedAt: now,
	}
	s.Touch(now)
	return s
}

// Touch records an update and stamps EndedAt the first time the game is
// seen finished.
func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now
	if s.EndedAt == nil && !s.Game.Running() {
		s.EndedAt = &now
	}
}

func (s *Session) clone() *Session {
	c := *s
	c.Game = s.Game.Clone()
	if s.EndedAt != nil {
		e := *s.EndedAt
		c.EndedAt = &e
	}
	return &c
}

// Store keeps game sessions between requests. Sessions handed out are copies;
// changes only stick once passed to Update.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteIdle removes sessions not updated since before.
	DeleteIdle(ctx context.Context, before time.Time) (int64, error)
	Close() error
}
