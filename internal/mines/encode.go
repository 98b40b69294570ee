package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

func DecodeGameSession(buf []byte) (*GameSession, error) {
	var s GameSession
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&s)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *GameSession) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(s)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of s.
func (s *GameSession) Clone() *GameSession {
	c := *s
	c.Grid.Cells = append([]Cell(nil), s.Grid.Cells...)
	c.Revealed = append([]bool(nil), s.Revealed...)
	c.Flagged = append([]bool(nil), s.Flagged...)
	if s.Detonated != nil {
		d := *s.Detonated
		c.Detonated = &d
	}
	return &c
}

// Validate checks that a decoded session is internally consistent.
func (s *GameSession) Validate() error {
	if err := checkDimensions(s.Grid.Rows, s.Grid.Cols); err != nil {
		return err
	}
	n := s.Grid.Rows * s.Grid.Cols
	if len(s.Grid.Cells) != n || len(s.Revealed) != n || len(s.Flagged) != n {
		return fmt.Errorf("corrupt game session: expected %d squares", n)
	}
	mines := 0
	for _, c := range s.Grid.Cells {
		if c.IsMine() {
			mines++
		}
	}
	if mines != s.Mines {
		return fmt.Errorf("corrupt game session: %d mines, want %d", mines, s.Mines)
	}
	return nil
}
