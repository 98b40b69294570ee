package handlers

import (
	"errors"
	"fmt"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/store"
)

const maxSide = 100

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

type NewGameDTO struct {
	Rows       int    `schema:"rows"`
	Cols       int    `schema:"cols"`
	Mines      *int   `schema:"mines"`
	Difficulty string `schema:"difficulty"`
	Row        *int   `schema:"row"`
	Col        *int   `schema:"col"`
}

func ParseNewGameDTO(src map[string][]string) (NewGameDTO, error) {
	var dto NewGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

// Params resolves the board size and mine count the request asks for.
func (dto NewGameDTO) Params() (mines.GameParams, error) {
	var params mines.GameParams
	switch {
	case dto.Difficulty != "":
		d, err := mines.ParseDifficulty(dto.Difficulty)
		if err != nil {
			return params, err
		}
		if !d.IsPreset() && (dto.Rows < 1 || dto.Cols < 1) {
			return params, fmt.Errorf("difficulty %s requires rows and cols", d)
		}
		params, err = d.Params(dto.Rows, dto.Cols)
		if err != nil {
			return params, err
		}
	case dto.Mines != nil:
		params = mines.GameParams{Rows: dto.Rows, Cols: dto.Cols, MineCount: *dto.Mines}
	default:
		return params, errors.New("either mines or difficulty is required")
	}

	if params.Rows < 1 || params.Cols < 1 || params.Rows > maxSide || params.Cols > maxSide {
		return params, fmt.Errorf("%w: rows and cols must be within 1..%d", mines.ErrInvalidDimensions, maxSide)
	}
	if params.MineCount < 0 {
		return params, errors.New("mines must not be negative")
	}
	return params, nil
}

// Start is the first click, if the request carries one.
func (dto NewGameDTO) Start() (mines.Point, bool, error) {
	if dto.Row == nil && dto.Col == nil {
		return mines.Point{}, false, nil
	}
	if dto.Row == nil || dto.Col == nil {
		return mines.Point{}, false, errors.New("row and col go together")
	}
	return mines.Point{Row: *dto.Row, Col: *dto.Col}, true, nil
}

type MoveDTO struct {
	Move string `schema:"move,required"`
	Row  int    `schema:"row"`
	Col  int    `schema:"col"`
}

func ParseMoveDTO(src map[string][]string) (MoveDTO, error) {
	var dto MoveDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type GameSessionDTO struct {
	GameSessionId  string              `json:"game_session_id"`
	Rows           int                 `json:"rows"`
	Cols           int                 `json:"cols"`
	MineCount      int                 `json:"mine_count"`
	MinesRemaining int                 `json:"mines_remaining"`
	Status         string              `json:"status"`
	Grid           mines.View          `json:"grid"`
	StartedAt      int64               `json:"started_at"`
	EndedAt        *int64              `json:"ended_at,omitempty"`
	Result         *mines.RevealResult `json:"result,omitempty"`
}

func NewGameSessionDTO(s *store.Session) *GameSessionDTO {
	var endedAt *int64
	if s.EndedAt != nil {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &GameSessionDTO{
		GameSessionId:  s.ID.String(),
		Rows:           s.Game.Rows(),
		Cols:           s.Game.Cols(),
		MineCount:      s.Game.MineCount(),
		MinesRemaining: s.Game.MinesRemaining(),
		Status:         s.Game.Status.String(),
		Grid:           s.Game.View(),
		StartedAt:      s.StartedAt.UnixMilli(),
		EndedAt:        endedAt,
	}
}

func (dto *GameSessionDTO) WithResult(r mines.RevealResult) *GameSessionDTO {
	dto.Result = &r
	return dto
}
