package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetClause(t *testing.T) {
	t.Parallel()

	status := "won"
	ended := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	updated := ended.Add(time.Second)
	state := []byte{1, 2, 3}

	tests := []struct {
		name   string
		params UpdateGameSessionParams
		clause string
		args   map[string]any
	}{
		{
			name:   "empty",
			params: UpdateGameSessionParams{},
			clause: "updated_at = now()",
			args:   map[string]any{},
		},
		{
			name:   "status only",
			params: UpdateGameSessionParams{Status: &status},
			clause: "status = @status, updated_at = now()",
			args:   map[string]any{"status": "won"},
		},
		{
			name:   "explicit updated_at",
			params: UpdateGameSessionParams{Status: &status, UpdatedAt: &updated},
			clause: "status = @status, updated_at = @updated_at",
			args:   map[string]any{"status": "won", "updated_at": updated},
		},
		{
			name: "everything",
			params: UpdateGameSessionParams{
				Status:    &status,
				EndedAt:   &ended,
				State:     &state,
				UpdatedAt: &updated,
			},
			clause: "status = @status, ended_at = @ended_at, state = @state, updated_at = @updated_at",
			args: map[string]any{
				"status":     "won",
				"ended_at":   ended,
				"state":      state,
				"updated_at": updated,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.params.SetClause()
			assert.Equal(t, tt.clause, clause)
			assert.Equal(t, tt.args, args)
		})
	}
}
