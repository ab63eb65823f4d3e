package models

import (
	"ctchen222/tictactoe-engine/internal/repository"
	"ctchen222/tictactoe-engine/pkg/proto"
)

// CreateSessionRequest defines the body of a new session request. An empty
// mode means pvp.
type CreateSessionRequest struct {
	Mode string `json:"mode" binding:"omitempty,oneof=pvp ai"`
}

// MoveRequest defines a human move.
type MoveRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// ModeRequest defines a mode switch.
type ModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	SessionID string           `json:"session_id"`
	Token     string           `json:"token"`
	State     *proto.StateView `json:"state"`
}

// ResultsResponse lists finished games, newest first.
type ResultsResponse struct {
	Results    []repository.GameResult `json:"results"`
	BestStreak int                     `json:"best_streak"`
}
