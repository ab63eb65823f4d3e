package controller

import (
	"context"
	"ctchen222/tictactoe-engine/internal/api/models"
	"ctchen222/tictactoe-engine/internal/api/response"
	"ctchen222/tictactoe-engine/internal/api/service"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/repository"
	"ctchen222/tictactoe-engine/internal/session"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

// SessionStore is the registry of live sessions.
type SessionStore interface {
	Create(ctx context.Context, mode game.Mode) (*session.Session, error)
	Get(id string) (*session.Session, bool)
	Remove(ctx context.Context, id string) bool
	Results(ctx context.Context, id string, limit int) ([]repository.GameResult, int, error)
}

// SessionController handles session-related HTTP requests.
type SessionController struct {
	store  SessionStore
	tokens service.TokenService
}

// NewSessionController creates a new SessionController.
func NewSessionController(store SessionStore, tokens service.TokenService) *SessionController {
	return &SessionController{
		store:  store,
		tokens: tokens,
	}
}

// Create starts a session and returns the token that grants access to it.
func (sc *SessionController) Create(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	mode := game.Mode(req.Mode)
	if mode == "" {
		mode = game.ModePlayerVsPlayer
	}

	s, err := sc.store.Create(c.Request.Context(), mode)
	if err != nil {
		sc.fail(c, err)
		return
	}

	token, err := sc.tokens.Issue(s.ID)
	if err != nil {
		sc.fail(c, err)
		return
	}

	response.CreatedResponse(c, models.SessionResponse{
		SessionID: s.ID,
		Token:     token,
		State:     s.State(),
	})
}

// Get returns the current state.
func (sc *SessionController) Get(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}
	response.SuccessResponse(c, s.State())
}

// Move submits a human move.
func (sc *SessionController) Move(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	state, err := s.Move(c.Request.Context(), *req.Row, *req.Col)
	if err != nil {
		sc.reject(c, err, state)
		return
	}
	response.SuccessResponse(c, state)
}

// Rematch starts a new game keeping the statistics.
func (sc *SessionController) Rematch(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	state, err := s.Rematch(c.Request.Context())
	if err != nil {
		sc.reject(c, err, state)
		return
	}
	response.SuccessResponse(c, state)
}

// Reset zeroes the statistics and starts a new game.
func (sc *SessionController) Reset(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	state, err := s.Reset(c.Request.Context())
	if err != nil {
		sc.reject(c, err, state)
		return
	}
	response.SuccessResponse(c, state)
}

// SetMode switches between pvp and ai.
func (sc *SessionController) SetMode(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	var req models.ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	state, err := s.SetMode(c.Request.Context(), game.Mode(req.Mode))
	if err != nil {
		sc.reject(c, err, state)
		return
	}
	response.SuccessResponse(c, state)
}

// Results lists finished games and the best win streak. The history outlives
// the live session.
func (sc *SessionController) Results(c *gin.Context) {
	limit := defaultResultsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxResultsLimit {
			response.ErrorResponse(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	results, best, err := sc.store.Results(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		sc.fail(c, err)
		return
	}
	response.SuccessResponse(c, models.ResultsResponse{Results: results, BestStreak: best})
}

// Delete ends the session.
func (sc *SessionController) Delete(c *gin.Context) {
	if !sc.store.Remove(c.Request.Context(), c.Param("id")) {
		response.ErrorResponse(c, http.StatusNotFound, "session not found")
		return
	}
	response.SuccessResponse(c, gin.H{"message": "Session removed"})
}

func (sc *SessionController) session(c *gin.Context) (*session.Session, bool) {
	s, ok := sc.store.Get(c.Param("id"))
	if !ok {
		response.ErrorResponse(c, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

// reject maps an operation error to a status code. Illegal moves keep the
// unchanged state in the body.
func (sc *SessionController) reject(c *gin.Context, err error, state any) {
	switch {
	case errors.Is(err, game.ErrIllegalMove):
		response.ErrorResponseWithState(c, http.StatusConflict, err.Error(), state)
	case errors.Is(err, game.ErrNoLegalMove):
		response.ErrorResponseWithState(c, http.StatusConflict, err.Error(), state)
	default:
		sc.fail(c, err)
	}
}

func (sc *SessionController) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownMode):
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrSessionClosed):
		response.ErrorResponse(c, http.StatusNotFound, "session not found")
	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "http.route", c.FullPath(), "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "internal error")
	}
}
