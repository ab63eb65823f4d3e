package controller

import (
	"ctchen222/tictactoe-engine/internal/api/models"
	"ctchen222/tictactoe-engine/internal/api/service"
	eventmocks "ctchen222/tictactoe-engine/internal/events/mocks"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/hub"
	"ctchen222/tictactoe-engine/internal/repository"
	repomocks "ctchen222/tictactoe-engine/internal/repository/mocks"
	"ctchen222/tictactoe-engine/internal/session"
	"ctchen222/tictactoe-engine/pkg/proto"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type envelope[T any] struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  T    `json:"extras"`
}

type rejection struct {
	Message string           `json:"message"`
	State   *proto.StateView `json:"state"`
}

type fixture struct {
	router  *gin.Engine
	hub     *hub.Hub
	games   *repomocks.MockGameRepository
	results *repomocks.MockResultRepository
	tokens  service.TokenService
}

func newFixture(t *testing.T) *fixture {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	f := &fixture{
		games:   repomocks.NewMockGameRepository(ctrl),
		results: repomocks.NewMockResultRepository(ctrl),
		tokens:  service.NewTokenService("secret", time.Hour),
	}
	publisher := eventmocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.games.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.hub = hub.NewHub(session.Deps{Publisher: publisher, Games: f.games, Results: f.results}, 0)
	t.Cleanup(f.hub.Shutdown)

	sc := NewSessionController(f.hub, f.tokens)
	r := gin.New()
	r.POST("/sessions", sc.Create)
	r.GET("/sessions/:id", sc.Get)
	r.DELETE("/sessions/:id", sc.Delete)
	r.POST("/sessions/:id/moves", sc.Move)
	r.POST("/sessions/:id/rematch", sc.Rematch)
	r.POST("/sessions/:id/reset", sc.Reset)
	r.PUT("/sessions/:id/mode", sc.SetMode)
	r.GET("/sessions/:id/results", sc.Results)
	f.router = r
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func (f *fixture) create(t *testing.T, body string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.SessionResponse](t, w).Extras.SessionID
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	t.Run("default mode", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/sessions", "")
		require.Equal(t, http.StatusCreated, w.Code)

		env := decode[models.SessionResponse](t, w)
		assert.True(t, env.Success)
		assert.Equal(t, game.ModePlayerVsPlayer, env.Extras.State.Mode)
		assert.Equal(t, game.PlayerX, env.Extras.State.Next)

		sid, err := f.tokens.Parse(env.Extras.Token)
		require.NoError(t, err)
		assert.Equal(t, env.Extras.SessionID, sid)
	})

	t.Run("ai mode", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/sessions", `{"mode":"ai"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, game.ModePlayerVsAI, decode[models.SessionResponse](t, w).Extras.State.Mode)
	})

	t.Run("unknown mode", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/sessions", `{"mode":"chess"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMove(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, `{"mode":"pvp"}`)

	w := f.do(t, http.MethodPost, "/sessions/"+id+"/moves", `{"row":0,"col":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state := decode[proto.StateView](t, w).Extras
	assert.Equal(t, game.PlayerX, state.Board[0][0])
	assert.Equal(t, game.PlayerO, state.Next)

	t.Run("occupied cell conflicts with unchanged state", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/sessions/"+id+"/moves", `{"row":0,"col":0}`)
		require.Equal(t, http.StatusConflict, w.Code)

		env := decode[rejection](t, w)
		assert.False(t, env.Success)
		assert.Contains(t, env.Extras.Message, "occupied")
		require.NotNil(t, env.Extras.State)
		assert.Equal(t, game.PlayerO, env.Extras.State.Next)
	})

	t.Run("out of bounds conflicts", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/sessions/"+id+"/moves", `{"row":3,"col":0}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing column is a bad request", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/sessions/"+id+"/moves", `{"row":1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/sessions/missing/moves", `{"row":1,"col":1}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLifecycle(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "")

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/sessions/"+id+"/moves", `{"row":1,"col":1}`).Code)

	w := f.do(t, http.MethodPost, "/sessions/"+id+"/rematch", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, game.None, decode[proto.StateView](t, w).Extras.Board[1][1])

	w = f.do(t, http.MethodPost, "/sessions/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, game.Stats{}, decode[proto.StateView](t, w).Extras.Stats)

	w = f.do(t, http.MethodPut, "/sessions/"+id+"/mode", `{"mode":"ai"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, game.ModePlayerVsAI, decode[proto.StateView](t, w).Extras.Mode)

	w = f.do(t, http.MethodPut, "/sessions/"+id+"/mode", `{"mode":"chess"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, game.ModePlayerVsAI, decode[proto.StateView](t, w).Extras.Mode)

	f.games.EXPECT().Delete(gomock.Any(), id).Return(nil)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, "/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/sessions/"+id, "").Code)
}

func TestResults(t *testing.T) {
	f := newFixture(t)
	finished := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	want := []repository.GameResult{
		{ID: 2, SessionID: "s1", Outcome: game.OutcomeWon, Winner: game.PlayerO, Moves: 6, FinishedAt: finished},
		{ID: 1, SessionID: "s1", Outcome: game.OutcomeDraw, Moves: 9, FinishedAt: finished},
	}

	f.results.EXPECT().ListBySession(gomock.Any(), "s1", defaultResultsLimit).Return(want, nil)
	f.results.EXPECT().BestStreak(gomock.Any(), "s1").Return(1, nil)

	w := f.do(t, http.MethodGet, "/sessions/s1/results", "")
	require.Equal(t, http.StatusOK, w.Code)

	env := decode[models.ResultsResponse](t, w)
	assert.Equal(t, want, env.Extras.Results)
	assert.Equal(t, 1, env.Extras.BestStreak)

	t.Run("bad limit", func(t *testing.T) {
		for _, limit := range []string{"0", "101", "abc"} {
			w := f.do(t, http.MethodGet, "/sessions/s1/results?limit="+limit, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, limit)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		f.results.EXPECT().ListBySession(gomock.Any(), "s1", 5).Return(nil, errors.New("db locked"))
		w := f.do(t, http.MethodGet, "/sessions/s1/results?limit=5", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
