package hub

import (
	"context"
	eventmocks "ctchen222/tictactoe-engine/internal/events/mocks"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/repository"
	repomocks "ctchen222/tictactoe-engine/internal/repository/mocks"
	"ctchen222/tictactoe-engine/internal/session"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testDeps struct {
	games     *repomocks.MockGameRepository
	results   *repomocks.MockResultRepository
	publisher *eventmocks.MockPublisher
}

func newTestHub(t *testing.T, idle time.Duration) (*Hub, testDeps) {
	ctrl := gomock.NewController(t)
	m := testDeps{
		games:     repomocks.NewMockGameRepository(ctrl),
		results:   repomocks.NewMockResultRepository(ctrl),
		publisher: eventmocks.NewMockPublisher(ctrl),
	}
	m.games.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	h := NewHub(session.Deps{
		Publisher: m.publisher,
		Games:     m.games,
		Results:   m.results,
	}, idle)
	t.Cleanup(h.Shutdown)
	return h, m
}

func TestHub_CreateAndGet(t *testing.T) {
	h, _ := newTestHub(t, 0)

	s, err := h.Create(context.Background(), game.ModePlayerVsAI)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, game.ModePlayerVsAI, s.State().Mode)

	got, ok := h.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, h.Count())

	_, ok = h.Get("missing")
	assert.False(t, ok)
}

func TestHub_CreateUniqueIDs(t *testing.T) {
	h, _ := newTestHub(t, 0)

	a, err := h.Create(context.Background(), game.ModePlayerVsPlayer)
	require.NoError(t, err)
	b, err := h.Create(context.Background(), game.ModePlayerVsPlayer)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestHub_CreateUnknownMode(t *testing.T) {
	h, _ := newTestHub(t, 0)

	_, err := h.Create(context.Background(), "chess")
	assert.ErrorIs(t, err, game.ErrUnknownMode)
	assert.Equal(t, 0, h.Count())
}

func TestHub_Remove(t *testing.T) {
	h, m := newTestHub(t, 0)
	s, err := h.Create(context.Background(), game.ModePlayerVsPlayer)
	require.NoError(t, err)

	m.games.EXPECT().Delete(gomock.Any(), s.ID).Return(nil)

	assert.True(t, h.Remove(context.Background(), s.ID))
	assert.False(t, h.Remove(context.Background(), s.ID))
	_, ok := h.Get(s.ID)
	assert.False(t, ok)

	_, err = s.Move(context.Background(), 0, 0)
	assert.ErrorIs(t, err, session.ErrSessionClosed)
}

func TestHub_RemoveLogsDeleteFailure(t *testing.T) {
	h, m := newTestHub(t, 0)
	s, err := h.Create(context.Background(), game.ModePlayerVsPlayer)
	require.NoError(t, err)

	m.games.EXPECT().Delete(gomock.Any(), s.ID).Return(errors.New("redis down"))
	assert.True(t, h.Remove(context.Background(), s.ID))
}

func TestHub_Sweep(t *testing.T) {
	h, m := newTestHub(t, time.Minute)
	idle, err := h.Create(context.Background(), game.ModePlayerVsPlayer)
	require.NoError(t, err)

	m.games.EXPECT().Delete(gomock.Any(), idle.ID).Return(nil)

	assert.Equal(t, 0, h.sweep(context.Background(), time.Now()))
	assert.Equal(t, 1, h.sweep(context.Background(), time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, h.Count())
}

func TestHub_RunStopsWithContext(t *testing.T) {
	h, _ := newTestHub(t, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestHub_Results(t *testing.T) {
	h, m := newTestHub(t, 0)
	want := []repository.GameResult{{ID: 2, SessionID: "s1", Outcome: game.OutcomeDraw}}

	m.results.EXPECT().ListBySession(gomock.Any(), "s1", 10).Return(want, nil)
	m.results.EXPECT().BestStreak(gomock.Any(), "s1").Return(3, nil)

	got, best, err := h.Results(context.Background(), "s1", 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 3, best)
}

func TestHub_ResultsError(t *testing.T) {
	h, m := newTestHub(t, 0)
	m.results.EXPECT().ListBySession(gomock.Any(), "s1", 10).Return(nil, errors.New("db locked"))

	_, _, err := h.Results(context.Background(), "s1", 10)
	assert.Error(t, err)
}
