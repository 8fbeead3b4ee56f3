package service

import (
	"testing"
	"time"

	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/game"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/model"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockBigGameStore является моком для BigGameStore.
type MockBigGameStore struct {
	mock.Mock
}

func (m *MockBigGameStore) FindWithRelations(id string) (*model.BigGame, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BigGame), args.Error(1)
}

func (m *MockBigGameStore) UpdateStatus(id, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func storedGame() *model.BigGame {
	return &model.BigGame{
		ID:   "g1",
		Name: "Осенний кубок",
		Games: []model.Game{{
			ID:   "f1",
			Type: model.GameTypeChGK,
			Rounds: []model.Round{
				{Number: 2, QuestionCount: 3, QuestionTime: 60},
				{Number: 1, QuestionCount: 3, QuestionTime: 60},
			},
		}},
		Teams: []model.Team{
			{ID: "a", Name: "Знатоки"},
			{ID: "b", Name: "Сова"},
		},
	}
}

func newTestService(t *testing.T, store BigGameStore) (*GameService, *Registry) {
	t.Helper()
	log := zap.NewNop()
	registry := NewRegistry(time.Hour, log)
	t.Cleanup(registry.Shutdown)
	hub := NewGameHub(1024, 1024, 1<<20, log)
	svc := NewGameService(store, registry, hub, 60, log)
	registry.OnRemove(svc.ReleaseSession)
	return svc, registry
}

func TestGameServiceStart(t *testing.T) {
	store := new(MockBigGameStore)
	store.On("FindWithRelations", "g1").Return(storedGame(), nil)
	store.On("UpdateStatus", "g1", model.GameStatusStarted).Return(nil)
	svc, registry := newTestService(t, store)

	resp, err := svc.Start("g1")
	require.NoError(t, err)
	require.Equal(t, "Осенний кубок", resp.Name)
	require.Equal(t, 2, resp.RoundCount)
	require.Equal(t, 3, resp.QuestionCount)
	require.ElementsMatch(t, []string{"Знатоки", "Сова"}, resp.Teams)

	sess, err := registry.Get("g1")
	require.NoError(t, err)
	require.Equal(t, game.TagChGK, sess.ActiveFormat())
	store.AssertExpectations(t)
}

func TestGameServiceStartTwice(t *testing.T) {
	store := new(MockBigGameStore)
	store.On("FindWithRelations", "g1").Return(storedGame(), nil)
	store.On("UpdateStatus", "g1", model.GameStatusStarted).Return(nil)
	svc, _ := newTestService(t, store)

	_, err := svc.Start("g1")
	require.NoError(t, err)
	_, err = svc.Start("g1")
	require.ErrorIs(t, err, errs.ErrAlreadyStarted)
}

func TestGameServiceStartUnknownGame(t *testing.T) {
	store := new(MockBigGameStore)
	store.On("FindWithRelations", "missing").Return(nil, errs.ErrGameNotFound)
	svc, _ := newTestService(t, store)

	_, err := svc.Start("missing")
	require.ErrorIs(t, err, errs.ErrGameNotFound)
}

func TestGameServiceScoreFlow(t *testing.T) {
	store := new(MockBigGameStore)
	store.On("FindWithRelations", "g1").Return(storedGame(), nil)
	store.On("UpdateStatus", "g1", mock.Anything).Return(nil)
	svc, _ := newTestService(t, store)

	_, err := svc.Start("g1")
	require.NoError(t, err)

	require.NoError(t, svc.AcceptAnswer("g1", game.RoleAdmin, "a", 1, 1, 10))
	require.ErrorIs(t, svc.AcceptAnswer("g1", game.RoleUser, "a", 1, 1, 10), errs.ErrUnauthorized)
	require.ErrorIs(t, svc.AcceptAnswer("g1", game.RoleAdmin, "a", 9, 1, 10), errs.ErrOutOfRange)

	total, err := svc.TotalScore("g1")
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 10, "b": 0}, total.TotalScoreForAllTeams)

	require.NoError(t, svc.SetIntrigue("g1", game.RoleAdmin, true))
	board, err := svc.Scoreboard("g1", game.RoleUser, "a")
	require.NoError(t, err)
	require.True(t, board.IsIntrigue)
	require.NotContains(t, board.ScoreTable, "b")

	_, err = svc.Scoreboard("g1", game.RoleUser, "")
	require.ErrorIs(t, err, errs.ErrNoTeamContext)

	board, err = svc.Scoreboard("g1", game.RoleAdmin, "")
	require.NoError(t, err)
	require.Len(t, board.ScoreTable, 2)
}

func TestGameServiceFinish(t *testing.T) {
	store := new(MockBigGameStore)
	store.On("FindWithRelations", "g1").Return(storedGame(), nil)
	store.On("UpdateStatus", "g1", model.GameStatusStarted).Return(nil)
	store.On("UpdateStatus", "g1", model.GameStatusFinished).Return(nil)
	svc, registry := newTestService(t, store)

	_, err := svc.Start("g1")
	require.NoError(t, err)
	require.True(t, svc.IsStarted("g1"))

	require.NoError(t, svc.Finish("g1"))
	require.False(t, svc.IsStarted("g1"))
	_, err = registry.Get("g1")
	require.ErrorIs(t, err, errs.ErrGameNotStarted)

	// Finishing an already gone session reports not started.
	require.ErrorIs(t, svc.Finish("g1"), errs.ErrGameNotStarted)
	store.AssertExpectations(t)
}

func TestGameServiceQueriesWithoutSession(t *testing.T) {
	store := new(MockBigGameStore)
	svc, _ := newTestService(t, store)

	_, err := svc.TotalScore("g1")
	require.ErrorIs(t, err, errs.ErrGameNotStarted)
	_, err = svc.Scoreboard("g1", game.RoleAdmin, "")
	require.ErrorIs(t, err, errs.ErrGameNotStarted)
	err = svc.SetIntrigue("g1", game.RoleAdmin, true)
	require.ErrorIs(t, err, errs.ErrGameNotStarted)
	_, err = svc.SubmitAnswer("g1", game.RoleUser, "a", "ответ")
	require.ErrorIs(t, err, errs.ErrGameNotStarted)
}

func TestGameServiceNextQuestion(t *testing.T) {
	store := new(MockBigGameStore)
	store.On("FindWithRelations", "g1").Return(storedGame(), nil)
	store.On("UpdateStatus", "g1", mock.Anything).Return(nil)
	svc, registry := newTestService(t, store)

	_, err := svc.Start("g1")
	require.NoError(t, err)
	require.NoError(t, svc.StartRound("g1", game.RoleAdmin, 1))

	require.ErrorIs(t, svc.NextQuestion("g1", game.RoleUser), errs.ErrUnauthorized)

	require.NoError(t, svc.NextQuestion("g1", game.RoleAdmin))
	sess, err := registry.Get("g1")
	require.NoError(t, err)
	cur, _ := sess.Cursor()
	require.Equal(t, game.Cursor{Round: 1, Question: 2}, cur)

	require.NoError(t, svc.NextQuestion("g1", game.RoleAdmin))
	cur, _ = sess.Cursor()
	require.Equal(t, game.Cursor{Round: 1, Question: 3}, cur)
}

func TestGameServiceSubmitAnswerFlow(t *testing.T) {
	store := new(MockBigGameStore)
	store.On("FindWithRelations", "g1").Return(storedGame(), nil)
	store.On("UpdateStatus", "g1", mock.Anything).Return(nil)
	svc, registry := newTestService(t, store)

	_, err := svc.Start("g1")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("g1", game.RoleUser, "a", "early")
	require.Error(t, err, "answers before a round opens must be rejected")

	sess, err := registry.Get("g1")
	require.NoError(t, err)
	_, err = sess.StartRound(game.RoleAdmin, 1)
	require.NoError(t, err)

	cur, err := svc.SubmitAnswer("g1", game.RoleUser, "a", "сорок два")
	require.NoError(t, err)
	require.Equal(t, game.Cursor{Round: 1, Question: 1}, cur)

	_, err = svc.SubmitAnswer("g1", game.RoleUser, "ghost", "x")
	require.ErrorIs(t, err, errs.ErrUnknownTeam)
}
