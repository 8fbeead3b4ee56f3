package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/game"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/model"
	"go.uber.org/zap"
)

// BigGameStore is the persistence surface the live engine needs: the start
// payload and the status notification (D: зависимость от абстракции).
type BigGameStore interface {
	FindWithRelations(id string) (*model.BigGame, error)
	UpdateStatus(id, status string) error
}

// GameService orchestrates the live session lifecycle: building sessions
// from persisted configuration, routing answers and timer advances into the
// engine, and producing score snapshots for the API and the hub.
type GameService struct {
	store               BigGameStore
	registry            *Registry
	hub                 *GameHub
	log                 *zap.Logger
	defaultQuestionTime int

	mu     sync.Mutex
	timers map[string]timerEntry
}

// timerEntry remembers which question a countdown was armed for, so an admin
// advance cancels only the timer of the question it skips.
type timerEntry struct {
	t     *QuestionTimer
	armed game.Cursor
}

// NewGameService creates the service.
func NewGameService(store BigGameStore, registry *Registry, hub *GameHub, defaultQuestionTime int, log *zap.Logger) *GameService {
	return &GameService{
		store:               store,
		registry:            registry,
		hub:                 hub,
		log:                 log,
		defaultQuestionTime: defaultQuestionTime,
		timers:              make(map[string]timerEntry),
	}
}

// Start builds the live session from the persisted configuration, registers
// it, and marks the stored game started.
func (s *GameService) Start(gameID string) (*model.StartGameResponse, error) {
	ent, err := s.store.FindWithRelations(gameID)
	if err != nil {
		return nil, err
	}

	roster := make([]game.Team, 0, len(ent.Teams))
	names := make([]string, 0, len(ent.Teams))
	for _, t := range ent.Teams {
		roster = append(roster, game.Team{ID: t.ID, Name: t.Name})
		names = append(names, t.Name)
	}

	cfg := game.Config{Name: ent.Name}
	for _, g := range ent.Games {
		tag, ok := formatTag(g.Type)
		if !ok {
			s.log.Warn("skipping unknown format", zap.String("game_id", gameID), zap.String("type", g.Type))
			continue
		}
		rounds := append([]model.Round(nil), g.Rounds...)
		sort.Slice(rounds, func(i, j int) bool { return rounds[i].Number < rounds[j].Number })
		fc := game.FormatConfig{Tag: tag, Teams: roster}
		for _, r := range rounds {
			timeSec := r.QuestionTime
			if timeSec <= 0 {
				timeSec = s.defaultQuestionTime
			}
			fc.Rounds = append(fc.Rounds, game.RoundConfig{QuestionCount: r.QuestionCount, TimeLimitSec: timeSec})
		}
		cfg.Formats = append(cfg.Formats, fc)
	}

	sess, err := s.registry.Start(gameID, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateStatus(gameID, model.GameStatusStarted); err != nil {
		s.log.Warn("failed to persist started status", zap.String("game_id", gameID), zap.Error(err))
	}

	board, err := sess.Scoreboard(game.RoleAdmin, "")
	if err != nil {
		return nil, err
	}
	return &model.StartGameResponse{
		Name:          ent.Name,
		Teams:         names,
		RoundCount:    board.RoundsCount,
		QuestionCount: board.QuestionsCount,
	}, nil
}

// Finish tears the live session down and marks the stored game finished. The
// registry removal triggers ReleaseSession, which closes connections.
func (s *GameService) Finish(gameID string) error {
	if _, err := s.registry.Get(gameID); err != nil {
		return err
	}
	s.registry.Expire(gameID)
	if err := s.store.UpdateStatus(gameID, model.GameStatusFinished); err != nil {
		s.log.Warn("failed to persist finished status", zap.String("game_id", gameID), zap.Error(err))
	}
	return nil
}

// ReleaseSession stops the session's timer and drops its connections. Wired
// as the registry's removal callback so expiry and explicit finish share it.
func (s *GameService) ReleaseSession(gameID string) {
	s.stopTimer(gameID)
	s.hub.CloseSession(gameID)
}

// IsStarted reports whether the game has a live session.
func (s *GameService) IsStarted(gameID string) bool {
	_, err := s.registry.Get(gameID)
	return err == nil
}

// SetIntrigue toggles intrigue mode on the live session.
func (s *GameService) SetIntrigue(gameID string, role game.Role, v bool) error {
	sess, err := s.registry.Get(gameID)
	if err != nil {
		return err
	}
	if err := sess.SetIntrigue(role, v); err != nil {
		return err
	}
	if v {
		s.log.Info("intrigue started", zap.String("game_id", gameID))
	} else {
		s.log.Info("intrigue finished", zap.String("game_id", gameID))
	}
	return nil
}

// SetActiveFormat switches the live session's current format.
func (s *GameService) SetActiveFormat(gameID string, role game.Role, format string) error {
	sess, err := s.registry.Get(gameID)
	if err != nil {
		return err
	}
	tag, ok := formatTag(format)
	if !ok {
		return fmt.Errorf("%w: format %q", errs.ErrOutOfRange, format)
	}
	s.stopTimer(gameID)
	return sess.SetActiveFormat(role, tag)
}

// TotalScore returns every team's total for the active format.
func (s *GameService) TotalScore(gameID string) (*model.TotalScoreResponse, error) {
	sess, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}
	return &model.TotalScoreResponse{TotalScoreForAllTeams: sess.TotalScoreForAllTeams()}, nil
}

// Scoreboard returns the role/intrigue-filtered score snapshot.
func (s *GameService) Scoreboard(gameID string, role game.Role, teamID string) (*model.ScoreboardResponse, error) {
	sess, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}
	board, err := sess.Scoreboard(role, teamID)
	if err != nil {
		return nil, err
	}
	resp := scoreboardResponse(gameID, board)
	return &resp, nil
}

// Export returns the semicolon-separated score table.
func (s *GameService) Export(gameID string, role game.Role, teamID string) (*model.ExportResponse, error) {
	sess, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}
	table, err := sess.Export(role, teamID)
	if err != nil {
		return nil, err
	}
	return &model.ExportResponse{TotalTable: table}, nil
}

// AcceptAnswer records an externally graded score for one cell and is the
// only path that mutates scores.
func (s *GameService) AcceptAnswer(gameID string, role game.Role, teamID string, round, question, score int) error {
	sess, err := s.registry.Get(gameID)
	if err != nil {
		return err
	}
	return sess.AcceptAnswer(role, teamID, round, question, score)
}

// SubmitAnswer stores a participant's answer for the current question and
// returns the cursor it landed on.
func (s *GameService) SubmitAnswer(gameID string, role game.Role, teamID, answer string) (game.Cursor, error) {
	sess, err := s.registry.Get(gameID)
	if err != nil {
		return game.Cursor{}, err
	}
	return sess.SubmitAnswer(role, teamID, answer)
}

// StartRound opens a round: cursor to its first question, countdown running,
// round_started announced to every connection.
func (s *GameService) StartRound(gameID string, role game.Role, round int) error {
	sess, err := s.registry.Get(gameID)
	if err != nil {
		return err
	}
	r, err := sess.StartRound(role, round)
	if err != nil {
		return err
	}
	raw, _ := json.Marshal(model.RoundStartedEvent{
		Event:         model.EventRoundStarted,
		Round:         r.Number,
		QuestionCount: r.QuestionCount,
		TotalSeconds:  r.QuestionTimeSec,
	})
	s.hub.Broadcast(gameID, raw)
	s.startQuestionTimer(gameID, sess, r.QuestionTimeSec)
	return nil
}

// NextQuestion advances the cursor by admin command instead of waiting for
// the countdown. The advance is anchored to the cursor read here; if the
// countdown expires concurrently, whichever side moves the cursor first wins
// and the other is a no-op.
func (s *GameService) NextQuestion(gameID string, role game.Role) error {
	if role != game.RoleAdmin {
		return errs.ErrUnauthorized
	}
	sess, err := s.registry.Get(gameID)
	if err != nil {
		return err
	}
	cur, _ := sess.Cursor()
	s.stopTimerAt(gameID, cur)
	s.advance(gameID, sess, cur)
	return nil
}

// Reveal pushes the current standings to every connection, each frame
// filtered for its peer's role and team.
func (s *GameService) Reveal(gameID string, role game.Role) error {
	if role != game.RoleAdmin {
		return errs.ErrUnauthorized
	}
	sess, err := s.registry.Get(gameID)
	if err != nil {
		return err
	}
	s.broadcastScoreboard(gameID, sess, false)
	return nil
}

// Shutdown stops all running timers.
func (s *GameService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.timers {
		e.t.Stop()
		delete(s.timers, id)
	}
}

func (s *GameService) startQuestionTimer(gameID string, sess *game.Session, seconds int) {
	armed, _ := sess.Cursor()
	onTick := func(elapsed, total int) {
		cur, _ := sess.Cursor()
		raw, _ := json.Marshal(model.TickEvent{
			Event:          model.EventTick,
			Round:          cur.Round,
			Question:       cur.Question,
			ElapsedSeconds: elapsed,
			TotalSeconds:   total,
		})
		s.hub.Broadcast(gameID, raw)
	}
	onExpire := func() {
		s.advance(gameID, sess, armed)
	}
	t := newQuestionTimer(seconds, onTick, onExpire)

	s.mu.Lock()
	if old, ok := s.timers[gameID]; ok {
		old.t.Stop()
	}
	s.timers[gameID] = timerEntry{t: t, armed: armed}
	s.mu.Unlock()

	go t.Run()
}

func (s *GameService) stopTimer(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.timers[gameID]; ok {
		e.t.Stop()
		delete(s.timers, gameID)
	}
}

// stopTimerAt cancels the timer only while it is still armed for cur. A timer
// that already advanced to the next question keeps running.
func (s *GameService) stopTimerAt(gameID string, cur game.Cursor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.timers[gameID]; ok && e.armed == cur {
		e.t.Stop()
		delete(s.timers, gameID)
	}
}

// advance moves the cursor one question forward, anchored to the question
// the caller observed; the round's last question completes the round and
// triggers the reveal policy.
func (s *GameService) advance(gameID string, sess *game.Session, from game.Cursor) {
	_, roundDone, err := sess.AdvanceQuestionFrom(from)
	if err != nil {
		s.log.Debug("cursor advance rejected", zap.String("game_id", gameID), zap.Error(err))
		return
	}
	if !roundDone {
		r, err := sess.ActiveRound()
		if err != nil {
			s.log.Warn("active round lookup failed", zap.String("game_id", gameID), zap.Error(err))
			return
		}
		s.startQuestionTimer(gameID, sess, r.QuestionTimeSec)
		return
	}
	s.stopTimer(gameID)
	// Round complete: while intrigue is on only admins see the standings.
	s.broadcastScoreboard(gameID, sess, sess.IsIntrigue())
	s.log.Info("round complete", zap.String("game_id", gameID))
}

// broadcastScoreboard sends each peer its role-filtered standings. With
// adminsOnly set, participant connections are skipped entirely.
func (s *GameService) broadcastScoreboard(gameID string, sess *game.Session, adminsOnly bool) {
	s.hub.BroadcastEach(gameID, func(p *Peer) []byte {
		if adminsOnly && p.Role != game.RoleAdmin {
			return nil
		}
		board, err := sess.Scoreboard(p.Role, p.TeamID)
		if err != nil {
			// Teamless spectators have nothing to see under intrigue.
			return nil
		}
		raw, _ := json.Marshal(model.ScoreboardEvent{
			Event:              model.EventScoreboard,
			ScoreboardResponse: scoreboardResponse(gameID, board),
		})
		return raw
	})
}

func scoreboardResponse(gameID string, board game.Scoreboard) model.ScoreboardResponse {
	return model.ScoreboardResponse{
		GameID:                gameID,
		IsIntrigue:            board.IsIntrigue,
		RoundsCount:           board.RoundsCount,
		QuestionsCount:        board.QuestionsCount,
		TotalScoreForAllTeams: board.Totals,
		ScoreTable:            board.Table,
		TeamNames:             board.TeamNames,
	}
}

func formatTag(t string) (game.Tag, bool) {
	switch t {
	case model.GameTypeChGK:
		return game.TagChGK, true
	case model.GameTypeMatrix:
		return game.TagMatrix, true
	default:
		return "", false
	}
}
