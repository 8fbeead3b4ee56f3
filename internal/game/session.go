package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
)

// Scoreboard is a role-filtered snapshot of the active format's scores.
type Scoreboard struct {
	IsIntrigue     bool
	RoundsCount    int
	QuestionsCount int
	Totals         map[string]int
	Table          map[string][][]int
	TeamNames      map[string]string
}

// Session aggregates the enabled formats of one live event. All mutable state
// (matrices, cursor, intrigue flag, active format) is serialized through one
// mutex: timer ticks, answer submissions and score reads for the same session
// go through the same exclusive region. Different sessions are independent.
type Session struct {
	mu        sync.Mutex
	id        string
	name      string
	formats   map[Tag]*Format
	active    Tag
	intrigue  bool
	createdAt time.Time
	phase     Phase
	cursor    Cursor
}

// NewSession builds a session from a start payload. One or two formats, each
// with contiguous 1-based rounds and a fixed roster.
func NewSession(id string, cfg Config) (*Session, error) {
	if len(cfg.Formats) == 0 || len(cfg.Formats) > 2 {
		return nil, fmt.Errorf("session %s: want 1 or 2 formats, got %d", id, len(cfg.Formats))
	}
	s := &Session{
		id:        id,
		name:      cfg.Name,
		formats:   make(map[Tag]*Format, len(cfg.Formats)),
		createdAt: time.Now(),
		phase:     PhaseAwaitingConnections,
	}
	for _, fc := range cfg.Formats {
		if _, ok := s.formats[fc.Tag]; ok {
			return nil, fmt.Errorf("session %s: duplicate format %s", id, fc.Tag)
		}
		f := NewFormat(fc.Tag)
		for i, rc := range fc.Rounds {
			r := Round{Number: i + 1, QuestionCount: rc.QuestionCount, QuestionTimeSec: rc.TimeLimitSec}
			if err := f.AddRound(r); err != nil {
				return nil, fmt.Errorf("session %s: %w", id, err)
			}
		}
		for _, t := range fc.Teams {
			if err := f.AddTeam(t); err != nil {
				return nil, fmt.Errorf("session %s: %w", id, err)
			}
		}
		s.formats[fc.Tag] = f
		if s.active == "" {
			s.active = fc.Tag
		}
	}
	// ChGK opens the event when both formats are enabled.
	if _, ok := s.formats[TagChGK]; ok {
		s.active = TagChGK
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Name returns the human-readable event name.
func (s *Session) Name() string { return s.name }

// CreatedAt returns the session start time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// ActiveFormat returns the tag of the currently played format.
func (s *Session) ActiveFormat() Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetActiveFormat switches the current format. Admin only. The cursor resets
// to the new format's first question; both matrices are preserved.
func (s *Session) SetActiveFormat(role Role, tag Tag) error {
	if role != RoleAdmin {
		return errs.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.formats[tag]; !ok {
		return fmt.Errorf("%w: format %s not enabled", errs.ErrOutOfRange, tag)
	}
	s.active = tag
	s.cursor = Cursor{}
	s.phase = PhaseAwaitingConnections
	return nil
}

// IsIntrigue reports whether standings are hidden from participants.
func (s *Session) IsIntrigue() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intrigue
}

// SetIntrigue toggles intrigue mode. Admin only.
func (s *Session) SetIntrigue(role Role, v bool) error {
	if role != RoleAdmin {
		return errs.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intrigue = v
	return nil
}

// Cursor returns the live cursor and phase.
func (s *Session) Cursor() (Cursor, Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, s.phase
}

// StartRound positions the cursor at the first question of the given round
// and returns that round for timer setup. Admin only.
func (s *Session) StartRound(role Role, round int) (Round, error) {
	if role != RoleAdmin {
		return Round{}, errs.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseClosed {
		return Round{}, errs.ErrGameNotStarted
	}
	r, err := s.formats[s.active].Round(round)
	if err != nil {
		return Round{}, err
	}
	s.cursor = Cursor{Round: round, Question: 1}
	s.phase = PhaseRoundInProgress
	return r, nil
}

// AdvanceQuestion moves the cursor to the next question of the current
// round. When the round's last question elapses the phase flips to
// RoundRevealed and roundDone is true.
func (s *Session) AdvanceQuestion() (cur Cursor, roundDone bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked()
}

// AdvanceQuestionFrom advances only while the cursor still points at from.
// A stale from is a no-op: when a timer expiry and an admin command compete
// for the same question, exactly one of them moves the cursor.
func (s *Session) AdvanceQuestionFrom(from Cursor) (cur Cursor, roundDone bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor != from {
		return s.cursor, false, fmt.Errorf("%w: cursor moved past %d.%d", errs.ErrOutOfRange, from.Round, from.Question)
	}
	return s.advanceLocked()
}

func (s *Session) advanceLocked() (Cursor, bool, error) {
	if s.phase != PhaseRoundInProgress {
		return s.cursor, false, fmt.Errorf("%w: no round in progress", errs.ErrOutOfRange)
	}
	r, err := s.formats[s.active].Round(s.cursor.Round)
	if err != nil {
		return s.cursor, false, err
	}
	if s.cursor.Question < r.QuestionCount {
		s.cursor.Question++
		return s.cursor, false, nil
	}
	s.phase = PhaseRoundRevealed
	return s.cursor, true, nil
}

// SubmitAnswer stores a participant's raw answer for the current question of
// the current round. The literal answer is never broadcast to other teams;
// scoring happens later through AcceptAnswer.
func (s *Session) SubmitAnswer(role Role, teamID, answer string) (Cursor, error) {
	if role != RoleUser {
		return Cursor{}, errs.ErrUnauthorized
	}
	if teamID == "" {
		return Cursor{}, errs.ErrNoTeamContext
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseRoundInProgress {
		return s.cursor, fmt.Errorf("%w: no question is open", errs.ErrOutOfRange)
	}
	f := s.formats[s.active]
	if err := f.SaveAnswer(teamID, s.cursor.Round, s.cursor.Question, answer); err != nil {
		return s.cursor, err
	}
	return s.cursor, nil
}

// AcceptAnswer records the externally graded score of one cell. Admin only.
func (s *Session) AcceptAnswer(role Role, teamID string, round, question, score int) error {
	if role != RoleAdmin {
		return errs.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formats[s.active].RecordAnswer(teamID, round, question, score)
}

// Scoreboard builds the role-filtered score view: admins always see the full
// table; users see the full table unless intrigue is on, in which case they
// see only their own team's row. A teamless user cannot read scores while
// intrigue is active.
func (s *Session) Scoreboard(role Role, teamID string) (Scoreboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreboardLocked(role, teamID)
}

func (s *Session) scoreboardLocked(role Role, teamID string) (Scoreboard, error) {
	f := s.formats[s.active]
	board := Scoreboard{
		IsIntrigue:     s.intrigue,
		RoundsCount:    len(f.Rounds()),
		QuestionsCount: f.QuestionsCount(),
		TeamNames:      make(map[string]string),
	}
	if role == RoleUser && s.intrigue {
		if teamID == "" {
			return Scoreboard{}, errs.ErrNoTeamContext
		}
		table, err := f.ScoreTableForTeam(teamID)
		if err != nil {
			return Scoreboard{}, err
		}
		board.Table = table
		board.Totals = map[string]int{teamID: f.TotalScoreForAllTeams()[teamID]}
	} else {
		board.Table = f.ScoreTable()
		board.Totals = f.TotalScoreForAllTeams()
	}
	for id := range board.Table {
		board.TeamNames[id] = f.TeamName(id)
	}
	return board, nil
}

// Export renders the role-filtered score table as semicolon-separated text.
func (s *Session) Export(role Role, teamID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	board, err := s.scoreboardLocked(role, teamID)
	if err != nil {
		return "", err
	}
	return s.formats[s.active].FormattedExport(board.Table), nil
}

// TotalScoreForAllTeams returns every team's sum over the active format.
func (s *Session) TotalScoreForAllTeams() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formats[s.active].TotalScoreForAllTeams()
}

// ActiveRound returns the round the cursor points at.
func (s *Session) ActiveRound() (Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formats[s.active].Round(s.cursor.Round)
}

// Close marks the session terminal. Called by the registry on expiry.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseClosed
}
