package game

import (
	"errors"
	"testing"

	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession("g1", Config{
		Name: "Осенний кубок",
		Formats: []FormatConfig{{
			Tag: TagChGK,
			Rounds: []RoundConfig{
				{QuestionCount: 3, TimeLimitSec: 60},
				{QuestionCount: 3, TimeLimitSec: 60},
			},
			Teams: []Team{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		}},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSessionFormatCount(t *testing.T) {
	if _, err := NewSession("g", Config{Name: "empty"}); err == nil {
		t.Error("session with no formats must fail")
	}
	cfg := Config{Name: "three", Formats: []FormatConfig{{Tag: TagChGK}, {Tag: TagMatrix}, {Tag: "third"}}}
	if _, err := NewSession("g", cfg); err == nil {
		t.Error("session with three formats must fail")
	}
}

func TestActiveFormatDefaultsToChGK(t *testing.T) {
	s, err := NewSession("g", Config{
		Name:    "both",
		Formats: []FormatConfig{{Tag: TagMatrix}, {Tag: TagChGK}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.ActiveFormat() != TagChGK {
		t.Errorf("active = %s, want chgk", s.ActiveFormat())
	}
}

func TestSetIntrigueRequiresAdmin(t *testing.T) {
	s := newTestSession(t)
	if err := s.SetIntrigue(RoleUser, true); !errors.Is(err, errs.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
	if err := s.SetIntrigue(RoleAdmin, true); err != nil {
		t.Fatalf("SetIntrigue: %v", err)
	}
	if !s.IsIntrigue() {
		t.Error("intrigue flag not set")
	}
}

func TestScoreboardIntrigueFiltering(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.StartRound(RoleAdmin, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.AcceptAnswer(RoleAdmin, "a", 1, 1, 10); err != nil {
		t.Fatal(err)
	}
	if err := s.AcceptAnswer(RoleAdmin, "b", 1, 2, 10); err != nil {
		t.Fatal(err)
	}
	if err := s.SetIntrigue(RoleAdmin, true); err != nil {
		t.Fatal(err)
	}

	// A user sees only their own team's row.
	board, err := s.Scoreboard(RoleUser, "a")
	if err != nil {
		t.Fatalf("Scoreboard(user, a): %v", err)
	}
	if !board.IsIntrigue {
		t.Error("board should report intrigue")
	}
	if _, ok := board.Table["b"]; ok {
		t.Error("intrigue leaked team b to team a")
	}
	if _, ok := board.Totals["b"]; ok {
		t.Error("intrigue leaked team b totals to team a")
	}

	// A teamless user cannot read scores while intrigue is active.
	if _, err := s.Scoreboard(RoleUser, ""); !errors.Is(err, errs.ErrNoTeamContext) {
		t.Errorf("got %v, want ErrNoTeamContext", err)
	}

	// Admins always see every team.
	board, err = s.Scoreboard(RoleAdmin, "")
	if err != nil {
		t.Fatalf("Scoreboard(admin): %v", err)
	}
	if len(board.Table) != 2 {
		t.Errorf("admin board has %d teams, want 2", len(board.Table))
	}

	// With intrigue off the user view widens again.
	if err := s.SetIntrigue(RoleAdmin, false); err != nil {
		t.Fatal(err)
	}
	board, err = s.Scoreboard(RoleUser, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(board.Table) != 2 {
		t.Errorf("non-intrigue user board has %d teams, want 2", len(board.Table))
	}
}

func TestCursorMachine(t *testing.T) {
	s := newTestSession(t)

	if _, ph := s.Cursor(); ph != PhaseAwaitingConnections {
		t.Errorf("initial phase = %s", ph)
	}
	if _, _, err := s.AdvanceQuestion(); err == nil {
		t.Error("advance before any round must fail")
	}
	if _, err := s.StartRound(RoleUser, 1); !errors.Is(err, errs.ErrUnauthorized) {
		t.Errorf("StartRound by user: got %v, want ErrUnauthorized", err)
	}

	r, err := s.StartRound(RoleAdmin, 1)
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if r.QuestionTimeSec != 60 {
		t.Errorf("round time budget = %d, want 60", r.QuestionTimeSec)
	}

	cur, done, err := s.AdvanceQuestion()
	if err != nil || done {
		t.Fatalf("advance 1->2: cur=%+v done=%v err=%v", cur, done, err)
	}
	if cur.Question != 2 {
		t.Errorf("question = %d, want 2", cur.Question)
	}
	if _, done, _ = s.AdvanceQuestion(); done {
		t.Fatal("round done too early")
	}
	if _, done, _ = s.AdvanceQuestion(); !done {
		t.Fatal("round not done after last question")
	}
	if _, ph := s.Cursor(); ph != PhaseRoundRevealed {
		t.Errorf("phase after round = %s, want revealed", ph)
	}
}

func TestAdvanceQuestionFromStaleCursor(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.StartRound(RoleAdmin, 1); err != nil {
		t.Fatal(err)
	}
	cur, _ := s.Cursor()

	if _, _, err := s.AdvanceQuestionFrom(cur); err != nil {
		t.Fatalf("AdvanceQuestionFrom: %v", err)
	}
	// The second advance anchored to the same question loses the race and
	// must not move the cursor again.
	if _, _, err := s.AdvanceQuestionFrom(cur); !errors.Is(err, errs.ErrOutOfRange) {
		t.Errorf("stale advance: got %v, want ErrOutOfRange", err)
	}
	if got, _ := s.Cursor(); got.Question != 2 {
		t.Errorf("question = %d, want 2 after exactly one advance", got.Question)
	}
}

func TestSubmitAnswerAtCursor(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.SubmitAnswer(RoleUser, "a", "early"); err == nil {
		t.Error("answer before round start must fail")
	}
	if _, err := s.StartRound(RoleAdmin, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitAnswer(RoleAdmin, "a", "nope"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Errorf("admin submitting an answer: got %v, want ErrUnauthorized", err)
	}
	if _, err := s.SubmitAnswer(RoleUser, "", "no team"); !errors.Is(err, errs.ErrNoTeamContext) {
		t.Errorf("got %v, want ErrNoTeamContext", err)
	}

	cur, err := s.SubmitAnswer(RoleUser, "a", "сорок два")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if cur.Round != 2 || cur.Question != 1 {
		t.Errorf("cursor = %+v, want round 2 question 1", cur)
	}

	// The raw answer lands in the current cell without touching the score.
	f := s.formats[TagChGK]
	text, err := f.matrix.Answer("a", 2, 1)
	if err != nil || text != "сорок два" {
		t.Errorf("stored answer = %q err=%v", text, err)
	}
	if got := f.ScoreTable()["a"][1][0]; got != 0 {
		t.Errorf("score after submit = %d, want 0 until accepted", got)
	}
}

func TestSetActiveFormatResetsCursor(t *testing.T) {
	s, err := NewSession("g", Config{
		Name: "both",
		Formats: []FormatConfig{
			{Tag: TagChGK, Rounds: []RoundConfig{{QuestionCount: 1, TimeLimitSec: 60}}},
			{Tag: TagMatrix, Rounds: []RoundConfig{{QuestionCount: 1, TimeLimitSec: 30}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.StartRound(RoleAdmin, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.SetActiveFormat(RoleUser, TagMatrix); !errors.Is(err, errs.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
	if err := s.SetActiveFormat(RoleAdmin, TagMatrix); err != nil {
		t.Fatal(err)
	}
	cur, ph := s.Cursor()
	if cur.Round != 0 || ph != PhaseAwaitingConnections {
		t.Errorf("cursor after switch = %+v phase=%s", cur, ph)
	}
	if err := s.SetActiveFormat(RoleAdmin, "unknown"); !errors.Is(err, errs.ErrOutOfRange) {
		t.Errorf("switch to missing format: got %v, want ErrOutOfRange", err)
	}
}
