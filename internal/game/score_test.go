package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
)

func newTestFormat(t *testing.T, rounds, questions int, teams ...Team) *Format {
	t.Helper()
	f := NewFormat(TagChGK)
	for i := 1; i <= rounds; i++ {
		if err := f.AddRound(Round{Number: i, QuestionCount: questions, QuestionTimeSec: 60}); err != nil {
			t.Fatalf("AddRound(%d): %v", i, err)
		}
	}
	for _, team := range teams {
		if err := f.AddTeam(team); err != nil {
			t.Fatalf("AddTeam(%s): %v", team.ID, err)
		}
	}
	return f
}

func TestRecordAnswerRoundTrip(t *testing.T) {
	f := newTestFormat(t, 2, 3, Team{ID: "a", Name: "A"})

	if err := f.RecordAnswer("a", 1, 2, 10); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	table := f.ScoreTable()
	if got := table["a"][0][1]; got != 10 {
		t.Errorf("cell = %d, want 10", got)
	}

	// Re-recording overwrites, never accumulates.
	if err := f.RecordAnswer("a", 1, 2, 5); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if got := f.ScoreTable()["a"][0][1]; got != 5 {
		t.Errorf("cell after overwrite = %d, want 5", got)
	}
}

func TestRecordAnswerInvalidCoordinates(t *testing.T) {
	f := newTestFormat(t, 2, 3, Team{ID: "a", Name: "A"})

	if err := f.RecordAnswer("ghost", 1, 1, 1); !errors.Is(err, errs.ErrUnknownTeam) {
		t.Errorf("unknown team: got %v, want ErrUnknownTeam", err)
	}
	if err := f.RecordAnswer("a", 3, 1, 1); !errors.Is(err, errs.ErrOutOfRange) {
		t.Errorf("round out of range: got %v, want ErrOutOfRange", err)
	}
	if err := f.RecordAnswer("a", 1, 4, 1); !errors.Is(err, errs.ErrOutOfRange) {
		t.Errorf("question out of range: got %v, want ErrOutOfRange", err)
	}
	if err := f.RecordAnswer("a", 0, 0, 1); !errors.Is(err, errs.ErrOutOfRange) {
		t.Errorf("zero coordinates: got %v, want ErrOutOfRange", err)
	}
}

func TestTotalScoreForAllTeams(t *testing.T) {
	f := newTestFormat(t, 2, 3, Team{ID: "a", Name: "A"}, Team{ID: "b", Name: "B"})

	// Scenario from the scoring contract: A r1 = 10,0,5; B r1 = 0,10,0.
	for _, rec := range []struct {
		team            string
		round, q, score int
	}{
		{"a", 1, 1, 10}, {"a", 1, 2, 0}, {"a", 1, 3, 5},
		{"b", 1, 1, 0}, {"b", 1, 2, 10}, {"b", 1, 3, 0},
	} {
		if err := f.RecordAnswer(rec.team, rec.round, rec.q, rec.score); err != nil {
			t.Fatalf("RecordAnswer(%+v): %v", rec, err)
		}
	}

	totals := f.TotalScoreForAllTeams()
	if totals["a"] != 15 || totals["b"] != 10 {
		t.Errorf("totals = %v, want a:15 b:10", totals)
	}

	// Round 2 untouched: cells are zero, not absent.
	table := f.ScoreTable()
	for _, id := range []string{"a", "b"} {
		for q := 0; q < 3; q++ {
			if table[id][1][q] != 0 {
				t.Errorf("team %s round 2 q%d = %d, want 0", id, q+1, table[id][1][q])
			}
		}
	}
}

func TestTotalScoreAllZero(t *testing.T) {
	f := newTestFormat(t, 1, 2, Team{ID: "a", Name: "A"})
	totals := f.TotalScoreForAllTeams()
	if got, ok := totals["a"]; !ok || got != 0 {
		t.Errorf("totals = %v, want a:0 present", totals)
	}
}

func TestScoreTableForTeam(t *testing.T) {
	f := newTestFormat(t, 1, 1, Team{ID: "a", Name: "A"}, Team{ID: "b", Name: "B"})
	table, err := f.ScoreTableForTeam("a")
	if err != nil {
		t.Fatalf("ScoreTableForTeam: %v", err)
	}
	if len(table) != 1 {
		t.Errorf("restricted table has %d teams, want 1", len(table))
	}
	if _, ok := table["b"]; ok {
		t.Error("restricted table leaks another team's row")
	}
	if _, err := f.ScoreTableForTeam("ghost"); !errors.Is(err, errs.ErrUnknownTeam) {
		t.Errorf("got %v, want ErrUnknownTeam", err)
	}
}

func TestSaveAnswerKeepsScore(t *testing.T) {
	f := newTestFormat(t, 1, 1, Team{ID: "a", Name: "A"})
	if err := f.RecordAnswer("a", 1, 1, 7); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAnswer("a", 1, 1, "Колмогоров"); err != nil {
		t.Fatal(err)
	}
	if got := f.ScoreTable()["a"][0][0]; got != 7 {
		t.Errorf("SaveAnswer changed the score: %d", got)
	}
}

func TestFormattedExport(t *testing.T) {
	f := newTestFormat(t, 2, 2, Team{ID: "a", Name: "Знатоки"}, Team{ID: "b", Name: "Сова"})
	for _, rec := range []struct {
		team            string
		round, q, score int
	}{
		{"a", 1, 1, 10}, {"a", 1, 2, 5}, {"a", 2, 1, 1},
		{"b", 1, 2, 3},
	} {
		if err := f.RecordAnswer(rec.team, rec.round, rec.q, rec.score); err != nil {
			t.Fatal(err)
		}
	}

	out := f.FormattedExport(f.ScoreTable())
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("export has %d lines, want header + 2 teams:\n%s", len(lines), out)
	}
	wantHeader := "Название команды;Сумма;Тур 1;Вопрос 1;Вопрос 2;Тур 2;Вопрос 1;Вопрос 2"
	if lines[0] != wantHeader {
		t.Errorf("header:\n got %q\nwant %q", lines[0], wantHeader)
	}
	if lines[1] != "Знатоки;16;15;10;5;1;1;0" {
		t.Errorf("row for team a = %q", lines[1])
	}
	if lines[2] != "Сова;3;3;0;3;0;0;0" {
		t.Errorf("row for team b = %q", lines[2])
	}
}
