package game

import (
	"fmt"
	"strings"

	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
)

// Format owns the ordered rounds and the roster of one game format and
// composes the score matrix. Callers never address the matrix directly.
type Format struct {
	tag    Tag
	rounds []Round
	teams  []Team
	matrix *ScoreMatrix
}

// NewFormat creates an empty format for the given tag.
func NewFormat(tag Tag) *Format {
	return &Format{tag: tag, matrix: newScoreMatrix()}
}

// Tag returns the format tag.
func (f *Format) Tag() Tag { return f.tag }

// AddRound appends a round. Numbers must be assigned contiguously starting
// at 1 by the caller; the format does not renumber. Rejected once any score
// has been recorded, since reconfiguration mid-play belongs to the CRUD layer.
func (f *Format) AddRound(r Round) error {
	if f.matrix.scored {
		return errs.ErrRoundsLocked
	}
	if r.Number != len(f.rounds)+1 {
		return fmt.Errorf("%w: round %d after %d rounds", errs.ErrOutOfRange, r.Number, len(f.rounds))
	}
	if r.QuestionCount < 0 || r.QuestionTimeSec <= 0 {
		return fmt.Errorf("%w: bad round config", errs.ErrOutOfRange)
	}
	r.Format = f.tag
	f.rounds = append(f.rounds, r)
	f.matrix.addRound(r.QuestionCount)
	return nil
}

// AddTeam appends a team to the roster and creates its score row.
func (f *Format) AddTeam(t Team) error {
	for _, existing := range f.teams {
		if existing.ID == t.ID {
			return fmt.Errorf("%w: %s", errs.ErrDuplicateTeam, t.ID)
		}
	}
	f.teams = append(f.teams, t)
	f.matrix.addTeam(t.ID)
	return nil
}

// Rounds returns the ordered rounds.
func (f *Format) Rounds() []Round { return f.rounds }

// Round returns the round with the given 1-based number.
func (f *Format) Round(number int) (Round, error) {
	if number < 1 || number > len(f.rounds) {
		return Round{}, fmt.Errorf("%w: round %d", errs.ErrOutOfRange, number)
	}
	return f.rounds[number-1], nil
}

// Teams returns the roster in join order.
func (f *Format) Teams() []Team { return f.teams }

// TeamName resolves a roster id to its display name; empty if unknown.
func (f *Format) TeamName(id string) string {
	for _, t := range f.teams {
		if t.ID == id {
			return t.Name
		}
	}
	return ""
}

// QuestionsCount returns the first round's question count, the value the
// client renders as "questions per round".
func (f *Format) QuestionsCount() int {
	if len(f.rounds) == 0 {
		return 0
	}
	return f.rounds[0].QuestionCount
}

// RecordAnswer delegates a score upsert to the matrix.
func (f *Format) RecordAnswer(teamID string, round, question, score int) error {
	return f.matrix.RecordAnswer(teamID, round, question, score)
}

// SaveAnswer delegates an answer-text upsert to the matrix.
func (f *Format) SaveAnswer(teamID string, round, question int, answer string) error {
	return f.matrix.SaveAnswer(teamID, round, question, answer)
}

// TotalScoreForAllTeams delegates to the matrix.
func (f *Format) TotalScoreForAllTeams() map[string]int {
	return f.matrix.TotalScoreForAllTeams()
}

// ScoreTable delegates to the matrix.
func (f *Format) ScoreTable() map[string][][]int {
	return f.matrix.ScoreTable()
}

// ScoreTableForTeam delegates to the matrix.
func (f *Format) ScoreTableForTeam(teamID string) (map[string][][]int, error) {
	return f.matrix.ScoreTableForTeam(teamID)
}

// FormattedExport renders a score table as a semicolon-separated text table:
// a header row of team/total/round/question labels, then one row per team of
// name;total;roundSum;raw scores per round.
func (f *Format) FormattedExport(table map[string][][]int) string {
	headers := []string{"Название команды", "Сумма"}
	for _, r := range f.rounds {
		headers = append(headers, fmt.Sprintf("Тур %d", r.Number))
		for q := 1; q <= r.QuestionCount; q++ {
			headers = append(headers, fmt.Sprintf("Вопрос %d", q))
		}
	}
	lines := []string{strings.Join(headers, ";")}

	totals := f.matrix.TotalScoreForAllTeams()
	for _, t := range f.teams {
		rows, ok := table[t.ID]
		if !ok {
			continue
		}
		fields := []string{t.Name, fmt.Sprintf("%d", totals[t.ID])}
		for _, row := range rows {
			sum := 0
			raw := make([]string, len(row))
			for j, score := range row {
				sum += score
				raw[j] = fmt.Sprintf("%d", score)
			}
			fields = append(fields, fmt.Sprintf("%d", sum))
			fields = append(fields, raw...)
		}
		lines = append(lines, strings.Join(fields, ";"))
	}
	return strings.Join(lines, "\n")
}
