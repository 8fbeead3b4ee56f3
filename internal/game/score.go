package game

import (
	"fmt"

	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
)

type cell struct {
	score  int
	answer string
}

// ScoreMatrix holds per-team scores as team id -> round -> question cells.
// Dimension bounds always equal the owning format's rounds and question
// counts; slots exist (with score 0) from the moment a round or team is added
// and never shrink.
type ScoreMatrix struct {
	questions []int // question count per round, index = round number - 1
	cells     map[string][][]cell
	scored    bool
}

func newScoreMatrix() *ScoreMatrix {
	return &ScoreMatrix{cells: make(map[string][][]cell)}
}

func (m *ScoreMatrix) addRound(questionCount int) {
	m.questions = append(m.questions, questionCount)
	for id := range m.cells {
		m.cells[id] = append(m.cells[id], make([]cell, questionCount))
	}
}

func (m *ScoreMatrix) addTeam(teamID string) {
	rows := make([][]cell, len(m.questions))
	for i, q := range m.questions {
		rows[i] = make([]cell, q)
	}
	m.cells[teamID] = rows
}

func (m *ScoreMatrix) locate(teamID string, round, question int) (*cell, error) {
	rows, ok := m.cells[teamID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownTeam, teamID)
	}
	if round < 1 || round > len(rows) {
		return nil, fmt.Errorf("%w: round %d", errs.ErrOutOfRange, round)
	}
	if question < 1 || question > len(rows[round-1]) {
		return nil, fmt.Errorf("%w: round %d question %d", errs.ErrOutOfRange, round, question)
	}
	return &rows[round-1][question-1], nil
}

// RecordAnswer upserts one cell's score. Re-recording overwrites, never
// accumulates. Coordinates are 1-based.
func (m *ScoreMatrix) RecordAnswer(teamID string, round, question, score int) error {
	if score < 0 {
		return fmt.Errorf("%w: negative score", errs.ErrOutOfRange)
	}
	c, err := m.locate(teamID, round, question)
	if err != nil {
		return err
	}
	c.score = score
	m.scored = true
	return nil
}

// SaveAnswer upserts the raw answer text of one cell without touching its
// score. Grading is external; the text is kept for the admin to judge.
func (m *ScoreMatrix) SaveAnswer(teamID string, round, question int, answer string) error {
	c, err := m.locate(teamID, round, question)
	if err != nil {
		return err
	}
	c.answer = answer
	return nil
}

// Answer returns the stored answer text of one cell.
func (m *ScoreMatrix) Answer(teamID string, round, question int) (string, error) {
	c, err := m.locate(teamID, round, question)
	if err != nil {
		return "", err
	}
	return c.answer, nil
}

// Score returns the recorded score of one cell.
func (m *ScoreMatrix) Score(teamID string, round, question int) (int, error) {
	c, err := m.locate(teamID, round, question)
	if err != nil {
		return 0, err
	}
	return c.score, nil
}

// TotalScoreForAllTeams sums every recorded cell per team. Teams with no
// answers report 0, not absence.
func (m *ScoreMatrix) TotalScoreForAllTeams() map[string]int {
	totals := make(map[string]int, len(m.cells))
	for id, rows := range m.cells {
		sum := 0
		for _, row := range rows {
			for _, c := range row {
				sum += c.score
			}
		}
		totals[id] = sum
	}
	return totals
}

// ScoreTable returns the full table: team id -> per-round score rows.
func (m *ScoreMatrix) ScoreTable() map[string][][]int {
	table := make(map[string][][]int, len(m.cells))
	for id := range m.cells {
		table[id] = m.teamRows(id)
	}
	return table
}

// ScoreTableForTeam returns the same shape restricted to one team's row.
func (m *ScoreMatrix) ScoreTableForTeam(teamID string) (map[string][][]int, error) {
	if _, ok := m.cells[teamID]; !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownTeam, teamID)
	}
	return map[string][][]int{teamID: m.teamRows(teamID)}, nil
}

func (m *ScoreMatrix) teamRows(teamID string) [][]int {
	rows := m.cells[teamID]
	out := make([][]int, len(rows))
	for i, row := range rows {
		out[i] = make([]int, len(row))
		for j, c := range row {
			out[i][j] = c.score
		}
	}
	return out
}
