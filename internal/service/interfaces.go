package service

import (
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/game"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/model"
)

// GameServicer — интерфейс живой сессии для handlers (D: зависимость от
// абстракции).
type GameServicer interface {
	Start(gameID string) (*model.StartGameResponse, error)
	Finish(gameID string) error
	IsStarted(gameID string) bool
	SetIntrigue(gameID string, role game.Role, v bool) error
	SetActiveFormat(gameID string, role game.Role, format string) error
	TotalScore(gameID string) (*model.TotalScoreResponse, error)
	Scoreboard(gameID string, role game.Role, teamID string) (*model.ScoreboardResponse, error)
	Export(gameID string, role game.Role, teamID string) (*model.ExportResponse, error)
	AcceptAnswer(gameID string, role game.Role, teamID string, round, question, score int) error
	SubmitAnswer(gameID string, role game.Role, teamID, answer string) (game.Cursor, error)
	StartRound(gameID string, role game.Role, round int) error
	NextQuestion(gameID string, role game.Role) error
	Reveal(gameID string, role game.Role) error
}

var _ GameServicer = (*GameService)(nil)
