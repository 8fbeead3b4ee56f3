package model

// GameSettings describes one format's round layout in CRUD requests and
// responses.
type GameSettings struct {
	RoundCount    int `json:"round_count"`
	QuestionCount int `json:"question_count"`
	QuestionCost  int `json:"question_cost"`
	QuestionTime  int `json:"question_time"` // seconds per question
}

// CreateGameRequest is the request body for POST /games.
type CreateGameRequest struct {
	Name           string        `json:"name" binding:"required"`
	Teams          []string      `json:"teams"` // team names from the persisted roster
	ChGKSettings   *GameSettings `json:"chgk_settings"`
	MatrixSettings *GameSettings `json:"matrix_settings"`
}

// ChangeGameRequest is the request body for PATCH /games/:id.
type ChangeGameRequest struct {
	NewName        string        `json:"new_name" binding:"required"`
	Teams          []string      `json:"teams"`
	ChGKSettings   *GameSettings `json:"chgk_settings"`
	MatrixSettings *GameSettings `json:"matrix_settings"`
}

// GameResponse is the API view of a configured game.
type GameResponse struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Status         string        `json:"status"`
	IsStarted      bool          `json:"is_started"`
	Teams          []string      `json:"teams"`
	ChGKSettings   *GameSettings `json:"chgk_settings,omitempty"`
	MatrixSettings *GameSettings `json:"matrix_settings,omitempty"`
}

// StartGameResponse is returned by POST /games/:id/start.
type StartGameResponse struct {
	Name          string   `json:"name"`
	Teams         []string `json:"teams"`
	RoundCount    int      `json:"round_count"`
	QuestionCount int      `json:"question_count"`
}

// ChangeIntrigueRequest toggles intrigue mode.
type ChangeIntrigueRequest struct {
	IsIntrigue *bool `json:"is_intrigue" binding:"required"`
}

// ChangeStatusRequest updates the persisted game status.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeActiveFormatRequest switches the live session's current format.
type ChangeActiveFormatRequest struct {
	Format string `json:"format" binding:"required"`
}

// AcceptAnswerRequest applies an externally graded score to one cell.
type AcceptAnswerRequest struct {
	TeamID   string `json:"team_id" binding:"required"`
	Round    int    `json:"round" binding:"required"`
	Question int    `json:"question" binding:"required"`
	Score    int    `json:"score"`
}

// TotalScoreResponse is returned by GET /games/:id/result.
type TotalScoreResponse struct {
	TotalScoreForAllTeams map[string]int `json:"total_score_for_all_teams"`
}

// ScoreboardResponse is the role/intrigue-filtered score snapshot.
type ScoreboardResponse struct {
	GameID                string             `json:"game_id"`
	IsIntrigue            bool               `json:"is_intrigue"`
	RoundsCount           int                `json:"rounds_count"`
	QuestionsCount        int                `json:"questions_count"`
	TotalScoreForAllTeams map[string]int     `json:"total_score_for_all_teams"`
	ScoreTable            map[string][][]int `json:"score_table"`
	TeamNames             map[string]string  `json:"team_names"`
}

// ExportResponse carries the semicolon-separated score table.
type ExportResponse struct {
	TotalTable string `json:"total_table"`
}

// RegisterRequest is the body for POST /users/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the body for POST /users/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the API view of the current user.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Team  string `json:"team"`
}

// TeamResponse is the API view of a team.
type TeamResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CaptainEmail string `json:"captain_email,omitempty"`
}

// CreateTeamRequest is the body for POST /teams.
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}
