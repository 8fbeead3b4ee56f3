package model

// Real-time message vocabulary. Inbound frames carry an action, outbound
// frames carry an event.
const (
	ActionAnswer       = "Answer"
	ActionStartRound   = "StartRound"
	ActionNextQuestion = "NextQuestion"
	ActionReveal       = "Reveal"

	EventAnswerAccepted = "answer_accepted"
	EventTick           = "tick"
	EventRoundStarted   = "round_started"
	EventScoreboard     = "scoreboard"
	EventGameFinished   = "game_finished"
	EventError          = "error"
)

// WSRequest is an inbound real-time frame.
type WSRequest struct {
	Action string `json:"action"`
	Answer string `json:"answer,omitempty"`
	Round  int    `json:"round,omitempty"`
}

// AnswerAcceptedEvent acknowledges a stored answer to its sender only.
type AnswerAcceptedEvent struct {
	Event    string `json:"event"`
	Round    int    `json:"round"`
	Question int    `json:"question"`
}

// TickEvent is the per-second countdown progress broadcast.
type TickEvent struct {
	Event          string `json:"event"`
	Round          int    `json:"round"`
	Question       int    `json:"question"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	TotalSeconds   int    `json:"total_seconds"`
}

// RoundStartedEvent announces the round the admin opened.
type RoundStartedEvent struct {
	Event         string `json:"event"`
	Round         int    `json:"round"`
	QuestionCount int    `json:"question_count"`
	TotalSeconds  int    `json:"total_seconds"`
}

// ScoreboardEvent carries a reveal to one peer, filtered for its role.
type ScoreboardEvent struct {
	Event string `json:"event"`
	ScoreboardResponse
}

// GameFinishedEvent is the terminal frame before the hub drops a connection.
type GameFinishedEvent struct {
	Event  string `json:"event"`
	GameID string `json:"game_id"`
}

// ErrorEvent reports a rejected frame to its sender.
type ErrorEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}
