package game

// Role is the caller role carried by the verified identity claim.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Tag identifies one of the two game formats inside a session.
type Tag string

const (
	TagChGK   Tag = "chgk"
	TagMatrix Tag = "matrix"
)

// Phase of the live session state machine.
type Phase string

const (
	PhaseAwaitingConnections Phase = "awaiting_connections"
	PhaseRoundInProgress     Phase = "round_in_progress"
	PhaseRoundRevealed       Phase = "round_revealed"
	PhaseClosed              Phase = "closed"
)

// Cursor is the session's notion of the current round and question (1-based).
type Cursor struct {
	Round    int
	Question int
}

// Team references a persisted team identity. Scores are keyed by ID.
type Team struct {
	ID   string
	Name string
}

// Round is an ordered block of question slots with a per-question time budget.
// Immutable after creation.
type Round struct {
	Number          int
	QuestionCount   int
	QuestionTimeSec int
	Format          Tag
}

// RoundConfig describes one round of the session-start payload.
type RoundConfig struct {
	QuestionCount int
	TimeLimitSec  int
}

// FormatConfig describes one enabled format of the session-start payload.
type FormatConfig struct {
	Tag    Tag
	Rounds []RoundConfig
	Teams  []Team
}

// Config is the session-start payload assembled from persisted configuration.
type Config struct {
	Name    string
	Formats []FormatConfig
}
