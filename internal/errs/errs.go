package errs

import "errors"

// Доменные сентинель-ошибки для маппинга в HTTP коды в handlers.
var (
	// Live session lifecycle.
	ErrGameNotStarted = errors.New("game not started")
	ErrAlreadyStarted = errors.New("game already started")

	// Roster and matrix coordinates.
	ErrDuplicateTeam = errors.New("duplicate team")
	ErrUnknownTeam   = errors.New("unknown team")
	ErrOutOfRange    = errors.New("round or question out of range")
	ErrRoundsLocked  = errors.New("rounds are locked after scoring")

	// Visibility and access.
	ErrNoTeamContext = errors.New("user has no team")
	ErrUnauthorized  = errors.New("operation requires admin role")

	// Persisted configuration.
	ErrGameNotFound = errors.New("game not found")
	ErrNameTaken    = errors.New("game name already taken")
	ErrUserNotFound = errors.New("user not found")
	ErrTeamNotFound = errors.New("team not found")
	ErrBadPassword  = errors.New("wrong password")
)
