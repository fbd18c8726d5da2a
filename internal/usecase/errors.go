package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrPlayersUnavailable    = errors.New("players source unavailable")
	ErrPlayersUnrecognized   = errors.New("players structure not recognized")
	ErrTeamsUnrecognized     = errors.New("teams structure not recognized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
