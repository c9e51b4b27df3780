package domain

import "errors"

// Catalog errors
var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrTeamNotFound   = errors.New("team not found")
)

// Request validation errors
var (
	ErrQueryTooShort  = errors.New("search query must be at least 2 characters")
	ErrMissingSubject = errors.New("subject requires year, team and filename")
)
