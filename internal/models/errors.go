package models

import "errors"

// Custom errors
var (
	ErrTeamRequired = errors.New("team is required")
	ErrSameTeam     = errors.New("home and away team must differ")
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
	ErrInvalidID    = errors.New("invalid ID format")
)
