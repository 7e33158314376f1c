package service

import "errors"

var (
	// Malformed or missing input, the caller can fix it and retry
	ErrValidation = errors.New("validation failed")

	ErrNotFound = errors.New("requested resource not found")

	// The 24 hour window has passed, only a new tournament can take players
	ErrRegistrationClosed = errors.New("registration is closed")

	ErrDuplicatePlayer = errors.New("gamertag is already registered for this tournament")
	ErrDuplicateCode   = errors.New("tournament code already exists")

	// Not enough players yet, retry once more have registered
	ErrInsufficientPlayers = errors.New("not enough players to generate matches")

	// Generation already ran. Callers should show the existing matches instead.
	ErrAlreadyGenerated = errors.New("tournament has already been generated")
	ErrNotGenerated     = errors.New("tournament has not been generated yet")

	ErrInvalidSide = errors.New("winner must be team A or team B")
)
