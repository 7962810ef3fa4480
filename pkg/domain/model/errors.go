package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for session handling
var (
	// ErrSessionNotFound means a cached session handle is unknown to the
	// external session backend (expired or deleted). Recoverable: the
	// caller creates a new session.
	ErrSessionNotFound = goerr.New("session not found")
)
