package interfaces

import (
	"context"

	"github.com/vesperants/najir-agent/pkg/domain/types"
)

// SessionBackend is the external service that owns conversational session
// state. Handles are opaque; the session cache only stores and validates
// them.
type SessionBackend interface {
	// CreateSession allocates a new backend session for the user
	CreateSession(ctx context.Context, uid types.UserID) (types.SessionID, error)

	// GetSession validates that the handle still exists. Returns
	// model.ErrSessionNotFound when the handle is unknown or expired.
	GetSession(ctx context.Context, uid types.UserID, sid types.SessionID) error
}
