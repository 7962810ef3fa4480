package interfaces

import (
	"context"

	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
)

// SessionRepository defines the interface for session cache persistence
type SessionRepository interface {
	// Get retrieves the entry for the pair. Returns nil, nil when absent.
	// Implementations backed by legacy storage upgrade old shapes in place
	// before reading.
	Get(ctx context.Context, uid types.UserID, cid types.ConversationID) (*model.SessionEntry, error)

	// Put stores the entry for the pair, overwriting any existing one.
	Put(ctx context.Context, uid types.UserID, cid types.ConversationID, entry *model.SessionEntry) error

	// ListConversations returns all entries of a user keyed by
	// conversation ID.
	ListConversations(ctx context.Context, uid types.UserID) (map[types.ConversationID]*model.SessionEntry, error)

	// Close releases underlying resources
	Close() error
}
