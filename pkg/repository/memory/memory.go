package memory

import (
	"context"
	"sync"

	"github.com/vesperants/najir-agent/pkg/domain/interfaces"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
)

// Repository is an in-memory session store for development and tests
type Repository struct {
	mu   sync.RWMutex
	file model.SessionFile
}

var _ interfaces.SessionRepository = &Repository{}

// New creates an empty Repository
func New() *Repository {
	return &Repository{
		file: make(model.SessionFile),
	}
}

// Get retrieves the entry for the pair. Returns nil, nil when absent.
func (r *Repository) Get(ctx context.Context, uid types.UserID, cid types.ConversationID) (*model.SessionEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.file.Get(uid, cid).Clone(), nil
}

// Put stores the entry for the pair
func (r *Repository) Put(ctx context.Context, uid types.UserID, cid types.ConversationID, entry *model.SessionEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.file.Put(uid, cid, entry.Clone())
	return nil
}

// ListConversations returns all entries of a user keyed by conversation ID
func (r *Repository) ListConversations(ctx context.Context, uid types.UserID) (map[types.ConversationID]*model.SessionEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[types.ConversationID]*model.SessionEntry, len(r.file[uid]))
	for cid, entry := range r.file[uid] {
		out[cid] = entry.Clone()
	}
	return out, nil
}

// Close implements interfaces.SessionRepository
func (r *Repository) Close() error {
	return nil
}
