package sessionfile

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vesperants/najir-agent/pkg/domain/interfaces"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/utils/logging"
)

// Repository persists the session cache as a single JSON file with
// whole-file read-modify-write. The mutex serializes writers within this
// process; concurrent writers from other processes can still race, which
// is accepted (single-instance deployment).
type Repository struct {
	path string
	mu   sync.Mutex
}

var _ interfaces.SessionRepository = &Repository{}

// New creates a Repository backed by the file at path. The file is created
// lazily on first write.
func New(path string) *Repository {
	return &Repository{path: path}
}

// load reads and decodes the file, upgrading legacy shapes. The upgraded
// shape is written back immediately so subsequent readers see the
// canonical layout.
func (r *Repository) load(ctx context.Context, uid types.UserID, cid types.ConversationID) (model.SessionFile, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(model.SessionFile), nil
		}
		return nil, goerr.Wrap(err, "failed to read session cache file", goerr.V("path", r.path))
	}

	file, changed, err := model.DecodeSessionFile(data, uid, cid)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode session cache file", goerr.V("path", r.path))
	}

	if changed {
		logging.From(ctx).Info("upgraded legacy session cache file", "path", r.path)
		if err := r.save(file); err != nil {
			return nil, err
		}
	}

	return file, nil
}

func (r *Repository) save(file model.SessionFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode session cache file")
	}
	if err := os.WriteFile(r.path, data, 0600); err != nil {
		return goerr.Wrap(err, "failed to write session cache file", goerr.V("path", r.path))
	}
	return nil
}

// Get retrieves the entry for the pair. Returns nil, nil when absent.
func (r *Repository) Get(ctx context.Context, uid types.UserID, cid types.ConversationID) (*model.SessionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load(ctx, uid, cid)
	if err != nil {
		return nil, err
	}

	return file.Get(uid, cid).Clone(), nil
}

// Put stores the entry for the pair
func (r *Repository) Put(ctx context.Context, uid types.UserID, cid types.ConversationID, entry *model.SessionEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load(ctx, uid, cid)
	if err != nil {
		return err
	}

	file.Put(uid, cid, entry.Clone())
	return r.save(file)
}

// ListConversations returns all entries of a user keyed by conversation ID
func (r *Repository) ListConversations(ctx context.Context, uid types.UserID) (map[types.ConversationID]*model.SessionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load(ctx, uid, "")
	if err != nil {
		return nil, err
	}

	out := make(map[types.ConversationID]*model.SessionEntry, len(file[uid]))
	for cid, entry := range file[uid] {
		out[cid] = entry.Clone()
	}
	return out, nil
}

// Close implements interfaces.SessionRepository
func (r *Repository) Close() error {
	return nil
}
