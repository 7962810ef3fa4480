package sessionfile_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/repository/sessionfile"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file reads as empty", func(t *testing.T) {
		repo := sessionfile.New(filepath.Join(t.TempDir(), "sessions.json"))
		entry, err := repo.Get(ctx, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Value(t, entry).Nil()
	})

	t.Run("put then get roundtrip", func(t *testing.T) {
		repo := sessionfile.New(filepath.Join(t.TempDir(), "sessions.json"))

		gt.NoError(t, repo.Put(ctx, "u1", "c1", &model.SessionEntry{
			SessionID: "sid-1",
			Title:     "land disputes",
		})).Required()

		entry, err := repo.Get(ctx, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Value(t, entry).NotNil().Required()
		gt.Value(t, entry.SessionID).Equal(types.SessionID("sid-1"))
		gt.Value(t, entry.Title).Equal("land disputes")
	})

	t.Run("legacy user-level string upgrades on first access", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sessions.json")
		gt.NoError(t, os.WriteFile(path, []byte(`{"u1": "sid-123"}`), 0600)).Required()

		repo := sessionfile.New(path)
		entry, err := repo.Get(ctx, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Value(t, entry).NotNil().Required()
		gt.Value(t, entry.SessionID).Equal(types.SessionID("sid-123"))

		// the file on disk is rewritten in the canonical shape
		data, err := os.ReadFile(path)
		gt.NoError(t, err).Required()

		var onDisk map[string]map[string]json.RawMessage
		gt.NoError(t, json.Unmarshal(data, &onDisk)).Required()
		gt.Value(t, len(onDisk["u1"])).Equal(1)

		var upgraded model.SessionEntry
		gt.NoError(t, json.Unmarshal(onDisk["u1"]["c1"], &upgraded)).Required()
		gt.Value(t, upgraded.SessionID).Equal(types.SessionID("sid-123"))
	})

	t.Run("legacy conversation-level string upgrades", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sessions.json")
		gt.NoError(t, os.WriteFile(path, []byte(`{"u1": {"c1": "sid-456"}}`), 0600)).Required()

		repo := sessionfile.New(path)
		entry, err := repo.Get(ctx, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Value(t, entry).NotNil().Required()
		gt.Value(t, entry.SessionID).Equal(types.SessionID("sid-456"))
	})

	t.Run("list conversations", func(t *testing.T) {
		repo := sessionfile.New(filepath.Join(t.TempDir(), "sessions.json"))
		gt.NoError(t, repo.Put(ctx, "u1", "c1", &model.SessionEntry{SessionID: "sid-1"})).Required()
		gt.NoError(t, repo.Put(ctx, "u1", "c2", &model.SessionEntry{SessionID: "sid-2"})).Required()
		gt.NoError(t, repo.Put(ctx, "u2", "c1", &model.SessionEntry{SessionID: "sid-3"})).Required()

		conversations, err := repo.ListConversations(ctx, "u1")
		gt.NoError(t, err).Required()
		gt.Value(t, len(conversations)).Equal(2)
		gt.Value(t, conversations["c2"].SessionID).Equal(types.SessionID("sid-2"))
	})
}
