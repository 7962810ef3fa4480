package memory_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/repository/memory"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("absent pair returns nil", func(t *testing.T) {
		repo := memory.New()
		entry, err := repo.Get(ctx, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Value(t, entry).Nil()
	})

	t.Run("put then get roundtrip", func(t *testing.T) {
		repo := memory.New()
		gt.NoError(t, repo.Put(ctx, "u1", "c1", &model.SessionEntry{SessionID: "sid-1"})).Required()

		entry, err := repo.Get(ctx, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Value(t, entry).NotNil().Required()
		gt.Value(t, entry.SessionID).Equal(types.SessionID("sid-1"))
	})

	t.Run("stored entries are isolated from caller mutation", func(t *testing.T) {
		repo := memory.New()
		original := &model.SessionEntry{SessionID: "sid-1", Title: "before"}
		gt.NoError(t, repo.Put(ctx, "u1", "c1", original)).Required()

		original.Title = "after"

		entry, err := repo.Get(ctx, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Value(t, entry.Title).Equal("before")
	})

	t.Run("list conversations", func(t *testing.T) {
		repo := memory.New()
		gt.NoError(t, repo.Put(ctx, "u1", "c1", &model.SessionEntry{SessionID: "sid-1"})).Required()
		gt.NoError(t, repo.Put(ctx, "u1", "c2", &model.SessionEntry{SessionID: "sid-2"})).Required()

		conversations, err := repo.ListConversations(ctx, "u1")
		gt.NoError(t, err).Required()
		gt.Value(t, len(conversations)).Equal(2)
	})
}
