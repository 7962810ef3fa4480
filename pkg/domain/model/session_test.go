package model_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
)

func TestDecodeSessionFile(t *testing.T) {
	t.Run("user-level legacy string", func(t *testing.T) {
		data := []byte(`{"u1": "sid-123"}`)

		file, changed, err := model.DecodeSessionFile(data, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Bool(t, changed).True()

		entry := file.Get("u1", "c1")
		gt.Value(t, entry).NotNil().Required()
		gt.Value(t, entry.SessionID).Equal(types.SessionID("sid-123"))
	})

	t.Run("other user's legacy string goes to default conversation", func(t *testing.T) {
		data := []byte(`{"u2": "sid-999"}`)

		file, changed, err := model.DecodeSessionFile(data, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Bool(t, changed).True()

		entry := file.Get("u2", model.DefaultConversationID)
		gt.Value(t, entry).NotNil().Required()
		gt.Value(t, entry.SessionID).Equal(types.SessionID("sid-999"))
	})

	t.Run("conversation-level legacy string", func(t *testing.T) {
		data := []byte(`{"u1": {"c1": "sid-456"}}`)

		file, changed, err := model.DecodeSessionFile(data, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Bool(t, changed).True()

		entry := file.Get("u1", "c1")
		gt.Value(t, entry).NotNil().Required()
		gt.Value(t, entry.SessionID).Equal(types.SessionID("sid-456"))
	})

	t.Run("upgrade is a fixed point", func(t *testing.T) {
		file, changed, err := model.DecodeSessionFile([]byte(`{"u1": "sid-123"}`), "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Bool(t, changed).True()

		canonical, err := json.Marshal(file)
		gt.NoError(t, err).Required()

		again, changed, err := model.DecodeSessionFile(canonical, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Bool(t, changed).False()
		gt.Value(t, again.Get("u1", "c1").SessionID).Equal(types.SessionID("sid-123"))
	})

	t.Run("empty input yields empty file", func(t *testing.T) {
		file, changed, err := model.DecodeSessionFile(nil, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Bool(t, changed).False()
		gt.Value(t, len(file)).Equal(0)
	})

	t.Run("non-object input fails", func(t *testing.T) {
		_, _, err := model.DecodeSessionFile([]byte(`[1, 2]`), "u1", "c1")
		gt.Error(t, err)
	})
}

func TestSessionEntryAppendTurn(t *testing.T) {
	t.Run("trims to most recent turns", func(t *testing.T) {
		entry := &model.SessionEntry{SessionID: "sid-1"}
		for i := 0; i < model.MaxTurnLog+10; i++ {
			entry.AppendTurn(model.TurnRecord{
				Sender:    types.SenderUser,
				Text:      fmt.Sprintf("turn-%d", i),
				Timestamp: time.Now(),
			})
		}

		gt.Array(t, entry.Log).Length(model.MaxTurnLog)
		gt.Value(t, entry.Log[0].Text).Equal("turn-10")
		gt.Value(t, entry.Log[len(entry.Log)-1].Text).Equal(fmt.Sprintf("turn-%d", model.MaxTurnLog+9))
	})
}

func TestSessionEntryEnsureTitle(t *testing.T) {
	t.Run("assigns from first message", func(t *testing.T) {
		entry := &model.SessionEntry{}
		entry.EnsureTitle("Tell me about land disputes")
		gt.Value(t, entry.Title).Equal("Tell me about land disputes")
	})

	t.Run("keeps existing title", func(t *testing.T) {
		entry := &model.SessionEntry{Title: "land disputes"}
		entry.EnsureTitle("something else entirely")
		gt.Value(t, entry.Title).Equal("land disputes")
	})

	t.Run("replaces placeholder titles", func(t *testing.T) {
		entry := &model.SessionEntry{Title: "New Chat"}
		entry.EnsureTitle("मुद्दा खोज्नुहोस्")
		gt.Value(t, entry.Title).Equal("मुद्दा खोज्नुहोस्")
	})

	t.Run("truncates by runes not bytes", func(t *testing.T) {
		msg := "०१२३४५६७८९०१२३४५६७८९०१२३४५६७८९ extra"
		entry := &model.SessionEntry{}
		entry.EnsureTitle(msg)
		gt.Value(t, entry.Title).Equal("०१२३४५६७८९०१२३४५६७८९०१२३४५६७८९")
	})
}

func TestSessionEntryClone(t *testing.T) {
	entry := &model.SessionEntry{SessionID: "sid-1"}
	entry.AppendTurn(model.TurnRecord{Sender: types.SenderUser, Text: "hello", Timestamp: time.Now()})

	clone := entry.Clone()
	clone.Log[0].Text = "mutated"
	clone.SessionID = "sid-2"

	gt.Value(t, entry.Log[0].Text).Equal("hello")
	gt.Value(t, entry.SessionID).Equal(types.SessionID("sid-1"))
}
