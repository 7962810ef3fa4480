package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vesperants/najir-agent/pkg/domain/interfaces"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/utils/logging"
)

// SessionUseCase owns the durable (user, conversation) → session mapping.
// It validates stored handles against the external backend on every turn
// and silently replaces handles the backend no longer recognizes.
type SessionUseCase struct {
	repo    interfaces.SessionRepository
	backend interfaces.SessionBackend
}

func NewSessionUseCase(repo interfaces.SessionRepository, backend interfaces.SessionBackend) *SessionUseCase {
	return &SessionUseCase{repo: repo, backend: backend}
}

// EnsureSession returns the entry for the pair, creating a backend session
// when none exists or the stored handle has expired. The returned entry is
// already persisted.
func (x *SessionUseCase) EnsureSession(ctx context.Context, uid types.UserID, cid types.ConversationID) (*model.SessionEntry, error) {
	entry, err := x.repo.Get(ctx, uid, cid)
	if err != nil {
		return nil, err
	}

	if entry != nil && entry.SessionID != "" {
		err := x.backend.GetSession(ctx, uid, entry.SessionID)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, model.ErrSessionNotFound) {
			return nil, goerr.Wrap(err, "failed to validate session handle",
				goerr.V("user_id", uid),
				goerr.V("session_id", entry.SessionID),
			)
		}
		logging.From(ctx).Info("stored session expired, creating a new one",
			"user_id", uid,
			"conversation_id", cid,
		)
	}

	sid, err := x.backend.CreateSession(ctx, uid)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create backend session", goerr.V("user_id", uid))
	}

	if entry == nil {
		entry = &model.SessionEntry{UpdatedAt: time.Now()}
	}
	entry.SessionID = sid

	if err := x.repo.Put(ctx, uid, cid, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AppendTurns records one completed exchange: the user message followed by
// the bot reply. The entry's title is assigned from the first user message
// when it is still a placeholder, and the log is trimmed to the most
// recent turns.
func (x *SessionUseCase) AppendTurns(ctx context.Context, uid types.UserID, cid types.ConversationID, userMsg, reply string, structured bool) error {
	entry, err := x.repo.Get(ctx, uid, cid)
	if err != nil {
		return err
	}
	if entry == nil {
		return goerr.Wrap(model.ErrSessionNotFound, "cannot append turns without a session",
			goerr.V("user_id", uid),
			goerr.V("conversation_id", cid),
		)
	}

	now := time.Now()
	entry.AppendTurn(model.TurnRecord{
		Sender:    types.SenderUser,
		Text:      userMsg,
		Timestamp: now,
	})
	entry.AppendTurn(model.TurnRecord{
		Sender:     types.SenderBot,
		Text:       reply,
		Structured: structured,
		Timestamp:  now,
	})
	entry.EnsureTitle(userMsg)
	entry.UpdatedAt = now

	return x.repo.Put(ctx, uid, cid, entry)
}

// History returns the stored entry for the pair
func (x *SessionUseCase) History(ctx context.Context, uid types.UserID, cid types.ConversationID) (*model.SessionEntry, error) {
	entry, err := x.repo.Get(ctx, uid, cid)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "no history for conversation",
			goerr.V("user_id", uid),
			goerr.V("conversation_id", cid),
		)
	}
	return entry, nil
}

// ListConversations returns all conversations of a user
func (x *SessionUseCase) ListConversations(ctx context.Context, uid types.UserID) (map[types.ConversationID]*model.SessionEntry, error) {
	return x.repo.ListConversations(ctx, uid)
}
