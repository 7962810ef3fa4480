package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/repository/memory"
	"github.com/vesperants/najir-agent/pkg/usecase"
)

type stubBackend struct {
	createErr error
	known     map[types.SessionID]bool
	created   int
}

func (x *stubBackend) CreateSession(ctx context.Context, uid types.UserID) (types.SessionID, error) {
	if x.createErr != nil {
		return "", x.createErr
	}
	x.created++
	sid := types.SessionID("sid-" + uid.String())
	if x.known == nil {
		x.known = map[types.SessionID]bool{}
	}
	x.known[sid] = true
	return sid, nil
}

func (x *stubBackend) GetSession(ctx context.Context, uid types.UserID, sid types.SessionID) error {
	if x.known[sid] {
		return nil
	}
	return model.ErrSessionNotFound
}

type stubSearcher struct {
	page *model.SearchPage
	err  error
}

func (x *stubSearcher) Search(ctx context.Context, query, pageToken string) (*model.SearchPage, error) {
	if x.err != nil {
		return nil, x.err
	}
	return x.page, nil
}

type stubCaseLookup struct{}

func (x *stubCaseLookup) Lookup(ctx context.Context, id types.CaseID, question string) *model.CaseResult {
	return model.NewCaseResult(id, "title of "+id.String(), "details of "+id.String())
}

func newTestUseCases(backend *stubBackend, searcher *stubSearcher) *usecase.UseCases {
	return usecase.New(memory.New(), backend, searcher, &stubCaseLookup{})
}

func TestChat(t *testing.T) {
	ctx := context.Background()

	t.Run("greeting", func(t *testing.T) {
		uc := newTestUseCases(&stubBackend{}, &stubSearcher{})
		reply := uc.Chat.Chat(ctx, "u1", "c1", "hello", nil)
		gt.String(t, reply).Contains("Hello")
	})

	t.Run("explicit IDs render case details over greeting", func(t *testing.T) {
		uc := newTestUseCases(&stubBackend{}, &stubSearcher{})
		reply := uc.Chat.Chat(ctx, "u1", "c1", "Hi, tell me about this", []types.CaseID{"1234"})
		gt.String(t, reply).Contains("title of 1234")
		gt.String(t, reply).Contains("Case ID: 1234")
	})

	t.Run("multiple cases render sections with separators", func(t *testing.T) {
		uc := newTestUseCases(&stubBackend{}, &stubSearcher{})
		reply := uc.Chat.Chat(ctx, "u1", "c1", "compare", []types.CaseID{"1234", "5678"})
		gt.String(t, reply).Contains("# Case Details")
		gt.String(t, reply).Contains("## title of 1234")
		gt.String(t, reply).Contains("## title of 5678")
		gt.String(t, reply).Contains("---")
	})

	t.Run("search produces tagged structured payload", func(t *testing.T) {
		searcher := &stubSearcher{page: &model.SearchPage{
			Cases:      []model.CaseSummary{{ID: "1234", Title: "land dispute"}},
			TotalCount: 1,
		}}
		uc := newTestUseCases(&stubBackend{}, searcher)

		reply := uc.Chat.Chat(ctx, "u1", "c1", "Find cases about land disputes", nil)
		gt.Bool(t, model.IsStructuredReply(reply)).True()

		var payload model.StructuredPayload
		gt.NoError(t, json.Unmarshal([]byte(reply), &payload)).Required()
		gt.Value(t, payload.Type).Equal(model.PayloadTypeCaseSearchResults)
	})

	t.Run("search backend failure degrades to apology", func(t *testing.T) {
		uc := newTestUseCases(&stubBackend{}, &stubSearcher{err: errors.New("backend down")})
		reply := uc.Chat.Chat(ctx, "u1", "c1", "Find cases about anything", nil)
		gt.String(t, reply).Contains("apologize")
	})

	t.Run("selected keywords without IDs ask to clarify", func(t *testing.T) {
		uc := newTestUseCases(&stubBackend{}, &stubSearcher{})
		reply := uc.Chat.Chat(ctx, "u1", "c1", "summarize these cases", nil)
		gt.String(t, reply).Contains("couldn't find any case IDs")
	})

	t.Run("session backend failure degrades to apology", func(t *testing.T) {
		uc := newTestUseCases(&stubBackend{createErr: errors.New("unavailable")}, &stubSearcher{})
		reply := uc.Chat.Chat(ctx, "u1", "c1", "hello", nil)
		gt.String(t, reply).Contains("apologize")
	})

	t.Run("turns are recorded with title from first message", func(t *testing.T) {
		uc := newTestUseCases(&stubBackend{}, &stubSearcher{})
		uc.Chat.Chat(ctx, "u1", "c1", "hello", nil)

		entry, err := uc.Session.History(ctx, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Array(t, entry.Log).Length(2)
		gt.Value(t, entry.Log[0].Sender).Equal(types.SenderUser)
		gt.Value(t, entry.Log[0].Text).Equal("hello")
		gt.Value(t, entry.Log[1].Sender).Equal(types.SenderBot)
		gt.Value(t, entry.Title).Equal("hello")
	})

	t.Run("structured replies are flagged in the log", func(t *testing.T) {
		searcher := &stubSearcher{page: &model.SearchPage{TotalCount: 0}}
		uc := newTestUseCases(&stubBackend{}, searcher)

		uc.Chat.Chat(ctx, "u1", "c1", "Find cases about anything", nil)

		entry, err := uc.Session.History(ctx, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Bool(t, entry.Log[1].Structured).True()
	})
}

func TestEnsureSession(t *testing.T) {
	ctx := context.Background()

	t.Run("reuses a valid stored handle", func(t *testing.T) {
		backend := &stubBackend{}
		repo := memory.New()
		sessions := usecase.NewSessionUseCase(repo, backend)

		first, err := sessions.EnsureSession(ctx, "u1", "c1")
		gt.NoError(t, err).Required()

		second, err := sessions.EnsureSession(ctx, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Value(t, second.SessionID).Equal(first.SessionID)
		gt.Value(t, backend.created).Equal(1)
	})

	t.Run("expired handle is silently replaced", func(t *testing.T) {
		backend := &stubBackend{}
		repo := memory.New()
		sessions := usecase.NewSessionUseCase(repo, backend)

		gt.NoError(t, repo.Put(ctx, "u1", "c1", &model.SessionEntry{
			SessionID: "expired-sid",
			Title:     "existing title",
		})).Required()

		entry, err := sessions.EnsureSession(ctx, "u1", "c1")
		gt.NoError(t, err).Required()
		gt.Value(t, entry.SessionID).Equal(types.SessionID("sid-u1"))
		gt.Value(t, entry.Title).Equal("existing title")
	})
}
