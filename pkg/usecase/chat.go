package usecase

import (
	"context"

	"github.com/m-mizutani/gollem"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/utils/errutil"
	"github.com/vesperants/najir-agent/pkg/utils/logging"
)

const (
	replyGreeting      = "Hello! How can I help you today?"
	replyFarewell      = "Goodbye! Have a great day!"
	replyApology       = "I apologize, but I'm having trouble processing your request. Please try again."
	replyNoCases       = "I couldn't find any case IDs. Please specify case numbers or select cases from the search results."
	replyCannotHelp    = "I'm sorry, I can only help with questions about legal cases. Try searching for cases or asking about a specific case number."
	defaultDetailQuery = "Summarize this case."
)

// ChatUseCase is the top-level entry point of a chat turn. It ensures a
// backend session, routes the message, produces a reply, and records both
// turns in the conversation log.
type ChatUseCase struct {
	sessions *SessionUseCase
	router   *Router
	search   *SearchUseCase
	detail   *DetailUseCase
	llm      gollem.LLMClient
}

func NewChatUseCase(sessions *SessionUseCase, router *Router, search *SearchUseCase, detail *DetailUseCase, llm gollem.LLMClient) *ChatUseCase {
	return &ChatUseCase{
		sessions: sessions,
		router:   router,
		search:   search,
		detail:   detail,
		llm:      llm,
	}
}

// Chat handles one turn and returns the reply string, which is either
// prose or a serialized structured payload. Backend failures degrade to an
// apologetic reply instead of an error wherever the turn can still be
// answered.
func (x *ChatUseCase) Chat(ctx context.Context, uid types.UserID, cid types.ConversationID, message string, selected []types.CaseID) string {
	if _, err := x.sessions.EnsureSession(ctx, uid, cid); err != nil {
		errutil.Handle(ctx, err, "failed to ensure session")
		return replyApology
	}

	decision := x.router.Route(ctx, message, selected)
	logging.From(ctx).Debug("routed message",
		"intent", decision.Intent,
		"case_ids", decision.IDs,
	)

	reply, structured := x.reply(ctx, decision, message)

	if err := x.sessions.AppendTurns(ctx, uid, cid, message, reply, structured); err != nil {
		// reply still goes out; only the log write is lost
		errutil.Handle(ctx, err, "failed to record chat turns")
	}
	return reply
}

func (x *ChatUseCase) reply(ctx context.Context, decision *Decision, message string) (string, bool) {
	switch decision.Intent {
	case types.IntentGreeting:
		return replyGreeting, false

	case types.IntentFarewell:
		return replyFarewell, false

	case types.IntentCaseSearch:
		reply, err := x.search.SearchReply(ctx, message)
		if err != nil {
			errutil.Handle(ctx, err, "case search failed")
			return replyApology, false
		}
		return reply, true

	case types.IntentCaseDetail:
		results, err := x.detail.Details(ctx, decision.IDs, message)
		if err != nil {
			errutil.Handle(ctx, err, "case detail fetch failed")
			return replyApology, false
		}
		return RenderDetails(results), false

	default:
		if decision.NeedsClarification {
			return replyNoCases, false
		}
		return x.fallback(ctx, message), false
	}
}

// fallback passes the message through to the general-purpose model when
// one is configured, and answers with a canned reply otherwise.
func (x *ChatUseCase) fallback(ctx context.Context, message string) string {
	if x.llm == nil {
		return replyCannotHelp
	}

	session, err := x.llm.NewSession(ctx)
	if err != nil {
		errutil.Handle(ctx, err, "failed to open fallback session")
		return replyApology
	}
	resp, err := session.GenerateContent(ctx, gollem.Text(message))
	if err != nil {
		errutil.Handle(ctx, err, "fallback generation failed")
		return replyApology
	}
	if len(resp.Texts) == 0 {
		return replyCannotHelp
	}
	return resp.Texts[0]
}
