package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/gollem"
	cache "github.com/patrickmn/go-cache"
	"github.com/vesperants/najir-agent/pkg/domain/interfaces"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/utils/logging"
)

const (
	titleCacheTTL     = 10 * time.Minute
	titleCacheCleanup = 30 * time.Minute
)

// Service resolves a single case to a CaseResult: title via the search
// backend, narrative details via the LLM grounded on that title. Lookup
// never returns an error; every failure is folded into the result.
type Service struct {
	titles interfaces.TitleFinder
	llm    gollem.LLMClient

	titleCache *cache.Cache
}

var _ interfaces.CaseLookup = &Service{}

// New creates a Service. llm may be nil, in which case details degrade to
// the bare title.
func New(titles interfaces.TitleFinder, llm gollem.LLMClient) *Service {
	return &Service{
		titles:     titles,
		llm:        llm,
		titleCache: cache.New(titleCacheTTL, titleCacheCleanup),
	}
}

// Lookup fetches the title and grounded answer for one case
func (x *Service) Lookup(ctx context.Context, id types.CaseID, question string) *model.CaseResult {
	title, err := x.findTitle(ctx, id)
	if err != nil {
		return model.NewErrorResult(id, err)
	}
	if title == "" {
		return model.NewNotFoundResult(id)
	}

	details, err := x.answer(ctx, id, title, question)
	if err != nil {
		logging.From(ctx).Warn("grounded answer failed, falling back to title",
			"case_id", id,
			"error", err.Error(),
		)
		details = title
	}

	return model.NewCaseResult(id, title, details)
}

// findTitle resolves the case title with a TTL cache in front. A direct
// miss retries once with the Arabic→Devanagari converted form before
// giving up, since users often type case numbers in Arabic digits.
func (x *Service) findTitle(ctx context.Context, id types.CaseID) (string, error) {
	if cached, ok := x.titleCache.Get(id.String()); ok {
		return cached.(string), nil
	}

	title, err := x.titles.FindTitle(ctx, id)
	if err != nil {
		return "", err
	}

	if title == "" {
		if converted := id.ToDevanagari(); converted != id {
			title, err = x.titles.FindTitle(ctx, converted)
			if err != nil {
				return "", err
			}
		}
	}

	if title != "" {
		x.titleCache.Set(id.String(), title, cache.DefaultExpiration)
	}

	return title, nil
}

// answer asks the LLM the user's question, grounded strictly on the
// retrieved title.
func (x *Service) answer(ctx context.Context, id types.CaseID, title, question string) (string, error) {
	if x.llm == nil {
		return title, nil
	}
	if strings.TrimSpace(question) == "" {
		question = "Provide information about this case"
	}

	session, err := x.llm.NewSession(ctx)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`You are a legal expert on Nepali Supreme Court cases.
Answer the question using ONLY the retrieved case title below as factual grounding.
Do not use any outside knowledge about this case. If the title alone is not
enough to answer the question, say so explicitly instead of guessing.

Case number: %s
Case title: %s

Question: %s`, id, title, question)

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Texts) == 0 {
		return "", fmt.Errorf("empty response from LLM for case %s", id)
	}

	return strings.Join(resp.Texts, "\n"), nil
}
