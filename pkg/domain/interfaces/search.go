package interfaces

import (
	"context"

	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
)

// TitleFinder resolves a case number to its indexed title. Returns an
// empty string (and no error) when the backend has no matching record.
type TitleFinder interface {
	FindTitle(ctx context.Context, id types.CaseID) (string, error)
}

// CaseSearcher performs free-text search over the case corpus
type CaseSearcher interface {
	Search(ctx context.Context, query string, pageToken string) (*model.SearchPage, error)
}

// CaseLookup fetches the full per-case result for a detail request. It
// never fails: every error is folded into the returned CaseResult.
type CaseLookup interface {
	Lookup(ctx context.Context, id types.CaseID, question string) *model.CaseResult
}
