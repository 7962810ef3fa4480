package usecase

import (
	"context"
	"fmt"

	"github.com/vesperants/najir-agent/pkg/domain/interfaces"
	"github.com/vesperants/najir-agent/pkg/domain/model"
)

// SearchUseCase exposes free-text case search
type SearchUseCase struct {
	searcher interfaces.CaseSearcher
}

func NewSearchUseCase(searcher interfaces.CaseSearcher) *SearchUseCase {
	return &SearchUseCase{searcher: searcher}
}

// Search returns one page of hits for the query
func (x *SearchUseCase) Search(ctx context.Context, query, pageToken string) (*model.SearchPage, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return x.searcher.Search(ctx, query, pageToken)
}

// SearchReply runs a search and wraps the page in the tagged structured
// payload the frontend renders as a hit list.
func (x *SearchUseCase) SearchReply(ctx context.Context, query string) (string, error) {
	page, err := x.Search(ctx, query, "")
	if err != nil {
		return "", err
	}

	payload := &model.StructuredPayload{
		Type: model.PayloadTypeCaseSearchResults,
		Text: fmt.Sprintf("Found %d cases", page.TotalCount),
		Data: page,
	}
	return payload.Encode()
}
