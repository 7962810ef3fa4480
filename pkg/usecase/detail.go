package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/service/lookup"
)

// DetailUseCase fetches per-case details through the batch fetcher and
// renders them for the chat surface.
type DetailUseCase struct {
	batch *lookup.Batch
}

func NewDetailUseCase(batch *lookup.Batch) *DetailUseCase {
	return &DetailUseCase{batch: batch}
}

// Details fetches results for the identifiers, in input order
func (x *DetailUseCase) Details(ctx context.Context, ids []types.CaseID, question string) ([]*model.CaseResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoCaseIDs
	}
	return x.batch.FetchAll(ctx, ids, question), nil
}

// RenderDetails formats fetched results as markdown. A single case renders
// as a flat header and body; multiple cases render as one section per case
// separated by horizontal rules, in input order.
func RenderDetails(results []*model.CaseResult) string {
	if len(results) == 0 {
		return ""
	}
	if len(results) == 1 {
		r := results[0]
		return fmt.Sprintf("# %s (Case ID: %s)\n\n%s", r.Title, r.CaseID, r.Details)
	}

	sections := make([]string, 0, len(results))
	for _, r := range results {
		sections = append(sections, fmt.Sprintf("## %s (Case ID: %s)\n\n%s", r.Title, r.CaseID, r.Details))
	}
	return "# Case Details\n\n" + strings.Join(sections, "\n\n---\n\n")
}
