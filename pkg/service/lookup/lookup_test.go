package lookup_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/service/lookup"
)

type stubTitles struct {
	titles map[types.CaseID]string
	err    error
	calls  []types.CaseID
}

func (x *stubTitles) FindTitle(ctx context.Context, id types.CaseID) (string, error) {
	x.calls = append(x.calls, id)
	if x.err != nil {
		return "", x.err
	}
	return x.titles[id], nil
}

func TestLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("title found, no LLM degrades to title", func(t *testing.T) {
		titles := &stubTitles{titles: map[types.CaseID]string{"1234": "some case"}}
		svc := lookup.New(titles, nil)

		result := svc.Lookup(ctx, "1234", "what happened?")
		gt.Value(t, result.Status).Equal(types.LookupStatusOK)
		gt.Value(t, result.Title).Equal("some case")
		gt.Value(t, result.Details).Equal("some case")
	})

	t.Run("miss retries with devanagari form", func(t *testing.T) {
		titles := &stubTitles{titles: map[types.CaseID]string{"१२३४": "converted hit"}}
		svc := lookup.New(titles, nil)

		result := svc.Lookup(ctx, "1234", "")
		gt.Value(t, result.Status).Equal(types.LookupStatusOK)
		gt.Value(t, result.Title).Equal("converted hit")
		gt.Array(t, titles.calls).Length(2)
		gt.Value(t, titles.calls[1]).Equal(types.CaseID("१२३४"))
	})

	t.Run("not found after both forms", func(t *testing.T) {
		titles := &stubTitles{titles: map[types.CaseID]string{}}
		svc := lookup.New(titles, nil)

		result := svc.Lookup(ctx, "9999", "")
		gt.Value(t, result.Status).Equal(types.LookupStatusNotFound)
		gt.Value(t, result.Title).Equal("Case not found")
	})

	t.Run("backend error folds into result", func(t *testing.T) {
		titles := &stubTitles{err: errors.New("backend down")}
		svc := lookup.New(titles, nil)

		result := svc.Lookup(ctx, "1234", "")
		gt.Value(t, result.Status).Equal(types.LookupStatusError)
		gt.String(t, result.Details).Contains("backend down")
	})

	t.Run("second lookup hits the title cache", func(t *testing.T) {
		titles := &stubTitles{titles: map[types.CaseID]string{"1234": "cached case"}}
		svc := lookup.New(titles, nil)

		svc.Lookup(ctx, "1234", "")
		calls := len(titles.calls)
		svc.Lookup(ctx, "1234", "")
		gt.Value(t, len(titles.calls)).Equal(calls)
	})
}
