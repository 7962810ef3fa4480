package lookup

import (
	"context"
	"time"

	"github.com/vesperants/najir-agent/pkg/domain/interfaces"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxBatchSize bounds cost and latency per request; identifiers past
	// the cap are silently dropped.
	MaxBatchSize = 10

	defaultWorkers = 3
	defaultTimeout = 15 * time.Second
)

// Batch runs case lookups over a bounded worker pool. Results arrive in
// completion order internally but the output always matches the (possibly
// truncated) input order.
type Batch struct {
	lookup  interfaces.CaseLookup
	workers int
	timeout time.Duration
}

// BatchOption configures a Batch
type BatchOption func(*Batch)

// WithWorkers sets the worker pool size
func WithWorkers(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithTimeout sets the per-case lookup deadline
func WithTimeout(d time.Duration) BatchOption {
	return func(b *Batch) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// NewBatch creates a Batch over the given lookup
func NewBatch(lookup interfaces.CaseLookup, opts ...BatchOption) *Batch {
	b := &Batch{
		lookup:  lookup,
		workers: defaultWorkers,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FetchAll looks up every identifier and returns one result per input ID,
// in input order. The output length always equals min(len(ids),
// MaxBatchSize): timed-out and failed lookups yield placeholder results
// instead of shrinking the batch.
func (b *Batch) FetchAll(ctx context.Context, ids []types.CaseID, question string) []*model.CaseResult {
	logger := logging.From(ctx)

	if len(ids) > MaxBatchSize {
		logger.Info("truncating case detail batch",
			"requested", len(ids),
			"limit", MaxBatchSize,
		)
		ids = ids[:MaxBatchSize]
	}

	completed := make(chan *model.CaseResult, len(ids))

	g := &errgroup.Group{}
	g.SetLimit(b.workers)
	for _, id := range ids {
		g.Go(func() error {
			completed <- b.fetchOne(ctx, id, question)
			return nil
		})
	}
	_ = g.Wait()
	close(completed)

	// Collect in arrival order, then restore input order.
	byID := make(map[types.CaseID]*model.CaseResult, len(ids))
	for result := range completed {
		byID[result.CaseID] = result
	}

	out := make([]*model.CaseResult, 0, len(ids))
	for _, id := range ids {
		if result, ok := byID[id]; ok {
			out = append(out, result)
			continue
		}
		// a lookup vanished without reporting a result
		logger.Warn("no result collected for case", "case_id", id)
		out = append(out, model.NewMissingResult(id))
	}

	return out
}

// fetchOne wraps a single lookup with the per-case deadline. A timed-out
// lookup is abandoned, not cancelled: the goroutine may keep running until
// the underlying call finishes, but its result is discarded.
func (b *Batch) fetchOne(ctx context.Context, id types.CaseID, question string) *model.CaseResult {
	done := make(chan *model.CaseResult, 1)
	go func() {
		done <- b.lookup.Lookup(ctx, id, question)
	}()

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case result := <-done:
		return result
	case <-timer.C:
		logging.From(ctx).Error("case lookup timed out",
			"case_id", id,
			"timeout", b.timeout.String(),
		)
		return model.NewTimeoutResult(id)
	case <-ctx.Done():
		return model.NewErrorResult(id, ctx.Err())
	}
}
