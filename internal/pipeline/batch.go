package pipeline

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchItem is one household's outcome in a batch. Exactly one of Result and
// Err is set.
type BatchItem struct {
	Name   string
	Result *Result
	Err    error
}

// BatchSummary counts batch outcomes.
type BatchSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Saved     int
}

// NamedRequest pairs a request with a label, usually the source file name.
type NamedRequest struct {
	Name string
	Request
}

// RunBatch simulates every request with at most concurrency in flight. A
// failing household does not stop the others. Items keep request order.
func (p *Pipeline) RunBatch(ctx context.Context, reqs []NamedRequest, concurrency int) ([]BatchItem, BatchSummary) {
	if concurrency < 1 {
		concurrency = 1
	}
	items := make([]BatchItem, len(reqs))

	var succeeded, saved atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, req := range reqs {
		items[i].Name = req.Name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			res, err := p.Run(gctx, req.Request)
			if err != nil {
				zap.L().Warn("pipeline: batch household failed", zap.String("name", req.Name), zap.Error(err))
				items[i].Err = err
				return nil
			}
			items[i].Result = res
			succeeded.Add(1)
			if res.Saved {
				saved.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	sum := BatchSummary{
		Total:     len(reqs),
		Succeeded: int(succeeded.Load()),
		Saved:     int(saved.Load()),
	}
	sum.Failed = sum.Total - sum.Succeeded
	zap.L().Info("pipeline: batch complete",
		zap.Int("total", sum.Total),
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
	)
	return items, sum
}
