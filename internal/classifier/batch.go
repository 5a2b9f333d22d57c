package classifier

import (
	"context"

	"talentflow/internal/types"

	"golang.org/x/sync/errgroup"
)

// Input is one payload of a batch run. ParseErr records a payload that
// could not be decoded; it is reported without being classified.
type Input struct {
	Source   string
	Record   *types.ResumeRecord
	ParseErr error
}

// ClassifyBatch classifies inputs with up to workers concurrent calls.
// Per-record failures are collected in the result, never returned. Items
// keep the input order.
func (s *Service) ClassifyBatch(ctx context.Context, inputs []Input, workers int) *types.BatchResult {
	if workers < 1 {
		workers = 1
	}

	items := make([]types.BatchItem, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, in := range inputs {
		g.Go(func() error {
			item := types.BatchItem{Source: in.Source}
			if in.Record != nil {
				item.UserID = in.Record.UserID
			}

			switch {
			case in.ParseErr != nil:
				item.Error = in.ParseErr.Error()
			case gctx.Err() != nil:
				item.Error = gctx.Err().Error()
			default:
				result, err := s.Classify(gctx, in.Record)
				if err != nil {
					item.Error = err.Error()
				} else {
					item.Result = result
				}
			}
			items[i] = item
			return nil
		})
	}
	_ = g.Wait()

	out := &types.BatchResult{Items: items, ByLevel: make(map[string]int)}
	for _, item := range items {
		if item.Result == nil {
			out.Failed++
			continue
		}
		out.Succeeded++
		out.ByLevel[item.Result.PredictedExperienceLevel]++
	}
	return out
}
