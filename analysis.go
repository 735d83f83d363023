package jellyfish

// analysis.go runs path enumeration and link-load accounting over a stream of traffic pairs.
// Pairs are independent, so they are spread over worker goroutines. Each worker owns a
// private PathEnumerator and LinkLoadAnalyzer, and the worker analyzers are merged once
// all workers finish, so no counter is shared while the workers run.

import (
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AnalysisResult is what AnalyzeTraffic returns
type AnalysisResult struct {
	Loads       LinkLoads
	Pairs       int // pairs offered
	Analyzed    int // pairs whose paths were recorded
	Skipped     int // same-switch pairs
	Unreachable int // pairs with no path at all
	Truncated   int // enumerations cut short by the step budget
}

// workerTally is the per-worker share of an AnalysisResult
type workerTally struct {
	analyzer    *LinkLoadAnalyzer
	analyzed    int
	skipped     int
	unreachable int
	truncated   int
}

// AnalyzeTraffic enumerates up to AnalysisPathLimit paths for every pair and folds them into
// one set of link counters. Same-switch pairs are skipped. A pair whose enumeration exhausts
// its step budget contributes the paths found so far. Cancelling ctx aborts the analysis.
func AnalyzeTraffic(ctx context.Context, g *Graph, pairs []TrafficPair, opts ...Option) (*AnalysisResult, error) {
	cfg := resolveOptions(opts)
	for idx, tp := range pairs {
		if tp.Src < 0 || tp.Src >= g.NumSwitches() || tp.Dst < 0 || tp.Dst >= g.NumSwitches() {
			return nil, fmt.Errorf("traffic pair %d (%d -> %d) names a switch outside [0,%d): %w",
				idx, tp.Src, tp.Dst, g.NumSwitches(), ErrConfiguration)
		}
	}

	workers := min(cfg.workers, max(len(pairs), 1))
	tallies := make([]*workerTally, workers)
	grp, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		tally := &workerTally{analyzer: NewLinkLoadAnalyzer()}
		tallies[w] = tally
		first := w
		grp.Go(func() error {
			return analyzeStride(gctx, g, pairs, first, workers, tally, cfg)
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	// reduce the worker counters into the result
	total := NewLinkLoadAnalyzer()
	rtn := &AnalysisResult{Pairs: len(pairs)}
	for _, tally := range tallies {
		total.Merge(tally.analyzer)
		rtn.Analyzed += tally.analyzed
		rtn.Skipped += tally.skipped
		rtn.Unreachable += tally.unreachable
		rtn.Truncated += tally.truncated
	}
	rtn.Loads = total.Snapshot()

	cfg.logger.Info("traffic analyzed",
		zap.Int("pairs", rtn.Pairs),
		zap.Int("analyzed", rtn.Analyzed),
		zap.Int("skipped", rtn.Skipped),
		zap.Int("unreachable", rtn.Unreachable),
		zap.Int("truncated", rtn.Truncated),
		zap.Int("workers", workers))
	return rtn, nil
}

// analyzeStride processes pairs first, first+stride, first+2*stride, ...
func analyzeStride(ctx context.Context, g *Graph, pairs []TrafficPair, first, stride int,
	tally *workerTally, cfg *runConfig) error {

	pe := NewPathEnumerator(cfg.stepBudget)
	for idx := first; idx < len(pairs); idx += stride {
		tp := pairs[idx]
		if tp.SameSwitch() {
			tally.skipped += 1
			cfg.metrics.pairSkipped()
			continue
		}

		paths, err := pe.Enumerate(ctx, g, tp.Src, tp.Dst, AnalysisPathLimit)
		truncated := false
		if err != nil {
			if !errors.Is(err, ErrBudgetExhausted) {
				return err
			}
			truncated = true
			tally.truncated += 1
			cfg.logger.Warn("path enumeration truncated",
				zap.Int("src", tp.Src),
				zap.Int("dst", tp.Dst),
				zap.Int("found", len(paths)))
		}
		if len(paths) == 0 && !truncated {
			tally.unreachable += 1
		}
		tally.analyzer.Record(paths)
		tally.analyzed += 1
		cfg.metrics.pairDone(len(paths), truncated)
		cfg.logger.Debug("pair analyzed",
			zap.Int("pair", idx),
			zap.Int("src", tp.Src),
			zap.Int("dst", tp.Dst),
			zap.Int("paths", len(paths)))
	}
	return nil
}
