// Package pipeline runs the per-project analysis: stream, tokenize,
// classify, aggregate, snapshot.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexnews/gunlog/internal/domain"
	"github.com/alexnews/gunlog/internal/metrics"
	"github.com/alexnews/gunlog/internal/parser"
)

// defaultConcurrency bounds how many projects analyze at once.
const defaultConcurrency = 4

// ProjectResult is the outcome of one project's run. Err is set for
// failed projects; a failure never affects sibling projects.
type ProjectResult struct {
	Project  string
	Snapshot *domain.MetricsSnapshot
	Err      error
	Duration time.Duration
}

// Runner analyzes a batch of projects concurrently. Each project gets
// its own aggregator owned by a single goroutine; results are collected
// by index so the output order matches the input order.
type Runner struct {
	log         *zap.Logger
	clock       clock.Clock
	concurrency int
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock substitutes the time source, for tests.
func WithClock(c clock.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithConcurrency sets how many projects run in parallel.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewRunner creates a runner. A nil logger disables logging.
func NewRunner(log *zap.Logger, opts ...Option) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{
		log:         log,
		clock:       clock.New(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run analyzes every project and returns one result per project, in
// input order. The returned error is only non-nil when the run as a
// whole could not proceed (context cancellation); per-project failures
// are reported in their ProjectResult.
func (r *Runner) Run(ctx context.Context, projects []domain.Project) ([]ProjectResult, error) {
	if len(projects) == 0 {
		return nil, &ConfigError{Reason: "no projects configured"}
	}

	results := make([]ProjectResult, len(projects))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	for i, project := range projects {
		group.Go(func() error {
			start := r.clock.Now()
			snapshot, err := r.runProject(ctx, project)
			results[i] = ProjectResult{
				Project:  project.Name,
				Snapshot: snapshot,
				Err:      err,
				Duration: r.clock.Since(start),
			}
			if err != nil {
				// Unavailable sources fail only their own project;
				// anything else (cancellation) stops the run.
				var srcErr *SourceError
				if !errors.As(err, &srcErr) {
					return err
				}
				r.log.Warn("project failed",
					zap.String("project", project.Name),
					zap.Error(err))
				return nil
			}
			r.log.Info("project analyzed",
				zap.String("project", project.Name),
				zap.Int("lines", snapshot.Diagnostics.LinesRead),
				zap.Int("matched", snapshot.Diagnostics.LinesMatched),
				zap.Duration("took", results[i].Duration))
			return ctx.Err()
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// runProject streams one project's logs through the aggregator.
func (r *Runner) runProject(ctx context.Context, project domain.Project) (*domain.MetricsSnapshot, error) {
	agg := metrics.NewAggregator(project.Name)

	if err := r.scanAccessLog(ctx, project, agg); err != nil {
		return nil, err
	}
	if project.ErrorLog != "" {
		if err := r.scanErrorLog(ctx, project, agg); err != nil {
			return nil, err
		}
	}

	return agg.Finalize(r.clock.Now()), nil
}

func (r *Runner) scanAccessLog(ctx context.Context, project domain.Project, agg *metrics.Aggregator) error {
	reader, err := parser.OpenLog(project.AccessLog)
	if err != nil {
		return &SourceError{Project: project.Name, Path: project.AccessLog, Err: err}
	}
	defer reader.Close()

	tok := parser.NewTokenizer()
	lines := 0
	for reader.Scan() {
		lines++
		if lines%10000 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		agg.CountLine()
		rec, err := tok.Tokenize(reader.Text())
		switch {
		case err == nil:
			agg.ObserveAccess(rec)
		case rec != nil:
			// Line matched but its timestamp is garbage. Aggregating it
			// would silently corrupt sessions and percentiles.
			agg.CountTimestampError()
		default:
			agg.CountParseError()
		}
	}
	if err := reader.Err(); err != nil {
		return &SourceError{Project: project.Name, Path: project.AccessLog, Err: err}
	}
	return nil
}

func (r *Runner) scanErrorLog(ctx context.Context, project domain.Project, agg *metrics.Aggregator) error {
	reader, err := parser.OpenLog(project.ErrorLog)
	if err != nil {
		// A missing error log does not invalidate access-log analysis.
		r.log.Warn("error log unavailable",
			zap.String("project", project.Name),
			zap.String("path", project.ErrorLog),
			zap.Error(err))
		return nil
	}
	defer reader.Close()

	lines := 0
	for reader.Scan() {
		lines++
		if lines%10000 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		agg.ObserveErrorLine(reader.Text())
	}
	if err := reader.Err(); err != nil {
		return &SourceError{Project: project.Name, Path: project.ErrorLog, Err: err}
	}
	return nil
}
