package maintenance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/rowcache/rowcache/internal/cache"
	"github.com/rowcache/rowcache/pkg/logger"
	"github.com/rowcache/rowcache/pkg/metrics"
)

const defaultSweepSpec = "@hourly"

// Sweeper periodically purges expired rows from the configured cache stores.
// Stores that serve stale values on read keep those rows until a sweep runs,
// so deployments that disable read repair pair it with a sweeper.
type Sweeper struct {
	purgers  map[string]cache.Purger
	cron     *cron.Cron
	schedule string
	log      *zap.Logger
	enabled  bool
}

// Option customises the Sweeper.
type Option func(*Sweeper)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(s *Sweeper) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithSchedule overrides the cron specification for the sweep job.
func WithSchedule(spec string) Option {
	return func(s *Sweeper) {
		if spec != "" {
			s.schedule = spec
		}
	}
}

// NewSweeper constructs a Sweeper over the named purgers. A nil or empty set
// produces a disabled sweeper whose Start and RunOnce are no-ops.
func NewSweeper(purgers map[string]cache.Purger, opts ...Option) *Sweeper {
	sweeper := &Sweeper{
		purgers:  purgers,
		schedule: defaultSweepSpec,
		log:      logger.WithComponent("maintenance"),
	}

	for _, opt := range opts {
		opt(sweeper)
	}

	if sweeper.cron == nil {
		sweeper.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	sweeper.enabled = len(purgers) > 0

	return sweeper
}

// Start registers the sweep job with the cron scheduler and launches it.
func (s *Sweeper) Start() error {
	if !s.enabled {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.log.Warn("sweep failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (s *Sweeper) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

// RunOnce sweeps every configured store sequentially. A failing store does not
// stop the remaining sweeps; failures are aggregated into the returned error.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	names := make([]string, 0, len(s.purgers))
	for name := range s.purgers {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs error
	for _, name := range names {
		started := time.Now()
		purged, err := s.purgers[name].PurgeExpired(ctx)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("sweep %s: %w", name, err))
			continue
		}

		metrics.RowsPurged.Add(float64(purged))
		if purged > 0 {
			s.log.Info("expired rows purged",
				zap.String("cache", name),
				zap.Int64("rows", purged),
				zap.Duration("elapsed", time.Since(started)),
			)
		}
	}

	return errs
}
