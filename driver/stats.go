package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Stats holds statement execution counters. It is safe for concurrent use.
type Stats struct {
	queries  atomic.Int64
	execs    atomic.Int64
	duration atomic.Int64 // nanoseconds
	slow     atomic.Int64
	errors   atomic.Int64
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Queries:  s.queries.Load(),
		Execs:    s.execs.Load(),
		Duration: time.Duration(s.duration.Load()),
		Slow:     s.slow.Load(),
		Errors:   s.errors.Load(),
	}
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	s.queries.Store(0)
	s.execs.Store(0)
	s.duration.Store(0)
	s.slow.Store(0)
	s.errors.Store(0)
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Queries  int64
	Execs    int64
	Duration time.Duration
	Slow     int64
	Errors   int64
}

// Avg returns the mean statement duration.
func (s StatsSnapshot) Avg() time.Duration {
	total := s.Queries + s.Execs
	if total == 0 {
		return 0
	}
	return s.Duration / time.Duration(total)
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.Queries, s.Execs, s.Duration, s.Avg(), s.Slow, s.Errors)
}

// Option configures a DB.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	slowThreshold time.Duration
}

func defaultConfig() config {
	return config{
		logger:        slog.Default(),
		slowThreshold: 100 * time.Millisecond,
	}
}

// WithLogger sets the logger statements are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSlowThreshold sets the duration above which a statement is logged as
// slow. Zero disables slow statement logging.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *config) {
		c.slowThreshold = d
	}
}

// record updates the counters and logs the statement.
func (c *config) record(ctx context.Context, stats *Stats, query string, args []any, start time.Time, err error, isQuery bool) {
	d := time.Since(start)
	if isQuery {
		stats.queries.Add(1)
	} else {
		stats.execs.Add(1)
	}
	stats.duration.Add(int64(d))

	if err != nil {
		stats.errors.Add(1)
		c.logger.ErrorContext(ctx, "statement failed", "query", query, "args", len(args), "duration", d, "error", err)
		return
	}
	if c.slowThreshold > 0 && d > c.slowThreshold {
		stats.slow.Add(1)
		c.logger.WarnContext(ctx, "slow statement", "query", query, "args", len(args), "duration", d)
		return
	}
	c.logger.DebugContext(ctx, "statement", "query", query, "args", len(args), "duration", d)
}
