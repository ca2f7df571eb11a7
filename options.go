package kibitz

import (
	"time"

	"go.uber.org/zap"

	"github.com/discochess/kibitz/internal/proc"
	"github.com/discochess/kibitz/internal/stats"
)

// Default engine configuration.
const (
	// DefaultPoolSize is the number of engine processes started when
	// WithPoolSize is not given.
	DefaultPoolSize = 2

	// DefaultMultiPV is the number of candidate lines requested per
	// position.
	DefaultMultiPV = 3

	// DefaultSearchTime is the fixed per-job search budget.
	DefaultSearchTime = 500 * time.Millisecond

	// defaultStartupTimeout bounds the initial handshake; an engine
	// that has not acknowledged within this window never becomes usable.
	defaultStartupTimeout = 5 * time.Second

	// defaultTimeoutMargin is added to the search budget before a job
	// is abandoned. The engine normally reports within the budget; the
	// margin absorbs scheduling and pipe latency.
	defaultTimeoutMargin = 500 * time.Millisecond
)

// Option configures a Pool.
type Option interface {
	apply(*options)
}

// options holds the pool configuration.
type options struct {
	poolSize   int
	enginePath string
	launcher   proc.Launcher

	threads    int
	hashMB     int
	multiPV    int
	searchTime time.Duration

	startupTimeout time.Duration
	timeoutMargin  time.Duration

	stats  stats.Collector
	logger *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		poolSize:       DefaultPoolSize,
		enginePath:     "stockfish",
		threads:        1,
		hashMB:         128,
		multiPV:        DefaultMultiPV,
		searchTime:     DefaultSearchTime,
		startupTimeout: defaultStartupTimeout,
		timeoutMargin:  defaultTimeoutMargin,
		stats:          stats.NewNoop(),
		logger:         zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithPoolSize sets the number of engine processes.
// poolSize × threads should not exceed the available hardware
// concurrency; the pool does not enforce this.
func WithPoolSize(n int) Option {
	return optionFunc(func(o *options) {
		o.poolSize = n
	})
}

// WithEnginePath sets the engine binary to launch.
// Default is "stockfish", resolved via PATH.
func WithEnginePath(path string) Option {
	return optionFunc(func(o *options) {
		o.enginePath = path
	})
}

// WithLauncher sets a custom process launcher.
// When set, WithEnginePath is ignored. Intended for tests.
func WithLauncher(l proc.Launcher) Option {
	return optionFunc(func(o *options) {
		o.launcher = l
	})
}

// WithThreads sets the compute width given to each engine process.
func WithThreads(n int) Option {
	return optionFunc(func(o *options) {
		o.threads = n
	})
}

// WithHashMB sets the memory budget, in megabytes, for each engine
// process.
func WithHashMB(n int) Option {
	return optionFunc(func(o *options) {
		o.hashMB = n
	})
}

// WithMultiPV sets the number of candidate lines requested per
// position. Every result has exactly this length.
func WithMultiPV(n int) Option {
	return optionFunc(func(o *options) {
		o.multiPV = n
	})
}

// WithSearchTime sets the fixed search budget per job.
func WithSearchTime(d time.Duration) Option {
	return optionFunc(func(o *options) {
		o.searchTime = d
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}
