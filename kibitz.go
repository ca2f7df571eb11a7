// Package kibitz runs a pool of external UCI analysis engine processes
// and turns chess positions into ranked candidate moves with
// evaluations.
//
// Example usage:
//
//	pool, err := kibitz.New(
//	    kibitz.WithEnginePath("/usr/local/bin/stockfish"),
//	    kibitz.WithPoolSize(4),
//	    kibitz.WithMultiPV(3),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	lines, err := pool.Analyze(ctx, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("best: %s (%s)\n", lines[0].Move, lines[0].Score)
package kibitz

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/kibitz/internal/proc"
	"github.com/discochess/kibitz/internal/stats"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrClosed indicates the pool has been closed.
	ErrClosed = errors.New("kibitz: pool closed")

	// ErrEngineFailed indicates an engine process never completed its
	// initialization handshake. The engine is permanently unusable.
	ErrEngineFailed = errors.New("kibitz: engine failed to initialize")

	// ErrSearchTimeout indicates a single analysis did not finish within
	// the search budget plus margin. Other jobs on the same engine are
	// unaffected.
	ErrSearchTimeout = errors.New("kibitz: analysis timed out")

	// ErrEngineTerminated indicates the job's engine was shut down
	// before the job could complete.
	ErrEngineTerminated = errors.New("kibitz: engine terminated")
)

// Pool owns a fixed-size set of engine processes with uniform
// configuration and load-balances analysis requests across them.
// A Pool is safe for concurrent use by multiple goroutines.
type Pool struct {
	engines []*engine
	multiPV int
	next    atomic.Uint64
	stats   stats.Collector
	logger  *zap.Logger
	closed  atomic.Bool
}

// New creates a Pool and spawns its engine processes.
// Engines initialize asynchronously; an engine whose process cannot be
// started or never acknowledges the handshake stays in the pool but
// fails every request routed to it with ErrEngineFailed.
func New(opts ...Option) (*Pool, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.poolSize <= 0 {
		return nil, fmt.Errorf("kibitz: pool size must be positive, got %d", cfg.poolSize)
	}
	if cfg.multiPV <= 0 {
		return nil, fmt.Errorf("kibitz: variation count must be positive, got %d", cfg.multiPV)
	}
	if cfg.threads <= 0 || cfg.hashMB <= 0 {
		return nil, fmt.Errorf("kibitz: threads and hash must be positive")
	}
	if cfg.searchTime <= 0 {
		return nil, fmt.Errorf("kibitz: search time must be positive, got %s", cfg.searchTime)
	}

	launcher := cfg.launcher
	if launcher == nil {
		launcher = proc.ExecLauncher{Path: cfg.enginePath}
	}

	engineCfg := engineConfig{
		threads:        cfg.threads,
		hashMB:         cfg.hashMB,
		multiPV:        cfg.multiPV,
		searchTime:     cfg.searchTime,
		startupTimeout: cfg.startupTimeout,
		timeoutMargin:  cfg.timeoutMargin,
	}

	p := &Pool{
		multiPV: cfg.multiPV,
		stats:   cfg.stats,
		logger:  cfg.logger,
	}
	for i := 0; i < cfg.poolSize; i++ {
		name := fmt.Sprintf("engine.%d", i)
		p.engines = append(p.engines, newEngine(engineCfg, launcher, cfg.logger.Named(name), cfg.stats))
	}

	p.logger.Debug("pool initialized",
		zap.Int("engines", cfg.poolSize),
		zap.Int("multiPV", cfg.multiPV),
		zap.Duration("searchTime", cfg.searchTime),
	)

	return p, nil
}

// Analyze evaluates one position, given in FEN, and returns its ranked
// candidate lines. The result always has exactly MultiPV entries;
// variations the engine did not produce are empty placeholders.
//
// Requests are dispatched strictly round-robin across the engines and
// serviced FIFO per engine. Two calls routed to different engines may
// complete out of order.
func (p *Pool) Analyze(ctx context.Context, fen string) ([]Line, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}

	p.stats.IncCounter(stats.MetricAnalyses, 1)
	idx := int((p.next.Add(1) - 1) % uint64(len(p.engines)))

	start := time.Now()
	lines, err := p.engines[idx].analyze(ctx, fen)
	if err != nil {
		return nil, err
	}

	p.stats.ObserveHistogram(stats.MetricAnalysisSeconds, time.Since(start).Seconds())
	return lines, nil
}

// MultiPV returns the configured number of candidate lines per result.
func (p *Pool) MultiPV() int {
	return p.multiPV
}

// Size returns the number of engines in the pool.
func (p *Pool) Size() int {
	return len(p.engines)
}

// Close terminates every engine and fails all queued jobs with
// ErrEngineTerminated. After Close, the pool should not be used.
func (p *Pool) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	for _, e := range p.engines {
		e.terminate()
	}
	p.logger.Debug("pool closed")
	return nil
}
