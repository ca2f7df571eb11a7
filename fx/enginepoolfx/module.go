// Package enginepoolfx provides an fx module for a UCI engine analysis
// pool.
package enginepoolfx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/kibitz"
	"github.com/discochess/kibitz/internal/stats"
	"github.com/discochess/kibitz/internal/stats/logger"
)

// Config holds configuration for the engine pool.
type Config struct {
	// EnginePath is the engine binary to launch.
	// Default is "stockfish", resolved via PATH.
	EnginePath string

	// PoolSize is the number of engine processes.
	// Default is kibitz.DefaultPoolSize.
	PoolSize int

	// MultiPV is the number of candidate lines per position.
	// Default is kibitz.DefaultMultiPV.
	MultiPV int

	// SearchTime is the fixed per-position search budget.
	// Default is kibitz.DefaultSearchTime.
	SearchTime time.Duration

	// Threads is the compute width per engine process. Default is 1.
	Threads int

	// HashMB is the memory budget per engine process, in megabytes.
	// Default is 128.
	HashMB int
}

// Module provides a configured engine pool.
// Requires a *zap.Logger and a Config to be provided.
var Module = fx.Module("enginepool",
	fx.Provide(
		newStatsCollector,
		newPool,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("kibitz.stats"))
}

// Params holds dependencies for creating the pool.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided pool.
type Result struct {
	fx.Out

	Pool *kibitz.Pool
}

func newPool(p Params) (Result, error) {
	opts := []kibitz.Option{
		kibitz.WithStats(p.Collector),
		kibitz.WithLogger(p.Logger.Named("kibitz")),
	}
	if p.Config.EnginePath != "" {
		opts = append(opts, kibitz.WithEnginePath(p.Config.EnginePath))
	}
	if p.Config.PoolSize > 0 {
		opts = append(opts, kibitz.WithPoolSize(p.Config.PoolSize))
	}
	if p.Config.MultiPV > 0 {
		opts = append(opts, kibitz.WithMultiPV(p.Config.MultiPV))
	}
	if p.Config.SearchTime > 0 {
		opts = append(opts, kibitz.WithSearchTime(p.Config.SearchTime))
	}
	if p.Config.Threads > 0 {
		opts = append(opts, kibitz.WithThreads(p.Config.Threads))
	}
	if p.Config.HashMB > 0 {
		opts = append(opts, kibitz.WithHashMB(p.Config.HashMB))
	}

	pool, err := kibitz.New(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return pool.Close()
		},
	})

	return Result{Pool: pool}, nil
}
