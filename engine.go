package kibitz

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/kibitz/internal/notation"
	"github.com/discochess/kibitz/internal/proc"
	"github.com/discochess/kibitz/internal/stats"
	"github.com/discochess/kibitz/internal/uci"
)

// engineState tracks the lifecycle of one engine process.
type engineState int

const (
	stateStarting engineState = iota
	stateInitializing
	stateReady
	stateBusy
	stateTerminated
)

// job is one queued analysis request. The result channel is buffered so
// the single fulfillment never blocks, even when the caller has already
// given up on the job.
type job struct {
	fen  string
	done chan jobResult
}

type jobResult struct {
	lines []Line
	err   error
}

// engineConfig is the per-engine slice of the pool configuration.
type engineConfig struct {
	threads        int
	hashMB         int
	multiPV        int
	searchTime     time.Duration
	startupTimeout time.Duration
	timeoutMargin  time.Duration
}

// engine owns exactly one external analysis process across its full
// lifetime and guarantees at most one job is in flight against it.
//
// The background reader goroutine is the sole consumer of the process's
// output and, together with the timeout callback, the only completer of
// jobs. All queue, accumulator, and state transitions happen under mu.
type engine struct {
	cfg    engineConfig
	logger *zap.Logger
	stats  stats.Collector
	proc   proc.Process

	// initDone is closed once the handshake settles; initErr is set
	// before the close when it failed. Jobs are admitted only after.
	initDone chan struct{}
	initOnce sync.Once
	initErr  error

	mu        sync.Mutex
	state     engineState
	queue     []*job
	current   *job
	gen       uint64      // execution generation; guards late timers
	acc       []*uci.Info // in-progress lines indexed by rank-1, valid while busy
	activeFEN string      // position of the job in flight
	timer     *time.Timer
	stale     int // terminal tokens still owed by timed-out searches
}

// newEngine spawns the process and starts the handshake. Spawn or
// handshake failure is permanent: the engine transitions straight to
// terminated and every later analyze call fails with the recorded error.
func newEngine(cfg engineConfig, launcher proc.Launcher, logger *zap.Logger, st stats.Collector) *engine {
	e := &engine{
		cfg:      cfg,
		logger:   logger,
		stats:    st,
		initDone: make(chan struct{}),
		state:    stateStarting,
	}

	p, err := launcher.Launch()
	if err != nil {
		e.finishInit(fmt.Errorf("%w: %v", ErrEngineFailed, err))
		return e
	}
	e.proc = p

	e.mu.Lock()
	e.state = stateInitializing
	e.mu.Unlock()

	go e.readLoop()
	go e.handshake()

	return e
}

// analyze submits one position and blocks until its job settles.
// Jobs on one engine are serviced strictly in submission order.
func (e *engine) analyze(ctx context.Context, fen string) ([]Line, error) {
	select {
	case <-e.initDone:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if e.initErr != nil {
		return nil, e.initErr
	}

	j := &job{fen: fen, done: make(chan jobResult, 1)}

	e.mu.Lock()
	if e.state == stateTerminated {
		e.mu.Unlock()
		return nil, ErrEngineTerminated
	}
	e.queue = append(e.queue, j)
	e.stats.SetGauge(stats.MetricQueueDepth, int64(len(e.queue)))
	e.startNextLocked()
	e.mu.Unlock()

	select {
	case res := <-j.done:
		return res.lines, res.err
	case <-ctx.Done():
		// The job stays queued; its eventual settlement lands in the
		// buffered channel and is discarded.
		return nil, ctx.Err()
	}
}

// terminate shuts the engine down and fails every unsettled job.
// Terminate is final; a terminated engine never processes another job.
func (e *engine) terminate() {
	e.mu.Lock()
	if e.state == stateTerminated {
		e.mu.Unlock()
		return
	}
	e.state = stateTerminated
	if e.timer != nil {
		e.timer.Stop()
	}
	failed := e.queue
	e.queue = nil
	if e.current != nil {
		failed = append([]*job{e.current}, failed...)
		e.current = nil
	}
	e.acc = nil
	e.mu.Unlock()

	if e.proc != nil {
		_ = e.send(uci.CmdQuit)
		if err := e.proc.Kill(); err != nil {
			e.logger.Warn("killing engine process", zap.Error(err))
		}
	}

	for _, j := range failed {
		j.done <- jobResult{err: ErrEngineTerminated}
	}
}

// handshake drives initialization: identify, configure, confirm
// readiness. The reader routes the acknowledgement tokens.
func (e *engine) handshake() {
	if err := e.send(uci.CmdUCI); err != nil {
		e.finishInit(fmt.Errorf("%w: %v", ErrEngineFailed, err))
		return
	}

	t := time.NewTimer(e.cfg.startupTimeout)
	defer t.Stop()
	select {
	case <-e.initDone:
	case <-t.C:
		e.finishInit(fmt.Errorf("%w: no handshake acknowledgement within %s",
			ErrEngineFailed, e.cfg.startupTimeout))
	}
}

// finishInit settles initialization exactly once. A nil error promotes
// the engine to ready; any error is fatal for this engine instance.
func (e *engine) finishInit(err error) {
	e.initOnce.Do(func() {
		e.initErr = err
		if err != nil {
			e.logger.Warn("engine initialization failed", zap.Error(err))
			e.stats.IncCounter(stats.MetricEngineFailures, 1)
			e.mu.Lock()
			e.state = stateTerminated
			e.mu.Unlock()
			if e.proc != nil {
				_ = e.proc.Kill()
			}
		} else {
			e.mu.Lock()
			if e.state == stateInitializing {
				e.state = stateReady
			}
			e.mu.Unlock()
			e.logger.Debug("engine ready")
		}
		close(e.initDone)
	})
}

// readLoop continuously consumes the process output, one line at a
// time, and routes each line to the current phase's handler. Partial
// lines split across read chunks are handled by the scanner's buffering.
// Stream close means the process is gone: fail everything still pending.
func (e *engine) readLoop() {
	scanner := bufio.NewScanner(e.proc.Stdout())
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		e.handleLine(scanner.Text())
	}

	e.finishInit(fmt.Errorf("%w: engine output closed during handshake", ErrEngineFailed))
	e.terminate()
}

func (e *engine) handleLine(line string) {
	if e.handleHandshakeLine(line) {
		return
	}
	if uci.IsBestMove(line) {
		e.finishSearch()
		return
	}
	info, ok := uci.ParseInfo(line)
	if !ok {
		// Auxiliary progress output; not information yet.
		return
	}

	e.mu.Lock()
	if e.state == stateBusy && info.Rank >= 1 && info.Rank <= len(e.acc) {
		// Later lines for the same rank supersede earlier ones: the
		// engine refines its estimates within the search window.
		e.acc[info.Rank-1] = &info
	}
	e.mu.Unlock()
}

// handleHandshakeLine consumes lines while initializing. It reports
// whether the line was claimed by the handshake phase.
func (e *engine) handleHandshakeLine(line string) bool {
	e.mu.Lock()
	initializing := e.state == stateInitializing
	e.mu.Unlock()
	if !initializing {
		return false
	}

	switch strings.TrimSpace(line) {
	case uci.TokenUCIOK:
		// Engine identified itself: apply the pool-wide options, then
		// ask for readiness.
		e.sendOrFailInit(uci.CmdSetOption("Threads", strconv.Itoa(e.cfg.threads)))
		e.sendOrFailInit(uci.CmdSetOption("Hash", strconv.Itoa(e.cfg.hashMB)))
		e.sendOrFailInit(uci.CmdSetOption("MultiPV", strconv.Itoa(e.cfg.multiPV)))
		e.sendOrFailInit(uci.CmdIsReady)
	case uci.TokenReadyOK:
		e.finishInit(nil)
	}
	return true
}

// startNextLocked begins the next queued job when the engine is idle.
// Caller must hold mu.
func (e *engine) startNextLocked() {
	if e.state != stateReady || len(e.queue) == 0 {
		return
	}

	j := e.queue[0]
	e.queue = e.queue[1:]
	e.stats.SetGauge(stats.MetricQueueDepth, int64(len(e.queue)))

	e.current = j
	e.acc = make([]*uci.Info, e.cfg.multiPV)
	e.activeFEN = j.fen
	e.gen++
	e.state = stateBusy

	if err := e.send(uci.CmdPosition(j.fen)); err == nil {
		err = e.send(uci.CmdGoMoveTime(e.cfg.searchTime))
		if err == nil {
			gen := e.gen
			e.timer = time.AfterFunc(e.cfg.searchTime+e.cfg.timeoutMargin, func() {
				e.onTimeout(gen)
			})
			return
		}
	}

	// The process's stdin is gone; the read loop will notice EOF and
	// terminate, but this job must not wait for that.
	e.current = nil
	e.acc = nil
	e.state = stateReady
	j.done <- jobResult{err: ErrEngineTerminated}
}

// finishSearch handles the terminal-of-search token: assemble the
// accumulated lines, fulfill the current job, and advance the queue.
func (e *engine) finishSearch() {
	e.mu.Lock()
	if e.stale > 0 {
		// Terminal token of a search we already abandoned on timeout.
		// Consuming it here keeps it from being misattributed to the
		// job now in flight.
		e.stale--
		e.stats.IncCounter(stats.MetricStaleResults, 1)
		e.mu.Unlock()
		return
	}
	if e.state != stateBusy || e.current == nil {
		e.mu.Unlock()
		return
	}

	if e.timer != nil {
		e.timer.Stop()
	}
	j := e.current
	acc := e.acc
	fen := e.activeFEN
	e.current = nil
	e.acc = nil
	e.state = stateReady
	e.startNextLocked()
	e.mu.Unlock()

	j.done <- jobResult{lines: assembleLines(acc, fen, e.cfg.multiPV)}
}

// onTimeout abandons the job of the given generation if it is still in
// flight. The process is not reset: its eventual terminal token is
// accounted for via the stale counter and discarded on arrival.
func (e *engine) onTimeout(gen uint64) {
	e.mu.Lock()
	if e.state != stateBusy || gen != e.gen || e.current == nil {
		e.mu.Unlock()
		return
	}

	j := e.current
	e.current = nil
	e.acc = nil
	e.activeFEN = ""
	e.stale++
	e.state = stateReady
	e.stats.IncCounter(stats.MetricTimeouts, 1)
	e.startNextLocked()
	e.mu.Unlock()

	e.logger.Warn("analysis timed out",
		zap.String("fen", j.fen),
		zap.Duration("budget", e.cfg.searchTime),
	)
	j.done <- jobResult{err: ErrSearchTimeout}
}

// send writes one newline-terminated command to the process. The whole
// command goes out in a single Write call so concurrent senders cannot
// interleave within a line.
func (e *engine) send(cmd string) error {
	_, err := io.WriteString(e.proc.Stdin(), cmd+"\n")
	return err
}

func (e *engine) sendOrFailInit(cmd string) {
	if err := e.send(cmd); err != nil {
		e.finishInit(fmt.Errorf("%w: %v", ErrEngineFailed, err))
	}
}

// assembleLines turns the accumulator into the fixed-width result:
// populated ranks are translated to readable notation against the job's
// position, unreported ranks stay as empty placeholders carrying only
// their rank index.
func assembleLines(acc []*uci.Info, fen string, multiPV int) []Line {
	lines := make([]Line, multiPV)
	for i := range lines {
		lines[i].Rank = i + 1
		if i < len(acc) && acc[i] != nil {
			lines[i].Move = notation.ToSAN(fen, acc[i].Move)
			lines[i].Score = acc[i].Score()
			lines[i].Raw = acc[i].Raw
		}
	}
	return lines
}
