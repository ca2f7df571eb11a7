package kibitz

// Scripted stand-ins for the external engine process. The fake reads
// commands continuously (so engine writes never stall) and services
// searches on a single worker goroutine, preserving the output ordering
// of a real single-process engine: an abandoned search's output always
// precedes the next search's output.

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/discochess/kibitz/internal/proc"
)

type fakeConfig struct {
	// mute suppresses all handshake responses; initialization times out.
	mute bool

	// delay is slept before responding to a search. delayFor, when set,
	// overrides it per position.
	delay    time.Duration
	delayFor map[string]time.Duration

	// respond emits the info lines for a search. The default emits one
	// rank-1 line. The terminal bestmove token is always appended.
	respond func(fen string, w io.Writer)
}

type fakeProcess struct {
	cfg fakeConfig

	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter

	searches chan string
	killOnce sync.Once
}

func newFakeProcess(cfg fakeConfig) *fakeProcess {
	f := &fakeProcess{cfg: cfg, searches: make(chan string, 64)}
	f.stdinR, f.stdinW = io.Pipe()
	f.stdoutR, f.stdoutW = io.Pipe()
	go f.readCommands()
	go f.runSearches()
	return f
}

func (f *fakeProcess) Stdin() io.Writer  { return f.stdinW }
func (f *fakeProcess) Stdout() io.Reader { return f.stdoutR }

func (f *fakeProcess) Kill() error {
	f.killOnce.Do(func() {
		f.stdinW.CloseWithError(io.EOF)
		f.stdoutW.CloseWithError(io.EOF)
		close(f.searches)
	})
	return nil
}

func (f *fakeProcess) readCommands() {
	scanner := bufio.NewScanner(f.stdinR)
	var fen string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "uci":
			if f.cfg.mute {
				continue
			}
			fmt.Fprintln(f.stdoutW, "id name faketish 1.0")
			fmt.Fprintln(f.stdoutW, "uciok")
		case line == "isready":
			if !f.cfg.mute {
				fmt.Fprintln(f.stdoutW, "readyok")
			}
		case strings.HasPrefix(line, "position fen "):
			fen = strings.TrimPrefix(line, "position fen ")
		case strings.HasPrefix(line, "go"):
			select {
			case f.searches <- fen:
			default:
			}
		case line == "quit":
			return
		}
	}
}

func (f *fakeProcess) runSearches() {
	for fen := range f.searches {
		d := f.cfg.delay
		if override, ok := f.cfg.delayFor[fen]; ok {
			d = override
		}
		if d > 0 {
			time.Sleep(d)
		}
		if f.cfg.respond != nil {
			f.cfg.respond(fen, f.stdoutW)
		} else {
			fmt.Fprintln(f.stdoutW, "info depth 10 multipv 1 score cp 25 pv e2e4 e7e5")
		}
		fmt.Fprintln(f.stdoutW, "bestmove e2e4")
	}
}

// fakeLauncher hands out one fake process per Launch call and remembers
// them so tests can inspect routing.
type fakeLauncher struct {
	cfg func(engineIndex int) fakeConfig

	mu       sync.Mutex
	launched []*fakeProcess
}

func newFakeLauncher(cfg fakeConfig) *fakeLauncher {
	return &fakeLauncher{cfg: func(int) fakeConfig { return cfg }}
}

func (l *fakeLauncher) Launch() (proc.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := newFakeProcess(l.cfg(len(l.launched)))
	l.launched = append(l.launched, p)
	return p, nil
}

// failLauncher always fails to spawn.
type failLauncher struct{}

func (failLauncher) Launch() (proc.Process, error) {
	return nil, fmt.Errorf("no such binary")
}

// testEngineConfig returns a small configuration suitable for fast
// deterministic tests.
func testEngineConfig() engineConfig {
	return engineConfig{
		threads:        1,
		hashMB:         16,
		multiPV:        3,
		searchTime:     50 * time.Millisecond,
		startupTimeout: 2 * time.Second,
		timeoutMargin:  100 * time.Millisecond,
	}
}
