// Package proc abstracts launching the external engine binary so the
// pool can be exercised against scripted processes in tests.
package proc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Process is a running external process owned by exactly one engine.
// Its pipes are exclusive to that owner; no other component reads its
// output or writes its input.
type Process interface {
	// Stdin is the process's standard input. Commands are written as
	// newline-terminated strings, one Write call per command.
	Stdin() io.Writer

	// Stdout is the process's standard output, read as newline-terminated
	// text lines.
	Stdout() io.Reader

	// Kill forcibly stops the process and releases its pipes. Kill is
	// called on every engine exit path and must be safe to call more
	// than once.
	Kill() error
}

// Launcher starts engine processes.
type Launcher interface {
	Launch() (Process, error)
}

// ExecLauncher launches a real engine binary with os/exec.
type ExecLauncher struct {
	// Path is the engine binary, resolved via PATH when not absolute.
	Path string
}

// Compile-time check that ExecLauncher implements Launcher.
var _ Launcher = ExecLauncher{}

// Launch starts the engine binary with piped stdin/stdout.
func (l ExecLauncher) Launch() (Process, error) {
	cmd := exec.Command(l.Path)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", l.Path, err)
	}

	return &execProcess{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
}

func (p *execProcess) Stdin() io.Writer  { return p.stdin }
func (p *execProcess) Stdout() io.Reader { return p.stdout }

func (p *execProcess) Kill() error {
	p.stdin.Close()
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	// Reap the child; the exit status is irrelevant after a kill.
	_ = p.cmd.Wait()
	return nil
}
