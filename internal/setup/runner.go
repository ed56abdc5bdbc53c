package setup

import (
	"bytes"
	"context"
	goerrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/nextbase-dev/nextbase/internal/errors"
)

// Runner executes a single command in dir and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, dir string, cmd Command) error
}

// ExecRunner runs commands as child processes that share the terminal.
type ExecRunner struct {
	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// TailLines is how many trailing output lines are kept for error
	// reports. Zero disables capture.
	TailLines int

	// Env is the child environment. Nil inherits the parent's.
	Env []string
}

// NewExecRunner returns an ExecRunner wired to the process streams.
func NewExecRunner(tailLines int) *ExecRunner {
	return &ExecRunner{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		TailLines: tailLines,
	}
}

// Run starts cmd in dir with output streamed live. A non-zero exit returns an
// E130 error carrying the exit code and the output tail; a missing binary
// returns E131; cancellation returns E132.
func (r *ExecRunner) Run(ctx context.Context, dir string, cmd Command) error {
	path, err := exec.LookPath(cmd.Name)
	if err != nil {
		return errors.New("E131").
			WithDetail("'" + cmd.Name + "' was not found on PATH").
			WithSuggestion("Install " + cmd.Name + " and run the command again").
			Wrap(err)
	}

	tail := newTailWriter(r.TailLines)

	c := exec.CommandContext(ctx, path, cmd.Args...)
	c.Dir = dir
	c.Env = r.Env
	c.Stdin = r.Stdin
	c.Stdout = teeTail(r.Stdout, tail)
	c.Stderr = teeTail(r.Stderr, tail)

	err = c.Run()
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return errors.New("E132").
			WithDetail("'" + cmd.String() + "' was interrupted").
			WithOutput(tail.Lines()).
			Wrap(ctx.Err())
	}

	var exitErr *exec.ExitError
	if goerrors.As(err, &exitErr) {
		return errors.New("E130").
			WithDetail("'" + cmd.String() + "' failed").
			WithExitCode(exitErr.ExitCode()).
			WithOutput(tail.Lines()).
			Wrap(err)
	}
	return errors.New("E130").
		WithDetail("'" + cmd.String() + "' could not be started").
		Wrap(err)
}

func teeTail(w io.Writer, tail *tailWriter) io.Writer {
	if w == nil {
		w = io.Discard
	}
	if tail == nil {
		return w
	}
	return io.MultiWriter(w, tail)
}

// tailWriter keeps the last n lines written to it. Stdout and stderr are
// copied from separate goroutines, so writes are serialized.
type tailWriter struct {
	mu      sync.Mutex
	n       int
	lines   []string
	partial bytes.Buffer
}

func newTailWriter(n int) *tailWriter {
	if n <= 0 {
		return nil
	}
	return &tailWriter{n: n}
}

func (t *tailWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.partial.Write(p)
	for {
		data := t.partial.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		t.push(string(data[:i]))
		t.partial.Next(i + 1)
	}
	return len(p), nil
}

func (t *tailWriter) push(line string) {
	line = strings.TrimRight(line, "\r")
	t.lines = append(t.lines, line)
	if len(t.lines) > t.n {
		t.lines = t.lines[len(t.lines)-t.n:]
	}
}

// Lines returns the retained lines, including an unterminated last line.
func (t *tailWriter) Lines() []string {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	out := append([]string(nil), t.lines...)
	if t.partial.Len() > 0 {
		out = append(out, strings.TrimRight(t.partial.String(), "\r"))
		if len(out) > t.n {
			out = out[len(out)-t.n:]
		}
	}
	return out
}
