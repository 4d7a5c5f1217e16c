package command

import (
	"bytes"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// teeBuffer accumulates every byte it is given and forwards a copy to an
// optional sink. It is written by exactly one goroutine.
type teeBuffer struct {
	stream  string
	buf     bytes.Buffer
	sink    io.Writer
	sinkErr error
	logger  *slog.Logger
}

func newTeeBuffer(stream string, sink io.Writer, logger *slog.Logger) *teeBuffer {
	return &teeBuffer{stream: stream, sink: sink, logger: logger}
}

// Write never fails: the child must keep draining even if the sink breaks.
func (t *teeBuffer) Write(p []byte) (int, error) {
	t.buf.Write(p)

	if t.sink != nil && t.sinkErr == nil {
		if _, err := t.sink.Write(p); err != nil {
			t.sinkErr = err
			t.logger.Warn("sink stopped accepting output",
				slog.String("stream", t.stream),
				slog.Any("error", err))
		}
	}

	return len(p), nil
}

func (t *teeBuffer) Bytes() []byte {
	return t.buf.Bytes()
}

// lockedWriter serializes writes from both stream goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// sameWriter reports whether a and b are the same sink. Values of
// uncomparable types are never considered equal.
func sameWriter(a, b io.Writer) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// capture drains both streams concurrently, then waits for the process.
// A sink passed for both streams receives at most one Write at a time.
func capture(proc Process, stdoutSink, stderrSink io.Writer, logger *slog.Logger) (*ExecutionResult, error) {
	if stdoutSink != nil && sameWriter(stdoutSink, stderrSink) {
		shared := &lockedWriter{w: stdoutSink}
		stdoutSink, stderrSink = shared, shared
	}

	stdout := newTeeBuffer("stdout", stdoutSink, logger)
	stderr := newTeeBuffer("stderr", stderrSink, logger)

	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(stdout, proc.Stdout())
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(stderr, proc.Stderr())
		return err
	})
	readErr := g.Wait()

	// Always reap, even when a read failed.
	status, err := proc.Wait()
	if err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, readErr
	}

	return &ExecutionResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
		Status: status,
	}, nil
}
