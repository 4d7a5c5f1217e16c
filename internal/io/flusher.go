package io

import (
	"bufio"
	"io"
	"sync"
)

// FlushingWriter is a command output sink that flushes after every write so
// streamed output shows up as soon as the child produces it.
//
// Writes are serialized, so one FlushingWriter can receive both standard
// output and standard error of the same invocation.
type FlushingWriter struct {
	mu      sync.Mutex
	w       io.Writer
	flusher interface{ Flush() error }
}

// NewFlushingWriter creates a new FlushingWriter. If the writer already supports
// flushing, it uses that directly. Otherwise, it wraps it in a bufio.Writer.
func NewFlushingWriter(w io.Writer) *FlushingWriter {
	fw := &FlushingWriter{w: w}

	if f, ok := w.(interface{ Flush() error }); ok {
		fw.flusher = f
	} else {
		bw := bufio.NewWriter(w)
		fw.w = bw
		fw.flusher = bw
	}

	return fw
}

// NewSinks returns sinks for standard output and standard error. When both
// targets are the same writer they share one FlushingWriter. A nil target
// yields a nil sink.
func NewSinks(stdout, stderr io.Writer) (outSink, errSink io.Writer) {
	var out, errW *FlushingWriter
	if stdout != nil {
		out = NewFlushingWriter(stdout)
	}
	switch {
	case stderr == nil:
	case stderr == stdout:
		errW = out
	default:
		errW = NewFlushingWriter(stderr)
	}

	// Avoid returning typed nil pointers as non-nil interfaces.
	if out != nil {
		outSink = out
	}
	if errW != nil {
		errSink = errW
	}
	return outSink, errSink
}

// Write writes data and immediately flushes it.
func (fw *FlushingWriter) Write(p []byte) (n int, err error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	n, err = fw.w.Write(p)
	if err != nil {
		return n, err
	}

	if fw.flusher != nil {
		if flushErr := fw.flusher.Flush(); flushErr != nil {
			return n, flushErr
		}
	}

	return n, nil
}

// Flush explicitly flushes any buffered data.
func (fw *FlushingWriter) Flush() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.flusher != nil {
		return fw.flusher.Flush()
	}
	return nil
}
