package command

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_Execute(t *testing.T) {
	t.Run("should return trimmed stdout on success", func(t *testing.T) {
		// Given: a process that prints a line and exits 0
		spawner := &mockSpawner{process: newMockProcess("Hello\n", "", 0)}
		executor := NewExecutor(spawner)

		// When: executing a single command
		output, err := executor.Execute([]Command{{Name: "echo", Args: []string{"Hello"}}})

		// Then: exactly one trailing newline should be removed
		require.NoError(t, err)
		assert.Equal(t, "Hello", output)
		assert.Equal(t, "echo Hello", spawner.lastInvocation)
	})

	t.Run("should discard stderr on success", func(t *testing.T) {
		spawner := &mockSpawner{process: newMockProcess("out\n", "warning: noisy\n", 0)}
		executor := NewExecutor(spawner)

		output, err := executor.Execute(Lines("noisy"))

		require.NoError(t, err)
		assert.Equal(t, "out", output)
	})

	t.Run("should chain multiple commands into one invocation", func(t *testing.T) {
		// Given: a command executor
		spawner := &mockSpawner{process: newMockProcess("", "", 0)}
		executor := NewExecutor(spawner)

		// When: executing multiple commands
		commands := []Command{
			{Name: "git", Args: []string{"fetch"}},
			Line("make build"),
		}
		_, err := executor.Execute(commands)

		// Then: all commands should be spawned once, in order
		require.NoError(t, err)
		assert.Equal(t, 1, spawner.spawnCount)
		assert.Equal(t, "git fetch && make build", spawner.lastInvocation)
	})

	t.Run("should build ShellError from stderr on failure", func(t *testing.T) {
		// Given: a process that fails with output on both streams
		spawner := &mockSpawner{process: newMockProcess("partial\n", "fatal: broken\n", 2)}
		executor := NewExecutor(spawner)

		// When: executing the command
		output, err := executor.Execute(Lines("broken"))

		// Then: a ShellError should carry the trimmed streams and status
		assert.Empty(t, output)
		var shellErr *ShellError
		require.ErrorAs(t, err, &shellErr)
		assert.Equal(t, "broken", shellErr.Command)
		assert.Equal(t, "fatal: broken", shellErr.Message)
		assert.Equal(t, "partial", shellErr.Output)
		assert.Equal(t, 2, shellErr.Status)
	})

	t.Run("should fall back to stdout when stderr is empty", func(t *testing.T) {
		spawner := &mockSpawner{process: newMockProcess("only stdout\n", "", 1)}
		executor := NewExecutor(spawner)

		_, err := executor.Execute(Lines("quiet-failure"))

		var shellErr *ShellError
		require.ErrorAs(t, err, &shellErr)
		assert.Equal(t, "only stdout", shellErr.Message)
		assert.Equal(t, "only stdout", shellErr.Output)
		assert.Equal(t, 1, shellErr.Status)
	})

	t.Run("should return spawn errors unchanged", func(t *testing.T) {
		spawnErr := errors.New("permission denied")
		spawner := &mockSpawner{spawnErr: spawnErr}
		executor := NewExecutor(spawner)

		_, err := executor.Execute(Lines("anything"))

		assert.ErrorIs(t, err, spawnErr)
		var shellErr *ShellError
		assert.False(t, errors.As(err, &shellErr))
	})

	t.Run("should return wait errors", func(t *testing.T) {
		waitErr := errors.New("wait failed")
		process := newMockProcess("", "", 0)
		process.waitErr = waitErr
		executor := NewExecutor(&mockSpawner{process: process})

		_, err := executor.Execute(Lines("anything"))

		assert.ErrorIs(t, err, waitErr)
	})

	t.Run("should wait for the process even when a stream read fails", func(t *testing.T) {
		readErr := errors.New("read failed")
		process := &mockProcess{
			stdout: &failingReader{err: readErr},
			stderr: strings.NewReader(""),
		}
		executor := NewExecutor(&mockSpawner{process: process})

		_, err := executor.Execute(Lines("anything"))

		assert.ErrorIs(t, err, readErr)
		assert.True(t, process.waited)
	})
}

func TestExecutor_WorkDir(t *testing.T) {
	t.Run("should use explicit working directory", func(t *testing.T) {
		spawner := &mockSpawner{process: newMockProcess("", "", 0)}
		executor := NewExecutor(spawner)

		_, err := executor.Execute(Lines("pwd"), WithWorkDir("/path/to/repo"))

		require.NoError(t, err)
		assert.Equal(t, "/path/to/repo", spawner.lastWorkDir)
	})

	t.Run("should inherit first command working directory", func(t *testing.T) {
		spawner := &mockSpawner{process: newMockProcess("", "", 0)}
		executor := NewExecutor(spawner)

		commands := []Command{
			{Name: "git", Args: []string{"status"}, WorkDir: "/repo"},
			{Name: "git", Args: []string{"log"}, WorkDir: "/ignored"},
		}
		_, err := executor.Execute(commands)

		require.NoError(t, err)
		assert.Equal(t, "/repo", spawner.lastWorkDir)
	})

	t.Run("explicit working directory should win over command", func(t *testing.T) {
		spawner := &mockSpawner{process: newMockProcess("", "", 0)}
		executor := NewExecutor(spawner)

		_, err := executor.Execute(
			[]Command{{Name: "ls", WorkDir: "/repo"}},
			WithWorkDir("/other"),
		)

		require.NoError(t, err)
		assert.Equal(t, "/other", spawner.lastWorkDir)
	})

	t.Run("should default to caller directory", func(t *testing.T) {
		spawner := &mockSpawner{process: newMockProcess("", "", 0)}
		executor := NewExecutor(spawner)

		_, err := executor.Execute(Lines("ls"))

		require.NoError(t, err)
		assert.Empty(t, spawner.lastWorkDir)
	})
}

func TestExecutor_Sinks(t *testing.T) {
	t.Run("should forward raw bytes to sinks", func(t *testing.T) {
		spawner := &mockSpawner{process: newMockProcess("Hello\n", "oops\n", 1)}
		executor := NewExecutor(spawner)

		var stdout, stderr bytes.Buffer
		_, err := executor.Execute(Lines("cmd"), WithStdout(&stdout), WithStderr(&stderr))

		var shellErr *ShellError
		require.ErrorAs(t, err, &shellErr)
		assert.Equal(t, "Hello\n", stdout.String())
		assert.Equal(t, "oops\n", stderr.String())
		assert.Equal(t, shellErr.Message+"\n", stderr.String())
	})

	t.Run("should keep capturing when a sink fails", func(t *testing.T) {
		spawner := &mockSpawner{process: newMockProcess("still captured\n", "", 0)}
		executor := NewExecutor(spawner)

		output, err := executor.Execute(Lines("cmd"), WithStdout(&failingWriter{}))

		require.NoError(t, err)
		assert.Equal(t, "still captured", output)
	})

	t.Run("should stream to sink before the process exits", func(t *testing.T) {
		// Given: a process whose stdout is produced in two steps, the second
		// of which waits until the sink has seen the first
		stdoutReader, stdoutWriter := io.Pipe()
		process := &mockProcess{stdout: stdoutReader, stderr: strings.NewReader("")}
		executor := NewExecutor(&mockSpawner{process: process})
		sink := newNotifyingWriter()

		produced := make(chan bool, 1)
		go func() {
			_, _ = stdoutWriter.Write([]byte("first\n"))
			select {
			case <-sink.written:
				produced <- true
			case <-time.After(5 * time.Second):
				produced <- false
			}
			_, _ = stdoutWriter.Write([]byte("second\n"))
			_ = stdoutWriter.Close()
		}()

		// When: executing with a sink
		output, err := executor.Execute(Lines("slow"), WithStdout(sink))

		// Then: the sink saw the first chunk while the process was still running
		require.NoError(t, err)
		assert.True(t, <-produced, "sink should receive output incrementally")
		assert.Equal(t, "first\nsecond", output)
		assert.Equal(t, "first\nsecond\n", sink.String())
	})
}

func TestExecutor_SharedSink(t *testing.T) {
	t.Run("should serialize writes when both streams share a sink", func(t *testing.T) {
		// Given: a process that writes to both streams at the same time
		stdoutReader, stdoutWriter := io.Pipe()
		stderrReader, stderrWriter := io.Pipe()
		process := &mockProcess{stdout: stdoutReader, stderr: stderrReader}
		executor := NewExecutor(&mockSpawner{process: process})

		const chunks = 200
		produce := func(w *io.PipeWriter, line string) {
			for i := 0; i < chunks; i++ {
				_, _ = w.Write([]byte(line))
			}
			_ = w.Close()
		}
		go produce(stdoutWriter, "out\n")
		go produce(stderrWriter, "err\n")

		// When: the same writer is passed for stdout and stderr
		sink := &overlapDetector{}
		output, err := executor.Execute(Lines("both"), WithStdout(sink), WithStderr(sink))

		// Then: no two writes overlapped and every byte arrived once
		require.NoError(t, err)
		assert.False(t, sink.overlapped.Load(), "sink received concurrent writes")
		assert.Equal(t, chunks*len("out\n")*2, sink.Len())
		assert.Equal(t, strings.Repeat("out\n", chunks-1)+"out", output)
	})

	t.Run("should leave distinct sinks unwrapped", func(t *testing.T) {
		spawner := &mockSpawner{process: newMockProcess("a\n", "b\n", 0)}
		executor := NewExecutor(spawner)

		var stdout, stderr bytes.Buffer
		_, err := executor.Execute(Lines("cmd"), WithStdout(&stdout), WithStderr(&stderr))

		require.NoError(t, err)
		assert.Equal(t, "a\n", stdout.String())
		assert.Equal(t, "b\n", stderr.String())
	})
}

func TestSameWriter(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, sameWriter(&buf, &buf))
	assert.False(t, sameWriter(&buf, &bytes.Buffer{}))
	assert.False(t, sameWriter(&buf, nil))
	assert.False(t, sameWriter(sliceWriter{}, sliceWriter{}), "uncomparable writers are never equal")
}

// Mock implementations for testing
type mockSpawner struct {
	process        *mockProcess
	spawnErr       error
	spawnCount     int
	lastInvocation string
	lastWorkDir    string
}

func (m *mockSpawner) Spawn(invocation, workDir string) (Process, error) {
	m.spawnCount++
	m.lastInvocation = invocation
	m.lastWorkDir = workDir
	if m.spawnErr != nil {
		return nil, m.spawnErr
	}
	return m.process, nil
}

type mockProcess struct {
	stdout  io.Reader
	stderr  io.Reader
	status  int
	waitErr error
	waited  bool
}

func newMockProcess(stdout, stderr string, status int) *mockProcess {
	return &mockProcess{
		stdout: strings.NewReader(stdout),
		stderr: strings.NewReader(stderr),
		status: status,
	}
}

func (m *mockProcess) Stdout() io.Reader { return m.stdout }

func (m *mockProcess) Stderr() io.Reader { return m.stderr }

func (m *mockProcess) Wait() (int, error) {
	m.waited = true
	if m.waitErr != nil {
		return -1, m.waitErr
	}
	return m.status, nil
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

type failingWriter struct{}

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("sink closed")
}

type notifyingWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	written chan struct{}
}

func newNotifyingWriter() *notifyingWriter {
	return &notifyingWriter{written: make(chan struct{}, 16)}
}

func (w *notifyingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, err := w.buf.Write(p)
	select {
	case w.written <- struct{}{}:
	default:
	}
	return n, err
}

func (w *notifyingWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// overlapDetector records whether Write was ever entered concurrently.
type overlapDetector struct {
	active     atomic.Int32
	overlapped atomic.Bool
	total      atomic.Int64
}

func (w *overlapDetector) Write(p []byte) (int, error) {
	if w.active.Add(1) > 1 {
		w.overlapped.Store(true)
	}
	defer w.active.Add(-1)

	time.Sleep(10 * time.Microsecond)
	w.total.Add(int64(len(p)))
	return len(p), nil
}

func (w *overlapDetector) Len() int {
	return int(w.total.Load())
}

// sliceWriter has an uncomparable dynamic type.
type sliceWriter []byte

func (w sliceWriter) Write(p []byte) (int, error) {
	return len(p), nil
}
