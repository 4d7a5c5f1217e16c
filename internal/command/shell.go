package command

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// DefaultShell is the interpreter every invocation runs through.
const DefaultShell = "/bin/bash"

// signalStatusBase is added to the signal number for processes killed by a signal.
const signalStatusBase = 128

// orphanOutputDelay bounds how long output is still collected after the
// interpreter exits while a background job holds its streams open.
const orphanOutputDelay = time.Second

// shellSpawner implements Spawner using os/exec
type shellSpawner struct {
	shell     string
	waitDelay time.Duration
}

// NewShellSpawner creates a spawner that runs invocations with DefaultShell -c.
func NewShellSpawner() Spawner {
	return &shellSpawner{shell: DefaultShell, waitDelay: orphanOutputDelay}
}

// Spawn starts the interpreter. The child inherits the caller's environment.
//
// The child writes into in-process pipes that are closed once the
// interpreter has been reaped, so background jobs still holding the
// inherited descriptors cannot keep the caller blocked.
func (s *shellSpawner) Spawn(invocation, workDir string) (Process, error) {
	// #nosec G204 - running caller-supplied command lines is the purpose of this package
	cmd := exec.Command(s.shell, "-c", invocation)

	if workDir != "" {
		cmd.Dir = workDir
	}

	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW
	cmd.WaitDelay = s.waitDelay

	if err := cmd.Start(); err != nil {
		_ = stdoutW.Close()
		_ = stderrW.Close()
		return nil, fmt.Errorf("failed to start %s: %w", s.shell, err)
	}

	p := &shellProcess{
		cmd:    cmd,
		stdout: stdoutR,
		stderr: stderrR,
		done:   make(chan struct{}),
	}
	go p.reap(stdoutW, stderrW)

	return p, nil
}

type shellProcess struct {
	cmd     *exec.Cmd
	stdout  io.Reader
	stderr  io.Reader
	done    chan struct{}
	waitErr error
}

func (p *shellProcess) Stdout() io.Reader { return p.stdout }

func (p *shellProcess) Stderr() io.Reader { return p.stderr }

// reap waits for the interpreter, then ends both streams.
func (p *shellProcess) reap(stdout, stderr io.Closer) {
	p.waitErr = p.cmd.Wait()
	_ = stdout.Close()
	_ = stderr.Close()
	close(p.done)
}

// Wait reaps the process. A non-zero exit is returned as a status, not an error.
func (p *shellProcess) Wait() (int, error) {
	<-p.done

	err := p.waitErr
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitStatus(exitErr.ProcessState), nil
	}

	// The interpreter exited but a background job kept its output open.
	if errors.Is(err, exec.ErrWaitDelay) && p.cmd.ProcessState != nil {
		return exitStatus(p.cmd.ProcessState), nil
	}

	return -1, fmt.Errorf("failed to wait for %s: %w", p.cmd.Path, err)
}

func exitStatus(state *os.ProcessState) int {
	if code := state.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return signalStatusBase + int(ws.Signal())
	}
	return -1
}
