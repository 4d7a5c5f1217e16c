package framework

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const (
	dirPerm  = 0755
	filePerm = 0600

	configFileName = ".shellout.yml"
)

type TestEnvironment struct {
	t              *testing.T
	tmpDir         string
	shelloutBinary string
}

// Result is the outcome of one CLI invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:      t,
		tmpDir: t.TempDir(),
	}

	env.buildShellout()

	return env
}

func (e *TestEnvironment) buildShellout() {
	e.t.Helper()

	binary := filepath.Join(e.tmpDir, "shellout")
	if runtime := os.Getenv("SHELLOUT_E2E_BINARY"); runtime != "" {
		binary = runtime
		if _, err := os.Stat(binary); err != nil {
			e.t.Fatalf("Specified shellout binary not found: %s", binary)
		}
	} else {
		projectRoot := e.findProjectRoot()
		cmd := exec.Command("go", "build", "-o", binary, "./cmd/shellout")
		cmd.Dir = projectRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			e.t.Fatalf("Failed to build shellout binary: %v\nOutput: %s", err, output)
		}
	}

	binary = filepath.Clean(binary)
	if !filepath.IsAbs(binary) {
		absPath, err := filepath.Abs(binary)
		if err != nil {
			e.t.Fatalf("Failed to get absolute path for binary: %v", err)
		}
		binary = absPath
	}

	e.shelloutBinary = binary
}

func (e *TestEnvironment) findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		e.t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			e.t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}

// CreateProject makes an empty directory to run the CLI in.
func (e *TestEnvironment) CreateProject(name string) *Project {
	e.t.Helper()

	dir := filepath.Join(e.tmpDir, name)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		e.t.Fatalf("Failed to create directory: %v", err)
	}

	return &Project{
		env:  e,
		path: dir,
	}
}

func (e *TestEnvironment) TmpDir() string {
	return e.tmpDir
}

func (e *TestEnvironment) writeFile(path, content string) {
	e.t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func (e *TestEnvironment) run(dir string, args ...string) Result {
	e.t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(e.shelloutBinary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+e.tmpDir, "NO_COLOR=1")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := Result{}
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		e.t.Fatalf("Failed to run shellout %s: %v", strings.Join(args, " "), err)
	}

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	return result
}

type Project struct {
	env  *TestEnvironment
	path string
}

func (p *Project) Path() string {
	return p.path
}

// RunShellout runs the binary with the project as its working directory.
func (p *Project) RunShellout(args ...string) Result {
	p.env.t.Helper()
	return p.env.run(p.path, args...)
}

func (p *Project) WriteConfig(content string) {
	p.env.writeFile(filepath.Join(p.path, configFileName), content)
}

func (p *Project) WriteFile(path, content string) {
	p.env.writeFile(filepath.Join(p.path, path), content)
}

func (p *Project) HasFile(path string) bool {
	_, err := os.Stat(filepath.Join(p.path, path))
	return err == nil
}

func (p *Project) ReadFile(path string) string {
	content, err := os.ReadFile(filepath.Join(p.path, path))
	if err != nil {
		p.env.t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func (r Result) String() string {
	return fmt.Sprintf("exit=%d\nstdout:\n%s\nstderr:\n%s", r.ExitCode, r.Stdout, r.Stderr)
}
