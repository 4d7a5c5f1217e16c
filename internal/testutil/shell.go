// Package testutil provides helpers shared across tests.
package testutil

import (
	"os"
	"testing"
)

// statFile is replaced in tests.
var statFile = os.Stat

// RequireExecutable skips the test when the interpreter at path is missing.
//
// Tests that spawn a real shell call this first so the suite stays green on
// hosts without the interpreter.
func RequireExecutable(t testing.TB, path string) {
	t.Helper()

	info, err := statFile(path)
	if err != nil {
		t.Skipf("%s not available: %v", path, err)
		return
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		t.Skipf("%s is not executable", path)
	}
}
