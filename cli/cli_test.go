package cli

import (
	"os"
	"testing"
)

func TestRun_UnknownCommand(t *testing.T) {
	origExit, origArgs := osExit, os.Args
	defer func() { osExit, os.Args = origExit, origArgs }()

	var exitCode int
	osExit = func(code int) { exitCode = code }
	os.Args = []string{"pdfsign", "bogus"}

	Run()

	if exitCode != 1 {
		t.Errorf("exit code = %d, want 1", exitCode)
	}
}

func TestRun_NoArgs(t *testing.T) {
	origExit, origArgs := osExit, os.Args
	defer func() { osExit, os.Args = origExit, origArgs }()

	var exitCode int
	osExit = func(code int) { exitCode = code }
	os.Args = []string{"pdfsign"}

	Run()

	if exitCode != 1 {
		t.Errorf("exit code = %d, want 1", exitCode)
	}
}
