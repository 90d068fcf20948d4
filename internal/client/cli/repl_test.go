package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) isLoggedIn() bool                   { return s.loggedIn }
func (s *stubExec) SignIn(context.Context) error       { return s.record("signin") }
func (s *stubExec) Create(context.Context) error       { return s.record("create") }
func (s *stubExec) WhoAmI(context.Context) error       { return s.record("whoami") }
func (s *stubExec) SetName(context.Context) error      { return s.record("set-name") }
func (s *stubExec) ChangeHandle(context.Context) error { return s.record("set-handle") }
func (s *stubExec) Apps(context.Context) error         { return s.record("apps") }
func (s *stubExec) Use(context.Context) error          { return s.record("use") }
func (s *stubExec) Tip(context.Context) error          { return s.record("tip") }
func (s *stubExec) Tips(context.Context) error         { return s.record("tips") }
func (s *stubExec) Sync(context.Context) error         { return s.record("sync") }
func (s *stubExec) Logout(context.Context) error       { return s.record("logout") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runWithInput(t *testing.T, exec *stubExec, input string) []string {
	t.Helper()
	lines := captureOutput(t)
	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), exec, func() string { return "" }, scanner)
	return *lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	exec := &stubExec{loggedIn: true}
	runWithInput(t, exec, "whoami\napps\ntip\ntips\nsync\nexit\n")

	assert.Equal(t, []string{"whoami", "apps", "tip", "tips", "sync"}, exec.calls)
}

func TestRunREPL_ExitAndQuit(t *testing.T) {
	exec := &stubExec{}
	lines := runWithInput(t, exec, "exit\nwhoami\n")

	assert.Empty(t, exec.calls, "nothing runs after exit")
	joined := strings.Join(lines, "")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_UnknownCommand(t *testing.T) {
	exec := &stubExec{}
	lines := runWithInput(t, exec, "frobnicate\nexit\n")

	joined := strings.Join(lines, "")
	assert.Contains(t, joined, "Unknown command:")
}

func TestRunREPL_HelpDependsOnLoginState(t *testing.T) {
	out := runWithInput(t, &stubExec{loggedIn: false}, "help\nexit\n")
	assert.Contains(t, strings.Join(out, ""), "create, signin")

	out = runWithInput(t, &stubExec{loggedIn: true}, "help\nexit\n")
	assert.Contains(t, strings.Join(out, ""), "whoami")
}

func TestRunREPL_EmptyLinesAndEOF(t *testing.T) {
	exec := &stubExec{}
	runWithInput(t, exec, "\n\n")
	assert.Empty(t, exec.calls)
}
