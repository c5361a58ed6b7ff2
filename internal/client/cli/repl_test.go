package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	current  models.Collection

	calls []string
}

func (f *fakeExec) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return nil
}

func (f *fakeExec) isLoggedIn() bool                     { return f.loggedIn }
func (f *fakeExec) currentCollection() models.Collection { return f.current }

func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}

func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func (f *fakeExec) Sync(ctx context.Context, c models.Collection, full bool) error {
	return f.record("sync %s %t", c, full)
}

func (f *fakeExec) List(ctx context.Context, c models.Collection, search, tag string) error {
	f.current = c
	return f.record("list %s %q %q", c, search, tag)
}

func (f *fakeExec) More(ctx context.Context) error { return f.record("more") }

func (f *fakeExec) Act(ctx context.Context, kind models.IntentKind, id, tags string) error {
	return f.record("%s %s %q", kind, id, tags)
}

func (f *fakeExec) Add(ctx context.Context, url, tags string) error {
	return f.record("add %s %q", url, tags)
}

func (f *fakeExec) Tags(ctx context.Context) error         { return f.record("tags") }
func (f *fakeExec) ShowSettings(ctx context.Context) error { return f.record("settings") }
func (f *fakeExec) SetSetting(ctx context.Context, name, value string) error {
	return f.record("set %s %s", name, value)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func run(exec *fakeExec, lines ...string) {
	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, sc)
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{current: models.List}
	run(exec,
		"login",
		"l archive",
		"sync full",
		"more",
		"search go generics",
		"filter golang",
		"filter",
		"read 1",
		"fav 2",
		"delete 3",
		"tag 4 a b",
		"add https://example.com x,y",
		"tags",
		"settings",
		"set theme dark",
		"list",
		"sync",
		"logout",
		"exit",
	)

	assert.Equal(t, []string{
		"login",
		`list archive "" ""`,
		"sync archive true",
		"more",
		`list archive "go generics" ""`,
		`list archive "" "golang"`,
		`list archive "" ""`,
		`read 1 ""`,
		`favourite 2 ""`,
		`delete 3 ""`,
		`tags 4 "a,b"`,
		`add https://example.com "x,y"`,
		"tags",
		"settings",
		"set theme dark",
		`list list "" ""`,
		"sync list false",
		"logout",
	}, exec.calls)
}

func TestRunREPL_UsageErrorsDoNotDispatch(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{loggedIn: true, current: models.List}
	run(exec, "read", "fav 1 2", "tag", "add", "set theme", "list somewhere", "foobar", "quit", "login")

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Usage: read <id>")
	assert.Contains(t, *out, "Usage: set <name> <value>")
	assert.Contains(t, *out, `unknown collection "somewhere"`)
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	run(exec, "help", "login", "help")

	assert.Contains(t, *out, helpLoggedOut)
	assert.Contains(t, *out, helpLoggedIn)
}

func TestRunREPL_StopsOnEOFAndSkipsBlankLines(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	run(exec, "", "   ", "")

	assert.Empty(t, exec.calls)
	for _, l := range *out {
		assert.Equal(t, "rk> status >", l)
	}
}
