package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool                   { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error     { return f.record("register", nil) }
func (f *fakeExec) Submit(context.Context) error       { return f.record("submit", nil) }
func (f *fakeExec) ToggleMode(context.Context) error   { return f.record("mode", nil) }
func (f *fakeExec) ConfirmReset(context.Context) error { return f.record("reset-confirm", nil) }
func (f *fakeExec) ShowProfile(context.Context) error  { return f.record("profile", nil) }
func (f *fakeExec) EditProfile(context.Context) error  { return f.record("edit", nil) }
func (f *fakeExec) SyncImages(context.Context) error   { return f.record("sync-images", nil) }
func (f *fakeExec) ShowStatus(context.Context) error   { return f.record("status", nil) }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) SetEmail(_ context.Context, args []string) error {
	return f.record("email", args)
}
func (f *fakeExec) SetPassword(context.Context) error { return f.record("password", nil) }
func (f *fakeExec) ResetPassword(_ context.Context, args []string) error {
	return f.record("reset", args)
}
func (f *fakeExec) UpdateEmail(_ context.Context, args []string) error {
	return f.record("update-email", args)
}
func (f *fakeExec) SetField(_ context.Context, args []string) error {
	return f.record("set", args)
}
func (f *fakeExec) SetImage(_ context.Context, args []string) error {
	return f.record("image", args)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = strings.TrimSpace(strings.ReplaceAll(toString(v), "\n", " "))
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	default:
		return ""
	}
}

func TestRunREPL_DispatchesWithArgs(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"set name Ada Lovelace",
		"update-email ada@example.com",
		"image /tmp/me.jpg",
		"reset",
		"profile",
		"sync-images",
		"logout",
		"foobar",
		"exit",
		"login",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{"login", "set", "update-email", "image", "reset", "profile", "sync-images", "logout"}, exec.calls)
	assert.Equal(t, []string{"name", "Ada", "Lovelace"}, exec.args[1])
	assert.Equal(t, []string{"ada@example.com"}, exec.args[2])
	assert.Empty(t, exec.args[4])

	assert.Equal(t, helpLoggedOut, (*out)[0])
	assert.Equal(t, helpLoggedIn, (*out)[1])
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("email a@b.c\npassword\nmode\nsubmit")))

	assert.Equal(t, []string{"email", "password", "mode", "submit"}, exec.calls)
	assert.Equal(t, []string{"a@b.c"}, exec.args[0])
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("login\n")))

	assert.Empty(t, exec.calls)
}
