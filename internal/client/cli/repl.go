package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Submit(ctx context.Context) error
	ToggleMode(ctx context.Context) error
	SetEmail(ctx context.Context, args []string) error
	SetPassword(ctx context.Context) error
	Logout(ctx context.Context) error
	ResetPassword(ctx context.Context, args []string) error
	ConfirmReset(ctx context.Context) error
	UpdateEmail(ctx context.Context, args []string) error
	ShowProfile(ctx context.Context) error
	SetField(ctx context.Context, args []string) error
	EditProfile(ctx context.Context) error
	SetImage(ctx context.Context, args []string) error
	SyncImages(ctx context.Context) error
	ShowStatus(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, email, password, mode, submit, reset, reset-confirm, profile, set, edit, image, status, exit"
	helpLoggedIn  = "Available commands: profile, set, edit, image, sync-images, update-email, status, logout, exit"
)

// runREPL starts a read–eval–print loop for the SkillSync CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on a with the remaining tokens. The loop exits on
// EOF, when ctx is done, or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - register         create an account (email, password, optional profile seed)
//	  - login            sign in
//	  - mode             switch the form between login and register
//	  - submit           run the form's current mode
//	  - reset [email]    send a password reset email
//	  - reset-confirm    set a new password with a reset token
//
//	Logged in:
//	  - update-email <e> change the account email
//	  - sync-images      retry pending image uploads
//	  - logout           sign out
//
//	Always:
//	  - profile          show the local profile
//	  - set <f> <value>  set one profile field (name, age, skills, location)
//	  - edit             edit all profile fields
//	  - image <path>     use a local file as the profile image
//	  - status           show the last status message
//	  - help, exit | quit
//
// Errors returned by command handlers are ignored here; handlers print their
// own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Printf("skillsync %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "submit":
			_ = a.Submit(ctx)
		case "mode":
			_ = a.ToggleMode(ctx)
		case "email":
			_ = a.SetEmail(ctx, args)
		case "password":
			_ = a.SetPassword(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "reset":
			_ = a.ResetPassword(ctx, args)
		case "reset-confirm":
			_ = a.ConfirmReset(ctx)
		case "update-email":
			_ = a.UpdateEmail(ctx, args)
		case "profile":
			_ = a.ShowProfile(ctx)
		case "set":
			_ = a.SetField(ctx, args)
		case "edit":
			_ = a.EditProfile(ctx)
		case "image":
			_ = a.SetImage(ctx, args)
		case "sync-images":
			_ = a.SyncImages(ctx)
		case "status":
			_ = a.ShowStatus(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// getStatus renders the prompt suffix: signed-in email and connectivity.
func (a *App) getStatus() string {
	s := ""
	if email := a.session.Snapshot().IdentityEmail; email != "" {
		s = email + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", strings.TrimSpace(s))
	}
	return s
}
