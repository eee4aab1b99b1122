package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skillsync/internal/client/identity"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/client/services"
	"github.com/dmitrijs2005/skillsync/internal/common"
)

// getSimpleText, getTextWithDefault and getPassword are indirections used
// to facilitate testing.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
)

// await blocks until op finishes or ctx is done, in which case the
// operation is cancelled. The result's status message is printed.
func (a *App) await(ctx context.Context, op *services.Operation) error {
	select {
	case <-op.Done():
	case <-ctx.Done():
		op.Cancel()
		<-op.Done()
	}
	r := op.Wait()
	switch {
	case r.Status.Message != "":
		printlnFn(r.Status.Message)
	case errors.Is(r.Err, services.ErrOperationInProgress):
		printlnFn("Another operation is in progress, please wait.")
	case r.Err != nil:
		printlnFn("Error:", r.Err)
	}
	return r.Err
}

// fillCredentials prompts for the email and password inputs that are still
// blank.
func (a *App) fillCredentials() error {
	s := a.session.Snapshot()
	if common.IsBlank(s.EmailInput) {
		email, err := getSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return err
		}
		a.session.SetEmailInput(email)
	}
	if s.PasswordInput == "" {
		pw, err := getPassword(a.out)
		if err != nil {
			return err
		}
		a.session.SetPasswordInput(string(pw))
		common.WipeByteArray(pw)
	}
	return nil
}

// Register prompts for credentials and an optional profile seed, then
// creates the account.
func (a *App) Register(ctx context.Context) error {
	if err := a.fillCredentials(); err != nil {
		return err
	}
	var seed models.ProfileSeed
	var err error
	if seed.Name, err = getSimpleText(a.reader, "Name (optional)", a.out); err != nil {
		return err
	}
	if seed.Age, err = getSimpleText(a.reader, "Age (optional)", a.out); err != nil {
		return err
	}
	if seed.Skills, err = getSimpleText(a.reader, "Skills (optional)", a.out); err != nil {
		return err
	}
	return a.await(ctx, a.session.Register(ctx, seed))
}

// Login prompts for missing credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	if err := a.fillCredentials(); err != nil {
		return err
	}
	return a.await(ctx, a.session.Login(ctx))
}

// Submit runs login or register depending on the form mode.
func (a *App) Submit(ctx context.Context) error {
	if a.session.Snapshot().LoginMode {
		return a.Login(ctx)
	}
	return a.Register(ctx)
}

func (a *App) ToggleMode(context.Context) error {
	a.session.ToggleMode()
	if a.session.Snapshot().LoginMode {
		printlnFn("Mode: login")
	} else {
		printlnFn("Mode: register")
	}
	return nil
}

// SetEmail fills the email input; with no argument it clears it.
func (a *App) SetEmail(_ context.Context, args []string) error {
	if len(args) > 1 {
		printlnFn("Usage: email <address>")
		return nil
	}
	email := ""
	if len(args) == 1 {
		email = args[0]
	}
	a.session.SetEmailInput(email)
	return nil
}

// SetPassword reads the password input from the terminal.
func (a *App) SetPassword(context.Context) error {
	pw, err := getPassword(a.out)
	if err != nil {
		return err
	}
	a.session.SetPasswordInput(string(pw))
	common.WipeByteArray(pw)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		a.logger.Warn(ctx, "sign out", "error", err)
		printlnFn("Signed out locally; the identity service could not be reached.")
		return err
	}
	printlnFn("Signed out.")
	return nil
}

// ResetPassword sends a reset email to args[0] or the email input.
func (a *App) ResetPassword(ctx context.Context, args []string) error {
	if len(args) > 0 {
		a.session.SetEmailInput(args[0])
	} else if common.IsBlank(a.session.Snapshot().EmailInput) {
		email, err := getSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return err
		}
		a.session.SetEmailInput(email)
	}
	return a.await(ctx, a.session.SendPasswordReset(ctx))
}

// ConfirmReset completes a password reset with the token from the email.
func (a *App) ConfirmReset(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}
	pw, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if common.IsBlank(token) || len(pw) == 0 {
		printlnFn("Please enter both the reset token and a new password.")
		return &services.ValidationError{Message: "missing token or password"}
	}

	cctx, cancel := context.WithTimeout(ctx, a.config.ProviderTimeout)
	defer cancel()
	if err := a.account.ConfirmPasswordReset(cctx, token, string(pw)); err != nil {
		printlnFn(fmt.Sprintf("Password reset failed: %s", common.IfBlank(identity.Message(err), err.Error())))
		return err
	}
	printlnFn("Password updated. Please log in.")
	return nil
}

// UpdateEmail changes the signed-in account's email to args[0].
func (a *App) UpdateEmail(ctx context.Context, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = getSimpleText(a.reader, "New email", a.out); err != nil {
			return err
		}
	}
	return a.await(ctx, a.session.UpdateIdentityEmail(ctx, email))
}

func (a *App) ShowStatus(context.Context) error {
	st := a.session.Snapshot().Status
	if st.IsZero() {
		printlnFn("No status.")
		return nil
	}
	if st.Reason != models.ReasonNone {
		printlnFn(fmt.Sprintf("[%s/%s] %s", st.Kind, st.Reason, st.Message))
		return nil
	}
	printlnFn(fmt.Sprintf("[%s] %s", st.Kind, st.Message))
	return nil
}
