package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/client/services"
	"github.com/dmitrijs2005/skillsync/internal/common"
)

var fieldLabels = []struct {
	field models.Field
	label string
}{
	{models.FieldName, "Name"},
	{models.FieldAge, "Age"},
	{models.FieldSkills, "Skills"},
	{models.FieldLocation, "Location"},
}

// ShowProfile prints the stored profile. Fields never set show as "-".
func (a *App) ShowProfile(context.Context) error {
	d := a.profile.Snapshot()
	if email := a.session.Snapshot().IdentityEmail; email != "" {
		printlnFn(fmt.Sprintf("%-9s %s", "Email:", email))
	}
	for _, fl := range fieldLabels {
		v, ok := d.Get(fl.field)
		if !ok {
			v = "-"
		}
		printlnFn(fmt.Sprintf("%-9s %s", fl.label+":", v))
	}
	printlnFn(fmt.Sprintf("%-9s %s", "Image:", a.profile.ProfileImageRef()))
	return nil
}

// SetField handles "set <field> <value...>". The value may contain spaces.
func (a *App) SetField(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: set <name|age|skills|location> <value>")
		return nil
	}
	f, ok := models.ParseField(args[0])
	if !ok || f == models.FieldImage {
		printlnFn("Unknown field:", args[0])
		return nil
	}
	if err := a.profile.SetField(ctx, f, strings.Join(args[1:], " ")); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Saved.")
	return nil
}

// EditProfile prompts for every text field, showing the current values, and
// saves them together. A changed account email is sent to the identity
// provider after the local save succeeds.
func (a *App) EditProfile(ctx context.Context) error {
	d := a.profile.Snapshot()
	var u models.ProfileUpdate
	var err error

	if u.Name, err = getTextWithDefault(a.reader, "Name", d[models.FieldName], a.out); err != nil {
		return err
	}
	if u.Age, err = getTextWithDefault(a.reader, "Age", d[models.FieldAge], a.out); err != nil {
		return err
	}
	if u.Skills, err = getTextWithDefault(a.reader, "Skills", d[models.FieldSkills], a.out); err != nil {
		return err
	}
	if u.Location, err = getTextWithDefault(a.reader, "Location", d[models.FieldLocation], a.out); err != nil {
		return err
	}

	s := a.session.Snapshot()
	newEmail := s.IdentityEmail
	if s.Authenticated {
		if newEmail, err = getTextWithDefault(a.reader, "Email", s.IdentityEmail, a.out); err != nil {
			return err
		}
	}

	r := a.profile.UpdateDetails(ctx, u)
	printlnFn(r.Status.Message)
	if !r.OK() {
		return r.Err
	}

	if s.Authenticated && !common.IsBlank(newEmail) && newEmail != s.IdentityEmail {
		return a.await(ctx, a.session.UpdateIdentityEmail(ctx, newEmail))
	}
	return nil
}

// SetImage copies the file at args[0] into the profile image slot.
func (a *App) SetImage(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: image <path>")
		return nil
	}
	r := a.profile.SaveProfileImage(ctx, services.FileSource(strings.Join(args, " ")))
	printlnFn(r.Status.Message)
	return r.Err
}

func (a *App) SyncImages(ctx context.Context) error {
	n, err := a.profile.SyncPendingImages(ctx)
	printlnFn(fmt.Sprintf("Uploaded %d image(s).", n))
	if err != nil {
		printlnFn("Some uploads failed:", err)
	}
	return err
}
