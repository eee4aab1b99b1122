package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/client/repositories/images"
	"github.com/dmitrijs2005/skillsync/internal/client/repositories/kv"
	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/dmitrijs2005/skillsync/internal/filex"
	"github.com/dmitrijs2005/skillsync/internal/logging"
)

const (
	ScopeDevice   = "device"
	ScopeIdentity = "identity"

	// DefaultPlaceholder is shown when no profile image was saved.
	DefaultPlaceholder = "asset://profile_placeholder.png"
)

// StatusReporter receives the outcome messages of profile operations.
type StatusReporter interface {
	Report(st models.Status)
}

// ProfileConfig configures a ProfileStore.
type ProfileConfig struct {
	ImageDir    string
	Placeholder string
	// Scope is ScopeDevice (one profile per device) or ScopeIdentity (one
	// profile per signed-in account).
	Scope string
}

// ProfileStore keeps the user's profile attributes in the local key-value
// store. Every write goes to memory and is persisted immediately.
type ProfileStore struct {
	base   kv.Repository
	cfg    ProfileConfig
	logger logging.Logger
	now    func() time.Time

	reporter StatusReporter
	mirror   ImageMirror
	images   images.Repository

	// wmu serializes writes so memory and storage see the same order.
	wmu sync.Mutex

	mu        sync.Mutex
	store     kv.Repository
	details   models.ProfileDetails
	lastImage int64
	version   uint64

	subs broadcaster[models.ProfileDetails]
}

// ProfileOption customizes a ProfileStore at construction.
type ProfileOption func(*ProfileStore)

// WithReporter sends profile outcome messages to r.
func WithReporter(r StatusReporter) ProfileOption {
	return func(p *ProfileStore) { p.reporter = r }
}

// WithMirror enables uploading saved images. repo tracks upload state.
func WithMirror(m ImageMirror, repo images.Repository) ProfileOption {
	return func(p *ProfileStore) {
		p.mirror = m
		p.images = repo
	}
}

// WithProfileLogger sets the store logger; the default discards output.
func WithProfileLogger(l logging.Logger) ProfileOption {
	return func(p *ProfileStore) { p.logger = l }
}

// NewProfileStore loads the profile held in store's namespace.
func NewProfileStore(ctx context.Context, store kv.Repository, cfg ProfileConfig, opts ...ProfileOption) (*ProfileStore, error) {
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultPlaceholder
	}
	if cfg.Scope == "" {
		cfg.Scope = ScopeDevice
	}
	p := &ProfileStore{
		base:   store,
		cfg:    cfg,
		logger: logging.Nop{},
		now:    time.Now,
		store:  store,
	}
	for _, opt := range opts {
		opt(p)
	}

	details, err := load(ctx, store)
	if err != nil {
		return nil, err
	}
	p.details = details
	return p, nil
}

// SetReporter wires the status sink after construction; the session
// manager and the store reference each other.
func (p *ProfileStore) SetReporter(r StatusReporter) {
	p.mu.Lock()
	p.reporter = r
	p.mu.Unlock()
}

func load(ctx context.Context, store kv.Repository) (models.ProfileDetails, error) {
	all, err := store.List(ctx)
	if err != nil {
		return nil, &IOError{Op: "load profile", Err: err}
	}
	details := models.ProfileDetails{}
	for _, f := range models.ProfileFields {
		if v, ok := all[string(f)]; ok {
			details[f] = v
		}
	}
	return details, nil
}

func (p *ProfileStore) report(st models.Status) {
	p.mu.Lock()
	r := p.reporter
	p.mu.Unlock()
	if r != nil {
		r.Report(st)
	}
}

func (p *ProfileStore) publishLocked() func() {
	p.version++
	v, snap := p.version, p.details.Clone()
	return func() { p.subs.publish(v, snap) }
}

// Get returns the in-memory value of f.
func (p *ProfileStore) Get(f models.Field) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.details.Get(f)
}

// Snapshot returns a copy of the current profile.
func (p *ProfileStore) Snapshot() models.ProfileDetails {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.details.Clone()
}

// Subscribe returns a channel of profile snapshots, starting with the
// current one.
func (p *ProfileStore) Subscribe(buffer int) (<-chan models.ProfileDetails, func()) {
	ch, cancel := p.subs.subscribe(buffer)
	p.mu.Lock()
	publish := p.publishLocked()
	p.mu.Unlock()
	publish()
	return ch, cancel
}

// Close ends all subscriptions.
func (p *ProfileStore) Close() {
	p.subs.close()
}

// SetField updates f in memory and persists it.
func (p *ProfileStore) SetField(ctx context.Context, f models.Field, value string) error {
	if _, ok := models.ParseField(string(f)); !ok {
		return &ValidationError{Message: msgUnknownField}
	}
	p.wmu.Lock()
	defer p.wmu.Unlock()
	return p.setLocked(ctx, f, value)
}

// setLocked expects wmu held. When the write cannot be persisted the
// previous value is put back, so memory never runs ahead of storage.
func (p *ProfileStore) setLocked(ctx context.Context, f models.Field, value string) error {
	p.mu.Lock()
	prev, had := p.details[f]
	p.details[f] = value
	store := p.store
	publish := p.publishLocked()
	p.mu.Unlock()
	publish()

	if err := store.Put(ctx, string(f), value); err != nil {
		p.mu.Lock()
		if had {
			p.details[f] = prev
		} else {
			delete(p.details, f)
		}
		publish := p.publishLocked()
		p.mu.Unlock()
		publish()
		return &IOError{Op: "persist " + string(f), Err: err}
	}
	return nil
}

func (p *ProfileStore) writeAll(ctx context.Context, name, age, skills, location string) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	for _, w := range []struct {
		f models.Field
		v string
	}{
		{models.FieldName, name},
		{models.FieldAge, age},
		{models.FieldSkills, skills},
		{models.FieldLocation, location},
	} {
		if err := p.setLocked(ctx, w.f, w.v); err != nil {
			return err
		}
	}
	return nil
}

// SaveAll writes the four text fields in sequence. It is used when a
// profile is first created.
func (p *ProfileStore) SaveAll(ctx context.Context, name, age, skills, location string) error {
	if err := p.writeAll(ctx, name, age, skills, location); err != nil {
		return err
	}
	p.report(models.Info(msgDetailsSaved))
	return nil
}

// UpdateDetails is the edit-form save: age must be a non-negative whole
// number.
func (p *ProfileStore) UpdateDetails(ctx context.Context, u models.ProfileUpdate) Result {
	if !validAge(u.Age) {
		st := models.Failure(models.ReasonValidation, msgAgeInvalid)
		p.report(st)
		return Result{Status: st, Err: &ValidationError{Message: msgAgeInvalid}}
	}
	if err := p.writeAll(ctx, u.Name, u.Age, u.Skills, u.Location); err != nil {
		st := models.Failure(models.ReasonIO, err.Error())
		p.report(st)
		return Result{Status: st, Err: err}
	}
	st := models.Success(msgDetailsUpdated)
	p.report(st)
	return Result{Status: st}
}

func validAge(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// EnsureDefault creates a default profile named name (or DefaultName) when
// no name is stored yet.
func (p *ProfileStore) EnsureDefault(ctx context.Context, name string) error {
	if v, _ := p.Get(models.FieldName); !common.IsBlank(v) {
		return nil
	}
	return p.SaveAll(ctx, common.IfBlank(name, DefaultName), DefaultAge, DefaultSkills, DefaultLocation)
}

// ProfileImageRef returns the stored image reference or the placeholder.
func (p *ProfileStore) ProfileImageRef() string {
	v, _ := p.Get(models.FieldImage)
	return common.IfBlank(v, p.cfg.Placeholder)
}

// nextImagePath names a new image file by the current time in milliseconds,
// bumped so that names never repeat within the process.
func (p *ProfileStore) nextImagePath() string {
	p.mu.Lock()
	ms := p.now().UnixMilli()
	if ms <= p.lastImage {
		ms = p.lastImage + 1
	}
	p.lastImage = ms
	p.mu.Unlock()
	return filepath.Join(p.cfg.ImageDir, fmt.Sprintf("profile_image_%d.jpg", ms))
}

// SaveProfileImage copies src into a new local file and makes it the
// profile image. On failure the previous reference stays in place.
func (p *ProfileStore) SaveProfileImage(ctx context.Context, src ImageSource) Result {
	path, err := p.copyImage(src)
	if err != nil {
		return p.imageFailed(ctx, err)
	}

	ref := filex.FileURI(path)
	if err := p.SetField(ctx, models.FieldImage, ref); err != nil {
		_ = os.Remove(path)
		return p.imageFailed(ctx, err)
	}

	p.logger.Info(ctx, "profile image saved", "path", path)
	p.mirrorImage(ctx, path)

	st := models.Success(msgImageSaved)
	p.report(st)
	return Result{Status: st}
}

func (p *ProfileStore) copyImage(src ImageSource) (string, error) {
	rc, err := src.Open()
	if err != nil {
		return "", &IOError{Op: "open image", Path: src.Name(), Err: err}
	}
	defer rc.Close()

	path := p.nextImagePath()
	if _, err := filex.CopyToFile(path, rc); err != nil {
		return "", &IOError{Op: "copy image", Path: path, Err: err}
	}
	return path, nil
}

func (p *ProfileStore) imageFailed(ctx context.Context, err error) Result {
	p.logger.Error(ctx, "save profile image failed", "error", err)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		err = &IOError{Op: "save image", Err: err}
	}
	st := models.Failure(models.ReasonIO, msgImageFailed)
	p.report(st)
	return Result{Status: st, Err: err}
}

// SwitchIdentity rebinds the profile to owner's namespace and reloads it.
// It does nothing unless the store is scoped per identity.
func (p *ProfileStore) SwitchIdentity(ctx context.Context, owner string) error {
	if p.cfg.Scope != ScopeIdentity {
		return nil
	}
	ns := p.base.Namespace()
	if owner != "" {
		ns = ns + ":" + strings.ToLower(owner)
	}

	p.wmu.Lock()
	defer p.wmu.Unlock()

	store := p.base.WithNamespace(ns)
	details, err := load(ctx, store)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.store = store
	p.details = details
	publish := p.publishLocked()
	p.mu.Unlock()
	publish()
	return nil
}
