package models

// StatusKind tags the single status slot.
type StatusKind string

const (
	StatusNone    StatusKind = ""
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Reason qualifies an error status. Provider reasons share their values
// with identity.Kind.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonValidation          Reason = "validation"
	ReasonCredentialsInUse    Reason = "credentials-in-use"
	ReasonMalformedEmail      Reason = "malformed-email"
	ReasonInvalidCredentials  Reason = "invalid-credentials"
	ReasonRequiresRecentLogin Reason = "requires-recent-login"
	ReasonIO                  Reason = "io"
	ReasonOther               Reason = "other"
)

// Status is the single user-facing message slot. A new status replaces the
// previous one.
type Status struct {
	Kind    StatusKind
	Reason  Reason
	Message string
}

func (s Status) IsZero() bool { return s == Status{} }

func Info(msg string) Status    { return Status{Kind: StatusInfo, Message: msg} }
func Success(msg string) Status { return Status{Kind: StatusSuccess, Message: msg} }

func Failure(reason Reason, msg string) Status {
	return Status{Kind: StatusError, Reason: reason, Message: msg}
}

// Session is a snapshot of the client's authentication state.
type Session struct {
	Authenticated bool
	// IdentityEmail is empty when nobody is signed in.
	IdentityEmail string
	Status        Status
	LoginMode     bool
	EmailInput    string
	PasswordInput string
	// Pending is set while a provider operation is in flight.
	Pending bool
}
