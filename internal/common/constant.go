// Package common contains shared constants and sentinel errors used across
// SkillSync components.
package common

// AuthorizationHeaderName is the gRPC metadata key used to carry the
// identity token on outbound requests.
const AuthorizationHeaderName = "authorization"

// Default key-value namespaces used by the client.
const (
	ProfileNamespace  = "local_user_data"
	IdentityNamespace = "identity"
)
