// Package identity is the client's view of the external identity provider.
//
// Provider is the contract the session layer depends on. GRPCProvider
// implements it against the skillsync.identity.v1.Identity service and keeps
// the signed-in ID token in the local key-value store (namespace "identity")
// so that CurrentUser answers without a network call, also after a restart.
//
// All failures surface as *ProviderError; Classify maps any error to a Kind.
package identity
