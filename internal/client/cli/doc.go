// Package cli provides the interactive SkillSync command-line client.
//
// It wires configuration, local storage, the identity provider, the session
// manager and the profile store, then runs a REPL over them. A background
// watcher pings the identity service and shows online/offline in the
// prompt.
//
// Commands:
//   - register / login / logout, mode, submit
//   - reset, reset-confirm, update-email
//   - profile, set, edit, image, sync-images
//   - status, help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
