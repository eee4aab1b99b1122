// Package models holds the client-side profile, image and session status
// types shared by the services and the CLI.
package models
