// Package version exposes build metadata of the ludusavi-tasks binary.
//
// Version, Commit and BuildTime are injected via -ldflags "-X ..." and default
// to values suitable for local builds.
package version
