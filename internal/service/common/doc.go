// Package common holds helpers shared by several services.
//
// It looks up running processes by executable name, which the packager uses
// to warn when Playnite may be holding the build output open.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
