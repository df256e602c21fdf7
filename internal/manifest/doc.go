// Package manifest reads the Playnite extension manifest (extension.yaml).
//
// The release tasks only need the Version key; the other well-known keys are
// decoded for log output.
package manifest
