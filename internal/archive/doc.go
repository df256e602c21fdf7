// Package archive builds the zip distribution of a staged extension tree and
// computes artifact checksums.
//
// The archive is assembled in memory and swapped into place with go-update,
// which verifies a SHA-512 checksum of the payload before replacing the target,
// so an interrupted run never leaves a truncated zip under the release name.
package archive
