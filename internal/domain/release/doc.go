// Package release contains the core vocabulary of the release workflow.
//
// It defines the error taxonomy shared by every step (manifest, staging,
// packaging, rename, archive, clean and external commands), the mapping from
// errors to process exit status, and the canonical artifact naming.
package release
