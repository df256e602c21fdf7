// Package fsops implements the filesystem mutations of the release tasks:
// staging a build output directory and removing the artifact directory.
//
// Stage is all-or-nothing: the destination is removed before copying and a
// copy that fails midway removes its partial tree again. Symlinks are followed,
// so the staged tree holds regular files and directories only; file modes are
// preserved.
package fsops
