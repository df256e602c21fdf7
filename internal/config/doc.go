// Package config defines the repository layout and tool locations used by
// the release tasks, and loads optional overrides from a YAML settings file.
//
// Every path except Root and Toolbox is relative to the repository root, which
// replaces a process-wide constant and is passed explicitly into each task.
package config
