// Package builder runs the .NET build and formatter for the extension sources.
//
// Both tasks are thin wrappers over an external tool: the exit status of the
// tool becomes the exit status of the task.
package builder
