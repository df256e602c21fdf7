// Package runner executes external tools (dotnet, Playnite Toolbox) on behalf
// of the release tasks.
//
// Workflows depend on the Runner interface only, so tests can substitute Fake
// and never spawn real processes.
package runner
