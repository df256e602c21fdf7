// Package logger wraps zap to offer:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and configuration,
//   - convenience functions (InfoKV, WarnKV, etc.).
//
// Every workflow step accepts a context and extracts the logger from it, so
// messages carry the command name and step fields that were attached upstream.
package logger
