// Package logging provides structured logging utilities for tsbutil.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so every command logs the same way. It supports environment-based log level
// configuration, module/version context injection, and automatic source
// location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: per-file render and openssl invocations, with source location
//   - INFO: one line per instance and per run (default)
//   - WARN/WARNING: recoverable oddities such as a reused certificate cache
//   - ERROR: the fatal error that ends the run
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultLogger(logging.FormatJSON, "tsbutil", version, "info")
//	    slog.Info("rendering instance", "namespace", ns)
//	}
//
// # Environment Configuration
//
// LOG_LEVEL overrides the --log-level flag:
//
//	LOG_LEVEL=debug tsbutil httpbin-fleet --config fleet.yaml
//
// # Output Format
//
// JSON to stderr by default; text with --log-format text. Stdout is left for
// the run summary and diagnostics.
package logging
