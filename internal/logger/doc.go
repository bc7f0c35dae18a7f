// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder,
//   - a tee variant that mirrors every message to the per-run diagnostic log,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// All pipeline stages accept a context and extract the logger from it,
// enabling scoped, structured logging throughout the codebase. Console
// verbosity follows the quiet/verbose flags while the file side always
// records at debug level.
package logger
