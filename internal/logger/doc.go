// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.),
//   - secret masking so credentials never reach a log line.
//
// All components accept a context and extract the logger from it, enabling
// scoped, structured logging throughout the codebase. Credentials known at
// startup are registered via WithSecretMasking and are scrubbed from every
// entry, including error values produced by the notification transport.
package logger
