// Package utils holds small helpers shared by the agentils internals:
// pointer conversion for optional request fields, string truncation for
// log-safe previews, and a close helper that reports deferred Close errors
// through log/slog instead of dropping them.
package utils
