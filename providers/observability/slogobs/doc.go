// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans and metrics become debug-level log records; ordinary log calls map
// to slog levels, with an extra TRACE level below DEBUG. Output is either a
// compact single-line format or JSON, chosen with [WithFormat] or the
// AGENTILS_LOG_FORMAT environment variable. The level comes from
// [WithLevel] or AGENTILS_LOG_LEVEL.
package slogobs
