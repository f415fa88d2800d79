// Package logging builds the slog loggers used throughout the daemon and
// CLI.
//
// It owns the console and JSON handlers, the level and output-path plumbing,
// the context-aware wrappers that pull item/stage/request fields out of a
// context, retention cleanup for rotated files, and the no-op logger that
// stores and stages accept in tests. New components should obtain loggers
// here rather than configuring slog directly so every line in the shared log
// file has the same shape.
package logging
