// Package logs reads the daemon's log file for the `showrunner logs`
// command and its RPC.
//
// Tail supports "last N lines" via a negative offset, incremental reads
// from a saved offset, and a bounded follow mode that polls for new lines
// until the caller's context is cancelled.
package logs
