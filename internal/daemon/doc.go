// Package daemon hosts the long-running production service: it enforces
// single-instance execution with a lock file, drives the workflow manager,
// and exposes daemon state to IPC and HTTP API consumers.
//
// The daemon owns the queue store, the character roster, and the show
// catalog, and is the only process that mutates them while running; CLI
// commands go through the IPC socket rather than opening the stores
// themselves.
package daemon
