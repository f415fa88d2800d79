// Package ipc is the control channel between the CLI and the daemon: a
// JSON-RPC server on a unix socket plus the typed client the commands call.
//
// The server wraps the daemon and translates its state into the wire DTOs;
// the client dials with a short timeout so commands fail fast (and fall back
// to direct store access) when the daemon is not running. New daemon
// operations get a request/response pair here rather than ad-hoc socket
// traffic.
package ipc
