// Package api defines the transport DTOs shared by the daemon HTTP API and
// the IPC surface, plus the small services the CLI uses to read the queue
// directly when the daemon is offline.
//
// Conversions between queue models and wire representations live here so the
// HTTP handlers, the JSON-RPC service, and the CLI render the same shapes.
package api
