// Package workflow advances episode productions through the pipeline stages.
//
// The Manager polls the queue, reclaims stale work via heartbeats, and feeds
// items into the registered stage handlers (scripter, voicer, renderer,
// packager) while capturing progress and failure metadata. Validation and
// configuration failures park the item for manual review; everything else
// marks it failed. The manager also aggregates queue stats, calls stage
// health checks, and emits notifications for reviews and errors.
//
// Episodes are processed strictly one stage at a time by a single runner, so
// a long video render never competes with another episode's synthesis for
// the same API quotas.
package workflow
