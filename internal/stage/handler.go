// Package stage defines the contract between the workflow manager and the
// four production stages (scripting, voicing, rendering, packaging).
package stage

import (
	"context"

	"showrunner/internal/queue"
)

// Handler is one pipeline stage. Prepare validates inputs and lays out the
// production directory without side effects worth rolling back; Execute does
// the actual work and mutates the item's artifact paths; HealthCheck reports
// whether the stage could run right now (typically: is its API key set).
type Handler interface {
	Prepare(context.Context, *queue.Item) error
	Execute(context.Context, *queue.Item) error
	HealthCheck(context.Context) Health
}
