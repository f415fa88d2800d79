package services

import "context"

// Unexported key types keep these values collision-free across packages.
type (
	itemIDKey    struct{}
	stageKey     struct{}
	requestIDKey struct{}
)

// WithItemID tags ctx with the queue item being produced. Log handlers pick
// it up so every line emitted during a production carries the item id.
func WithItemID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, itemIDKey{}, id)
}

// ItemIDFromContext reports the queue item id carried by ctx, if any.
func ItemIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(itemIDKey{}).(int64)
	return id, ok
}

// WithStage tags ctx with the pipeline stage currently running.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey{}, stage)
}

// StageFromContext reports the stage name carried by ctx, if any.
func StageFromContext(ctx context.Context) (string, bool) {
	stage, ok := ctx.Value(stageKey{}).(string)
	return stage, ok && stage != ""
}

// WithRequestID tags ctx with a correlation id for one stage execution.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext reports the correlation id carried by ctx, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
