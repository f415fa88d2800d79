package logging

import (
	"context"
	"log/slog"

	"showrunner/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldItemID is the standardized structured logging key for queue item identifiers.
	FieldItemID = "item_id"
	// FieldStage is the standardized structured logging key for workflow stage names.
	FieldStage = "stage"
	// FieldShowID is the standardized structured logging key for show identifiers.
	FieldShowID = "show_id"
	// FieldEpisodeTitle is the standardized structured logging key for episode titles.
	FieldEpisodeTitle = "episode_title"
	// FieldProductionID is the standardized structured logging key for production run identifiers.
	FieldProductionID = "production_id"
	// FieldCharacter is the standardized structured logging key for character identifiers.
	FieldCharacter = "character"
	// FieldLine is the standardized structured logging key for 1-based dialogue line numbers.
	FieldLine = "line"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

// Alert tags a log record with an anomaly marker.
func Alert(value string) Attr { return slog.String(FieldAlert, value) }

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.ItemIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldItemID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
