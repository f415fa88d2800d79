package services_test

import (
	"context"
	"testing"

	"showrunner/internal/services"
)

func TestContextCarriesProductionFields(t *testing.T) {
	ctx := services.WithRequestID(
		services.WithStage(
			services.WithItemID(context.Background(), 42),
			"voicing"),
		"req-123")

	id, ok := services.ItemIDFromContext(ctx)
	if !ok || id != 42 {
		t.Errorf("item id = %d (ok=%v), want 42", id, ok)
	}
	stage, ok := services.StageFromContext(ctx)
	if !ok || stage != "voicing" {
		t.Errorf("stage = %q (ok=%v), want voicing", stage, ok)
	}
	rid, ok := services.RequestIDFromContext(ctx)
	if !ok || rid != "req-123" {
		t.Errorf("request id = %q (ok=%v), want req-123", rid, ok)
	}
}

func TestContextIgnoresBlankValues(t *testing.T) {
	ctx := services.WithStage(context.Background(), "")
	ctx = services.WithRequestID(ctx, "")

	if _, ok := services.StageFromContext(ctx); ok {
		t.Error("blank stage should not be stored")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Error("blank request id should not be stored")
	}
	if _, ok := services.ItemIDFromContext(ctx); ok {
		t.Error("item id should be absent on an untagged context")
	}
}
