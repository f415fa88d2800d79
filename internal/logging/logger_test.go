package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showrunner/internal/logging"
	"showrunner/internal/services"
)

func TestNewWritesConsoleLinesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "showrunner.log")
	logger, err := logging.New(logging.Options{
		Level:            "info",
		Format:           "console",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "voicegen")
	component.Info("line synthesized", logging.Int("line", 3), logging.String("character", "nova"))
	component.Debug("should be filtered")

	contents, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	output := string(contents)
	if !strings.Contains(output, "voicegen: line synthesized") {
		t.Fatalf("expected component-prefixed message, got %q", output)
	}
	if !strings.Contains(output, "line=3") {
		t.Fatalf("expected flattened attr, got %q", output)
	}
	if strings.Contains(output, "should be filtered") {
		t.Fatalf("expected debug line filtered, got %q", output)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWithContextAddsStandardFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "showrunner.log")
	logger, err := logging.New(logging.Options{
		Format:           "console",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithItemID(context.Background(), 7)
	ctx = services.WithStage(ctx, "scripting")

	logging.WithContext(ctx, logger).Info("stage started")

	contents, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	output := string(contents)
	if !strings.Contains(output, "item_id=7") {
		t.Fatalf("expected item_id attr, got %q", output)
	}
	if !strings.Contains(output, "stage=scripting") {
		t.Fatalf("expected stage attr, got %q", output)
	}
}
