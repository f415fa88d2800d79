package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "episode.mp4")
	dst := filepath.Join(dir, "published.mp4")

	payload := []byte("not actually video, but enough bytes to verify")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("destination content = %q, want %q", got, payload)
	}

	if _, err := os.Stat(dst + ".partial"); !os.IsNotExist(err) {
		t.Error("partial file left behind after successful copy")
	}
}

func TestCopyFileVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFileVerified(filepath.Join(dir, "missing.mp3"), filepath.Join(dir, "out.mp3"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyFileVerifiedCleansUpOnFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(src, []byte("clip"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	dst := filepath.Join(dir, "no-such-dir", "clip.mp4")
	if err := CopyFileVerified(src, dst); err == nil {
		t.Fatal("expected error for unwritable destination")
	}
	if _, err := os.Stat(dst + ".partial"); !os.IsNotExist(err) {
		t.Error("partial file should not exist after failed create")
	}
}
