package preflight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := CheckDirectoryAccess("Outputs", dir)
	if !result.Passed {
		t.Fatalf("expected writable temp dir to pass, got %q", result.Detail)
	}

	result = CheckDirectoryAccess("Outputs", filepath.Join(dir, "missing"))
	if result.Passed {
		t.Fatal("expected missing directory to fail")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result = CheckDirectoryAccess("Outputs", file)
	if result.Passed {
		t.Fatal("expected regular file to fail")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()

	result := CheckFreeSpace("Outputs", dir, 1)
	if !result.Passed {
		t.Fatalf("expected one byte requirement to pass, got %q", result.Detail)
	}

	result = CheckFreeSpace("Outputs", dir, ^uint64(0))
	if result.Passed {
		t.Fatal("expected absurd space requirement to fail")
	}

	result = CheckFreeSpace("Outputs", filepath.Join(dir, "missing"), 1)
	if result.Passed {
		t.Fatal("expected missing path to fail")
	}
}
