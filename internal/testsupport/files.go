package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a stand-in media artifact of the given size at path,
// creating parent directories as needed. Stages only check existence and
// byte count, so the content is a repeating filler pattern. A size <= 0
// still produces a one-byte file so os.Stat succeeds.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	payload := bytes.Repeat([]byte{0x42}, int(size))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
