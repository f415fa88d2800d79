package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Log lines are JSON or console records well under this cap; anything larger
// is treated as corruption and surfaces as a scanner error.
const maxLineBytes = 1 << 20

const pollInterval = 250 * time.Millisecond

// TailOptions controls a single Tail call. A negative Offset asks for the
// last Limit lines of the file; Follow with a positive Wait blocks until new
// lines arrive or the wait expires.
type TailOptions struct {
	Offset int64
	Limit  int
	Follow bool
	Wait   time.Duration
}

// TailResult carries the lines read and the offset to resume from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail reads log lines from path. A missing file is not an error; the daemon
// may simply not have written anything yet.
func Tail(ctx context.Context, path string, opts TailOptions) (TailResult, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return TailResult{}, nil
	}
	if err != nil {
		return TailResult{Offset: opts.Offset}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return TailResult{Offset: opts.Offset}, fmt.Errorf("log path %q is a directory", path)
	}
	if opts.Wait < 0 {
		opts.Wait = 0
	}

	var result TailResult
	if opts.Offset < 0 {
		result, err = tailEnd(path, opts.Limit)
	} else {
		offset := opts.Offset
		if offset > info.Size() {
			offset = info.Size()
		}
		result, err = readFrom(path, offset)
	}
	if err != nil {
		return result, err
	}

	if opts.Follow && opts.Wait > 0 && len(result.Lines) == 0 {
		return awaitLines(ctx, path, result.Offset, opts.Wait)
	}
	return result, nil
}

// tailEnd returns the last limit lines and the end-of-file offset. A limit of
// zero or less just reports the offset so follow mode can start from the end.
func tailEnd(path string, limit int) (TailResult, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return TailResult{}, nil
	}
	if err != nil {
		return TailResult{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	var kept []string
	scanner := newLineScanner(file)
	for scanner.Scan() {
		if limit <= 0 {
			continue
		}
		kept = append(kept, scanner.Text())
		// Trim lazily so appends stay amortized O(1) for large files.
		if len(kept) > limit*2 {
			kept = append(kept[:0], kept[len(kept)-limit:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return TailResult{}, fmt.Errorf("read log file: %w", err)
	}
	if len(kept) > limit {
		kept = kept[len(kept)-limit:]
	}

	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return TailResult{}, fmt.Errorf("seek log file: %w", err)
	}
	return TailResult{Lines: kept, Offset: end}, nil
}

// readFrom returns every complete line at or after offset.
func readFrom(path string, offset int64) (TailResult, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return TailResult{}, nil
	}
	if err != nil {
		return TailResult{Offset: offset}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return TailResult{Offset: offset}, fmt.Errorf("seek log file: %w", err)
	}

	var lines []string
	scanner := newLineScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return TailResult{Offset: offset}, fmt.Errorf("read log file: %w", err)
	}

	next, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return TailResult{Offset: offset}, fmt.Errorf("determine log offset: %w", err)
	}
	return TailResult{Lines: lines, Offset: next}, nil
}

// awaitLines polls for new lines after offset until some arrive, the wait
// expires, or ctx is cancelled.
func awaitLines(ctx context.Context, path string, offset int64, wait time.Duration) (TailResult, error) {
	deadline := time.Now().Add(wait)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		result, err := readFrom(path, offset)
		if err != nil {
			return result, err
		}
		if len(result.Lines) > 0 || time.Now().After(deadline) {
			return result, nil
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C:
		}
	}
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}
