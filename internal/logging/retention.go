package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RetentionTarget names a directory of log files eligible for pruning.
// Exclude protects specific paths, such as the file currently being written.
type RetentionTarget struct {
	Dir     string
	Pattern string
	Exclude []string
}

// CleanupOldLogs deletes files in the targets older than retentionDays.
// Zero or negative retention disables pruning. Unreadable directories and
// entries are skipped; only a failed remove is worth a log line.
func CleanupOldLogs(logger *slog.Logger, retentionDays int, targets ...RetentionTarget) {
	if retentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	protected := make(map[string]struct{})
	for _, target := range targets {
		for _, path := range target.Exclude {
			if path = strings.TrimSpace(path); path != "" {
				if abs, err := filepath.Abs(path); err == nil {
					protected[abs] = struct{}{}
				}
			}
		}
	}

	for _, target := range targets {
		pruneDir(logger, target, cutoff, protected)
	}
}

func pruneDir(logger *slog.Logger, target RetentionTarget, cutoff time.Time, protected map[string]struct{}) {
	dir := strings.TrimSpace(target.Dir)
	if dir == "" {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	pattern := strings.TrimSpace(target.Pattern)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if pattern != "" {
			if matched, err := filepath.Match(pattern, entry.Name()); err != nil || !matched {
				continue
			}
		}

		path := filepath.Join(dir, entry.Name())
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if _, keep := protected[path]; keep {
			continue
		}

		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil {
			if logger != nil {
				logger.Warn("log retention remove failed; file remains",
					String("path", path), Error(err))
			}
			continue
		}
		if logger != nil {
			logger.Info("log pruned", String("path", path))
		}
	}
}
