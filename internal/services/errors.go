package services

import (
	"errors"
	"fmt"
	"strings"

	"showrunner/internal/queue"
)

// Sentinel markers for stage failures. The marker decides what the workflow
// manager does with the item afterwards: operator-fixable problems park the
// episode for review, everything else marks it failed and retryable.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// Wrap tags err with marker and prefixes it with "stage: operation: message"
// context. Blank context parts are dropped. A nil marker means the failure
// classification is unknown, which is treated as transient.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	detail := joinDetail(stage, operation, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a stage error to the queue status to persist. Bad input,
// bad configuration, and missing resources need a human before a retry can
// succeed, so those park the item in review.
func FailureStatus(err error) queue.Status {
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrConfiguration) || errors.Is(err, ErrNotFound) {
		return queue.StatusReview
	}
	return queue.StatusFailed
}

func joinDetail(parts ...string) string {
	kept := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return "service failure"
	}
	return strings.Join(kept, ": ")
}
