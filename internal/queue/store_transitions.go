package queue

import (
	"context"
	"fmt"
	"time"
)

// ResetStuckProcessing resets items in processing states back to the start of their current stage.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items
         SET status = CASE status
             WHEN ? THEN ?
             WHEN ? THEN ?
             WHEN ? THEN ?
             WHEN ? THEN ?
             ELSE status
         END,
             progress_stage = 'Reset from stuck processing',
             progress_percent = 0, progress_message = NULL, last_heartbeat = NULL, updated_at = ?
         WHERE status IN (?, ?, ?, ?)`,
		StatusScripting, StatusPending,
		StatusVoicing, StatusScripted,
		StatusRendering, StatusVoiced,
		StatusPackaging, StatusRendered,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusScripting,
		StatusVoicing,
		StatusRendering,
		StatusPackaging,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck items: %w", err)
	}
	return res.RowsAffected()
}

// UpdateHeartbeat updates the last heartbeat timestamp for an in-flight item.
func (s *Store) UpdateHeartbeat(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE queue_items SET last_heartbeat = ?, updated_at = ? WHERE id = ?`,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
		id,
	); err != nil {
		return fmt.Errorf("update heartbeat: %w", err)
	}
	return nil
}

// ReclaimStaleProcessing returns items stuck in processing back to the start
// of their current stage when heartbeats expire. When statuses are provided,
// only those processing states are considered; otherwise all are.
func (s *Store) ReclaimStaleProcessing(ctx context.Context, cutoff time.Time, statuses ...Status) (int64, error) {
	if len(statuses) == 0 {
		statuses = []Status{StatusScripting, StatusVoicing, StatusRendering, StatusPackaging}
	}
	now := time.Now().UTC()

	args := []any{
		StatusScripting, StatusPending,
		StatusVoicing, StatusScripted,
		StatusRendering, StatusVoiced,
		StatusPackaging, StatusRendered,
		now.Format(time.RFC3339Nano),
	}
	for _, status := range statuses {
		args = append(args, status)
	}
	args = append(args, cutoff.UTC().Format(time.RFC3339Nano))

	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items
        SET status = CASE status
            WHEN ? THEN ?
            WHEN ? THEN ?
            WHEN ? THEN ?
            WHEN ? THEN ?
            ELSE status
        END,
            progress_stage = 'Reclaimed from stale processing',
            progress_percent = 0, progress_message = NULL, last_heartbeat = NULL, updated_at = ?
        WHERE status IN (`+makePlaceholders(len(statuses))+`) AND last_heartbeat IS NOT NULL AND last_heartbeat < ?`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale items: %w", err)
	}
	return res.RowsAffected()
}

// UpdateProgress persists only the progress fields for an item, leaving the
// heartbeat untouched so frequent progress writes do not mask stalls.
func (s *Store) UpdateProgress(ctx context.Context, item *Item) error {
	if item == nil {
		return fmt.Errorf("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE queue_items
        SET progress_stage = ?, progress_percent = ?, progress_message = ?, updated_at = ?
        WHERE id = ?`,
		nullableString(item.ProgressStage),
		item.ProgressPercent,
		nullableString(item.ProgressMessage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	); err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// RetryFailed moves failed items back to pending for reprocessing.
func (s *Store) RetryFailed(ctx context.Context, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		res, err := s.execWithRetry(
			ctx,
			`UPDATE queue_items
            SET status = ?, progress_stage = 'Retry requested', progress_percent = 0,
                progress_message = NULL, error_message = NULL, updated_at = ?
            WHERE status = ?`,
			StatusPending,
			time.Now().UTC().Format(time.RFC3339Nano),
			StatusFailed,
		)
		if err != nil {
			return 0, fmt.Errorf("retry failed items: %w", err)
		}
		return res.RowsAffected()
	}

	placeholders := makePlaceholders(len(ids))
	args := make([]any, 0, len(ids)+2)
	args = append(args, StatusPending, time.Now().UTC().Format(time.RFC3339Nano))
	for _, id := range ids {
		args = append(args, id)
	}
	query := `UPDATE queue_items
        SET status = ?, progress_stage = 'Retry requested', progress_percent = 0,
            progress_message = NULL, error_message = NULL, updated_at = ?
        WHERE id IN (` + placeholders + `) AND status = '` + string(StatusFailed) + `'`
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retry selected items: %w", err)
	}
	return res.RowsAffected()
}

// ResumeReview moves a review item back into the workflow at the given status.
// Used after an operator addresses the review reason.
func (s *Store) ResumeReview(ctx context.Context, id int64, status Status) error {
	if _, ok := statusSet[status]; !ok {
		return fmt.Errorf("unknown status %q", status)
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE queue_items
        SET status = ?, needs_review = 0, review_reason = NULL,
            progress_stage = 'Resumed from review', progress_percent = 0,
            progress_message = NULL, error_message = NULL, updated_at = ?
        WHERE id = ? AND status = ?`,
		status,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		StatusReview,
	); err != nil {
		return fmt.Errorf("resume review item: %w", err)
	}
	return nil
}
