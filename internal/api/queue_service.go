package api

import (
	"context"
	"errors"

	"showrunner/internal/queue"
)

// QueueService provides read access to the queue in transport shapes. The
// daemon HTTP handlers and the CLI's offline fallback both consume it.
type QueueService struct {
	store *queue.Store
}

// NewQueueService wraps a queue store.
func NewQueueService(store *queue.Store) *QueueService {
	return &QueueService{store: store}
}

// List returns queue items, optionally filtered by status, newest first per
// the store's ordering.
func (s *QueueService) List(ctx context.Context, statuses ...queue.Status) ([]QueueItem, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("queue store unavailable")
	}
	items, err := s.store.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	out := make([]QueueItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, FromQueueItem(item))
	}
	return out, nil
}

// Describe returns a single queue item, or nil when it does not exist.
func (s *QueueService) Describe(ctx context.Context, id int64) (*QueueItem, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("queue store unavailable")
	}
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	dto := FromQueueItem(item)
	return &dto, nil
}

// Stats returns queue counts keyed by status string.
func (s *QueueService) Stats(ctx context.Context) (QueueStatsResponse, error) {
	if s == nil || s.store == nil {
		return QueueStatsResponse{}, errors.New("queue store unavailable")
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return QueueStatsResponse{}, err
	}
	counts := make(map[string]int, len(stats))
	for status, count := range stats {
		counts[string(status)] = count
	}
	return QueueStatsResponse{Counts: counts}, nil
}
