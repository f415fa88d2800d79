package testsupport

import (
	"context"
	"testing"

	"showrunner/internal/config"
	"showrunner/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewEpisode creates a new pending episode item for tests using the provided store.
func NewEpisode(t testing.TB, store *queue.Store, showTitle, episodeTitle string) *queue.Item {
	t.Helper()

	item, err := store.NewEpisode(context.Background(), "show-test", showTitle, episodeTitle, 1, "test topic")
	if err != nil {
		t.Fatalf("store.NewEpisode: %v", err)
	}
	return item
}
