package api_test

import (
	"context"
	"testing"

	"showrunner/internal/api"
	"showrunner/internal/queue"
	"showrunner/internal/testsupport"
)

func TestQueueServiceListAndDescribe(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	svc := api.NewQueueService(store)

	first := testsupport.NewEpisode(t, store, "AI House", "Move-In Day")
	testsupport.NewEpisode(t, store, "AI House", "The Blackout")

	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	pending, err := svc.List(context.Background(), queue.StatusPending)
	if err != nil {
		t.Fatalf("List pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending items, got %d", len(pending))
	}

	item, err := svc.Describe(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if item == nil || item.EpisodeTitle != "Move-In Day" {
		t.Fatalf("unexpected item: %+v", item)
	}

	missing, err := svc.Describe(context.Background(), 9999)
	if err != nil {
		t.Fatalf("Describe missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing item, got %+v", missing)
	}
}

func TestQueueServiceStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	svc := api.NewQueueService(store)

	testsupport.NewEpisode(t, store, "AI House", "Move-In Day")

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Counts["pending"] != 1 {
		t.Fatalf("unexpected counts: %v", stats.Counts)
	}
}
