package daemon

import (
	"context"
	"strings"
	"testing"

	"showrunner/internal/config"
	"showrunner/internal/logging"
	"showrunner/internal/queue"
	"showrunner/internal/roster"
	"showrunner/internal/shows"
	"showrunner/internal/stage"
	"showrunner/internal/testsupport"
	"showrunner/internal/workflow"
)

type passthroughStage struct{ name string }

func (p passthroughStage) Prepare(context.Context, *queue.Item) error { return nil }
func (p passthroughStage) Execute(context.Context, *queue.Item) error { return nil }
func (p passthroughStage) HealthCheck(context.Context) stage.Health   { return stage.Healthy(p.name) }

func newTestDaemon(t *testing.T) (*Daemon, *config.Config) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()

	rosterStore, err := roster.NewStore(cfg.RosterPath(), logger)
	if err != nil {
		t.Fatalf("roster.NewStore failed: %v", err)
	}
	catalog, err := shows.NewStore(cfg.ShowsPath(), logger)
	if err != nil {
		t.Fatalf("shows.NewStore failed: %v", err)
	}

	wf := workflow.NewManager(cfg, store, logger)
	wf.ConfigureStages(workflow.StageSet{
		Scripter: passthroughStage{name: "scripting"},
		Voicer:   passthroughStage{name: "voicing"},
		Packager: passthroughStage{name: "packaging"},
	})

	d, err := New(cfg, store, logger, wf, rosterStore, catalog, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return d, cfg
}

func seedShow(t *testing.T, d *Daemon) shows.Show {
	t.Helper()
	show, err := d.Catalog().Create(shows.Show{
		Title:  "House of Bots",
		Format: "sitcom",
		Cast:   []string{"ada", "grace"},
		Episodes: []shows.Episode{
			{Title: "Move-In Day", Topic: "five ais share a house"},
			{Title: "The Crash", Topic: "the house wifi dies"},
		},
	})
	if err != nil {
		t.Fatalf("Create show failed: %v", err)
	}
	return show
}

func TestProduceQueuesEpisodeFromCatalog(t *testing.T) {
	d, _ := newTestDaemon(t)
	show := seedShow(t, d)
	ctx := context.Background()

	item, err := d.Produce(ctx, show.ID, 2)
	if err != nil {
		t.Fatalf("Produce failed: %v", err)
	}
	if item.ShowID != show.ID || item.EpisodeIndex != 2 {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.EpisodeTitle != "The Crash" {
		t.Errorf("episode title = %q, want %q", item.EpisodeTitle, "The Crash")
	}
	if item.Status != queue.StatusPending {
		t.Errorf("status = %q, want %q", item.Status, queue.StatusPending)
	}

	updated, _ := d.Catalog().Get(show.ID)
	if updated.Episodes[1].Status != shows.EpisodeQueued {
		t.Errorf("catalog episode status = %q, want %q", updated.Episodes[1].Status, shows.EpisodeQueued)
	}
}

func TestProduceRejectsUnknownShowAndIndex(t *testing.T) {
	d, _ := newTestDaemon(t)
	show := seedShow(t, d)
	ctx := context.Background()

	if _, err := d.Produce(ctx, "nope", 1); err == nil {
		t.Error("expected error for unknown show")
	}
	if _, err := d.Produce(ctx, show.ID, 0); err == nil {
		t.Error("expected error for index 0")
	}
	if _, err := d.Produce(ctx, show.ID, 3); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestQueueDelegates(t *testing.T) {
	d, _ := newTestDaemon(t)
	ctx := context.Background()

	item := testsupport.NewEpisode(t, d.store, "House of Bots", "Move-In Day")

	items, err := d.ListQueue(ctx, nil)
	if err != nil {
		t.Fatalf("ListQueue failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != item.ID {
		t.Fatalf("unexpected queue contents: %+v", items)
	}

	got, err := d.GetQueueItem(ctx, item.ID)
	if err != nil || got == nil {
		t.Fatalf("GetQueueItem failed: item=%v err=%v", got, err)
	}

	health, err := d.QueueHealth(ctx)
	if err != nil {
		t.Fatalf("QueueHealth failed: %v", err)
	}
	if health.Total != 1 || health.Pending != 1 {
		t.Errorf("unexpected health: %+v", health)
	}

	removed, err := d.RemoveQueueItems(ctx, []int64{item.ID, 9999})
	if err != nil {
		t.Fatalf("RemoveQueueItems failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}

func TestTestNotificationWithoutTopic(t *testing.T) {
	d, _ := newTestDaemon(t)

	sent, message, err := d.TestNotification(context.Background())
	if err != nil {
		t.Fatalf("TestNotification failed: %v", err)
	}
	if sent {
		t.Error("expected notification to be skipped without a topic")
	}
	if !strings.Contains(message, "not configured") {
		t.Errorf("unexpected message: %q", message)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	d, cfg := newTestDaemon(t)
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()

	if err := d.Start(ctx); err == nil {
		t.Error("second Start should fail while running")
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Error("status should report running")
	}
	if status.PID == 0 {
		t.Error("status should report a pid")
	}
	if status.LockFilePath != cfg.LockFilePath() {
		t.Errorf("lock path = %q, want %q", status.LockFilePath, cfg.LockFilePath())
	}
	if len(status.Workflow.StageHealth) == 0 {
		t.Error("expected stage health entries")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Error("status should report stopped after Stop")
	}
}
