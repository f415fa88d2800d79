package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"showrunner/internal/config"
	"showrunner/internal/deps"
	"showrunner/internal/logging"
	"showrunner/internal/metrics"
	"showrunner/internal/notifications"
	"showrunner/internal/queue"
	"showrunner/internal/roster"
	"showrunner/internal/shows"
	"showrunner/internal/workflow"
)

// Daemon coordinates the background production services and enforces
// single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *queue.Store
	workflow *workflow.Manager
	roster   *roster.Store
	catalog  *shows.Store
	notifier notifications.Service

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	Workflow     workflow.StatusSummary
	Dependencies []deps.Status
	QueueDBPath  string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, wf *workflow.Manager, rosterStore *roster.Store, catalog *shows.Store, notifier notifications.Service) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || wf == nil {
		return nil, errors.New("daemon requires config, store, logger, and workflow manager")
	}

	lockPath := cfg.LockFilePath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		workflow: wf,
		roster:   rosterStore,
		catalog:  catalog,
		notifier: notifier,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock, launches the workflow manager, and brings
// up the HTTP API when one is configured.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another show runner daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.workflow.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start workflow: %w", err)
	}

	if d.api != nil {
		if err := d.api.start(d.ctx); err != nil {
			d.logger.Warn("api server unavailable", logging.Error(err))
		}
	}

	d.running.Store(true)
	d.logger.Info("show runner daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.workflow.Stop()
	if d.api != nil {
		d.api.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("show runner daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Produce queues one episode of a show for production. index is the 1-based
// position in the show's episode list.
func (d *Daemon) Produce(ctx context.Context, showID string, index int) (*queue.Item, error) {
	if d.catalog == nil {
		return nil, errors.New("show catalog unavailable")
	}
	show, ok := d.catalog.Get(strings.TrimSpace(showID))
	if !ok {
		return nil, fmt.Errorf("show %q not found", showID)
	}
	if index < 1 || index > len(show.Episodes) {
		return nil, fmt.Errorf("show %q has no episode %d", show.Title, index)
	}
	episode := show.Episodes[index-1]

	item, err := d.store.NewEpisode(ctx, show.ID, show.Title, episode.Title, index, episode.Topic)
	if err != nil {
		return nil, fmt.Errorf("queue episode: %w", err)
	}
	if err := d.catalog.SetEpisodeStatus(show.ID, index-1, shows.EpisodeQueued); err != nil {
		d.logger.Warn("could not mark episode queued", logging.Error(err))
	}
	metrics.EpisodesQueuedTotal.Inc()
	d.logger.Info("episode queued for production",
		logging.Int64(logging.FieldItemID, item.ID),
		logging.String(logging.FieldShowID, show.ID),
		logging.String(logging.FieldEpisodeTitle, episode.Title))

	if d.notifier != nil {
		payload := notifications.Payload{"show": show.Title, "episode": episode.Title}
		if err := d.notifier.Publish(ctx, notifications.EventProductionQueued, payload); err != nil {
			d.logger.Debug("queue notification failed", logging.Error(err))
		}
	}
	return item, nil
}

// ListQueue returns queue items filtered by optional statuses.
func (d *Daemon) ListQueue(ctx context.Context, statuses []queue.Status) ([]*queue.Item, error) {
	if d.store == nil {
		return nil, errors.New("queue store unavailable")
	}
	return d.store.List(ctx, statuses...)
}

// GetQueueItem returns a single queue item by id, or nil when missing.
func (d *Daemon) GetQueueItem(ctx context.Context, id int64) (*queue.Item, error) {
	if d.store == nil {
		return nil, errors.New("queue store unavailable")
	}
	return d.store.GetByID(ctx, id)
}

// ClearQueue removes all queue items.
func (d *Daemon) ClearQueue(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.Clear(ctx)
}

// ClearCompleted removes only completed queue items.
func (d *Daemon) ClearCompleted(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.ClearCompleted(ctx)
}

// ClearFailed removes only failed queue items.
func (d *Daemon) ClearFailed(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.ClearFailed(ctx)
}

// RemoveQueueItems deletes specific queue items by id.
func (d *Daemon) RemoveQueueItems(ctx context.Context, ids []int64) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	var removed int64
	for _, id := range ids {
		ok, err := d.store.Remove(ctx, id)
		if err != nil {
			return removed, err
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}

// ResetStuck transitions in-flight items back to their stage start for retry.
func (d *Daemon) ResetStuck(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.ResetStuckProcessing(ctx)
}

// RetryFailed resets failed items (optionally a subset) back to pending.
func (d *Daemon) RetryFailed(ctx context.Context, ids []int64) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.RetryFailed(ctx, ids...)
}

// QueueHealth returns aggregate queue diagnostics.
func (d *Daemon) QueueHealth(ctx context.Context) (queue.HealthSummary, error) {
	if d.store == nil {
		return queue.HealthSummary{}, errors.New("queue store unavailable")
	}
	return d.store.Health(ctx)
}

// DatabaseHealth returns detailed database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (queue.DatabaseHealth, error) {
	if d.store == nil {
		return queue.DatabaseHealth{}, errors.New("queue store unavailable")
	}
	return d.store.CheckHealth(ctx)
}

// Roster returns the character roster store.
func (d *Daemon) Roster() *roster.Store { return d.roster }

// Catalog returns the show catalog store.
func (d *Daemon) Catalog() *shows.Store { return d.catalog }

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg == nil {
		return false, "configuration unavailable", errors.New("configuration unavailable")
	}
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := d.notifier
	if notifier == nil {
		notifier = notifications.NewService(d.cfg)
	}
	if err := notifier.Publish(ctx, notifications.EventTest, nil); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.cfg.LogFilePath()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	summary := d.workflow.Status(ctx)
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Workflow:     summary,
		Dependencies: deps.CheckBinaries(deps.Requirements(d.cfg)),
		QueueDBPath:  d.cfg.QueueDatabasePath(),
		LockFilePath: d.lockPath,
	}
}
