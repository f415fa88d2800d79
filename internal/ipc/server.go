package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sort"
	"sync"
	"time"

	"log/slog"

	"showrunner/internal/api"
	"showrunner/internal/daemon"
	"showrunner/internal/logging"
	"showrunner/internal/logs"
	"showrunner/internal/queue"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("ShowRunner", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("ipc server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("ipc accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.log().Debug("daemon start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.QueueDBPath = status.QueueDBPath
	resp.LockPath = status.LockFilePath
	resp.QueueStats = make(map[string]int, len(status.Workflow.QueueStats))
	for k, v := range status.Workflow.QueueStats {
		resp.QueueStats[string(k)] = v
	}
	resp.LastError = status.Workflow.LastError
	if status.Workflow.LastItem != nil {
		item := api.FromQueueItem(status.Workflow.LastItem)
		resp.LastItem = &item
	}
	if len(status.Workflow.StageHealth) > 0 {
		names := make([]string, 0, len(status.Workflow.StageHealth))
		for name := range status.Workflow.StageHealth {
			names = append(names, name)
		}
		sort.Strings(names)
		resp.StageHealth = make([]StageHealth, 0, len(names))
		for _, name := range names {
			health := status.Workflow.StageHealth[name]
			resp.StageHealth = append(resp.StageHealth, StageHealth{
				Name:   name,
				Ready:  health.Ready,
				Detail: health.Detail,
			})
		}
	}
	for _, dep := range status.Dependencies {
		resp.Dependencies = append(resp.Dependencies, DependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Description: dep.Description,
			Optional:    dep.Optional,
			Available:   dep.Available,
			Detail:      dep.Detail,
		})
	}
	return nil
}

func (s *service) Produce(req ProduceRequest, resp *ProduceResponse) error {
	item, err := s.daemon.Produce(s.ctx, req.ShowID, req.EpisodeIndex)
	if err != nil {
		return err
	}
	resp.Item = api.FromQueueItem(item)
	s.log().Info("episode queued via ipc",
		logging.Int64(logging.FieldItemID, item.ID),
		logging.String(logging.FieldShowID, item.ShowID))
	return nil
}

func (s *service) QueueList(req QueueListRequest, resp *QueueListResponse) error {
	statuses := make([]queue.Status, 0, len(req.Statuses))
	for _, status := range req.Statuses {
		parsed, ok := queue.ParseStatus(status)
		if !ok {
			continue
		}
		statuses = append(statuses, parsed)
	}
	items, err := s.daemon.ListQueue(s.ctx, statuses)
	if err != nil {
		return err
	}
	resp.Items = make([]QueueItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		resp.Items = append(resp.Items, api.FromQueueItem(item))
	}
	return nil
}

func (s *service) QueueDescribe(req QueueDescribeRequest, resp *QueueDescribeResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid queue item id %d", req.ID)
	}
	item, err := s.daemon.GetQueueItem(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("queue item %d not found", req.ID)
	}
	resp.Item = api.FromQueueItem(item)
	return nil
}

func (s *service) QueueClear(_ QueueClearRequest, resp *QueueClearResponse) error {
	removed, err := s.daemon.ClearQueue(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	s.log().Info("queue cleared", logging.Int64("removed_count", removed))
	return nil
}

func (s *service) QueueClearCompleted(_ QueueClearCompletedRequest, resp *QueueClearCompletedResponse) error {
	removed, err := s.daemon.ClearCompleted(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	return nil
}

func (s *service) QueueClearFailed(_ QueueClearFailedRequest, resp *QueueClearFailedResponse) error {
	removed, err := s.daemon.ClearFailed(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	return nil
}

func (s *service) QueueRemove(req QueueRemoveRequest, resp *QueueRemoveResponse) error {
	if len(req.IDs) == 0 {
		return errors.New("queue remove requires at least one id")
	}
	removed, err := s.daemon.RemoveQueueItems(s.ctx, req.IDs)
	if err != nil {
		return err
	}
	resp.Removed = removed
	return nil
}

func (s *service) QueueReset(_ QueueResetRequest, resp *QueueResetResponse) error {
	updated, err := s.daemon.ResetStuck(s.ctx)
	if err != nil {
		return err
	}
	resp.Updated = updated
	s.log().Info("queue stuck items reset", logging.Int64("updated_count", updated))
	return nil
}

func (s *service) QueueRetry(req QueueRetryRequest, resp *QueueRetryResponse) error {
	updated, err := s.daemon.RetryFailed(s.ctx, req.IDs)
	if err != nil {
		return err
	}
	resp.Updated = updated
	return nil
}

func (s *service) QueueHealth(_ QueueHealthRequest, resp *QueueHealthResponse) error {
	health, err := s.daemon.QueueHealth(s.ctx)
	if err != nil {
		return err
	}
	resp.Total = health.Total
	resp.Pending = health.Pending
	resp.Processing = health.Processing
	resp.Failed = health.Failed
	resp.Review = health.Review
	resp.Completed = health.Completed
	return nil
}

func (s *service) DatabaseHealth(_ DatabaseHealthRequest, resp *DatabaseHealthResponse) error {
	health, err := s.daemon.DatabaseHealth(s.ctx)
	if err != nil && health.Error == "" {
		return err
	}
	resp.DBPath = health.DBPath
	resp.DatabaseExists = health.DatabaseExists
	resp.DatabaseReadable = health.DatabaseReadable
	resp.SchemaVersion = health.SchemaVersion
	resp.TableExists = health.TableExists
	resp.ColumnsPresent = append(resp.ColumnsPresent, health.ColumnsPresent...)
	resp.MissingColumns = append(resp.MissingColumns, health.MissingColumns...)
	resp.IntegrityCheck = health.IntegrityCheck
	resp.TotalItems = health.TotalItems
	resp.Error = health.Error
	return err
}

func (s *service) RosterList(_ RosterListRequest, resp *RosterListResponse) error {
	store := s.daemon.Roster()
	if store == nil {
		return nil
	}
	for _, ch := range store.List() {
		resp.Characters = append(resp.Characters, api.FromCharacter(ch))
	}
	return nil
}

func (s *service) ShowList(_ ShowListRequest, resp *ShowListResponse) error {
	catalog := s.daemon.Catalog()
	if catalog == nil {
		return nil
	}
	for _, show := range catalog.List() {
		resp.Shows = append(resp.Shows, api.FromShow(show))
	}
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 && req.Follow {
		wait = time.Second
	}
	options := logs.TailOptions{
		Offset: req.Offset,
		Limit:  req.Limit,
		Follow: req.Follow,
		Wait:   wait,
	}
	ctx := s.ctx
	if req.Follow && wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wait+500*time.Millisecond)
		defer cancel()
	}
	result, err := logs.Tail(ctx, logPath, options)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			resp.Offset = result.Offset
			return nil
		}
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}
