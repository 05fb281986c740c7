package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"airdate/internal/catalog"
	"airdate/internal/daemon"
	"airdate/internal/logging"
	"airdate/internal/logs"
	"airdate/internal/publisher"
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
	if err := rpcServer.RegisterName("Airdate", srv); err != nil {
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
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
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
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String("impact", "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
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
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String("impact", "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually or rerun airdate stop"))
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

func parseStatuses(values []string) []catalog.Status {
	statuses := make([]catalog.Status, 0, len(values))
	for _, value := range values {
		parsed, ok := catalog.ParseStatus(value)
		if !ok {
			continue
		}
		statuses = append(statuses, parsed)
	}
	return statuses
}

func passSummary(result publisher.PassResult) PassSummary {
	return PassSummary{
		PassID:     result.PassID,
		StartedAt:  result.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: result.Duration.Milliseconds(),
		Due:        result.Due,
		Published:  result.Published,
		Skipped:    result.Skipped,
		Failed:     result.Failed,
	}
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
	s.log().Info("daemon started via IPC",
		logging.String(logging.FieldEventType, "daemon_start"))
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.CatalogDBPath = status.CatalogDBPath
	resp.LockPath = status.LockFilePath
	resp.PID = os.Getpid()
	resp.EpisodeStats = make(map[string]int, len(status.Publisher.CatalogStats.Episodes))
	for k, v := range status.Publisher.CatalogStats.Episodes {
		resp.EpisodeStats[string(k)] = v
	}
	resp.SeriesStats = make(map[string]int, len(status.Publisher.CatalogStats.Series))
	for k, v := range status.Publisher.CatalogStats.Series {
		resp.SeriesStats[string(k)] = v
	}
	resp.LastError = status.Publisher.LastError
	if status.Publisher.LastPass != nil {
		summary := passSummary(*status.Publisher.LastPass)
		resp.LastPass = &summary
	}
	return nil
}

func (s *service) EpisodeList(req EpisodeListRequest, resp *EpisodeListResponse) error {
	episodes, err := s.daemon.ListEpisodes(s.ctx, parseStatuses(req.Statuses))
	if err != nil {
		return err
	}
	resp.Episodes = make([]Episode, 0, len(episodes))
	for _, episode := range episodes {
		if episode == nil {
			continue
		}
		resp.Episodes = append(resp.Episodes, FromEpisode(episode))
	}
	return nil
}

func (s *service) SeriesList(req SeriesListRequest, resp *SeriesListResponse) error {
	series, err := s.daemon.ListSeries(s.ctx, parseStatuses(req.Statuses))
	if err != nil {
		return err
	}
	resp.Series = make([]Series, 0, len(series))
	for _, entry := range series {
		if entry == nil {
			continue
		}
		resp.Series = append(resp.Series, FromSeries(entry))
	}
	return nil
}

func (s *service) Publish(req PublishRequest, resp *PublishResponse) error {
	s.log().Debug("manual publish requested", logging.String(logging.FieldEpisodeID, req.EpisodeID))
	if err := s.daemon.PublishNow(s.ctx, req.EpisodeID); err != nil {
		return err
	}
	resp.Published = true
	s.log().Info("episode published via IPC",
		logging.String(logging.FieldEventType, "episode_publish"),
		logging.String(logging.FieldEpisodeID, req.EpisodeID))
	return nil
}

func (s *service) Schedule(req ScheduleRequest, resp *ScheduleResponse) error {
	publishAt, err := time.Parse(time.RFC3339, req.PublishAt)
	if err != nil {
		return fmt.Errorf("parse publish time: %w", err)
	}
	if err := s.daemon.ScheduleEpisode(s.ctx, req.EpisodeID, publishAt); err != nil {
		return err
	}
	resp.Scheduled = true
	s.log().Info("episode scheduled via IPC",
		logging.String(logging.FieldEventType, "episode_schedule"),
		logging.String(logging.FieldEpisodeID, req.EpisodeID))
	return nil
}

func (s *service) Unschedule(req UnscheduleRequest, resp *UnscheduleResponse) error {
	if err := s.daemon.UnscheduleEpisode(s.ctx, req.EpisodeID); err != nil {
		return err
	}
	resp.Unscheduled = true
	s.log().Info("episode unscheduled via IPC",
		logging.String(logging.FieldEventType, "episode_unschedule"),
		logging.String(logging.FieldEpisodeID, req.EpisodeID))
	return nil
}

func (s *service) Archive(req ArchiveRequest, resp *ArchiveResponse) error {
	if err := s.daemon.ArchiveEpisode(s.ctx, req.EpisodeID); err != nil {
		return err
	}
	resp.Archived = true
	s.log().Info("episode archived via IPC",
		logging.String(logging.FieldEventType, "episode_archive"),
		logging.String(logging.FieldEpisodeID, req.EpisodeID))
	return nil
}

func (s *service) RunPass(_ RunPassRequest, resp *RunPassResponse) error {
	s.log().Debug("manual pass requested")
	result, err := s.daemon.RunPassNow(s.ctx)
	if err != nil {
		return err
	}
	resp.Pass = passSummary(result)
	return nil
}

func (s *service) Stats(_ StatsRequest, resp *StatsResponse) error {
	stats, err := s.daemon.CatalogStats(s.ctx)
	if err != nil {
		return err
	}
	resp.Episodes = make(map[string]int, len(stats.Episodes))
	for k, v := range stats.Episodes {
		resp.Episodes[string(k)] = v
	}
	resp.Series = make(map[string]int, len(stats.Series))
	for k, v := range stats.Series {
		resp.Series[string(k)] = v
	}
	return nil
}

func (s *service) CatalogHealth(_ CatalogHealthRequest, resp *CatalogHealthResponse) error {
	health, err := s.daemon.CatalogHealth(s.ctx)
	if err != nil {
		return err
	}
	resp.Episodes = health.Episodes
	resp.Scheduled = health.Scheduled
	resp.Published = health.Published
	resp.Overdue = health.Overdue
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
	resp.TablesPresent = append(resp.TablesPresent, health.TablesPresent...)
	resp.MissingTables = append(resp.MissingTables, health.MissingTables...)
	resp.IntegrityCheck = health.IntegrityCheck
	resp.TotalEpisodes = health.TotalEpisodes
	resp.Error = health.Error
	if err != nil {
		return err
	}
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}

func (s *service) Seed(_ SeedRequest, resp *SeedResponse) error {
	s.log().Debug("demo seed requested")
	result, err := s.daemon.Seed(s.ctx)
	if err != nil {
		return err
	}
	resp.Series = result.Series
	resp.Seasons = result.Seasons
	resp.Episodes = result.Episodes
	return nil
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
