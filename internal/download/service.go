package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ytget/video-downloader/internal/extractor"
	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/platform"
	"github.com/ytget/video-downloader/internal/progress"
)

// Progress push rate for the UI
const (
	DefaultProgressEvery = 100 * time.Millisecond
	progressBurst        = 1
)

// Terminal messages
const (
	MessageCompleted = "Download completed!"
	MessageCancelled = "Download cancelled"
)

// Service runs at most one download at a time
type Service struct {
	engine   extractor.Engine
	planner  Planner
	ffmpeg   FFmpegLocator
	settings Settings
	logger   *slog.Logger

	progressEvery time.Duration

	baseCtx  context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup

	mu       sync.Mutex
	active   *job
	last     *model.DownloadTask
	onUpdate func(model.Event)
}

// job is the state owned by one download run
type job struct {
	task  *model.DownloadTask
	token *CancelToken
}

// NewService creates a new download service
func NewService(engine extractor.Engine, planner Planner, ffmpeg FFmpegLocator, settings Settings, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		engine:        engine,
		planner:       planner,
		ffmpeg:        ffmpeg,
		settings:      settings,
		logger:        logger,
		progressEvery: DefaultProgressEvery,
		baseCtx:       ctx,
		shutdown:      cancel,
	}
}

// SetUpdateCallback sets the callback receiving every push event
func (s *Service) SetUpdateCallback(callback func(model.Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// SetProgressInterval sets the minimum gap between progress events.
// Zero disables throttling.
func (s *Service) SetProgressInterval(every time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progressEvery = every
}

// Start validates req and launches it on a worker goroutine. The returned
// task is an acknowledgement snapshot; outcome arrives as a
// download_complete event.
func (s *Service) Start(req model.DownloadRequest) (*model.DownloadTask, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// merging video and transcoding audio both need ffmpeg
	ffmpegDir, ok := s.ffmpeg.Locate()
	if !ok {
		return nil, model.ErrFFmpegMissing
	}

	s.mu.Lock()
	if s.active != nil {
		s.mu.Unlock()
		return nil, model.ErrDownloadInProgress
	}
	task := &model.DownloadTask{
		ID:        uuid.NewString(),
		URL:       req.URL,
		Mode:      req.Mode,
		Quality:   req.Quality,
		Playlist:  req.Playlist,
		Status:    model.TaskStatusStarting,
		StartedAt: time.Now(),
	}
	j := &job{task: task, token: NewCancelToken()}
	s.active = j
	s.last = task
	snapshot := *task
	s.mu.Unlock()

	s.logger.Info("download started", "task", task.ID, "url", req.URL, "mode", req.Mode,
		"quality", req.Quality, "playlist", req.Playlist)

	s.wg.Add(1)
	go s.run(j, req, ffmpegDir)

	return &snapshot, nil
}

// Cancel sets the active job's token. The worker notices at its next
// progress tick.
func (s *Service) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return model.ErrNoActiveDownload
	}
	s.active.token.Cancel()
	s.active.task.Status = model.TaskStatusCancelling
	s.logger.Info("download cancel requested", "task", s.active.task.ID)
	return nil
}

// Current returns a snapshot of the active task, or the last one finished
func (s *Service) Current() (*model.DownloadTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return nil, false
	}
	snapshot := *s.last
	return &snapshot, true
}

// Busy reports whether a download is running
func (s *Service) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

// Wait blocks until the running worker, if any, has reported its outcome
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close cancels any running download and waits for its worker
func (s *Service) Close() {
	s.mu.Lock()
	if s.active != nil {
		s.active.token.Cancel()
	}
	s.mu.Unlock()
	s.shutdown()
	s.Wait()
}

// run is the worker body. It always ends with exactly one terminal event.
func (s *Service) run(j *job, req model.DownloadRequest, ffmpegDir string) {
	defer s.wg.Done()

	ctx, stop := context.WithCancel(s.baseCtx)
	defer stop()
	go func() {
		select {
		case <-j.token.Done():
			stop()
		case <-ctx.Done():
		}
	}()

	var result model.Result
	targetDir := s.settings.GetDownloadFolder()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("download worker panicked", "task", j.task.ID, "panic", r)
			result = model.Result{Outcome: model.OutcomeFailed, Message: fmt.Sprint(r)}
		}
		s.finish(j, result)
	}()

	result = s.execute(ctx, j, req, targetDir, ffmpegDir)
}

func (s *Service) execute(ctx context.Context, j *job, req model.DownloadRequest, targetDir, ffmpegDir string) model.Result {
	if err := platform.CreateDirectoryIfNotExists(targetDir); err != nil {
		return failed(fmt.Errorf("cannot create download folder: %w", err))
	}
	cookies := s.settings.GetCookiesFile()
	if !platform.FileExists(cookies) {
		cookies = ""
	}

	var plan *model.PlaylistPlan
	if req.IsPlaylist() {
		s.updateTask(j, func(t *model.DownloadTask) { t.Status = model.TaskStatusProbing })
		plan, targetDir = s.preparePlaylist(ctx, j, req, targetDir, cookies)
		if j.token.Cancelled() {
			return s.cancelled(j, targetDir)
		}
		if plan != nil && plan.Total() == 0 {
			return failed(fmt.Errorf("%w: none of the selected playlist items exist", model.ErrInvalidRequest))
		}
	}
	s.updateTask(j, func(t *model.DownloadTask) {
		t.TargetDir = targetDir
		if plan != nil {
			t.Title = plan.Title
		}
	})

	opts := BuildOptions(Job{
		Request:     req,
		TargetDir:   targetDir,
		Plan:        plan,
		CookiesFile: cookies,
		FFmpegDir:   ffmpegDir,
		Tuning:      s.settings.GetTuning(),
	})

	normalizer := progress.NewNormalizer(progress.Options{
		TaskID:  j.task.ID,
		Done:    j.token.Done(),
		Plan:    plan,
		Emit:    func(ev model.Event) { s.onProgressEvent(j, ev) },
		Limiter: s.newLimiter(),
		Logger:  s.logger,
	})

	s.updateTask(j, func(t *model.DownloadTask) { t.Status = model.TaskStatusDownloading })
	err := s.engine.Download(ctx, opts, normalizer.Handle)

	switch {
	case j.token.Cancelled() || errors.Is(err, model.ErrCancelled):
		return s.cancelled(j, targetDir)
	case err != nil:
		return failed(err)
	}

	s.updateTask(j, func(t *model.DownloadTask) {
		if t.Title == "" {
			t.Title = normalizer.LastTitle()
		}
	})
	message := MessageCompleted
	if plan != nil {
		message = fmt.Sprintf("Playlist downloaded: %d of %d items", normalizer.Completed(), plan.Total())
	}
	return model.Result{Outcome: model.OutcomeCompleted, Message: message, Path: targetDir}
}

// preparePlaylist resolves the plan and its subfolder. Any failure falls
// back to the top-level folder without a plan.
func (s *Service) preparePlaylist(ctx context.Context, j *job, req model.DownloadRequest, baseDir, cookies string) (*model.PlaylistPlan, string) {
	plan, err := s.planner.Plan(ctx, req.URL, req.Playlist, req.SelectedIndices, cookies)
	if err != nil {
		s.logger.Warn("playlist probe failed, using download folder", "task", j.task.ID, "err", err)
		return nil, baseDir
	}

	dir := filepath.Join(baseDir, platform.SanitizeFolderName(plan.Title))
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		s.logger.Warn("cannot create playlist folder, using download folder", "task", j.task.ID, "dir", dir, "err", err)
		return plan, baseDir
	}
	s.logger.Info("playlist resolved", "task", j.task.ID, "title", plan.Title,
		"items", plan.Total(), "of", plan.SourceCount, "dir", dir)
	return plan, dir
}

func (s *Service) cancelled(j *job, targetDir string) model.Result {
	removed, err := platform.CleanupPartials(targetDir)
	if err != nil {
		s.logger.Warn("partial cleanup incomplete", "task", j.task.ID, "dir", targetDir, "err", err)
	}
	s.logger.Info("download cancelled", "task", j.task.ID, "removed", len(removed))
	return model.Result{Outcome: model.OutcomeCancelled, Message: MessageCancelled, Path: targetDir}
}

func failed(err error) model.Result {
	return model.Result{Outcome: model.OutcomeFailed, Message: progress.StripANSI(err.Error())}
}

func (s *Service) newLimiter() *rate.Limiter {
	s.mu.Lock()
	every := s.progressEvery
	s.mu.Unlock()
	if every <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(every), progressBurst)
}

// onProgressEvent mirrors the event into the task snapshot and forwards it
func (s *Service) onProgressEvent(j *job, ev model.Event) {
	s.updateTask(j, func(t *model.DownloadTask) {
		if t.Status == model.TaskStatusCancelling {
			return
		}
		switch ev.Type {
		case model.EventProgress:
			t.Status = model.TaskStatusDownloading
		case model.EventProcessing:
			t.Status = model.TaskStatusProcessing
		}
		if p := ev.Progress; p != nil {
			t.Percent = p.Percent
			t.Speed = p.Speed
			t.ETA = p.ETA
			t.Size = p.Size
			if p.Title != "" && t.Playlist == model.PlaylistSingle {
				t.Title = p.Title
			}
		}
	})
	s.notify(ev)
}

func (s *Service) finish(j *job, result model.Result) {
	s.mu.Lock()
	task := j.task
	task.Status = result.Outcome.TaskStatus()
	task.FinishedAt = time.Now()
	if result.Success() {
		task.Percent = 100
	}
	if result.Outcome == model.OutcomeFailed {
		task.LastError = result.Message
	}
	if s.active == j {
		s.active = nil
	}
	s.mu.Unlock()

	if result.Outcome == model.OutcomeFailed {
		s.logger.Error("download failed", "task", task.ID, "err", result.Message)
	} else {
		s.logger.Info("download finished", "task", task.ID, "title", task.GetDisplayTitle(), "outcome", result.Outcome,
			"elapsed", task.FinishedAt.Sub(task.StartedAt).Round(time.Millisecond))
	}

	s.notify(model.Event{
		Type:    model.EventDownloadComplete,
		TaskID:  task.ID,
		Result:  &result,
		Message: result.Message,
	})
}

func (s *Service) updateTask(j *job, mutate func(*model.DownloadTask)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(j.task)
}

// notify calls the update callback if set
func (s *Service) notify(ev model.Event) {
	s.mu.Lock()
	callback := s.onUpdate
	s.mu.Unlock()
	if callback != nil {
		callback(ev)
	}
}
