package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/ytget/video-downloader/internal/download"
	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/update"
)

// Server limits
const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
	readTimeout     = 15 * time.Second
)

// Error codes the UI reacts to
const (
	CodeFFmpegMissing = "ffmpeg_missing"
	CodeBusy          = "busy"
)

// ConfigStore is the configuration surface the UI can read and change
type ConfigStore interface {
	Snapshot() model.AppConfig
	SetDownloadFolder(dir string) error
	SetCookiesFile(path string) error
	SetTuning(t model.Tuning) error
	GetDownloadFolder() string
}

// InfoFetcher reads media metadata
type InfoFetcher interface {
	FetchInfo(ctx context.Context, rawURL string) (*model.MediaInfo, error)
}

// FFmpegInstaller checks for and installs ffmpeg
type FFmpegInstaller interface {
	Available() bool
	Install(ctx context.Context, report func(model.InstallStatus)) error
}

// UpdateChecker finds and downloads new releases
type UpdateChecker interface {
	Check(ctx context.Context) (*model.ReleaseInfo, error)
	Download(ctx context.Context, url, dir string, report func(percent int)) (string, error)
}

// UpdateApplier hands a downloaded release to the companion process
type UpdateApplier interface {
	Apply(source string) error
}

// Options wires a Server
type Options struct {
	AppName   string
	Version   string
	WebRoot   string
	UpdateDir string

	Config    ConfigStore
	Downloads download.Downloader
	Media     InfoFetcher
	FFmpeg    FFmpegInstaller
	Updates   UpdateChecker
	Applier   UpdateApplier
	Hub       *Hub

	// OpenFolder opens a directory in the file manager
	OpenFolder func(dir string) error
	// OnExit is called after an update was handed to the companion
	OnExit func()

	Logger *slog.Logger
}

// Server is the HTTP side of the UI bridge
type Server struct {
	opts   Options
	logger *slog.Logger
	mux    *http.ServeMux

	ctx context.Context

	installing  atomic.Bool
	downloading atomic.Bool
}

// NewServer builds the routes. Background work started by requests is
// bound to ctx.
func NewServer(ctx context.Context, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Hub == nil {
		opts.Hub = NewHub(DefaultSubscriberBuffer, opts.Logger)
	}
	s := &Server{
		opts:   opts,
		logger: opts.Logger,
		mux:    http.NewServeMux(),
		ctx:    ctx,
	}
	if opts.Downloads != nil {
		opts.Downloads.SetUpdateCallback(opts.Hub.Publish)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/app", s.handleApp)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)

	s.mux.HandleFunc("GET /api/config", s.handleGetConfig)
	s.mux.HandleFunc("POST /api/config/download-folder", s.handleSetDownloadFolder)
	s.mux.HandleFunc("POST /api/config/cookies", s.handleSetCookies)
	s.mux.HandleFunc("POST /api/config/tuning", s.handleSetTuning)
	s.mux.HandleFunc("POST /api/folder/open", s.handleOpenFolder)

	s.mux.HandleFunc("POST /api/info", s.handleInfo)
	s.mux.HandleFunc("POST /api/detect-site", s.handleDetectSite)
	s.mux.HandleFunc("GET /api/sites", s.handleSites)

	s.mux.HandleFunc("POST /api/download", s.handleStartDownload)
	s.mux.HandleFunc("POST /api/download/cancel", s.handleCancelDownload)
	s.mux.HandleFunc("GET /api/download/current", s.handleCurrentDownload)

	s.mux.HandleFunc("GET /api/ffmpeg", s.handleFFmpegStatus)
	s.mux.HandleFunc("POST /api/ffmpeg/install", s.handleFFmpegInstall)

	s.mux.HandleFunc("GET /api/update/check", s.handleUpdateCheck)
	s.mux.HandleFunc("POST /api/update/download", s.handleUpdateDownload)
	s.mux.HandleFunc("POST /api/update/apply", s.handleUpdateApply)

	if s.opts.WebRoot != "" {
		s.mux.Handle("GET /", http.FileServer(http.Dir(s.opts.WebRoot)))
	}
}

// Handler returns the root handler with logging and panic recovery
func (s *Server) Handler() http.Handler {
	return s.recoverer(s.logRequests(s.mux))
}

// Serve accepts connections on ln until ctx is done
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("bridge listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("bridge shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration", time.Since(start))
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("handler panicked", "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

type okResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Debug("failed to write response", "err", err)
	}
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, okResponse{Success: true})
}

// writeError maps domain errors to a status and a {success:false} body
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: err.Error()}

	switch {
	case errors.Is(err, model.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrFFmpegMissing):
		status = http.StatusPreconditionFailed
		resp.Code = CodeFFmpegMissing
	case errors.Is(err, model.ErrDownloadInProgress):
		status = http.StatusConflict
		resp.Code = CodeBusy
	case errors.Is(err, model.ErrNoActiveDownload):
		status = http.StatusConflict
	case errors.Is(err, model.ErrNoUpdateAsset), errors.Is(err, model.ErrNotPlaylist):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrUnsupportedPlatform), errors.Is(err, update.ErrDevelopmentBuild):
		status = http.StatusNotImplemented
	}
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", "err", err)
	}
	writeJSON(w, status, resp)
}

// decode reads a JSON body into dst
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidRequest, err)
	}
	return nil
}
