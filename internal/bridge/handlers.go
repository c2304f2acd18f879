package bridge

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/ytget/video-downloader/internal/media"
	"github.com/ytget/video-downloader/internal/model"
)

type appResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (s *Server) handleApp(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, appResponse{Success: true, Name: s.opts.AppName, Version: s.opts.Version})
}

type configResponse struct {
	Success bool `json:"success"`
	model.AppConfig
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{Success: true, AppConfig: s.opts.Config.Snapshot()})
}

type pathRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleSetDownloadFolder(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	dir := strings.TrimSpace(req.Path)
	if dir == "" {
		s.writeError(w, fmt.Errorf("%w: folder is required", model.ErrInvalidRequest))
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		s.writeError(w, fmt.Errorf("%w: %s is not a folder", model.ErrInvalidRequest, dir))
		return
	}
	if err := s.opts.Config.SetDownloadFolder(dir); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("download folder changed", "dir", dir)
	writeOK(w)
}

// handleSetCookies accepts an empty path to clear the cookies file
func (s *Server) handleSetCookies(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	path := strings.TrimSpace(req.Path)
	if path != "" {
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			s.writeError(w, fmt.Errorf("%w: cookies file %s not found", model.ErrInvalidRequest, path))
			return
		}
	}
	if err := s.opts.Config.SetCookiesFile(path); err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w)
}

func (s *Server) handleSetTuning(w http.ResponseWriter, r *http.Request) {
	var req model.Tuning
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.opts.Config.SetTuning(req); err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w)
}

func (s *Server) handleOpenFolder(w http.ResponseWriter, r *http.Request) {
	if s.opts.OpenFolder == nil {
		s.writeError(w, model.ErrUnsupportedPlatform)
		return
	}
	var req pathRequest
	// body is optional; the download folder is the default
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, err)
		return
	}
	dir := strings.TrimSpace(req.Path)
	if dir == "" {
		dir = s.opts.Config.GetDownloadFolder()
	}
	if err := s.opts.OpenFolder(dir); err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w)
}

type urlRequest struct {
	URL string `json:"url"`
}

func (r urlRequest) valid() (string, error) {
	u := strings.TrimSpace(r.URL)
	if u == "" {
		return "", fmt.Errorf("%w: url is required", model.ErrInvalidRequest)
	}
	return u, nil
}

type infoResponse struct {
	Success bool `json:"success"`
	*model.MediaInfo
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	u, err := req.valid()
	if err != nil {
		s.writeError(w, err)
		return
	}
	info, err := s.opts.Media.FetchInfo(r.Context(), u)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infoResponse{Success: true, MediaInfo: info})
}

type siteResponse struct {
	Success bool `json:"success"`
	model.SiteInfo
}

func (s *Server) handleDetectSite(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, siteResponse{Success: true, SiteInfo: media.DetectSite(req.URL)})
}

type sitesResponse struct {
	Success bool     `json:"success"`
	Sites   []string `json:"sites"`
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sitesResponse{Success: true, Sites: media.SupportedSites()})
}

type taskResponse struct {
	Success bool                `json:"success"`
	Active  bool                `json:"active"`
	Task    *model.DownloadTask `json:"task,omitempty"`
}

func (s *Server) handleStartDownload(w http.ResponseWriter, r *http.Request) {
	var req model.DownloadRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	task, err := s.opts.Downloads.Start(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, taskResponse{Success: true, Active: true, Task: task})
}

func (s *Server) handleCancelDownload(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Downloads.Cancel(); err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w)
}

func (s *Server) handleCurrentDownload(w http.ResponseWriter, r *http.Request) {
	task, ok := s.opts.Downloads.Current()
	if !ok {
		writeJSON(w, http.StatusOK, taskResponse{Success: true})
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Success: true, Active: task.Status.IsActive(), Task: task})
}

type ffmpegResponse struct {
	Success    bool `json:"success"`
	Available  bool `json:"available"`
	Installing bool `json:"installing"`
}

func (s *Server) handleFFmpegStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ffmpegResponse{
		Success:    true,
		Available:  s.opts.FFmpeg.Available(),
		Installing: s.installing.Load(),
	})
}

// handleFFmpegInstall starts the installer in the background. Progress is
// pushed as ffmpeg_status events.
func (s *Server) handleFFmpegInstall(w http.ResponseWriter, r *http.Request) {
	if !s.installing.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "ffmpeg install already running", Code: CodeBusy})
		return
	}

	go func() {
		defer s.installing.Store(false)
		err := s.opts.FFmpeg.Install(s.ctx, func(st model.InstallStatus) {
			s.opts.Hub.Publish(model.Event{Type: model.EventFFmpegStatus, Install: &st, Message: st.Message})
		})
		if err != nil {
			s.logger.Error("ffmpeg install failed", "err", err)
			return
		}
		s.logger.Info("ffmpeg installed")
	}()

	writeJSON(w, http.StatusAccepted, okResponse{Success: true})
}

type updateCheckResponse struct {
	Success bool `json:"success"`
	*model.ReleaseInfo
}

func (s *Server) handleUpdateCheck(w http.ResponseWriter, r *http.Request) {
	info, err := s.opts.Updates.Check(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updateCheckResponse{Success: true, ReleaseInfo: info})
}

func (s *Server) handleUpdateDownload(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	u, err := req.valid()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !s.downloading.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "update download already running", Code: CodeBusy})
		return
	}

	go func() {
		defer s.downloading.Store(false)
		path, err := s.opts.Updates.Download(s.ctx, u, s.opts.UpdateDir, func(percent int) {
			s.opts.Hub.Publish(model.Event{Type: model.EventUpdateProgress, Percent: percent})
		})
		result := model.Result{Outcome: model.OutcomeCompleted, Message: "Update downloaded", Path: path}
		if err != nil {
			s.logger.Error("update download failed", "err", err)
			result = model.Result{Outcome: model.OutcomeFailed, Message: err.Error()}
		}
		s.opts.Hub.Publish(model.Event{Type: model.EventUpdateComplete, Result: &result, Message: result.Message})
	}()

	writeJSON(w, http.StatusAccepted, okResponse{Success: true})
}

func (s *Server) handleUpdateApply(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		s.writeError(w, fmt.Errorf("%w: update path is required", model.ErrInvalidRequest))
		return
	}
	if err := s.opts.Applier.Apply(req.Path); err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w)

	if s.opts.OnExit != nil {
		s.logger.Info("update handed over, exiting")
		go s.opts.OnExit()
	}
}
