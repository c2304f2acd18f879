package progress

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ytget/video-downloader/internal/model"
)

// Emitter delivers an event to whoever listens (usually the UI hub)
type Emitter func(model.Event)

// Options configures a Normalizer for a single download job
type Options struct {
	TaskID string
	// Done is the job's cancellation token; once closed every Handle call
	// returns model.ErrCancelled.
	Done <-chan struct{}
	// Plan is nil for single-item downloads
	Plan *model.PlaylistPlan
	Emit Emitter
	// Limiter throttles "progress" events only. Nil means no throttling.
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

// Normalizer converts engine samples into display progress for one job
type Normalizer struct {
	opts   Options
	logger *slog.Logger

	mu        sync.Mutex
	finished  map[string]struct{}
	completed int
	lastTitle string
}

// NewNormalizer creates a normalizer bound to one download job
func NewNormalizer(opts Options) *Normalizer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		opts:     opts,
		logger:   logger,
		finished: make(map[string]struct{}),
	}
}

// Completed returns how many playlist items finished so far
func (n *Normalizer) Completed() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.completed
}

// LastTitle returns the title of the most recently seen item
func (n *Normalizer) LastTitle() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastTitle
}

// Handle processes one engine tick. The only error it returns is
// model.ErrCancelled; any other fault is logged and swallowed so the
// engine keeps running.
func (n *Normalizer) Handle(sample model.ProgressSample) (err error) {
	if n.cancelled() {
		return model.ErrCancelled
	}

	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("progress handler panicked",
				"task", n.opts.TaskID, "panic", r, "stack", string(debug.Stack()))
			err = nil
		}
	}()

	switch sample.Status {
	case model.SampleDownloading:
		n.handleDownloading(sample)
	case model.SampleFinished:
		n.handleFinished(sample)
	default:
		n.logger.Debug("ignoring progress sample", "task", n.opts.TaskID, "status", sample.Status)
	}
	return nil
}

func (n *Normalizer) cancelled() bool {
	if n.opts.Done == nil {
		return false
	}
	select {
	case <-n.opts.Done:
		return true
	default:
		return false
	}
}

// Display builds the UI values for a downloading sample
func Display(sample model.ProgressSample) model.DisplayProgress {
	total := sample.TotalBytes
	if total <= 0 {
		total = sample.TotalBytesEstimate
	}
	percent := Percent(sample.DownloadedBytes, total)
	if total <= 0 {
		if p, ok := parsePercentText(sample.PercentText); ok {
			percent = p
		}
	}

	return model.DisplayProgress{
		Percent:       percent,
		Speed:         preferText(sample.SpeedText, FormatSpeed(sample.Speed)),
		ETA:           preferText(sample.ETAText, FormatETA(sample.ETASec)),
		Size:          preferText(sample.TotalText, FormatSize(sample.DownloadedBytes, sample.TotalBytes, sample.TotalBytesEstimate)),
		Title:         StripANSI(sample.Title),
		PlaylistIndex: sample.PlaylistIndex,
	}
}

func parsePercentText(text string) (float64, bool) {
	clean := strings.TrimSuffix(StripANSI(text), "%")
	if clean == "" {
		return 0, false
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(clean), 64)
	if err != nil {
		return 0, false
	}
	switch {
	case p < 0:
		p = 0
	case p > 100:
		p = 100
	}
	return p, true
}

func (n *Normalizer) handleDownloading(sample model.ProgressSample) {
	display := Display(sample)
	n.resolveItem(sample, &display)

	n.mu.Lock()
	if display.Title != "" {
		n.lastTitle = display.Title
	}
	n.mu.Unlock()

	if n.opts.Limiter != nil && display.Percent < 100 && !n.opts.Limiter.Allow() {
		return
	}
	n.emit(model.Event{
		Type:     model.EventProgress,
		TaskID:   n.opts.TaskID,
		Progress: &display,
	})
}

// resolveItem fills the title and one-based playlist position from the plan
func (n *Normalizer) resolveItem(sample model.ProgressSample, display *model.DisplayProgress) {
	entry, ok := n.opts.Plan.EntryByID(sample.ItemID)
	if !ok {
		return
	}
	if display.Title == "" {
		display.Title = entry.Title
	}
	if display.PlaylistIndex == 0 {
		display.PlaylistIndex = entry.Index + 1
	}
}

// itemKey identifies the item a sample belongs to. A merged download
// reports "finished" once per stream, so counting must be per item.
func itemKey(sample model.ProgressSample) string {
	switch {
	case sample.ItemID != "":
		return "id:" + sample.ItemID
	case sample.PlaylistIndex > 0:
		return "idx:" + strconv.Itoa(sample.PlaylistIndex)
	case sample.Title != "":
		return "title:" + sample.Title
	default:
		return ""
	}
}

func (n *Normalizer) handleFinished(sample model.ProgressSample) {
	display := Display(sample)
	display.Percent = 100
	n.resolveItem(sample, &display)

	key := itemKey(sample)

	n.mu.Lock()
	if key != "" {
		if _, seen := n.finished[key]; seen {
			n.mu.Unlock()
			return
		}
		n.finished[key] = struct{}{}
	}
	if display.Title != "" {
		n.lastTitle = display.Title
	}
	total := n.opts.Plan.Total()
	var playlist *model.PlaylistProgress
	if n.opts.Plan != nil {
		if n.completed < total || total == 0 {
			n.completed++
		}
		playlist = &model.PlaylistProgress{
			Completed:    n.completed,
			Total:        total,
			CurrentTitle: display.Title,
			Active:       n.completed < total,
		}
	}
	n.mu.Unlock()

	message := "Processing..."
	if display.Title != "" {
		message = fmt.Sprintf("Processing %s", display.Title)
	}
	n.emit(model.Event{
		Type:     model.EventProcessing,
		TaskID:   n.opts.TaskID,
		Progress: &display,
		Message:  message,
	})

	if playlist != nil {
		n.emit(model.Event{
			Type:     model.EventPlaylistProgress,
			TaskID:   n.opts.TaskID,
			Playlist: playlist,
		})
	}
}

func (n *Normalizer) emit(ev model.Event) {
	if n.opts.Emit != nil {
		n.opts.Emit(ev)
	}
}
