package queue

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScripting Status = "scripting"
	StatusScripted  Status = "scripted"
	StatusVoicing   Status = "voicing"
	StatusVoiced    Status = "voiced"
	StatusRendering Status = "rendering"
	StatusRendered  Status = "rendered"
	StatusPackaging Status = "packaging"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusReview    Status = "review"
)

// UserStopReason is the review reason set when a user explicitly stops an item.
const UserStopReason = "Stop requested by user"

// DaemonStopReason is the error message set when items are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusScripting,
	StatusScripted,
	StatusVoicing,
	StatusVoiced,
	StatusRendering,
	StatusRendered,
	StatusPackaging,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusScripting: {},
	StatusVoicing:   {},
	StatusRendering: {},
	StatusPackaging: {},
}

// DatabaseHealth captures diagnostic information about the queue database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    string
	TableExists      bool
	ColumnsPresent   []string
	MissingColumns   []string
	IntegrityCheck   bool
	TotalItems       int
	Error            string
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Review     int
	Completed  int
}

// Item represents an episode production persisted in SQLite.
type Item struct {
	ID              int64
	ProductionID    string
	ShowID          string
	ShowTitle       string
	EpisodeTitle    string
	EpisodeIndex    int
	Topic           string
	Status          Status
	ScriptFile      string
	AudioFile       string
	VideoFile       string
	ClipsDir        string
	FinalFile       string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	MetadataJSON    string
	LastHeartbeat   *time.Time
	NeedsReview     bool
	ReviewReason    string
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (i Item) IsProcessing() bool {
	_, ok := processingStatuses[i.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsUserStopReason reports whether a review reason represents a user-initiated stop.
func IsUserStopReason(reason string) bool {
	return strings.EqualFold(strings.TrimSpace(reason), UserStopReason)
}

// InitProgress resets progress fields for a new stage.
// If ProgressStage is currently empty, it is set to the provided stage value;
// otherwise the existing stage is preserved (to support resume scenarios).
// ProgressMessage is set to message, ProgressPercent is reset to 0,
// and ErrorMessage is cleared.
func (i *Item) InitProgress(stage, message string) {
	if i.ProgressStage == "" {
		i.ProgressStage = stage
	}
	i.ProgressMessage = message
	i.ProgressPercent = 0
	i.ErrorMessage = ""
}

// SetProgress updates all three progress fields atomically.
// Use this instead of setting ProgressStage, ProgressPercent, and ProgressMessage individually.
func (i *Item) SetProgress(stage, message string, percent float64) {
	i.ProgressStage = stage
	i.ProgressMessage = message
	i.ProgressPercent = percent
}

// SetProgressComplete sets progress to 100% with the given stage and message.
// Convenience method for stage completion.
func (i *Item) SetProgressComplete(stage, message string) {
	i.SetProgress(stage, message, 100)
}

// SetFailed marks the item as failed with the given error message.
// Clears heartbeat and sets progress fields appropriately.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
	i.ProgressPercent = 0
	i.ProgressMessage = message
	i.LastHeartbeat = nil
	i.ProgressStage = "Failed"
}

// SetReview moves the item to manual review with the given reason.
func (i *Item) SetReview(reason string) {
	i.Status = StatusReview
	i.NeedsReview = true
	i.ReviewReason = reason
	i.LastHeartbeat = nil
}

// IsInWorkflow returns true when an item is actively progressing (or queued to
// progress) through stages and has not reached a terminal or parked state.
func (i Item) IsInWorkflow() bool {
	if i.IsProcessing() {
		return true
	}
	switch i.Status {
	case StatusPending, StatusScripted, StatusVoiced, StatusRendered:
		return true
	default:
		return false
	}
}

// ProductionDirName returns the directory name holding this production's
// artifacts under the outputs root. It is derived from immutable fields so
// every stage resolves the same path.
func (i Item) ProductionDirName() string {
	return fmt.Sprintf("%s_%d_%s", i.ShowID, i.EpisodeIndex, i.CreatedAt.UTC().Format("20060102_1504"))
}

// Label returns the display title used in logs and CLI output.
func (i Item) Label() string {
	show := strings.TrimSpace(i.ShowTitle)
	episode := strings.TrimSpace(i.EpisodeTitle)
	switch {
	case show != "" && episode != "":
		return show + ": " + episode
	case episode != "":
		return episode
	case show != "":
		return show
	default:
		return "Untitled Episode"
	}
}
