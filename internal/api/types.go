package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// QueueItem describes an episode production in a transport-friendly format.
type QueueItem struct {
	ID           int64         `json:"id"`
	ProductionID string        `json:"productionId"`
	ShowID       string        `json:"showId"`
	ShowTitle    string        `json:"showTitle"`
	EpisodeTitle string        `json:"episodeTitle"`
	EpisodeIndex int           `json:"episodeIndex"`
	Topic        string        `json:"topic,omitempty"`
	Status       string        `json:"status"`
	Progress     QueueProgress `json:"progress"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	CreatedAt    string        `json:"createdAt,omitempty"`
	UpdatedAt    string        `json:"updatedAt,omitempty"`
	ScriptFile   string        `json:"scriptFile,omitempty"`
	AudioFile    string        `json:"audioFile,omitempty"`
	VideoFile    string        `json:"videoFile,omitempty"`
	ClipsDir     string        `json:"clipsDir,omitempty"`
	FinalFile    string        `json:"finalFile,omitempty"`
	NeedsReview  bool          `json:"needsReview"`
	ReviewReason string        `json:"reviewReason,omitempty"`
}

// QueueProgress captures stage progress information for a queue entry.
type QueueProgress struct {
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Message string  `json:"message"`
}

// WorkflowStatus summarizes workflow execution state.
type WorkflowStatus struct {
	Running     bool           `json:"running"`
	QueueStats  map[string]int `json:"queueStats"`
	LastError   string         `json:"lastError,omitempty"`
	LastItem    *QueueItem     `json:"lastItem,omitempty"`
	StageHealth []StageHealth  `json:"stageHealth"`
}

// StageHealth mirrors readiness reporting for workflow stages.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	QueueDBPath  string             `json:"queueDbPath"`
	LockFilePath string             `json:"lockFilePath"`
	Workflow     WorkflowStatus     `json:"workflow"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// Character describes a cast member for API consumers.
type Character struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role,omitempty"`
	Description   string `json:"description,omitempty"`
	VoiceProvider string `json:"voiceProvider,omitempty"`
	VoiceID       string `json:"voiceId,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// Episode describes a planned or produced show episode.
type Episode struct {
	Title    string `json:"title"`
	Topic    string `json:"topic,omitempty"`
	Tone     string `json:"tone,omitempty"`
	RefNotes string `json:"refNotes,omitempty"`
	Status   string `json:"status"`
}

// Show describes a show definition for API consumers.
type Show struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Format         string    `json:"format,omitempty"`
	TargetDuration string    `json:"targetDuration,omitempty"`
	Cast           []string  `json:"characters"`
	Narrator       string    `json:"narrator,omitempty"`
	VisualStyle    string    `json:"visualStyle,omitempty"`
	CreatedAt      string    `json:"createdAt,omitempty"`
	Episodes       []Episode `json:"episodes"`
}

// QueueStatsResponse provides a normalized queue stats payload.
type QueueStatsResponse struct {
	Counts map[string]int `json:"counts"`
}

// QueueListResponse wraps a collection of queue items for API responses.
type QueueListResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueItemResponse wraps a single queue item.
type QueueItemResponse struct {
	Item QueueItem `json:"item"`
}

// RosterResponse wraps the character roster.
type RosterResponse struct {
	Characters []Character `json:"characters"`
}

// ShowListResponse wraps the show catalog.
type ShowListResponse struct {
	Shows []Show `json:"shows"`
}

// ProduceRequest asks the daemon to queue an episode for production.
type ProduceRequest struct {
	ShowID       string `json:"showId"`
	EpisodeIndex int    `json:"episodeIndex"`
}

// ProduceResponse reports the queued production.
type ProduceResponse struct {
	Item QueueItem `json:"item"`
}

// LogTailResponse carries a chunk of daemon log lines along with the offset
// to resume from on the next request.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}
