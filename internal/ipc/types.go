package ipc

import "showrunner/internal/api"

// StartRequest triggers daemon workflow startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops daemon workflow.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// QueueItem mirrors the HTTP API queue DTO for internal IPC callers.
type QueueItem = api.QueueItem

// StageHealth describes readiness of a workflow stage.
type StageHealth = api.StageHealth

// DependencyStatus describes availability of an external dependency.
type DependencyStatus = api.DependencyStatus

// Character mirrors the HTTP API roster DTO.
type Character = api.Character

// Show mirrors the HTTP API show DTO.
type Show = api.Show

// StatusResponse represents combined daemon/workflow status information.
type StatusResponse struct {
	Running      bool               `json:"running"`
	QueueStats   map[string]int     `json:"queue_stats"`
	LastError    string             `json:"last_error"`
	LastItem     *QueueItem         `json:"last_item"`
	LockPath     string             `json:"lock_path"`
	QueueDBPath  string             `json:"queue_db_path"`
	StageHealth  []StageHealth      `json:"stage_health"`
	Dependencies []DependencyStatus `json:"dependencies"`
	PID          int                `json:"pid"`
}

// QueueListRequest filters queue listing by status.
type QueueListRequest struct {
	Statuses []string `json:"statuses"`
}

// QueueListResponse contains queue entries.
type QueueListResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueDescribeRequest fetches a single queue item by id.
type QueueDescribeRequest struct {
	ID int64 `json:"id"`
}

// QueueDescribeResponse contains a single queue entry.
type QueueDescribeResponse struct {
	Item QueueItem `json:"item"`
}

// QueueClearRequest removes all items.
type QueueClearRequest struct{}

// QueueClearResponse reports number of removed entries.
type QueueClearResponse struct {
	Removed int64 `json:"removed"`
}

// QueueClearCompletedRequest removes completed items.
type QueueClearCompletedRequest struct{}

// QueueClearCompletedResponse reports number of removed entries.
type QueueClearCompletedResponse struct {
	Removed int64 `json:"removed"`
}

// QueueClearFailedRequest removes failed items.
type QueueClearFailedRequest struct{}

// QueueClearFailedResponse reports number of removed entries.
type QueueClearFailedResponse struct {
	Removed int64 `json:"removed"`
}

// QueueRemoveRequest deletes specific queue items by id.
type QueueRemoveRequest struct {
	IDs []int64 `json:"ids"`
}

// QueueRemoveResponse reports number of removed entries.
type QueueRemoveResponse struct {
	Removed int64 `json:"removed"`
}

// QueueResetRequest resets items stuck in processing states.
type QueueResetRequest struct{}

// QueueResetResponse reports number of reset entries.
type QueueResetResponse struct {
	Updated int64 `json:"updated"`
}

// QueueRetryRequest retries failed items, all of them when IDs is empty.
type QueueRetryRequest struct {
	IDs []int64 `json:"ids"`
}

// QueueRetryResponse reports number of retried entries.
type QueueRetryResponse struct {
	Updated int64 `json:"updated"`
}

// QueueHealthRequest fetches aggregate queue counts.
type QueueHealthRequest struct{}

// QueueHealthResponse reports aggregate queue counts.
type QueueHealthResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Failed     int `json:"failed"`
	Review     int `json:"review"`
	Completed  int `json:"completed"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports detailed database diagnostics.
type DatabaseHealthResponse struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	SchemaVersion    string   `json:"schema_version"`
	TableExists      bool     `json:"table_exists"`
	ColumnsPresent   []string `json:"columns_present"`
	MissingColumns   []string `json:"missing_columns"`
	IntegrityCheck   bool     `json:"integrity_check"`
	TotalItems       int      `json:"total_items"`
	Error            string   `json:"error"`
}

// ProduceRequest queues one episode of a show for production.
type ProduceRequest struct {
	ShowID       string `json:"show_id"`
	EpisodeIndex int    `json:"episode_index"`
}

// ProduceResponse reports the queued production.
type ProduceResponse struct {
	Item QueueItem `json:"item"`
}

// RosterListRequest fetches the character roster.
type RosterListRequest struct{}

// RosterListResponse contains the character roster.
type RosterListResponse struct {
	Characters []Character `json:"characters"`
}

// ShowListRequest fetches the show catalog.
type ShowListRequest struct{}

// ShowListResponse contains the show catalog.
type ShowListResponse struct {
	Shows []Show `json:"shows"`
}

// TestNotificationRequest triggers a test notification.
type TestNotificationRequest struct{}

// TestNotificationResponse reports the test notification outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

// LogTailRequest fetches daemon log lines.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int64 `json:"wait_millis"`
}

// LogTailResponse carries daemon log lines plus the resume offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}
