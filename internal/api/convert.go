package api

import (
	"sort"
	"time"

	"showrunner/internal/queue"
	"showrunner/internal/roster"
	"showrunner/internal/shows"
	"showrunner/internal/workflow"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

// FromQueueItem converts a queue model into its transport representation.
func FromQueueItem(item *queue.Item) QueueItem {
	if item == nil {
		return QueueItem{}
	}
	return QueueItem{
		ID:           item.ID,
		ProductionID: item.ProductionID,
		ShowID:       item.ShowID,
		ShowTitle:    item.ShowTitle,
		EpisodeTitle: item.EpisodeTitle,
		EpisodeIndex: item.EpisodeIndex,
		Topic:        item.Topic,
		Status:       string(item.Status),
		Progress: QueueProgress{
			Stage:   item.ProgressStage,
			Percent: item.ProgressPercent,
			Message: item.ProgressMessage,
		},
		ErrorMessage: item.ErrorMessage,
		CreatedAt:    formatTime(item.CreatedAt),
		UpdatedAt:    formatTime(item.UpdatedAt),
		ScriptFile:   item.ScriptFile,
		AudioFile:    item.AudioFile,
		VideoFile:    item.VideoFile,
		ClipsDir:     item.ClipsDir,
		FinalFile:    item.FinalFile,
		NeedsReview:  item.NeedsReview,
		ReviewReason: item.ReviewReason,
	}
}

// FromStatusSummary converts the workflow summary into its transport shape.
// Stage health entries are sorted by name for stable output.
func FromStatusSummary(summary workflow.StatusSummary) WorkflowStatus {
	status := WorkflowStatus{
		Running:   summary.Running,
		LastError: summary.LastError,
	}
	if len(summary.QueueStats) > 0 {
		status.QueueStats = make(map[string]int, len(summary.QueueStats))
		for key, value := range summary.QueueStats {
			status.QueueStats[string(key)] = value
		}
	}
	if summary.LastItem != nil {
		item := FromQueueItem(summary.LastItem)
		status.LastItem = &item
	}
	if len(summary.StageHealth) > 0 {
		names := make([]string, 0, len(summary.StageHealth))
		for name := range summary.StageHealth {
			names = append(names, name)
		}
		sort.Strings(names)
		status.StageHealth = make([]StageHealth, 0, len(names))
		for _, name := range names {
			health := summary.StageHealth[name]
			status.StageHealth = append(status.StageHealth, StageHealth{
				Name:   name,
				Ready:  health.Ready,
				Detail: health.Detail,
			})
		}
	}
	return status
}

// FromCharacter converts a roster model into its transport representation.
func FromCharacter(ch roster.Character) Character {
	return Character{
		ID:            ch.ID,
		Name:          ch.Name,
		Role:          ch.Role,
		Description:   ch.Description,
		VoiceProvider: ch.VoiceProvider,
		VoiceID:       ch.VoiceID,
		CreatedAt:     formatTime(ch.CreatedAt),
	}
}

// FromShow converts a show model into its transport representation.
func FromShow(show shows.Show) Show {
	dto := Show{
		ID:             show.ID,
		Title:          show.Title,
		Description:    show.Description,
		Format:         show.Format,
		TargetDuration: show.TargetDuration,
		Cast:           append([]string(nil), show.Cast...),
		Narrator:       show.Narrator,
		VisualStyle:    show.VisualStyle,
		CreatedAt:      formatTime(show.CreatedAt),
		Episodes:       make([]Episode, 0, len(show.Episodes)),
	}
	for _, ep := range show.Episodes {
		dto.Episodes = append(dto.Episodes, Episode{
			Title:    ep.Title,
			Topic:    ep.Topic,
			Tone:     ep.Tone,
			RefNotes: ep.RefNotes,
			Status:   ep.Status,
		})
	}
	return dto
}
