package queue

import (
	"database/sql"
	"errors"
	"time"
)

const itemColumns = "id, production_id, show_id, show_title, episode_title, episode_index, topic, status, script_file, audio_file, video_file, clips_dir, final_file, error_message, created_at, updated_at, progress_stage, progress_percent, progress_message, metadata_json, last_heartbeat, needs_review, review_reason"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id               int64
		productionID     sql.NullString
		showID           sql.NullString
		showTitle        sql.NullString
		episodeTitle     sql.NullString
		episodeIndex     sql.NullInt64
		topic            sql.NullString
		statusStr        string
		scriptFile       sql.NullString
		audioFile        sql.NullString
		videoFile        sql.NullString
		clipsDir         sql.NullString
		finalFile        sql.NullString
		errorMessage     sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
		progressStage    sql.NullString
		progressPercent  sql.NullFloat64
		progressMessage  sql.NullString
		metadata         sql.NullString
		lastHeartbeatRaw sql.NullString
		needsReview      sql.NullInt64
		reviewReason     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&productionID,
		&showID,
		&showTitle,
		&episodeTitle,
		&episodeIndex,
		&topic,
		&statusStr,
		&scriptFile,
		&audioFile,
		&videoFile,
		&clipsDir,
		&finalFile,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&progressStage,
		&progressPercent,
		&progressMessage,
		&metadata,
		&lastHeartbeatRaw,
		&needsReview,
		&reviewReason,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:              id,
		ProductionID:    productionID.String,
		ShowID:          showID.String,
		ShowTitle:       showTitle.String,
		EpisodeTitle:    episodeTitle.String,
		EpisodeIndex:    int(episodeIndex.Int64),
		Topic:           topic.String,
		Status:          Status(statusStr),
		ScriptFile:      scriptFile.String,
		AudioFile:       audioFile.String,
		VideoFile:       videoFile.String,
		ClipsDir:        clipsDir.String,
		FinalFile:       finalFile.String,
		ErrorMessage:    errorMessage.String,
		ProgressStage:   progressStage.String,
		ProgressPercent: progressPercent.Float64,
		ProgressMessage: progressMessage.String,
		MetadataJSON:    metadata.String,
	}
	if needsReview.Valid {
		item.NeedsReview = needsReview.Int64 != 0
	}
	item.ReviewReason = reviewReason.String

	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	if lastHeartbeatRaw.Valid {
		if heartbeat, err := parseTimeString(lastHeartbeatRaw.String); err == nil {
			item.LastHeartbeat = &heartbeat
		}
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	v := value.UTC().Format(time.RFC3339Nano)
	return v
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
