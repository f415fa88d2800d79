package outputs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"showrunner/internal/queue"
)

// Manifest is the production.json record written next to the final artifacts.
// It lets downstream publishing tooling consume a production without touching
// the queue database.
type Manifest struct {
	ProductionID string    `json:"production_id"`
	ShowID       string    `json:"show_id"`
	ShowTitle    string    `json:"show_title"`
	EpisodeTitle string    `json:"episode_title"`
	EpisodeIndex int       `json:"episode_index"`
	Topic        string    `json:"topic,omitempty"`
	ScriptFile   string    `json:"script_file,omitempty"`
	AudioFile    string    `json:"audio_file"`
	VideoFile    string    `json:"video_file,omitempty"`
	FinalFile    string    `json:"final_file"`
	Clips        []string  `json:"clips,omitempty"`
	PackagedAt   time.Time `json:"packaged_at"`
}

// WriteManifest saves the manifest for item into productionDir atomically.
func WriteManifest(productionDir string, item *queue.Item, clips []string) error {
	manifest := Manifest{
		ProductionID: item.ProductionID,
		ShowID:       item.ShowID,
		ShowTitle:    item.ShowTitle,
		EpisodeTitle: item.EpisodeTitle,
		EpisodeIndex: item.EpisodeIndex,
		Topic:        item.Topic,
		ScriptFile:   item.ScriptFile,
		AudioFile:    item.AudioFile,
		VideoFile:    item.VideoFile,
		FinalFile:    item.FinalFile,
		Clips:        clips,
		PackagedAt:   time.Now().UTC(),
	}

	if err := os.MkdirAll(productionDir, 0o755); err != nil {
		return fmt.Errorf("create production directory: %w", err)
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	target := filepath.Join(productionDir, "production.json")
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("finalize manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a previously written production.json.
func ReadManifest(productionDir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(productionDir, "production.json"))
	if err != nil {
		return Manifest{}, err
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	return manifest, nil
}
