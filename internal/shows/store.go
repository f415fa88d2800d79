package shows

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"showrunner/internal/logging"
)

// Episode statuses track a concept from draft to published output.
const (
	EpisodeDraft    = "draft"
	EpisodeQueued   = "queued"
	EpisodeProduced = "produced"
)

// Episode is one produced or pending concept belonging to a show.
type Episode struct {
	Title    string `json:"title"`
	Topic    string `json:"topic"`
	Tone     string `json:"tone"`
	RefNotes string `json:"ref_notes,omitempty"`
	Status   string `json:"status"`
}

// Show describes a series: its format, cast, and episode concepts.
type Show struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Format         string    `json:"format"`
	TargetDuration string    `json:"target_duration"`
	Cast           []string  `json:"characters"`
	Narrator       string    `json:"narrator,omitempty"`
	VisualStyle    string    `json:"visual_style"`
	CreatedAt      time.Time `json:"created_at"`
	Episodes       []Episode `json:"episodes"`
}

// Store provides thread-safe access to the show catalog file.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
	shows  map[string]Show
}

// NewStore opens the catalog at path, loading existing shows if present.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("shows path cannot be empty")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "shows")

	s := &Store{
		path:   path,
		logger: logger,
		shows:  make(map[string]Show),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Create validates the show, assigns a short id, and persists it.
func (s *Store) Create(show Show) (Show, error) {
	if strings.TrimSpace(show.Title) == "" {
		return Show{}, errors.New("show title cannot be empty")
	}
	show.ID = uuid.NewString()[:8]
	if show.CreatedAt.IsZero() {
		show.CreatedAt = time.Now().UTC()
	}
	for i := range show.Episodes {
		if show.Episodes[i].Status == "" {
			show.Episodes[i].Status = EpisodeDraft
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.shows[show.ID] = show
	if err := s.save(); err != nil {
		return Show{}, fmt.Errorf("persist shows: %w", err)
	}

	s.logger.Info("created show",
		logging.String(logging.FieldShowID, show.ID),
		logging.String("title", show.Title),
		logging.String("format", show.Format))
	return show, nil
}

// Get returns the show with the given id if present.
func (s *Store) Get(id string) (Show, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Show{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	show, ok := s.shows[id]
	return show, ok
}

// Update replaces an existing show and persists the change.
func (s *Store) Update(show Show) error {
	show.ID = strings.TrimSpace(show.ID)
	if show.ID == "" {
		return errors.New("show id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shows[show.ID]; !ok {
		return fmt.Errorf("show %q not found", show.ID)
	}
	s.shows[show.ID] = show

	if err := s.save(); err != nil {
		return fmt.Errorf("persist shows: %w", err)
	}
	return nil
}

// Remove deletes a show by id and persists the change.
func (s *Store) Remove(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("show id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shows[id]; !ok {
		return fmt.Errorf("show %q not found", id)
	}
	delete(s.shows, id)

	if err := s.save(); err != nil {
		return fmt.Errorf("persist shows: %w", err)
	}

	s.logger.Debug("removed show", logging.String(logging.FieldShowID, id))
	return nil
}

// List returns all shows sorted by creation time, newest first.
func (s *Store) List() []Show {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Show, 0, len(s.shows))
	for _, show := range s.shows {
		list = append(list, show)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// AddEpisode appends an episode concept to a show and returns its index.
func (s *Store) AddEpisode(showID string, ep Episode) (int, error) {
	showID = strings.TrimSpace(showID)
	if showID == "" {
		return 0, errors.New("show id cannot be empty")
	}
	if strings.TrimSpace(ep.Title) == "" {
		return 0, errors.New("episode title cannot be empty")
	}
	if ep.Status == "" {
		ep.Status = EpisodeDraft
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	show, ok := s.shows[showID]
	if !ok {
		return 0, fmt.Errorf("show %q not found", showID)
	}
	show.Episodes = append(show.Episodes, ep)
	s.shows[showID] = show

	if err := s.save(); err != nil {
		return 0, fmt.Errorf("persist shows: %w", err)
	}
	return len(show.Episodes) - 1, nil
}

// SetEpisodeStatus updates the status of one episode by index.
func (s *Store) SetEpisodeStatus(showID string, index int, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	show, ok := s.shows[showID]
	if !ok {
		return fmt.Errorf("show %q not found", showID)
	}
	if index < 0 || index >= len(show.Episodes) {
		return fmt.Errorf("episode index %d out of range for show %q", index, showID)
	}
	show.Episodes[index].Status = status
	s.shows[showID] = show

	if err := s.save(); err != nil {
		return fmt.Errorf("persist shows: %w", err)
	}
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read shows file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var list []Show
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse shows file: %w", err)
	}

	s.shows = make(map[string]Show, len(list))
	for _, show := range list {
		if strings.TrimSpace(show.ID) != "" {
			s.shows[show.ID] = show
		}
	}

	s.logger.Debug("loaded show catalog",
		logging.Int("show_count", len(s.shows)),
		logging.String("path", s.path))
	return nil
}

// save writes the catalog to disk atomically. Callers hold s.mu.
func (s *Store) save() error {
	list := make([]Show, 0, len(s.shows))
	for _, show := range s.shows {
		list = append(list, show)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal shows: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create shows directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
