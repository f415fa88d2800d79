package roster

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

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"showrunner/internal/logging"
)

// Character represents one cast member in the talent roster.
type Character struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	Description   string    `json:"description"`
	VoiceProvider string    `json:"voice_provider"`
	VoiceID       string    `json:"voice_id"`
	ImagePath     string    `json:"image_path,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store provides thread-safe access to the character roster file.
type Store struct {
	path       string
	logger     *slog.Logger
	mu         sync.RWMutex
	characters map[string]Character
}

// NewStore opens the roster at path, loading existing characters if the file
// is present. A missing file is a fresh start, not an error.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("roster path cannot be empty")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "roster")

	s := &Store{
		path:       path,
		logger:     logger,
		characters: make(map[string]Character),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the character with the given id if present.
func (s *Store) Get(id string) (Character, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Character{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.characters[id]
	return ch, ok
}

// Save adds or updates a character and persists the roster.
func (s *Store) Save(ch Character) error {
	ch.ID = strings.TrimSpace(ch.ID)
	if ch.ID == "" {
		return errors.New("character id cannot be empty")
	}
	if strings.TrimSpace(ch.Name) == "" {
		return errors.New("character name cannot be empty")
	}
	if ch.CreatedAt.IsZero() {
		ch.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.characters[ch.ID] = ch

	if err := s.save(); err != nil {
		return fmt.Errorf("persist roster: %w", err)
	}

	s.logger.Debug("saved character",
		logging.String(logging.FieldCharacter, ch.ID),
		logging.String("name", ch.Name),
		logging.String("voice_provider", ch.VoiceProvider))
	return nil
}

// Remove deletes a character by id and persists the change.
func (s *Store) Remove(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("character id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.characters[id]; !ok {
		return fmt.Errorf("character %q not found", id)
	}
	delete(s.characters, id)

	if err := s.save(); err != nil {
		return fmt.Errorf("persist roster: %w", err)
	}

	s.logger.Debug("removed character", logging.String(logging.FieldCharacter, id))
	return nil
}

// List returns all characters sorted by id for stable display.
func (s *Store) List() []Character {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chars := make([]Character, 0, len(s.characters))
	for _, ch := range s.characters {
		chars = append(chars, ch)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].ID < chars[j].ID })
	return chars
}

// DisplayName returns the roster name for id, or a title-cased rendering of
// the id itself for characters that are not in the roster.
func (s *Store) DisplayName(id string) string {
	if ch, ok := s.Get(id); ok {
		return ch.Name
	}
	cleaned := strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(id))
	if cleaned == "" {
		return "Unknown"
	}
	return cases.Title(language.Und).String(cleaned)
}

// Count returns the number of characters in the roster.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.characters)
}

// ImportSeed merges the built-in seed roster into the store. Existing ids are
// left untouched so local edits survive repeated imports. It returns the
// number of characters added.
func (s *Store) ImportSeed() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, ch := range SeedRoster() {
		if _, exists := s.characters[ch.ID]; exists {
			continue
		}
		s.characters[ch.ID] = ch
		added++
	}
	if added == 0 {
		return 0, nil
	}

	if err := s.save(); err != nil {
		return 0, fmt.Errorf("persist roster: %w", err)
	}

	s.logger.Info("imported seed roster", logging.Int("added", added))
	return added, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read roster file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var chars []Character
	if err := json.Unmarshal(data, &chars); err != nil {
		return fmt.Errorf("parse roster file: %w", err)
	}

	s.characters = make(map[string]Character, len(chars))
	for _, ch := range chars {
		if strings.TrimSpace(ch.ID) != "" {
			s.characters[ch.ID] = ch
		}
	}

	s.logger.Debug("loaded roster",
		logging.Int("character_count", len(s.characters)),
		logging.String("path", s.path))
	return nil
}

// save writes the roster to disk atomically. Callers hold s.mu.
func (s *Store) save() error {
	chars := make([]Character, 0, len(s.characters))
	for _, ch := range s.characters {
		chars = append(chars, ch)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].ID < chars[j].ID })

	data, err := json.MarshalIndent(chars, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal roster: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create roster directory: %w", err)
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
