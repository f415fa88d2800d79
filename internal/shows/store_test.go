package shows

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shows.json")
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func TestCreateAssignsShortID(t *testing.T) {
	store := newTestStore(t)

	show, err := store.Create(Show{
		Title:  "AI House",
		Format: "Sitcom / Comedy",
		Cast:   []string{"claire", "vv", "olly", "pennie"},
		Episodes: []Episode{
			{Title: "Episode 1: Room Wars", Topic: "Who gets the best bedroom?", Tone: "Comedic"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(show.ID) != 8 {
		t.Errorf("expected 8-character show id, got %q", show.ID)
	}
	if show.Episodes[0].Status != EpisodeDraft {
		t.Errorf("episode status = %q, want %q", show.Episodes[0].Status, EpisodeDraft)
	}

	found, ok := store.Get(show.ID)
	if !ok {
		t.Fatal("Get failed to find created show")
	}
	if found.Title != "AI House" {
		t.Errorf("Title mismatch: got %q", found.Title)
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Create(Show{Format: "Documentary"}); err == nil {
		t.Error("Create should reject a show without a title")
	}
}

func TestAddEpisodeAndSetStatus(t *testing.T) {
	store := newTestStore(t)

	show, err := store.Create(Show{Title: "AI News Desk"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	idx, err := store.AddEpisode(show.ID, Episode{Title: "Markets Gone Wild", Topic: "meme stocks", Tone: "Energetic"})
	if err != nil {
		t.Fatalf("AddEpisode failed: %v", err)
	}
	if idx != 0 {
		t.Errorf("episode index = %d, want 0", idx)
	}

	if err := store.SetEpisodeStatus(show.ID, idx, EpisodeProduced); err != nil {
		t.Fatalf("SetEpisodeStatus failed: %v", err)
	}
	updated, _ := store.Get(show.ID)
	if updated.Episodes[0].Status != EpisodeProduced {
		t.Errorf("episode status = %q, want %q", updated.Episodes[0].Status, EpisodeProduced)
	}

	if err := store.SetEpisodeStatus(show.ID, 5, EpisodeQueued); err == nil {
		t.Error("SetEpisodeStatus should reject an out-of-range index")
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shows.json")
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	show, err := store.Create(Show{Title: "Explainer Series"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	reopened, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if _, ok := reopened.Get(show.ID); !ok {
		t.Error("reopened store should contain previously created show")
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)
	show, err := store.Create(Show{Title: "Temp Show"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Remove(show.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := store.Get(show.ID); ok {
		t.Error("show should not exist after removal")
	}
	if err := store.Remove("nope1234"); err == nil {
		t.Error("Remove should return error for unknown id")
	}
}

func TestTemplates(t *testing.T) {
	tpls := Templates()
	if len(tpls) != 4 {
		t.Fatalf("expected 4 templates, got %d", len(tpls))
	}

	tpl, ok := FindTemplate("AI News Desk")
	if !ok {
		t.Fatal("FindTemplate failed for known template")
	}
	seed := NewFromTemplate(tpl)
	if seed.Format != "News / Commentary" {
		t.Errorf("seed format = %q", seed.Format)
	}
	if seed.Title != "" {
		t.Errorf("seed title should be empty, got %q", seed.Title)
	}

	if _, ok := FindTemplate("Unknown"); ok {
		t.Error("FindTemplate should miss for unknown name")
	}
}
