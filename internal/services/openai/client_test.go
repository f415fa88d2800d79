package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestTranscribeParsesSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q", got)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Errorf("response_format = %q", got)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			file.Close()
		}
		json.NewEncoder(w).Encode(Transcript{
			Text: "It started like any other morning.",
			Segments: []Segment{
				{Start: 0, End: 3.5, Text: "It started like any other morning."},
			},
		})
	}))
	defer server.Close()

	audioPath := filepath.Join(t.TempDir(), "combined.mp3")
	if err := os.WriteFile(audioPath, []byte("mp3"), 0o644); err != nil {
		t.Fatalf("write audio fixture: %v", err)
	}

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	transcript, err := client.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if len(transcript.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(transcript.Segments))
	}
	if transcript.Segments[0].End != 3.5 {
		t.Fatalf("segment end = %v", transcript.Segments[0].End)
	}
}

func TestCompleteReturnsContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-4o" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "A sunlit kitchen, morning haze."}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	got, err := client.Complete(context.Background(), "You write scene prompts.", "Describe the opening scene.")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "A sunlit kitchen, morning haze." {
		t.Fatalf("content = %q", got)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if _, err := client.Complete(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
