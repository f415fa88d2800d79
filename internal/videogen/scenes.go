package videogen

import (
	"strings"

	"showrunner/internal/services/openai"
)

// Scene is one contiguous span of the episode to render as a single clip.
type Scene struct {
	Index           int
	Start           float64
	End             float64
	Narration       string
	DurationSeconds int
}

// Scene renders are fixed-length clips; transcript segments are grouped into
// spans of at most this many seconds.
const sceneSpanSeconds = 10.0

// BuildScenes groups transcript segments into render spans. Segment
// boundaries are respected, so a span may run slightly over the target when
// a segment crosses it.
func BuildScenes(segments []openai.Segment) []Scene {
	var scenes []Scene
	var current *Scene
	var narration strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Narration = strings.TrimSpace(narration.String())
		duration := current.End - current.Start
		current.DurationSeconds = int(duration + 0.5)
		if current.DurationSeconds < 1 {
			current.DurationSeconds = 1
		}
		scenes = append(scenes, *current)
		current = nil
		narration.Reset()
	}

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if current == nil {
			current = &Scene{Index: len(scenes), Start: seg.Start, End: seg.End}
		} else {
			current.End = seg.End
		}
		narration.WriteString(text)
		narration.WriteString(" ")
		if current.End-current.Start >= sceneSpanSeconds {
			flush()
		}
	}
	flush()
	return scenes
}

const scenePromptSystem = `You write prompts for a text-to-video model.
Given a span of episode narration and the show's visual style, respond with
one vivid visual description of the scene, under 80 words, no dialogue and
no camera jargon. Respond with the description only.`

// ScenePromptInput formats the user prompt for one scene.
func ScenePromptInput(visualStyle string, scene Scene) string {
	var b strings.Builder
	if visualStyle = strings.TrimSpace(visualStyle); visualStyle != "" {
		b.WriteString("Visual style: ")
		b.WriteString(visualStyle)
		b.WriteString("\n")
	}
	b.WriteString("Narration: ")
	b.WriteString(scene.Narration)
	return b.String()
}
