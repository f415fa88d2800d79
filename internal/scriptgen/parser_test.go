package scriptgen

import (
	"testing"

	"showrunner/internal/roster"
)

func testCast() []roster.Character {
	return []roster.Character{
		{ID: "claire", Name: "Claire Delish"},
		{ID: "roxie", Name: "Roxie Rush"},
	}
}

func TestParseScriptExtractsDialogue(t *testing.T) {
	script := `# Episode 1: Room Wars

[SCENE: Morning in the apartment, sunlight streaming through windows]

ROXIE (V.O.): It started like any other morning at the AI House...

CLAIRE: (entering with coffee) Good morning everyone!

Some prose the model added that is not dialogue.

CLAIRE: (beat) Who moved my sourdough starter?
`
	lines := ParseScript(script, testCast())
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %+v", len(lines), lines)
	}

	if lines[0].CharacterID != "roxie" || !lines[0].VoiceOver {
		t.Errorf("line 0 = %+v, want roxie voice-over", lines[0])
	}
	if lines[0].Scene == "" {
		t.Errorf("line 0 should carry the scene marker")
	}
	if lines[1].CharacterID != "claire" || lines[1].VoiceOver {
		t.Errorf("line 1 = %+v, want claire on-camera", lines[1])
	}
	if lines[1].Text != "Good morning everyone!" {
		t.Errorf("stage direction not stripped: %q", lines[1].Text)
	}
	if lines[2].Text != "Who moved my sourdough starter?" {
		t.Errorf("line 2 text = %q", lines[2].Text)
	}
	for i, line := range lines {
		if line.Index != i {
			t.Errorf("line %d has index %d", i, line.Index)
		}
	}
}

func TestParseScriptDropsUnknownSpeakers(t *testing.T) {
	script := `OLLY: I'm not in this cast.
CLAIRE: But I am.`
	lines := ParseScript(script, testCast())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].CharacterID != "claire" {
		t.Fatalf("character = %q", lines[0].CharacterID)
	}
}

func TestParseScriptIgnoresLowercaseColonLines(t *testing.T) {
	script := `Note: this is not dialogue.
claire: lowercase speaker should not match.
CLAIRE: Real line.`
	lines := ParseScript(script, testCast())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
}

func TestParseScriptDropsLinesThatAreOnlyStageDirections(t *testing.T) {
	script := `CLAIRE: (sighs dramatically)`
	if lines := ParseScript(script, testCast()); len(lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(lines))
	}
}
