package scriptgen

import (
	"regexp"
	"strings"

	"showrunner/internal/roster"
)

// DialogueLine is one voiced line of the parsed script.
type DialogueLine struct {
	Index       int    `json:"idx"`
	CharacterID string `json:"character"`
	Text        string `json:"text"`
	VoiceOver   bool   `json:"is_vo"`
	Scene       string `json:"scene"`
}

var stageDirectionRe = regexp.MustCompile(`\([^)]*\)\s*`)

// ParseScript extracts dialogue lines from a generated script. Speaker names
// are matched against the cast by character name or id, case-insensitive.
// Scene markers set the scene context for following lines, stage directions
// are stripped from dialogue text, and lines whose speaker is not in the
// cast are dropped.
func ParseScript(script string, cast []roster.Character) []DialogueLine {
	byName := make(map[string]string, len(cast)*2)
	for _, ch := range cast {
		byName[strings.ToUpper(strings.TrimSpace(ch.Name))] = ch.ID
		byName[strings.ToUpper(strings.TrimSpace(ch.ID))] = ch.ID
	}

	var lines []DialogueLine
	currentScene := ""

	for _, raw := range strings.Split(script, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[SCENE") {
			currentScene = line
			continue
		}

		speaker, text, ok := splitDialogue(line)
		if !ok {
			continue
		}

		text = strings.TrimSpace(stageDirectionRe.ReplaceAllString(text, ""))
		if text == "" {
			continue
		}

		isVO := strings.Contains(speaker, "V.O.")
		name := strings.ReplaceAll(speaker, "(V.O.)", "")
		name = strings.ReplaceAll(name, "V.O.", "")
		name = strings.TrimSpace(name)

		id, found := byName[strings.ToUpper(name)]
		if !found {
			continue
		}

		lines = append(lines, DialogueLine{
			Index:       len(lines),
			CharacterID: id,
			Text:        text,
			VoiceOver:   isVO,
			Scene:       currentScene,
		})
	}
	return lines
}

// splitDialogue splits "CHARACTER: text" lines, requiring the speaker part
// to be upper case so prose and markdown headings are not mistaken for
// dialogue.
func splitDialogue(line string) (speaker, text string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	speaker = strings.TrimSpace(line[:idx])
	text = strings.TrimSpace(line[idx+1:])
	if speaker == "" || speaker != strings.ToUpper(speaker) {
		return "", "", false
	}
	// Reject speakers with no letters at all (timestamps, list markers).
	hasLetter := false
	for _, r := range speaker {
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return "", "", false
	}
	return speaker, text, true
}
