package scriptgen

import (
	"fmt"
	"strings"

	"showrunner/internal/roster"
	"showrunner/internal/shows"
)

// BuildPrompt assembles the script generation prompt from the show, the
// episode concept, and the cast pulled from the roster.
func BuildPrompt(show shows.Show, episode shows.Episode, cast []roster.Character, narrator *roster.Character, targetLines int) string {
	if targetLines <= 0 {
		targetLines = 50
	}

	var chars strings.Builder
	for _, ch := range cast {
		desc := ch.Description
		if desc == "" {
			desc = ch.Role
		}
		fmt.Fprintf(&chars, "- **%s**: %s\n", ch.Name, desc)
	}

	narratorInfo := ""
	if narrator != nil {
		desc := narrator.Description
		if desc == "" {
			desc = "Provides commentary"
		}
		narratorInfo = fmt.Sprintf("\n**Narrator:** %s - %s\n", narrator.Name, desc)
	}

	format := show.Format
	if format == "" {
		format = "Sitcom"
	}
	tone := episode.Tone
	if tone == "" {
		tone = "Comedic"
	}
	style := show.VisualStyle
	if style == "" {
		style = "Modern, cinematic"
	}

	var b strings.Builder
	b.WriteString("Write a script for an AI-generated video episode.\n\n")
	fmt.Fprintf(&b, "**Show:** %s\n", show.Title)
	fmt.Fprintf(&b, "**Format:** %s\n", format)
	fmt.Fprintf(&b, "**Episode:** %s\n", episode.Title)
	fmt.Fprintf(&b, "**Topic:** %s\n", episode.Topic)
	fmt.Fprintf(&b, "**Tone:** %s\n", tone)
	fmt.Fprintf(&b, "**Visual Style:** %s\n\n", style)
	b.WriteString("**Characters:**\n")
	b.WriteString(chars.String())
	b.WriteString(narratorInfo)
	if notes := strings.TrimSpace(episode.RefNotes); notes != "" {
		fmt.Fprintf(&b, "\n**Notes:** %s\n", notes)
	}
	b.WriteString("\n**Requirements:**\n")
	fmt.Fprintf(&b, "1. Write approximately %d dialogue lines\n", targetLines)
	b.WriteString(`2. Mark each line with the character name in CAPS
3. Include [SCENE] markers for visual changes
4. Include V.O. (voiceover) lines for narrator sections
5. Add stage directions in (parentheses)
6. Make it engaging and suitable for social media clips

**Format Example:**
[SCENE: Morning in the apartment, sunlight streaming through windows]

ROXIE (V.O.): It started like any other morning...

CLAIRE: (entering with coffee) Good morning everyone!

Write the full script:`)
	return b.String()
}
