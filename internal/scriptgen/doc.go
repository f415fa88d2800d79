// Package scriptgen implements the scripting stage: it prompts the Anthropic
// Messages API for an episode script, saves it to the production directory,
// and parses it into dialogue lines for the voice stage.
package scriptgen
