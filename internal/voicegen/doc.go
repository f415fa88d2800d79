// Package voicegen implements the voicing stage: each parsed dialogue line
// is synthesized with its character's Hume voice, and the per-line files are
// joined into a single episode track with short gaps between lines.
package voicegen
