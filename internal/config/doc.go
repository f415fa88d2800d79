// Package config loads, normalizes, and validates the show-runner TOML
// configuration.
//
// Configuration resolves from an explicit path, then
// ~/.config/showrunner/config.toml, then a project-local showrunner.toml.
// API credentials may live directly in the TOML or fall back to per-service
// JSON files under the configured secrets directory (anthropic.json,
// hume.json, ltx.json, openai.json, perplexity.json), matching the secrets
// layout the production host already uses.
package config
