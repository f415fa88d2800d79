// Package anthropic wraps the Anthropic Messages API used for episode
// script generation.
package anthropic
