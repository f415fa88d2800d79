// Package services holds the plumbing shared by every external integration
// in the pipeline: the Anthropic, Hume, LTX, OpenAI, and Perplexity clients
// all build on it.
//
// It provides three things. Context helpers stamp the queue item, stage, and
// correlation id onto a context so log lines from deep inside a client still
// identify the production they belong to. The sentinel error markers and
// Wrap turn a stage failure into a consistently formatted error whose marker
// decides the item's next queue status (review for operator-fixable
// problems, failed otherwise). NewHTTPClient builds the retrying HTTP client
// each API client wraps.
package services
