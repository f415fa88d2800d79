// Package shows manages the show catalog and its episode concepts.
//
// A show bundles a format, a cast drawn from the character roster, a visual
// style, and a list of episode concepts waiting to be produced. The catalog
// is stored as a JSON file (default: <data_dir>/shows.json) with atomic
// writes, the same storage shape the roster uses.
//
// Built-in templates cover the common formats (sitcom, news desk, explainer,
// talk show) so a new show can start from a working configuration.
package shows
