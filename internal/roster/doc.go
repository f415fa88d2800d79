// Package roster manages the character talent pool used to cast shows.
//
// Characters map a stable id to a display name, role, description, and the
// voice configured for them (currently Hume custom voices). The roster is
// stored as a JSON file (default: <data_dir>/characters.json), human-readable
// and easy to inspect or edit manually. Writes are atomic via a temp file
// rename.
//
// A built-in "AI House" seed roster can be imported to bootstrap a fresh
// installation:
//
//	showrunner character import-seed
//	showrunner character list
//	showrunner character remove <id>
package roster
