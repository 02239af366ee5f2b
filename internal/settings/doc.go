// Package settings implements the player settings store.
//
// Settings are keyed by the closed Setting enumeration (player setting
// codes) and hold opaque string values. The playback session consults them
// only for catalog heuristics such as default audio and subtitle stream
// selection. MemoryStore backs tests and ephemeral sessions; SQLiteStore
// persists values across runs using modernc.org/sqlite.
package settings
