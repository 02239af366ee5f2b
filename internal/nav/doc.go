// Package nav implements the navigation state machine that tracks the
// current title, clip, chapter, angle and position of a playback session.
//
// The Navigator is single-writer: the owning playback session serializes
// every call. Seeks clamp instead of failing, lookups of missing titles,
// chapters or angles fail with ErrNotFound and leave the state unchanged,
// and every state-changing condition is reported on the shared event queue.
package nav
