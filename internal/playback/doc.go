// Package playback drives a playback session over a parsed disc.
//
// A Session owns the disc catalog, the navigation state machine, the event
// queue and the clip source for one open disc. Read pulls bytes for the
// current clip window, advances navigation and returns the most important
// event raised by that read inline; everything else stays queued for Pop.
// Sessions are single-threaded: callers sharing one across goroutines must
// wrap it in their own mutex.
package playback
