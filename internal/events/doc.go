// Package events defines the navigation event taxonomy and the bounded FIFO
// queue that carries events from the navigation state machine and playback
// session to the caller.
//
// Pop never blocks. An empty queue is reported with ok=false and is not an
// error. Codes outside the known taxonomy decode to Unknown and keep their
// raw value.
package events
