package events

import (
	"log/slog"

	"bdnav/internal/logging"
)

// DefaultCapacity bounds a queue created with a non-positive capacity.
const DefaultCapacity = 32

type entry struct {
	seq uint64
	ev  Event
}

// Queue is a bounded FIFO of events. It is not safe for concurrent use; the
// owning session serializes access.
type Queue struct {
	entries  []entry
	capacity int
	nextSeq  uint64
	dropped  uint64
	logger   *slog.Logger
}

// NewQueue returns an empty queue holding at most capacity events.
func NewQueue(capacity int, logger *slog.Logger) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		entries:  make([]entry, 0, capacity),
		capacity: capacity,
		logger:   logging.NewComponentLogger(logger, "events"),
	}
}

// Push appends ev. When the queue is full the oldest of the lowest-priority
// queued events is evicted to make room and Push returns false. Error,
// ReadError and EndOfTitle are never evicted; a queue holding only those
// grows past its capacity.
func (q *Queue) Push(ev Event) bool {
	room := true
	if len(q.entries) >= q.capacity {
		room = false
		if victim := q.evictable(); victim >= 0 {
			lost := q.entries[victim].ev
			q.entries = append(q.entries[:victim], q.entries[victim+1:]...)
			q.dropped++
			logging.WarnWithContext(q.logger, "event queue full; evicted oldest low-priority event", "event_queue_overflow",
				logging.String("evicted", lost.Type.String()),
				logging.Uint64("evicted_param", lost.Param),
				logging.String("event", ev.Type.String()),
				logging.Int("capacity", q.capacity),
				logging.Uint64("dropped_total", q.dropped),
				logging.String(logging.FieldErrorHint, "drain events with Pop between reads"),
				logging.String(logging.FieldImpact, "caller will not observe the evicted notification"),
			)
		}
	}
	q.entries = append(q.entries, entry{seq: q.nextSeq, ev: ev})
	q.nextSeq++
	return room
}

// Critical reports whether t must reach the caller even when the queue
// overflows.
func (t Type) Critical() bool {
	return t.Priority() >= EndOfTitle.Priority()
}

// evictable returns the index of the oldest entry with the lowest priority
// among non-critical entries, or -1.
func (q *Queue) evictable() int {
	victim := -1
	for i, e := range q.entries {
		if e.ev.Type.Critical() {
			continue
		}
		if victim < 0 || e.ev.Type.Priority() < q.entries[victim].ev.Type.Priority() {
			victim = i
		}
	}
	return victim
}

// Pop removes and returns the oldest event. ok is false when the queue is
// empty.
func (q *Queue) Pop() (ev Event, ok bool) {
	if len(q.entries) == 0 {
		return Event{}, false
	}
	ev = q.entries[0].ev
	copy(q.entries, q.entries[1:])
	q.entries = q.entries[:len(q.entries)-1]
	return ev, true
}

// Peek returns the oldest event without removing it.
func (q *Queue) Peek() (Event, bool) {
	if len(q.entries) == 0 {
		return Event{}, false
	}
	return q.entries[0].ev, true
}

// Len returns the number of queued events.
func (q *Queue) Len() int { return len(q.entries) }

// Dropped returns how many events were evicted because the queue was full.
func (q *Queue) Dropped() uint64 { return q.dropped }

// Clear discards every queued event.
func (q *Queue) Clear() {
	q.entries = q.entries[:0]
}

// Mark returns a position token. Events pushed after the call have a
// sequence at or beyond the token.
func (q *Queue) Mark() uint64 { return q.nextSeq }

// TakeHighest removes and returns the highest-priority event pushed since
// mark. Ties go to the earliest event.
func (q *Queue) TakeHighest(mark uint64) (Event, bool) {
	best := -1
	for i, e := range q.entries {
		if e.seq < mark {
			continue
		}
		if best < 0 || e.ev.Type.Priority() > q.entries[best].ev.Type.Priority() {
			best = i
		}
	}
	if best < 0 {
		return Event{}, false
	}
	ev := q.entries[best].ev
	q.entries = append(q.entries[:best], q.entries[best+1:]...)
	return ev, true
}

// Drain removes and returns every queued event in FIFO order.
func (q *Queue) Drain() []Event {
	out := make([]Event, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.ev
	}
	q.entries = q.entries[:0]
	return out
}
