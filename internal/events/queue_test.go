package events

import "testing"

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(4, nil)
	if _, ok := q.Pop(); ok {
		t.Fatal("expected empty queue")
	}
	q.Push(New(Chapter, 1))
	q.Push(New(PlayMark, 2))
	q.Push(New(StillTime, 3))

	for _, want := range []Event{New(Chapter, 1), New(PlayMark, 2), New(StillTime, 3)} {
		got, ok := q.Pop()
		if !ok || got != want {
			t.Fatalf("Pop = %v (%v), want %v", got, ok, want)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("expected queue to be drained")
	}
}

func TestQueueEvictsOldestLowestPriorityOnOverflow(t *testing.T) {
	q := NewQueue(3, nil)
	q.Push(New(Chapter, 0))
	q.Push(New(PlayMark, 1))
	q.Push(New(PlayMark, 2))
	if q.Push(New(Chapter, 3)) {
		t.Fatal("expected push beyond capacity to report an eviction")
	}
	if q.Len() != 3 || q.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", q.Len(), q.Dropped())
	}
	got := q.Drain()
	want := []Event{New(Chapter, 0), New(PlayMark, 2), New(Chapter, 3)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Drain = %v, want %v", got, want)
		}
	}
}

func TestQueueNeverEvictsCriticalEvents(t *testing.T) {
	q := NewQueue(2, nil)
	q.Push(New(ReadError, 0))
	q.Push(New(Chapter, 1))
	q.Push(New(EndOfTitle, 0))
	q.Push(New(Error, 2))

	got := q.Drain()
	want := []Event{New(ReadError, 0), New(EndOfTitle, 0), New(Error, 2)}
	if len(got) != len(want) {
		t.Fatalf("Drain = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Drain = %v, want %v", got, want)
		}
	}
	if q.Dropped() != 1 {
		t.Fatalf("expected only the chapter to be evicted, dropped=%d", q.Dropped())
	}
}

func TestQueueKeepsNewestEventOnOverflow(t *testing.T) {
	q := NewQueue(2, nil)
	q.Push(New(Discontinuity, 0))
	q.Push(New(Chapter, 1))
	mark := q.Mark()
	q.Push(New(Still, 1))

	ev, ok := q.TakeHighest(mark)
	if !ok || ev != New(Still, 1) {
		t.Fatalf("TakeHighest = %v (%v), want Still", ev, ok)
	}
	if first, _ := q.Pop(); first != New(Discontinuity, 0) {
		t.Fatalf("expected discontinuity to outlive the chapter, got %v", first)
	}
}

func TestQueueDefaultCapacity(t *testing.T) {
	q := NewQueue(0, nil)
	for i := 0; i < DefaultCapacity; i++ {
		if !q.Push(New(PlayMark, uint64(i))) {
			t.Fatalf("push %d failed", i)
		}
	}
	if q.Push(New(PlayMark, 99)) {
		t.Fatal("expected default capacity to bound the queue")
	}
	if q.Len() != DefaultCapacity {
		t.Fatalf("expected %d queued, got %d", DefaultCapacity, q.Len())
	}
	if first, _ := q.Peek(); first.Param != 1 {
		t.Fatalf("expected the oldest mark to be evicted, head is %v", first)
	}
}

func TestTakeHighestRespectsPriorityAndMark(t *testing.T) {
	q := NewQueue(8, nil)
	q.Push(New(Error, 0))
	mark := q.Mark()
	q.Push(New(PlayMark, 1))
	q.Push(New(Chapter, 2))
	q.Push(New(Discontinuity, 3))
	q.Push(New(Chapter, 4))

	got, ok := q.TakeHighest(mark)
	if !ok || got != New(Discontinuity, 3) {
		t.Fatalf("TakeHighest = %v, want discontinuity", got)
	}
	got, _ = q.TakeHighest(mark)
	if got != New(Chapter, 2) {
		t.Fatalf("tie should go to earliest event, got %v", got)
	}

	rest := q.Drain()
	want := []Event{New(Error, 0), New(PlayMark, 1), New(Chapter, 4)}
	if len(rest) != len(want) {
		t.Fatalf("remaining = %v", rest)
	}
	for i := range want {
		if rest[i] != want[i] {
			t.Fatalf("remaining[%d] = %v, want %v", i, rest[i], want[i])
		}
	}
	if _, ok := q.TakeHighest(q.Mark()); ok {
		t.Fatal("expected nothing after the latest mark")
	}
}

func TestPriorityOrder(t *testing.T) {
	order := []Type{Error, EndOfTitle, Discontinuity, Chapter, Angle, Still, PlayItem}
	for i := 1; i < len(order); i++ {
		if order[i-1].Priority() <= order[i].Priority() {
			t.Fatalf("%s should outrank %s", order[i-1], order[i])
		}
	}
	if ReadError.Priority() != Error.Priority() || StillTime.Priority() != Still.Priority() {
		t.Fatal("paired event types should share priority")
	}
}

func TestFromCode(t *testing.T) {
	ev := FromCode(8, 3)
	if ev.Type != Chapter || ev.Param != 3 || ev.Code() != 8 {
		t.Fatalf("FromCode(8) = %+v", ev)
	}
	if FromCode(33, 0).Type != UOMaskChanged {
		t.Fatal("expected last code to decode")
	}

	unknown := FromCode(77, 5)
	if unknown.Type != Unknown || unknown.Raw != 77 || unknown.Code() != 77 {
		t.Fatalf("FromCode(77) = %+v", unknown)
	}
	if unknown.Type.Known() || unknown.Type.String() != "unknown" {
		t.Fatal("unknown type should not report as known")
	}
	if unknown.String() != "unknown(77) 5" {
		t.Fatalf("String() = %q", unknown.String())
	}
}

func TestTypeNamesCoverTaxonomy(t *testing.T) {
	for code := None; code <= lastKnown; code++ {
		if code.String() == "" || code.String() == "unknown" {
			t.Fatalf("type %d has no name", code)
		}
	}
}
