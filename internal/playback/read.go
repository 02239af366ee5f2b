package playback

import (
	"context"
	"errors"
	"time"

	"bdnav/internal/events"
	"bdnav/internal/logging"
	"bdnav/internal/nav"
)

// Read is ReadContext with a background context.
func (s *Session) Read(buf []byte) (int, events.Event, error) {
	return s.ReadContext(context.Background(), buf)
}

// ReadContext delivers up to len(buf) bytes of the current clip window and
// returns the highest-priority event the read raised. Still holds, the end
// of the title and a zero rate return 0 bytes. Clip source failures are
// reported as Error or ReadError events without moving the position; only
// context cancellation and misuse produce a non-nil error.
func (s *Session) ReadContext(ctx context.Context, buf []byte) (int, events.Event, error) {
	if s.closed {
		return 0, events.Event{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return 0, events.Event{}, err
	}
	if _, ok := s.nav.CurrentTitle(); !ok {
		return 0, events.Event{}, nav.ErrNoTitle
	}
	mark := s.queue.Mark()
	s.nav.AnnounceAngleChange()

	if s.nav.State() == nav.EndOfTitle && s.chain {
		if err := s.chainNext(ctx); err != nil {
			return 0, events.Event{}, err
		}
	}

	if held := s.holdStill(); held {
		ev, _ := s.queue.TakeHighest(mark)
		return 0, ev, nil
	}
	if s.nav.State() == nav.EndOfTitle {
		ev, _ := s.queue.TakeHighest(mark)
		return 0, ev, nil
	}
	if s.nav.State() == nav.Paused {
		ev, _ := s.queue.TakeHighest(mark)
		return 0, ev, nil
	}

	win, ok := s.nav.Window()
	if !ok {
		if err := s.nav.Advance(0); err != nil {
			return 0, events.Event{}, err
		}
		ev, _ := s.queue.TakeHighest(mark)
		return 0, ev, nil
	}
	if len(buf) == 0 {
		return 0, events.Event{}, nil
	}

	want := min(uint64(len(buf)), win.Remaining)
	n, err := s.source.ReadRange(ctx, win.ClipID, win.Offset, buf[:want])
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return 0, events.Event{}, err
		}
		s.reportSourceError(win, err)
		ev, _ := s.queue.TakeHighest(mark)
		return 0, ev, nil
	}
	if n == 0 {
		s.reportSourceError(win, ErrIO)
		ev, _ := s.queue.TakeHighest(mark)
		return 0, ev, nil
	}

	if err := s.nav.Advance(uint64(n)); err != nil {
		return 0, events.Event{}, err
	}
	ev, _ := s.queue.TakeHighest(mark)
	return n, ev, nil
}

func (s *Session) reportSourceError(win nav.ReadWindow, err error) {
	typ := events.ReadError
	if errors.Is(err, ErrClipNotFound) {
		typ = events.Error
	}
	s.queue.Push(events.New(typ, uint64(win.ClipIndex)))
	logging.WarnWithContext(s.logger, "clip read failed", "clip_read_failed",
		logging.String(logging.FieldClip, win.ClipID),
		logging.Int64("offset", win.Offset),
		logging.Uint64("byte_position", s.nav.Tell()),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "retry the read or seek past the damaged area"),
		logging.String(logging.FieldImpact, "playback position was not advanced"),
	)
}

// holdStill reports whether an active still hold blocks this read, queueing
// the Still or StillTime event that announces it. An expired timed still is
// released.
func (s *Session) holdStill() bool {
	still, ok := s.nav.Still()
	if !ok {
		return false
	}
	if still.Permanent {
		s.queue.Push(events.New(events.Still, 1))
		return true
	}

	now := s.clock()
	if !s.still.armed {
		s.still = stillTimer{
			deadline: now.Add(time.Duration(still.DurationTicks) * time.Second / 90000),
			armed:    true,
		}
	}
	if remaining := s.still.deadline.Sub(now); remaining > 0 {
		secs := (remaining + time.Second - 1) / time.Second
		s.queue.Push(events.New(events.StillTime, uint64(secs)))
		return true
	}

	s.logger.Debug("timed still expired", logging.Int("clip_index", still.Clip))
	s.still = stillTimer{}
	s.nav.ReleaseStill()
	return false
}

// chainNext selects the title after the one that just ended, if any.
func (s *Session) chainNext(ctx context.Context) error {
	cur, _ := s.nav.CurrentTitle()
	next := cur + 1
	if next >= s.catalog.TitleCount() {
		return nil
	}
	if err := s.SelectTitle(ctx, next); err != nil {
		return err
	}
	s.queue.Push(events.New(events.Title, uint64(next)))
	s.logger.Info("chained to next title",
		logging.Int("previous_title", cur),
		logging.Int(logging.FieldTitle, next),
	)
	return nil
}

func (s *Session) hasNextTitle() bool {
	cur, ok := s.nav.CurrentTitle()
	return s.chain && ok && cur+1 < s.catalog.TitleCount()
}
