package playback

import (
	"fmt"
	"io"

	"bdnav/internal/events"
	"bdnav/internal/nav"
)

// Stream returns an io.Reader over the current title. It skips stills,
// follows title chaining and returns io.EOF at the end of the last title.
// Source failures end the stream with an error wrapping ErrIO or
// ErrClipNotFound. Events raised while streaming are discarded.
func (s *Session) Stream() io.Reader {
	return &streamReader{s: s}
}

type streamReader struct {
	s *Session
}

// cursor identifies the read position well enough to tell whether an empty
// read moved playback forward.
type cursor struct {
	pos   uint64
	state nav.State
	clip  int
}

func (r *streamReader) cursor() cursor {
	c := cursor{pos: r.s.Tell(), state: r.s.State(), clip: -1}
	if win, ok := r.s.nav.Window(); ok {
		c.clip = win.ClipIndex
	}
	return c
}

func (r *streamReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		before := r.cursor()
		n, ev, err := r.s.Read(p)
		r.s.queue.Clear()
		if err != nil {
			return n, err
		}
		if n > 0 {
			return n, nil
		}
		switch ev.Type {
		case events.ReadError:
			return 0, fmt.Errorf("%w at byte %d", ErrIO, r.s.Tell())
		case events.Error:
			return 0, fmt.Errorf("%w at byte %d", ErrClipNotFound, r.s.Tell())
		}
		switch {
		case r.s.State() == nav.EndOfTitle && !r.s.hasNextTitle():
			return 0, io.EOF
		case r.s.State() == nav.Paused:
			return 0, ErrPaused
		}
		if _, ok := r.s.nav.Still(); ok {
			if err := r.s.SkipStill(); err != nil {
				return 0, err
			}
			continue
		}
		if ev.Type == events.None && r.cursor() == before {
			return 0, fmt.Errorf("%w: no progress at byte %d", ErrIO, r.s.Tell())
		}
	}
}
