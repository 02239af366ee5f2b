package nav

import (
	"errors"
	"fmt"
	"log/slog"

	"bdnav/internal/bdmv"
	"bdnav/internal/events"
	"bdnav/internal/logging"
)

type stillHold struct {
	active bool
	clip   int
}

// Navigator tracks playback position within a disc catalog.
type Navigator struct {
	catalog *bdmv.DiscCatalog
	queue   *events.Queue
	logger  *slog.Logger

	state    State
	titleIdx int
	title    *bdmv.TitleDetail
	clip     int
	chapter  int
	angle    int
	// angleChange is set by SeamlessAngleChange until the next read
	// announces it.
	angleChange bool
	pos         uint64
	tick        uint64
	rate        int64
	still       stillHold
}

// New returns a navigator in the Opened state. Events are pushed to queue.
func New(catalog *bdmv.DiscCatalog, queue *events.Queue, logger *slog.Logger) *Navigator {
	return &Navigator{
		catalog: catalog,
		queue:   queue,
		logger:  logging.NewComponentLogger(logger, "nav"),
		state:   Opened,
		rate:    NormalRate,
	}
}

func (n *Navigator) push(t events.Type, param uint64) {
	n.queue.Push(events.New(t, param))
}

func (n *Navigator) setState(next State) {
	if n.state == next {
		return
	}
	n.logger.Debug("navigation state change",
		logging.String("from", n.state.String()),
		logging.String("to", next.String()),
	)
	n.state = next
}

func (n *Navigator) requireTitle() error {
	if n.state == Closed {
		return ErrClosed
	}
	if n.title == nil {
		return ErrNoTitle
	}
	return nil
}

// SelectTitle makes title idx current and resets the position to its start.
func (n *Navigator) SelectTitle(idx int) error {
	if n.state == Closed {
		return ErrClosed
	}
	detail, err := n.catalog.Detail(idx)
	if err != nil {
		if errors.Is(err, bdmv.ErrNotFound) {
			return fmt.Errorf("%w: title %d", ErrNotFound, idx)
		}
		return err
	}

	n.title = &detail
	n.titleIdx = idx
	n.clip = 0
	n.chapter = 0
	n.angle = 0
	n.angleChange = false
	n.pos = 0
	n.tick = 0
	if len(detail.Chapters) > 0 {
		n.tick = detail.Chapters[0].StartTick
	}
	n.still = stillHold{}
	n.setState(TitleSelected)
	n.push(events.Playlist, uint64(detail.PlaylistID))

	n.logger.Info("title selected",
		logging.Int(logging.FieldTitle, idx),
		logging.Uint64(logging.FieldPlaylist, uint64(detail.PlaylistID)),
		logging.Int("clips", detail.ClipCount),
		logging.Int("chapters", detail.ChapterCount),
		logging.Int("angles", detail.AngleCount),
		logging.Ticks("duration", detail.Duration),
	)
	return nil
}

// SelectPlaylist selects the first title that plays playlistID.
func (n *Navigator) SelectPlaylist(playlistID uint32) error {
	if n.state == Closed {
		return ErrClosed
	}
	idx, err := n.catalog.PlaylistTitle(playlistID)
	if err != nil {
		return fmt.Errorf("%w: playlist %05d", ErrNotFound, playlistID)
	}
	return n.SelectTitle(idx)
}

// beginSeek cancels any still hold and returns the state to restore once
// the seek completes.
func (n *Navigator) beginSeek() State {
	resume := n.state
	switch resume {
	case EndOfTitle, Seeking:
		resume = TitleSelected
	}
	n.still = stillHold{}
	n.setState(Seeking)
	return resume
}

// finishSeek restores resume after the position moved into chapter. Seeks
// that resolve a chapter by tick pass it directly since chapters closer
// than a packet share a byte offset.
func (n *Navigator) finishSeek(resume State, chapter int) {
	n.clip = n.title.ClipAtByte(n.pos)
	if n.clip < 0 {
		n.clip = 0
	}
	n.chapter = chapter
	n.setState(resume)
	n.push(events.Seek, n.tick)
	n.logger.Debug("seek complete",
		logging.Uint64("byte_position", n.pos),
		logging.Ticks("time_position", n.tick),
		logging.Int(logging.FieldChapter, n.chapter),
		logging.Int("clip_index", n.clip),
	)
}

// SeekByte moves to pos clamped to [0, title size] and returns the
// resulting position.
func (n *Navigator) SeekByte(pos uint64) (uint64, error) {
	if err := n.requireTitle(); err != nil {
		return 0, err
	}
	resume := n.beginSeek()
	n.pos = min(pos, n.title.SizeBytes)
	n.tick = n.title.TimeAtByte(n.pos)
	n.finishSeek(resume, n.title.ChapterAtByte(n.pos))
	return n.pos, nil
}

// SeekTime moves to the start of the chapter containing tick, clamped to
// [0, duration], and returns the resulting tick. Titles without chapters
// are positioned proportionally inside the clip presenting tick.
func (n *Navigator) SeekTime(tick uint64) (uint64, error) {
	if err := n.requireTitle(); err != nil {
		return 0, err
	}
	resume := n.beginSeek()
	tick = min(tick, n.title.Duration)
	chapter := 0
	switch ci := n.title.ChapterAtTick(tick); {
	case len(n.title.Chapters) == 0:
		n.pos = n.title.ByteAtTime(tick)
		n.tick = tick
	case ci < 0:
		n.pos, n.tick = 0, 0
	default:
		ch := n.title.Chapters[ci]
		n.pos, n.tick = ch.ByteOffset, ch.StartTick
		chapter = ci
	}
	n.finishSeek(resume, chapter)
	return n.tick, nil
}

// SeekChapter moves to the start of chapter idx and returns its tick.
func (n *Navigator) SeekChapter(idx int) (uint64, error) {
	if err := n.requireTitle(); err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(n.title.Chapters) {
		return 0, fmt.Errorf("%w: chapter %d of %d", ErrNotFound, idx, len(n.title.Chapters))
	}
	return n.SeekTime(n.title.Chapters[idx].StartTick)
}

// ChapterPos returns the byte offset where chapter idx starts.
func (n *Navigator) ChapterPos(idx int) (uint64, error) {
	if err := n.requireTitle(); err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(n.title.Chapters) {
		return 0, fmt.Errorf("%w: chapter %d of %d", ErrNotFound, idx, len(n.title.Chapters))
	}
	return n.title.Chapters[idx].ByteOffset, nil
}

func (n *Navigator) checkAngle(angle int) error {
	if err := n.requireTitle(); err != nil {
		return err
	}
	if angle < 0 || angle >= n.title.AngleCount {
		return fmt.Errorf("%w: angle %d of %d", ErrNotFound, angle, n.title.AngleCount)
	}
	return nil
}

// SelectAngle switches the presented angle without moving the position or
// raising an event. It supersedes a pending seamless change.
func (n *Navigator) SelectAngle(angle int) error {
	if err := n.checkAngle(angle); err != nil {
		return err
	}
	n.angle = angle
	n.angleChange = false
	return nil
}

// SeamlessAngleChange switches the presented angle. The Angle event is
// raised by AnnounceAngleChange when the next read delivers new-angle data.
func (n *Navigator) SeamlessAngleChange(angle int) error {
	if err := n.checkAngle(angle); err != nil {
		return err
	}
	n.angle = angle
	n.angleChange = true
	n.logger.Debug("angle change pending", logging.Int(logging.FieldAngle, angle))
	return nil
}

// AnnounceAngleChange queues the Angle event for a pending seamless change
// and reports whether there was one.
func (n *Navigator) AnnounceAngleChange() bool {
	if !n.angleChange || n.title == nil {
		return false
	}
	n.angleChange = false
	n.push(events.Angle, uint64(n.angle))
	return true
}

// SetRate sets the playback rate. Zero pauses, NormalRate plays at normal
// speed, negative rates fail with ErrInvalidArgument.
func (n *Navigator) SetRate(rate int64) error {
	if n.state == Closed {
		return ErrClosed
	}
	if rate < 0 {
		return fmt.Errorf("%w: rate %d; reverse playback is not supported", ErrInvalidArgument, rate)
	}
	n.rate = rate
	if n.title == nil {
		return nil
	}
	switch n.state {
	case TitleSelected, Playing, Paused:
		if rate == 0 {
			n.setState(Paused)
		} else {
			n.setState(Playing)
		}
	}
	return nil
}

// Advance records that consumed bytes of the current clip were delivered.
// It raises PlayMark, Chapter, PlayItem, Discontinuity, Still and
// EndOfTitle events for the boundaries crossed.
func (n *Navigator) Advance(consumed uint64) error {
	if err := n.requireTitle(); err != nil {
		return err
	}
	if n.state == EndOfTitle {
		return nil
	}
	if n.state == TitleSelected || n.state == Seeking {
		n.setState(Playing)
	}

	t := n.title
	old := n.pos
	next := min(old+consumed, t.SizeBytes)
	oldClip, oldChapter := n.clip, n.chapter

	n.pos = next
	n.tick = t.TimeAtByte(next)
	if next > old {
		for _, mi := range t.MarksBetween(old, next) {
			n.push(events.PlayMark, uint64(mi))
		}
		n.chapter = max(t.ChapterAtByte(next), oldChapter)
		for c := oldChapter + 1; c <= n.chapter; c++ {
			n.push(events.Chapter, uint64(c))
		}
		if ci := t.ClipAtByte(next); ci > oldClip {
			for k := oldClip + 1; k <= ci; k++ {
				n.push(events.PlayItem, uint64(k))
				if !bdmv.SameCodecs(t.Clips[k-1], t.Clips[k]) {
					n.push(events.Discontinuity, uint64(k))
				}
			}
			n.clip = ci
		}
		if oldClip >= 0 && oldClip < len(t.Clips) && t.Clips[oldClip].StillMode.Holds() &&
			old < t.ClipEnd(oldClip) && next >= t.ClipEnd(oldClip) {
			n.still = stillHold{active: true, clip: oldClip}
			n.push(events.Still, 1)
			n.logger.Debug("still hold entered",
				logging.Int("clip_index", oldClip),
				logging.String("still_mode", t.Clips[oldClip].StillMode.String()),
			)
		}
	}

	if next == t.SizeBytes && !n.still.active {
		n.endTitle()
	}
	return nil
}

func (n *Navigator) endTitle() {
	n.setState(EndOfTitle)
	n.push(events.EndOfTitle, uint64(n.titleIdx))
	n.logger.Info("end of title", logging.Int(logging.FieldTitle, n.titleIdx))
}

// Still returns the active still hold.
func (n *Navigator) Still() (Still, bool) {
	if !n.still.active || n.title == nil {
		return Still{}, false
	}
	clip := n.title.Clips[n.still.clip]
	return Still{
		Clip:          n.still.clip,
		Mode:          clip.StillMode.String(),
		Permanent:     clip.StillMode == bdmv.StillPermanent,
		DurationTicks: clip.StillDurationTicks,
	}, true
}

// ReleaseStill ends an active still hold. A hold at the end of the title
// completes it.
func (n *Navigator) ReleaseStill() {
	if !n.still.active {
		return
	}
	n.still = stillHold{}
	n.logger.Debug("still hold released")
	if n.title != nil && n.pos == n.title.SizeBytes && n.state != EndOfTitle {
		n.endTitle()
	}
}

// Close moves the navigator to Closed. Later calls fail with ErrClosed.
func (n *Navigator) Close() {
	n.title = nil
	n.still = stillHold{}
	n.setState(Closed)
}

// State returns the current state.
func (n *Navigator) State() State { return n.state }

// CurrentTitle returns the selected title index.
func (n *Navigator) CurrentTitle() (int, bool) {
	if n.title == nil {
		return 0, false
	}
	return n.titleIdx, true
}

// CurrentChapter returns the chapter containing the position, 0 when the
// title has no chapters.
func (n *Navigator) CurrentChapter() int { return n.chapter }

// CurrentAngle returns the presented angle.
func (n *Navigator) CurrentAngle() int { return n.angle }

// CurrentClip returns the index of the clip containing the position.
func (n *Navigator) CurrentClip() int { return n.clip }

// Tell returns the byte position within the title.
func (n *Navigator) Tell() uint64 { return n.pos }

// TellTime returns the presentation time position in ticks.
func (n *Navigator) TellTime() uint64 { return n.tick }

// Rate returns the playback rate.
func (n *Navigator) Rate() int64 { return n.rate }

// TitleSize returns the selected title's size in bytes.
func (n *Navigator) TitleSize() uint64 {
	if n.title == nil {
		return 0
	}
	return n.title.SizeBytes
}

// Title returns a copy of the selected title.
func (n *Navigator) Title() (bdmv.TitleDetail, bool) {
	if n.title == nil {
		return bdmv.TitleDetail{}, false
	}
	detail, err := n.catalog.Detail(n.titleIdx)
	return detail, err == nil
}

// ReadWindow describes where the next read lands.
type ReadWindow struct {
	ClipIndex int
	ClipID    string
	Offset    int64
	Remaining uint64
}

// Window returns the clip, clip-relative offset and bytes remaining in the
// clip at the current position for the presented angle. ok is false at the
// end of the title.
func (n *Navigator) Window() (ReadWindow, bool) {
	if n.title == nil || n.pos >= n.title.SizeBytes {
		return ReadWindow{}, false
	}
	ci := n.title.ClipAtByte(n.pos)
	clip := n.title.Clips[ci]
	return ReadWindow{
		ClipIndex: ci,
		ClipID:    clip.AngleClip(n.angle),
		Offset:    int64(n.pos - clip.ByteOffset),
		Remaining: n.title.ClipEnd(ci) - n.pos,
	}, true
}

// Snapshot returns a copy of the navigation state.
func (n *Navigator) Snapshot() NavigationState {
	s := NavigationState{
		State:        n.state,
		Clip:         n.clip,
		Chapter:      n.chapter,
		Angle:        n.angle,
		BytePosition: n.pos,
		TimePosition: n.tick,
		Rate:         n.rate,
		StillActive:  n.still.active,
	}
	if n.title != nil {
		s.Title = n.titleIdx
		s.HasTitle = true
		s.Playlist = n.title.PlaylistID
	}
	return s
}
