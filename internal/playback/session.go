package playback

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bdnav/internal/bdmv"
	"bdnav/internal/events"
	"bdnav/internal/logging"
	"bdnav/internal/nav"
	"bdnav/internal/settings"
)

// Options configures a session. Zero values select defaults.
type Options struct {
	Logger        *slog.Logger
	Settings      settings.Store
	Menu          Menu
	ChainTitles   bool
	QueueCapacity int
	Clock         func() time.Time
}

type stillTimer struct {
	deadline time.Time
	armed    bool
}

// Session is one open disc.
type Session struct {
	id       string
	catalog  *bdmv.DiscCatalog
	source   ClipSource
	queue    *events.Queue
	nav      *nav.Navigator
	logger   *slog.Logger
	settings settings.Store
	menu     Menu
	chain    bool
	clock    func() time.Time
	still    stillTimer
	closed   bool
}

// Open parses the disc metadata and returns a session with no title
// selected. A parse failure leaves nothing to close.
func Open(ctx context.Context, disc Disc, opts Options) (*Session, error) {
	if disc.Source == nil {
		return nil, fmt.Errorf("open disc: clip source is required")
	}
	catalog, err := bdmv.Parse(disc.Index, disc.ClipInfos)
	if err != nil {
		return nil, fmt.Errorf("parse disc metadata: %w", err)
	}

	id := uuid.NewString()
	logger := logging.WithSession(logging.NewComponentLogger(opts.Logger, "playback"), id, catalog.DiscIDHex())
	store := opts.Settings
	if store == nil {
		store = settings.NewMemoryStore()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	capacity := opts.QueueCapacity
	if capacity <= 0 {
		capacity = events.DefaultCapacity
	}
	queue := events.NewQueue(capacity, logger)

	s := &Session{
		id:       id,
		catalog:  catalog,
		source:   disc.Source,
		queue:    queue,
		nav:      nav.New(catalog, queue, logger),
		logger:   logger,
		settings: store,
		menu:     opts.Menu,
		chain:    opts.ChainTitles,
		clock:    clock,
	}

	mainTitle, mainErr := catalog.MainTitle()
	attrs := []logging.Attr{
		logging.String("disc_name", catalog.DiscName),
		logging.Int("titles", catalog.TitleCount()),
		logging.Int("hdmv_titles", catalog.HDMVTitleCount),
		logging.Int("bdj_titles", catalog.BDJTitleCount),
		logging.Bool("aacs", catalog.AACSDetected),
	}
	if mainErr == nil {
		attrs = append(attrs, logging.Int("main_title", mainTitle))
	}
	logger.Info("disc opened", logging.Args(attrs...)...)
	if catalog.AACSDetected {
		queue.Push(events.New(events.Encrypted, 0))
	}
	return s, nil
}

// ID returns the session id used in logs.
func (s *Session) ID() string { return s.id }

// Catalog returns the parsed disc catalog. It is immutable.
func (s *Session) Catalog() *bdmv.DiscCatalog { return s.catalog }

// Titles returns copies of every title summary.
func (s *Session) Titles() []bdmv.TitleSummary { return s.catalog.Summaries() }

// TitleInfo returns a copy of title idx.
func (s *Session) TitleInfo(idx int) (bdmv.TitleDetail, error) {
	return s.catalog.Detail(idx)
}

// SelectTitle makes title idx current, announces the default streams and
// checks the title's clips against the source.
func (s *Session) SelectTitle(ctx context.Context, idx int) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.nav.SelectTitle(idx); err != nil {
		return err
	}
	s.still = stillTimer{}
	detail, _ := s.nav.Title()
	s.checkClipSizes(ctx, detail)
	s.queue.Push(events.New(events.AudioStream, uint64(s.DefaultAudioStream(ctx))))
	s.queue.Push(events.New(events.PGTextSTStream, uint64(s.DefaultSubtitleStream(ctx))))
	return nil
}

// SelectPlaylist selects the title that plays playlistID.
func (s *Session) SelectPlaylist(ctx context.Context, playlistID uint32) error {
	if s.closed {
		return ErrClosed
	}
	idx, err := s.catalog.PlaylistTitle(playlistID)
	if err != nil {
		return fmt.Errorf("%w: playlist %05d", nav.ErrNotFound, playlistID)
	}
	return s.SelectTitle(ctx, idx)
}

func (s *Session) checkClipSizes(ctx context.Context, detail bdmv.TitleDetail) {
	for i, clip := range detail.Clips {
		size, err := s.source.SizeOf(ctx, clip.ClipID)
		if err != nil {
			logging.WarnWithContext(s.logger, "clip size lookup failed", "clip_size_unavailable",
				logging.String(logging.FieldClip, clip.ClipID),
				logging.Int("clip_index", i),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "verify the disc's STREAM directory is complete"),
				logging.String(logging.FieldImpact, "reads from this clip will raise error events"),
			)
			continue
		}
		if uint64(size) < clip.SizeBytes() {
			logging.WarnWithContext(s.logger, "clip smaller than metadata", "clip_size_mismatch",
				logging.String(logging.FieldClip, clip.ClipID),
				logging.Int64("size_bytes", size),
				logging.Uint64("expected_bytes", clip.SizeBytes()),
				logging.String(logging.FieldErrorHint, "the clip file may be truncated"),
				logging.String(logging.FieldImpact, "reads past the end of the file will raise read errors"),
			)
		}
	}
}

// Play starts normal-speed playback, selecting the main title when no
// title is selected.
func (s *Session) Play(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.nav.CurrentTitle(); !ok {
		idx, err := s.catalog.MainTitle()
		if err != nil {
			return fmt.Errorf("%w: disc has no titles", nav.ErrNotFound)
		}
		if err := s.SelectTitle(ctx, idx); err != nil {
			return err
		}
	}
	return s.nav.SetRate(nav.NormalRate)
}

// PlayTitle selects title idx and starts normal-speed playback.
func (s *Session) PlayTitle(ctx context.Context, idx int) error {
	if err := s.SelectTitle(ctx, idx); err != nil {
		return err
	}
	return s.nav.SetRate(nav.NormalRate)
}

// SeekByte moves to title byte offset pos, clamped to the title.
func (s *Session) SeekByte(pos uint64) (uint64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	s.still = stillTimer{}
	return s.nav.SeekByte(pos)
}

// SeekTime moves to the start of the chapter containing tick.
func (s *Session) SeekTime(tick uint64) (uint64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	s.still = stillTimer{}
	return s.nav.SeekTime(tick)
}

// SeekChapter moves to the start of chapter idx.
func (s *Session) SeekChapter(idx int) (uint64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	s.still = stillTimer{}
	return s.nav.SeekChapter(idx)
}

// ChapterPos returns the byte offset of chapter idx.
func (s *Session) ChapterPos(idx int) (uint64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return s.nav.ChapterPos(idx)
}

// SelectAngle switches angle silently.
func (s *Session) SelectAngle(angle int) error {
	if s.closed {
		return ErrClosed
	}
	return s.nav.SelectAngle(angle)
}

// SeamlessAngleChange switches angle. The next read raises the Angle event.
func (s *Session) SeamlessAngleChange(angle int) error {
	if s.closed {
		return ErrClosed
	}
	return s.nav.SeamlessAngleChange(angle)
}

// SetRate sets the playback rate; 0 pauses and nav.NormalRate plays.
func (s *Session) SetRate(rate int64) error {
	if s.closed {
		return ErrClosed
	}
	return s.nav.SetRate(rate)
}

// SkipStill releases an active still hold.
func (s *Session) SkipStill() error {
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.nav.Still(); ok {
		s.logger.Debug("still skipped")
	}
	s.still = stillTimer{}
	s.nav.ReleaseStill()
	return nil
}

// Pop returns the oldest pending event. ok is false when none is pending.
func (s *Session) Pop() (events.Event, bool) { return s.queue.Pop() }

// PostEvent queues an event raised by a collaborator such as the menu. It
// reports false when the session is closed or an older event was evicted.
func (s *Session) PostEvent(ev events.Event) bool {
	if s.closed {
		return false
	}
	return s.queue.Push(ev)
}

// UserInput forwards a key press to the menu collaborator.
func (s *Session) UserInput(key uint32) int {
	if s.closed || s.menu == nil {
		return -1
	}
	status := s.menu.UserInput(key)
	s.logger.Debug("menu user input", logging.Uint64("key", uint64(key)), logging.Int("status", status))
	return status
}

// MouseSelect forwards a pointer selection to the menu collaborator.
func (s *Session) MouseSelect(x, y uint16) int {
	if s.closed || s.menu == nil {
		return -1
	}
	status := s.menu.MouseSelect(x, y)
	s.logger.Debug("menu mouse select", logging.Int("x", int(x)), logging.Int("y", int(y)), logging.Int("status", status))
	return status
}

// MenuCall asks the menu collaborator to open the top menu at tick.
func (s *Session) MenuCall(tick int64) int {
	if s.closed || s.menu == nil {
		return -1
	}
	status := s.menu.MenuCall(tick)
	s.logger.Debug("menu call", logging.Int64("tick", tick), logging.Int("status", status))
	return status
}

// State returns the navigation state.
func (s *Session) State() nav.State { return s.nav.State() }

// Snapshot returns a copy of the navigation state.
func (s *Session) Snapshot() nav.NavigationState { return s.nav.Snapshot() }

// Tell returns the byte position within the current title.
func (s *Session) Tell() uint64 { return s.nav.Tell() }

// TellTime returns the time position within the current title in ticks.
func (s *Session) TellTime() uint64 { return s.nav.TellTime() }

// TitleSize returns the current title's size in bytes.
func (s *Session) TitleSize() uint64 { return s.nav.TitleSize() }

// CurrentTitle returns the selected title index.
func (s *Session) CurrentTitle() (int, bool) { return s.nav.CurrentTitle() }

// Close releases the clip source. Later calls fail with ErrClosed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.nav.Close()
	s.queue.Clear()
	s.still = stillTimer{}
	s.logger.Info("session closed", logging.Uint64("events_dropped", s.queue.Dropped()))
	if closer, ok := s.source.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("close clip source: %w", err)
		}
	}
	return nil
}
