package nav_test

import (
	"errors"
	"testing"

	"bdnav/internal/bdmv"
	"bdnav/internal/events"
	"bdnav/internal/logging"
	"bdnav/internal/nav"
	"bdnav/internal/testsupport"
)

const (
	titleChapters = iota
	titleStillAngles
	titleNoChapters
	titleLateChapter
	titleStillAtEnd
	titleSharedChapterOffset
)

func navDisc() testsupport.DiscFixture {
	disc := testsupport.NewDisc()
	disc.AddTitle(1, "00001", 3000, 2700000, 0, 900000, 1800000)

	disc.AddClip("00002", 1000)
	streams := testsupport.DefaultStreams()
	streams[1].Coding = 0x80
	disc.Clips["00003"] = testsupport.ClipFixture{Packets: 500, Streams: streams}
	disc.Titles = append(disc.Titles, testsupport.TitleFixture{
		PlaylistID: 2,
		Items: []testsupport.ItemFixture{
			{ClipID: "00002", In: 0, Out: 900000, StillMode: 1, StillSeconds: 5, AngleClips: []string{"00012"}},
			{ClipID: "00003", In: 0, Out: 450000},
		},
		Marks: []testsupport.MarkFixture{
			{Type: 1, Item: 0, At: 0},
			{Type: 2, Item: 0, At: 450000},
			{Type: 1, Item: 1, At: 0},
		},
	})

	disc.AddTitle(4, "00004", 1000, 900000)
	disc.AddTitle(5, "00005", 1000, 900000, 180000)

	disc.AddClip("00006", 100)
	disc.Titles = append(disc.Titles, testsupport.TitleFixture{
		PlaylistID: 6,
		Items:      []testsupport.ItemFixture{{ClipID: "00006", In: 0, Out: 90000, StillMode: 2}},
		Marks:      []testsupport.MarkFixture{{Type: 1, Item: 0, At: 0}},
	})

	disc.AddTitle(7, "00007", 1, 900000, 0, 2, 900)
	return disc
}

func newNavigator(t *testing.T) (*nav.Navigator, *events.Queue) {
	t.Helper()
	disc := navDisc()
	catalog, err := bdmv.Parse(disc.Index(), disc.ClipInfos())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	queue := events.NewQueue(256, logging.NewNop())
	return nav.New(catalog, queue, logging.NewNop()), queue
}

func selectTitle(t *testing.T, n *nav.Navigator, queue *events.Queue, idx int) {
	t.Helper()
	if err := n.SelectTitle(idx); err != nil {
		t.Fatalf("SelectTitle(%d) returned error: %v", idx, err)
	}
	queue.Clear()
}

func countType(evs []events.Event, typ events.Type) int {
	count := 0
	for _, ev := range evs {
		if ev.Type == typ {
			count++
		}
	}
	return count
}

func TestSelectTitleResetsPosition(t *testing.T) {
	n, queue := newNavigator(t)
	if n.State() != nav.Opened {
		t.Fatalf("initial state = %s", n.State())
	}
	if err := n.SelectTitle(titleStillAngles); err != nil {
		t.Fatalf("SelectTitle returned error: %v", err)
	}
	ev, ok := queue.Pop()
	if !ok || ev.Type != events.Playlist || ev.Param != 2 {
		t.Fatalf("expected playlist event, got %v", ev)
	}
	snap := n.Snapshot()
	if snap.State != nav.TitleSelected || !snap.HasTitle || snap.Title != titleStillAngles || snap.Playlist != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.BytePosition != 0 || snap.TimePosition != 0 || snap.Clip != 0 || snap.Chapter != 0 || snap.Angle != 0 {
		t.Fatalf("position not reset: %+v", snap)
	}
	if n.TitleSize() != 288000 {
		t.Fatalf("TitleSize = %d", n.TitleSize())
	}

	if err := n.SelectTitle(42); !errors.Is(err, nav.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if cur, _ := n.CurrentTitle(); cur != titleStillAngles {
		t.Fatalf("failed select changed title to %d", cur)
	}
}

func TestSelectPlaylist(t *testing.T) {
	n, _ := newNavigator(t)
	if err := n.SelectPlaylist(4); err != nil {
		t.Fatalf("SelectPlaylist returned error: %v", err)
	}
	if cur, _ := n.CurrentTitle(); cur != titleNoChapters {
		t.Fatalf("CurrentTitle = %d", cur)
	}
	if err := n.SelectPlaylist(999); !errors.Is(err, nav.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOperationsRequireTitle(t *testing.T) {
	n, _ := newNavigator(t)
	if _, err := n.SeekByte(0); !errors.Is(err, nav.ErrNoTitle) {
		t.Fatalf("SeekByte: %v", err)
	}
	if _, err := n.SeekTime(0); !errors.Is(err, nav.ErrNoTitle) {
		t.Fatalf("SeekTime: %v", err)
	}
	if err := n.Advance(10); !errors.Is(err, nav.ErrNoTitle) {
		t.Fatalf("Advance: %v", err)
	}
	if _, ok := n.Window(); ok {
		t.Fatal("Window reported data without a title")
	}
	n.Close()
	if err := n.SelectTitle(0); !errors.Is(err, nav.ErrClosed) {
		t.Fatalf("SelectTitle after Close: %v", err)
	}
	if n.State() != nav.Closed {
		t.Fatalf("state = %s", n.State())
	}
}

func TestSeekTimeSnapsToChapterStart(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleChapters)

	cases := []struct {
		tick     uint64
		wantTick uint64
		wantPos  uint64
		chapter  int
	}{
		{0, 0, 0, 0},
		{899999, 0, 0, 0},
		{900000, 900000, 192000, 1},
		{1000000, 900000, 192000, 1},
		{2700000, 1800000, 384000, 2},
		{99999999, 1800000, 384000, 2},
	}
	for _, tc := range cases {
		got, err := n.SeekTime(tc.tick)
		if err != nil {
			t.Fatalf("SeekTime(%d) returned error: %v", tc.tick, err)
		}
		if got != tc.wantTick || n.TellTime() != tc.wantTick || n.Tell() != tc.wantPos || n.CurrentChapter() != tc.chapter {
			t.Fatalf("SeekTime(%d) = %d pos %d chapter %d", tc.tick, got, n.Tell(), n.CurrentChapter())
		}
		ev, ok := queue.Pop()
		if !ok || ev.Type != events.Seek || ev.Param != tc.wantTick {
			t.Fatalf("expected seek event for %d, got %v", tc.wantTick, ev)
		}
	}
}

func TestSeekTimeBeforeFirstChapter(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleLateChapter)
	if got, _ := n.SeekTime(100); got != 0 || n.Tell() != 0 {
		t.Fatalf("SeekTime(100) = %d pos %d", got, n.Tell())
	}
	if got, _ := n.SeekTime(180000); got != 180000 || n.Tell() != 38400 {
		t.Fatalf("SeekTime(180000) = %d pos %d", got, n.Tell())
	}
}

func TestSeekTimeWithoutChaptersIsProportional(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleNoChapters)
	got, err := n.SeekTime(450000)
	if err != nil {
		t.Fatalf("SeekTime returned error: %v", err)
	}
	if got != 450000 || n.Tell() != 96000 {
		t.Fatalf("SeekTime(450000) = %d pos %d", got, n.Tell())
	}
	if n.CurrentChapter() != 0 {
		t.Fatalf("CurrentChapter = %d", n.CurrentChapter())
	}
}

func TestChapterRoundTrip(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleChapters)
	detail, _ := n.Title()
	for c, ch := range detail.Chapters {
		tick, err := n.SeekChapter(c)
		if err != nil {
			t.Fatalf("SeekChapter(%d) returned error: %v", c, err)
		}
		pos, err := n.ChapterPos(c)
		if err != nil {
			t.Fatalf("ChapterPos(%d) returned error: %v", c, err)
		}
		if tick != ch.StartTick || n.Tell() != pos || n.CurrentChapter() != c {
			t.Fatalf("chapter %d: tick %d pos %d (want %d, %d)", c, tick, n.Tell(), ch.StartTick, pos)
		}
	}
	if _, err := n.SeekChapter(3); !errors.Is(err, nav.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := n.ChapterPos(-1); !errors.Is(err, nav.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeekChapterSharingByteOffset(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleSharedChapterOffset)
	for c, tick := range []uint64{0, 2, 900} {
		got, err := n.SeekChapter(c)
		if err != nil {
			t.Fatalf("SeekChapter(%d) returned error: %v", c, err)
		}
		if got != tick || n.Tell() != 0 || n.CurrentChapter() != c {
			t.Fatalf("SeekChapter(%d): tick %d pos %d chapter %d", c, got, n.Tell(), n.CurrentChapter())
		}
	}

	if _, err := n.SeekTime(2); err != nil {
		t.Fatalf("SeekTime returned error: %v", err)
	}
	if n.CurrentChapter() != 1 {
		t.Fatalf("SeekTime(2) chapter = %d", n.CurrentChapter())
	}
	if _, err := n.SeekByte(0); err != nil {
		t.Fatalf("SeekByte returned error: %v", err)
	}
	if n.CurrentChapter() != 2 {
		t.Fatalf("SeekByte(0) chapter = %d, want the last chapter at that offset", n.CurrentChapter())
	}

	_, _ = n.SeekChapter(1)
	queue.Clear()
	if err := n.Advance(192); err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}
	evs := queue.Drain()
	if countType(evs, events.Chapter) != 1 || n.CurrentChapter() != 2 {
		t.Fatalf("advance from chapter 1 raised %v, chapter %d", evs, n.CurrentChapter())
	}
}

func TestLateFirstChapterIsNotAnnounced(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleLateChapter)
	if n.CurrentChapter() != 0 {
		t.Fatalf("CurrentChapter before first chapter = %d", n.CurrentChapter())
	}
	if err := n.Advance(38400 + 192); err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}
	if evs := queue.Drain(); countType(evs, events.Chapter) != 0 {
		t.Fatalf("crossing the first chapter raised %v", evs)
	}
	if n.CurrentChapter() != 0 {
		t.Fatalf("CurrentChapter = %d", n.CurrentChapter())
	}
}

func TestSeekByteClampsAndIsIdempotent(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleChapters)
	first, err := n.SeekByte(1 << 40)
	if err != nil {
		t.Fatalf("SeekByte returned error: %v", err)
	}
	if first != 576000 {
		t.Fatalf("SeekByte clamp = %d", first)
	}
	second, _ := n.SeekByte(1 << 40)
	if second != first || n.Tell() != first {
		t.Fatalf("SeekByte not idempotent: %d then %d", first, second)
	}
	if n.TellTime() != 2700000 {
		t.Fatalf("TellTime at end = %d", n.TellTime())
	}

	pos, _ := n.SeekByte(288000)
	if pos != 288000 || n.TellTime() != 1350000 || n.CurrentChapter() != 1 {
		t.Fatalf("SeekByte(mid) pos %d tick %d chapter %d", pos, n.TellTime(), n.CurrentChapter())
	}
}

func TestAdvanceRaisesBoundaryEventsAndOneEndOfTitle(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleChapters)

	last := n.Tell()
	for i := 0; i < 10; i++ {
		if err := n.Advance(100000); err != nil {
			t.Fatalf("Advance returned error: %v", err)
		}
		if n.Tell() < last {
			t.Fatalf("position moved backwards: %d -> %d", last, n.Tell())
		}
		last = n.Tell()
	}
	evs := queue.Drain()
	if countType(evs, events.EndOfTitle) != 1 {
		t.Fatalf("expected one end of title, got %v", evs)
	}
	if countType(evs, events.Chapter) != 2 || countType(evs, events.PlayMark) != 2 {
		t.Fatalf("unexpected boundary events %v", evs)
	}
	if evs[len(evs)-1].Type != events.EndOfTitle {
		t.Fatalf("end of title not last: %v", evs)
	}
	if n.State() != nav.EndOfTitle || n.Tell() != 576000 {
		t.Fatalf("state %s pos %d", n.State(), n.Tell())
	}
	if _, ok := n.Window(); ok {
		t.Fatal("Window reported data at end of title")
	}

	if _, err := n.SeekTime(0); err != nil {
		t.Fatalf("SeekTime returned error: %v", err)
	}
	if n.State() != nav.TitleSelected {
		t.Fatalf("state after seek = %s", n.State())
	}
	queue.Clear()
	_ = n.Advance(1 << 30)
	if countType(queue.Drain(), events.EndOfTitle) != 1 {
		t.Fatal("replay did not reach end of title again")
	}
}

func TestAdvanceAcrossClipsAndStill(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleStillAngles)

	if err := n.Advance(192000); err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}
	got := queue.Drain()
	want := []events.Event{
		events.New(events.PlayMark, 1),
		events.New(events.PlayMark, 2),
		events.New(events.Chapter, 1),
		events.New(events.PlayItem, 1),
		events.New(events.Discontinuity, 1),
		events.New(events.Still, 1),
	}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Type != want[i].Type || got[i].Param != want[i].Param {
			t.Fatalf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
	still, ok := n.Still()
	if !ok || still.Permanent || still.DurationTicks != 5*bdmv.TicksPerSecond || still.Clip != 0 {
		t.Fatalf("unexpected still %+v ok=%v", still, ok)
	}
	if n.CurrentClip() != 1 || n.State() != nav.Playing {
		t.Fatalf("clip %d state %s", n.CurrentClip(), n.State())
	}

	n.ReleaseStill()
	if _, ok := n.Still(); ok {
		t.Fatal("still still active after release")
	}
	if n.State() == nav.EndOfTitle {
		t.Fatal("release mid-title ended the title")
	}
	_ = n.Advance(96000)
	if countType(queue.Drain(), events.EndOfTitle) != 1 {
		t.Fatal("expected end of title")
	}
}

func TestStillAtEndDefersEndOfTitle(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleStillAtEnd)
	_ = n.Advance(1 << 20)
	evs := queue.Drain()
	if countType(evs, events.Still) != 1 || countType(evs, events.EndOfTitle) != 0 {
		t.Fatalf("unexpected events %v", evs)
	}
	still, ok := n.Still()
	if !ok || !still.Permanent {
		t.Fatalf("expected permanent still, got %+v", still)
	}
	_ = n.Advance(0)
	if queue.Len() != 0 {
		t.Fatalf("advance during still raised %v", queue.Drain())
	}
	n.ReleaseStill()
	ev, ok := queue.Pop()
	if !ok || ev.Type != events.EndOfTitle || ev.Param != titleStillAtEnd {
		t.Fatalf("expected end of title after release, got %v", ev)
	}
	if n.State() != nav.EndOfTitle {
		t.Fatalf("state = %s", n.State())
	}
}

func TestSeekClearsStill(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleStillAngles)
	_ = n.Advance(192000)
	if _, ok := n.Still(); !ok {
		t.Fatal("expected still")
	}
	if _, err := n.SeekByte(0); err != nil {
		t.Fatalf("SeekByte returned error: %v", err)
	}
	if _, ok := n.Still(); ok {
		t.Fatal("seek left the still active")
	}
	if n.CurrentClip() != 0 {
		t.Fatalf("clip after seek = %d", n.CurrentClip())
	}
}

func TestAngleSelection(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleStillAngles)

	if err := n.SelectAngle(1); err != nil {
		t.Fatalf("SelectAngle returned error: %v", err)
	}
	if queue.Len() != 0 {
		t.Fatal("SelectAngle raised an event")
	}
	win, ok := n.Window()
	if !ok || win.ClipID != "00012" || win.ClipIndex != 0 {
		t.Fatalf("unexpected window %+v", win)
	}
	if err := n.SelectAngle(2); !errors.Is(err, nav.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n.CurrentAngle() != 1 {
		t.Fatalf("failed select changed angle to %d", n.CurrentAngle())
	}

	if err := n.SeamlessAngleChange(0); err != nil {
		t.Fatalf("SeamlessAngleChange returned error: %v", err)
	}
	if queue.Len() != 0 {
		t.Fatal("angle event raised before the next read")
	}
	if !n.AnnounceAngleChange() {
		t.Fatal("expected a pending angle change")
	}
	ev, ok := queue.Pop()
	if !ok || ev.Type != events.Angle || ev.Param != 0 {
		t.Fatalf("expected angle event, got %v", ev)
	}
	if n.AnnounceAngleChange() {
		t.Fatal("angle change announced twice")
	}

	if err := n.SeamlessAngleChange(1); err != nil {
		t.Fatalf("SeamlessAngleChange returned error: %v", err)
	}
	if err := n.SelectAngle(0); err != nil {
		t.Fatalf("SelectAngle returned error: %v", err)
	}
	if n.AnnounceAngleChange() {
		t.Fatal("silent selection should cancel the pending announcement")
	}

	_, _ = n.SeekByte(200000)
	if err := n.SelectAngle(1); err != nil {
		t.Fatalf("SelectAngle returned error: %v", err)
	}
	win, _ = n.Window()
	if win.ClipID != "00003" {
		t.Fatalf("clip without angles should fall back to primary, got %q", win.ClipID)
	}
}

func TestWindow(t *testing.T) {
	n, queue := newNavigator(t)
	selectTitle(t, n, queue, titleStillAngles)
	_, _ = n.SeekByte(100000)
	win, ok := n.Window()
	if !ok {
		t.Fatal("expected window")
	}
	if win.ClipIndex != 0 || win.ClipID != "00002" || win.Offset != 100000 || win.Remaining != 92000 {
		t.Fatalf("unexpected window %+v", win)
	}
	_, _ = n.SeekByte(200000)
	win, _ = n.Window()
	if win.ClipIndex != 1 || win.Offset != 8000 || win.Remaining != 88000 {
		t.Fatalf("unexpected window %+v", win)
	}
}

func TestSetRate(t *testing.T) {
	n, queue := newNavigator(t)
	if err := n.SetRate(-1); !errors.Is(err, nav.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err := n.SetRate(0); err != nil || n.State() != nav.Opened {
		t.Fatalf("rate without title: err=%v state=%s", err, n.State())
	}
	selectTitle(t, n, queue, titleChapters)
	_ = n.SetRate(0)
	if n.State() != nav.Paused || n.Rate() != 0 {
		t.Fatalf("state %s rate %d", n.State(), n.Rate())
	}
	_, _ = n.SeekTime(900000)
	if n.State() != nav.Paused {
		t.Fatalf("seek left paused state: %s", n.State())
	}
	_ = n.SetRate(nav.NormalRate)
	if n.State() != nav.Playing || n.Rate() != nav.NormalRate {
		t.Fatalf("state %s rate %d", n.State(), n.Rate())
	}
}

func TestStateNames(t *testing.T) {
	if nav.EndOfTitle.String() != "end_of_title" || nav.State(99).String() != "unknown(99)" {
		t.Fatal("unexpected state names")
	}
}
