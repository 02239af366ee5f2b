package bdmv

import "fmt"

const (
	// TicksPerSecond is the presentation clock rate.
	TicksPerSecond = 90000
	// SourcePacketSize is the size of one transport stream source packet.
	SourcePacketSize = 192
)

// TitleKind classifies how a title is driven.
type TitleKind uint8

const (
	TitleKindHDMV        TitleKind = 0
	TitleKindBDJ         TitleKind = 1
	TitleKindUnsupported TitleKind = 2
)

// String returns a short label for the title kind.
func (k TitleKind) String() string {
	switch k {
	case TitleKindHDMV:
		return "hdmv"
	case TitleKindBDJ:
		return "bdj"
	case TitleKindUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// StillMode describes what happens when a clip finishes presenting.
type StillMode uint8

const (
	StillNone      StillMode = 0
	StillTimed     StillMode = 1
	StillPermanent StillMode = 2
)

// String returns a short label for the still mode.
func (m StillMode) String() string {
	switch m {
	case StillNone:
		return "none"
	case StillTimed:
		return "timed"
	case StillPermanent:
		return "permanent"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// Holds reports whether the clip freezes on its last frame.
func (m StillMode) Holds() bool {
	return m == StillTimed || m == StillPermanent
}

// MarkType tags a navigation point inside a title.
type MarkType uint8

const (
	MarkEntry MarkType = 1
	MarkLink  MarkType = 2
)

// String returns a short label for the mark type.
func (t MarkType) String() string {
	switch t {
	case MarkEntry:
		return "entry"
	case MarkLink:
		return "link"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// StreamKind classifies an elementary stream listed in a clip.
type StreamKind uint8

const (
	StreamVideo          StreamKind = 0
	StreamAudio          StreamKind = 1
	StreamPG             StreamKind = 2
	StreamIG             StreamKind = 3
	StreamSecondaryAudio StreamKind = 4
	StreamSecondaryVideo StreamKind = 5
)

// String returns a short label for the stream kind.
func (k StreamKind) String() string {
	switch k {
	case StreamVideo:
		return "video"
	case StreamAudio:
		return "audio"
	case StreamPG:
		return "pg"
	case StreamIG:
		return "ig"
	case StreamSecondaryAudio:
		return "secondary_audio"
	case StreamSecondaryVideo:
		return "secondary_video"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// StreamInfo describes one elementary stream of a clip.
type StreamInfo struct {
	Kind       StreamKind
	CodingType uint8
	Format     uint8
	Rate       uint8
	CharCode   uint8
	Language   string
	PID        uint16
	Aspect     uint8
	SubpathID  uint8
}

// ClipInfo is one play item of a title. Times are in ticks; StartTime is
// title-relative while InTime and OutTime are on the clip's own timeline.
type ClipInfo struct {
	ClipID             string
	AngleClipIDs       []string
	PacketCount        uint32
	StillMode          StillMode
	StillDurationTicks uint64

	VideoStreamCount          int
	AudioStreamCount          int
	PGStreamCount             int
	IGStreamCount             int
	SecondaryAudioStreamCount int
	SecondaryVideoStreamCount int
	Streams                   []StreamInfo

	StartTime uint64
	InTime    uint64
	OutTime   uint64

	// ByteOffset is where the clip's data begins within the title.
	ByteOffset uint64
}

// Duration returns the presented length of the clip in ticks.
func (c ClipInfo) Duration() uint64 { return c.OutTime - c.InTime }

// SizeBytes returns the clip's payload size.
func (c ClipInfo) SizeBytes() uint64 { return uint64(c.PacketCount) * SourcePacketSize }

// AngleClip returns the clip id to read for angle. Play items with fewer
// angles fall back to the primary clip.
func (c ClipInfo) AngleClip(angle int) string {
	if angle > 0 && angle < len(c.AngleClipIDs) {
		return c.AngleClipIDs[angle]
	}
	return c.ClipID
}

// Chapter is a playback-order navigation point derived from an entry mark.
type Chapter struct {
	Index         int
	StartTick     uint64
	DurationTicks uint64
	ByteOffset    uint64
	ClipRef       int
}

// Mark is a navigation point of any type.
type Mark struct {
	Index         int
	Type          MarkType
	StartTick     uint64
	DurationTicks uint64
	ByteOffset    uint64
	ClipRef       int
}

// TitleSummary is the per-title catalog entry.
type TitleSummary struct {
	Index        int
	PlaylistID   uint32
	Kind         TitleKind
	Hidden       bool
	Interactive  bool
	Duration     uint64
	SizeBytes    uint64
	ClipCount    int
	AngleCount   int
	ChapterCount int
	MarkCount    int
}

// Seconds returns the duration rounded down to whole seconds.
func (s TitleSummary) Seconds() uint64 { return s.Duration / TicksPerSecond }

// TitleDetail is the full expansion of a title.
type TitleDetail struct {
	TitleSummary
	Clips    []ClipInfo
	Chapters []Chapter
	Marks    []Mark
}

func (t TitleDetail) clone() TitleDetail {
	out := t
	out.Clips = make([]ClipInfo, len(t.Clips))
	for i, clip := range t.Clips {
		clip.AngleClipIDs = append([]string(nil), clip.AngleClipIDs...)
		clip.Streams = append([]StreamInfo(nil), clip.Streams...)
		out.Clips[i] = clip
	}
	out.Chapters = append([]Chapter(nil), t.Chapters...)
	out.Marks = append([]Mark(nil), t.Marks...)
	return out
}
