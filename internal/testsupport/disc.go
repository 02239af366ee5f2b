package testsupport

import (
	"encoding/binary"
	"sort"
)

// DiscFixture describes a disc whose metadata can be encoded into index and
// clip info buffers. Times are 90 kHz ticks and must be even, since the
// wire format stores 45 kHz units.
type DiscFixture struct {
	Version   string
	DiscID    [20]byte
	Name      string
	VolumeID  string
	FirstPlay bool
	TopMenu   bool
	NoMenu    bool
	AACS      bool
	MainTitle int
	Titles    []TitleFixture
	Clips     map[string]ClipFixture
}

// TitleFixture is one title table record.
type TitleFixture struct {
	Kind       uint8
	Hidden     bool
	PlaylistID uint32
	Items      []ItemFixture
	Marks      []MarkFixture
}

// ItemFixture is one play item.
type ItemFixture struct {
	ClipID       string
	In           uint64
	Out          uint64
	StillMode    uint8
	StillSeconds uint16
	AngleClips   []string
}

// MarkFixture is one mark; At is on the referenced clip's timeline.
type MarkFixture struct {
	Type uint8
	Item int
	At   uint64
}

// ClipFixture is one clip info record.
type ClipFixture struct {
	Packets uint32
	Streams []StreamFixture
}

// StreamFixture is one stream table entry.
type StreamFixture struct {
	Kind   uint8
	Coding uint8
	Format uint8
	Rate   uint8
	Lang   string
	PID    uint16
}

// NewDisc returns a fixture with no designated main title.
func NewDisc() DiscFixture {
	return DiscFixture{
		Version:   "0200",
		Name:      "TEST DISC",
		VolumeID:  "TEST_DISC",
		MainTitle: -1,
		Clips:     map[string]ClipFixture{},
	}
}

// DefaultStreams is a one-video, one-audio stream table.
func DefaultStreams() []StreamFixture {
	return []StreamFixture{
		{Kind: 0, Coding: 0x1b, Format: 6, Rate: 1, PID: 0x1011},
		{Kind: 1, Coding: 0x81, Format: 6, Rate: 1, Lang: "eng", PID: 0x1100},
	}
}

// AddClip registers a clip with packets source packets and default streams.
func (d *DiscFixture) AddClip(id string, packets uint32) {
	if d.Clips == nil {
		d.Clips = map[string]ClipFixture{}
	}
	d.Clips[id] = ClipFixture{Packets: packets, Streams: DefaultStreams()}
}

// AddTitle appends a single-clip title lasting duration ticks with one
// entry mark per chapter start tick.
func (d *DiscFixture) AddTitle(playlist uint32, clipID string, packets uint32, duration uint64, chapterTicks ...uint64) {
	d.AddClip(clipID, packets)
	title := TitleFixture{
		PlaylistID: playlist,
		Items:      []ItemFixture{{ClipID: clipID, In: 0, Out: duration}},
	}
	for _, tick := range chapterTicks {
		title.Marks = append(title.Marks, MarkFixture{Type: 1, Item: 0, At: tick})
	}
	d.Titles = append(d.Titles, title)
}

// Index encodes the index buffer.
func (d DiscFixture) Index() []byte {
	version := d.Version
	if version == "" {
		version = "0200"
	}
	out := []byte("NAVI" + version)

	var disc []byte
	disc = append(disc, d.DiscID[:]...)
	var flags byte
	if d.FirstPlay {
		flags |= 1
	}
	if d.TopMenu {
		flags |= 2
	}
	if d.NoMenu {
		flags |= 4
	}
	if d.AACS {
		flags |= 16
	}
	disc = append(disc, flags, 6, 1)
	main := uint16(0xFFFF)
	if d.MainTitle >= 0 {
		main = uint16(d.MainTitle)
	}
	disc = binary.BigEndian.AppendUint16(disc, main)
	disc = appendStr8(disc, d.Name)
	disc = appendStr8(disc, d.VolumeID)
	disc = append(disc, make([]byte, 32)...)

	out = binary.BigEndian.AppendUint32(out, uint32(len(disc)))
	out = append(out, disc...)

	table := binary.BigEndian.AppendUint16(nil, uint16(len(d.Titles)))
	for _, title := range d.Titles {
		rec := encodeTitle(title)
		table = binary.BigEndian.AppendUint16(table, uint16(len(rec)))
		table = append(table, rec...)
	}
	out = binary.BigEndian.AppendUint32(out, uint32(len(table)))
	return append(out, table...)
}

func encodeTitle(t TitleFixture) []byte {
	var flags byte
	if t.Hidden {
		flags |= 1
	}
	rec := []byte{t.Kind, flags}
	rec = binary.BigEndian.AppendUint32(rec, t.PlaylistID)
	rec = binary.BigEndian.AppendUint16(rec, uint16(len(t.Items)))
	for _, item := range t.Items {
		rec = appendClipID(rec, item.ClipID)
		rec = binary.BigEndian.AppendUint32(rec, uint32(item.In/2))
		rec = binary.BigEndian.AppendUint32(rec, uint32(item.Out/2))
		rec = append(rec, item.StillMode)
		rec = binary.BigEndian.AppendUint16(rec, item.StillSeconds)
		rec = append(rec, byte(len(item.AngleClips)+1))
		for _, angle := range item.AngleClips {
			rec = appendClipID(rec, angle)
		}
	}
	rec = binary.BigEndian.AppendUint16(rec, uint16(len(t.Marks)))
	for _, mark := range t.Marks {
		rec = append(rec, mark.Type)
		rec = binary.BigEndian.AppendUint16(rec, uint16(mark.Item))
		rec = binary.BigEndian.AppendUint32(rec, uint32(mark.At/2))
	}
	return rec
}

// ClipInfos encodes every clip info buffer keyed by clip id.
func (d DiscFixture) ClipInfos() map[string][]byte {
	out := make(map[string][]byte, len(d.Clips))
	for id, clip := range d.Clips {
		out[id] = EncodeClipInfo(clip)
	}
	return out
}

// ClipIDs returns the registered clip ids in sorted order.
func (d DiscFixture) ClipIDs() []string {
	ids := make([]string, 0, len(d.Clips))
	for id := range d.Clips {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClipSize returns the payload size of clip id.
func (d DiscFixture) ClipSize(id string) int64 {
	return int64(d.Clips[id].Packets) * 192
}

// EncodeClipInfo encodes one clip info buffer.
func EncodeClipInfo(c ClipFixture) []byte {
	out := []byte("CNAV0200")
	out = binary.BigEndian.AppendUint32(out, c.Packets)
	out = binary.BigEndian.AppendUint32(out, 0)
	out = append(out, byte(len(c.Streams)))
	for _, s := range c.Streams {
		out = append(out, s.Kind, s.Coding, s.Format, s.Rate, 1)
		lang := make([]byte, 3)
		copy(lang, s.Lang)
		out = append(out, lang...)
		out = binary.BigEndian.AppendUint16(out, s.PID)
		out = append(out, 0, 0)
	}
	return out
}

func appendStr8(dst []byte, s string) []byte {
	dst = append(dst, byte(len(s)))
	return append(dst, s...)
}

func appendClipID(dst []byte, id string) []byte {
	raw := make([]byte, 6)
	copy(raw, id)
	return append(dst, raw...)
}
