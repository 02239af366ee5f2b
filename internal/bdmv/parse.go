package bdmv

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"sort"
)

const (
	indexMagic    = "NAVI"
	clipInfoMagic = "CNAV"

	clipIDLength   = 6
	noMainTitle    = 0xFFFF
	streamRecordSz = 12
)

const (
	discFlagFirstPlay = 1 << iota
	discFlagTopMenu
	discFlagNoMenu
	discFlagBDJ
	discFlagAACS
	discFlagBDPlus
	discFlag3D
)

const (
	titleFlagHidden = 1 << iota
	titleFlagInteractive
)

// Parse decodes an index buffer and the clip info buffers it references,
// keyed by clip id, into a DiscCatalog.
func Parse(index []byte, clips map[string][]byte) (*DiscCatalog, error) {
	r := newReader(index, "index header")
	version, err := r.header(indexMagic)
	if err != nil {
		return nil, err
	}

	catalog := &DiscCatalog{Version: version, mainTitle: -1}

	discLen, err := r.u32()
	if err != nil {
		return nil, err
	}
	disc, err := r.sub(int(discLen), "disc")
	if err != nil {
		return nil, err
	}
	if err := decodeDisc(disc, catalog); err != nil {
		return nil, err
	}

	tableLen, err := r.u32()
	if err != nil {
		return nil, err
	}
	table, err := r.sub(int(tableLen), "title table")
	if err != nil {
		return nil, err
	}
	count, err := table.u16()
	if err != nil {
		return nil, err
	}

	infos := make(map[string]clipInfoRecord)
	catalog.titles = make([]TitleDetail, 0, count)
	for i := 0; i < int(count); i++ {
		recLen, err := table.u16()
		if err != nil {
			return nil, err
		}
		rec, err := table.sub(int(recLen), fmt.Sprintf("title[%d]", i))
		if err != nil {
			return nil, err
		}
		title, err := decodeTitle(rec, i, clips, infos)
		if err != nil {
			return nil, err
		}
		switch title.Kind {
		case TitleKindHDMV:
			catalog.HDMVTitleCount++
		case TitleKindBDJ:
			catalog.BDJTitleCount++
		default:
			catalog.UnsupportedTitleCount++
		}
		catalog.titles = append(catalog.titles, title)
	}

	if catalog.DiscID == [20]byte{} {
		catalog.DiscID = sha1.Sum(index)
	}
	return catalog, nil
}

func decodeDisc(r *reader, catalog *DiscCatalog) error {
	id, err := r.bytes(len(catalog.DiscID))
	if err != nil {
		return err
	}
	copy(catalog.DiscID[:], id)

	flags, err := r.u8()
	if err != nil {
		return err
	}
	catalog.FirstPlaySupported = flags&discFlagFirstPlay != 0
	catalog.TopMenuSupported = flags&discFlagTopMenu != 0
	catalog.HasMenus = flags&discFlagNoMenu == 0
	catalog.BDJDetected = flags&discFlagBDJ != 0
	catalog.AACSDetected = flags&discFlagAACS != 0
	catalog.BDPlusDetected = flags&discFlagBDPlus != 0
	catalog.Content3D = flags&discFlag3D != 0

	if catalog.VideoFormat, err = r.u8(); err != nil {
		return err
	}
	if catalog.FrameRate, err = r.u8(); err != nil {
		return err
	}
	main, err := r.u16()
	if err != nil {
		return err
	}
	if main != noMainTitle {
		catalog.mainTitle = int(main)
	}
	if catalog.DiscName, err = r.str8(); err != nil {
		return err
	}
	if catalog.VolumeID, err = r.str8(); err != nil {
		return err
	}
	provider, err := r.bytes(len(catalog.ProviderData))
	if err != nil {
		return err
	}
	copy(catalog.ProviderData[:], provider)
	return nil
}

type playItem struct {
	clipID     string
	inTime     uint64
	outTime    uint64
	stillMode  StillMode
	stillTicks uint64
	angles     []string
}

type rawMark struct {
	kind    MarkType
	itemRef int
	time    uint64
}

func decodeTitle(r *reader, idx int, clips map[string][]byte, infos map[string]clipInfoRecord) (TitleDetail, error) {
	title := TitleDetail{TitleSummary: TitleSummary{Index: idx, AngleCount: 1}}

	kind, err := r.u8()
	if err != nil {
		return title, err
	}
	switch TitleKind(kind) {
	case TitleKindHDMV, TitleKindBDJ:
		title.Kind = TitleKind(kind)
	default:
		title.Kind = TitleKindUnsupported
	}
	flags, err := r.u8()
	if err != nil {
		return title, err
	}
	title.Hidden = flags&titleFlagHidden != 0
	title.Interactive = flags&titleFlagInteractive != 0
	if title.PlaylistID, err = r.u32(); err != nil {
		return title, err
	}

	itemCount, err := r.u16()
	if err != nil {
		return title, err
	}
	items := make([]playItem, 0, itemCount)
	for i := 0; i < int(itemCount); i++ {
		r.record = fmt.Sprintf("title[%d].playitem[%d]", idx, i)
		item, err := decodePlayItem(r)
		if err != nil {
			return title, err
		}
		items = append(items, item)
	}

	r.record = fmt.Sprintf("title[%d].marks", idx)
	markCount, err := r.u16()
	if err != nil {
		return title, err
	}
	marks := make([]rawMark, 0, markCount)
	for i := 0; i < int(markCount); i++ {
		kind, err := r.u8()
		if err != nil {
			return title, err
		}
		ref, err := r.u16()
		if err != nil {
			return title, err
		}
		at, err := r.u32()
		if err != nil {
			return title, err
		}
		if int(ref) >= len(items) {
			return title, r.fail(fmt.Errorf("%w: mark %d references play item %d of %d", ErrMalformed, i, ref, len(items)))
		}
		marks = append(marks, rawMark{kind: MarkType(kind), itemRef: int(ref), time: uint64(at) * 2})
	}

	var start, offset uint64
	title.Clips = make([]ClipInfo, 0, len(items))
	for i, item := range items {
		info, err := lookupClipInfo(item.clipID, clips, infos)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				return title, err
			}
			return title, &ParseError{Record: fmt.Sprintf("title[%d].playitem[%d]", idx, i), Offset: r.base, Err: err}
		}
		clip := ClipInfo{
			ClipID:             item.clipID,
			AngleClipIDs:       item.angles,
			PacketCount:        info.packets,
			StillMode:          item.stillMode,
			StillDurationTicks: item.stillTicks,
			Streams:            append([]StreamInfo(nil), info.streams...),
			StartTime:          start,
			InTime:             item.inTime,
			OutTime:            item.outTime,
			ByteOffset:         offset,
		}
		countStreams(&clip)
		if len(item.angles) > title.AngleCount {
			title.AngleCount = len(item.angles)
		}
		start += clip.Duration()
		offset += clip.SizeBytes()
		title.Clips = append(title.Clips, clip)
	}
	title.Duration = start
	title.SizeBytes = offset
	title.ClipCount = len(title.Clips)

	title.Marks, title.Chapters = deriveMarks(title.Clips, marks, title.Duration)
	title.MarkCount = len(title.Marks)
	title.ChapterCount = len(title.Chapters)
	return title, nil
}

func decodePlayItem(r *reader) (playItem, error) {
	var item playItem
	var err error
	if item.clipID, err = r.fixedID(clipIDLength); err != nil {
		return item, err
	}
	in, err := r.u32()
	if err != nil {
		return item, err
	}
	out, err := r.u32()
	if err != nil {
		return item, err
	}
	if out < in {
		return item, r.fail(fmt.Errorf("%w: out time %d precedes in time %d", ErrMalformed, out, in))
	}
	item.inTime, item.outTime = uint64(in)*2, uint64(out)*2

	still, err := r.u8()
	if err != nil {
		return item, err
	}
	item.stillMode = StillMode(still)
	stillSeconds, err := r.u16()
	if err != nil {
		return item, err
	}
	item.stillTicks = uint64(stillSeconds) * TicksPerSecond

	angles, err := r.u8()
	if err != nil {
		return item, err
	}
	item.angles = []string{item.clipID}
	for a := 1; a < int(angles); a++ {
		id, err := r.fixedID(clipIDLength)
		if err != nil {
			return item, err
		}
		item.angles = append(item.angles, id)
	}
	return item, nil
}

func countStreams(clip *ClipInfo) {
	for _, s := range clip.Streams {
		switch s.Kind {
		case StreamVideo:
			clip.VideoStreamCount++
		case StreamAudio:
			clip.AudioStreamCount++
		case StreamPG:
			clip.PGStreamCount++
		case StreamIG:
			clip.IGStreamCount++
		case StreamSecondaryAudio:
			clip.SecondaryAudioStreamCount++
		case StreamSecondaryVideo:
			clip.SecondaryVideoStreamCount++
		}
	}
}

// deriveMarks places marks on the title timeline and byte layout. Entry
// marks that advance the timeline become chapters.
func deriveMarks(clips []ClipInfo, raw []rawMark, duration uint64) ([]Mark, []Chapter) {
	marks := make([]Mark, 0, len(raw))
	for _, m := range raw {
		clip := clips[m.itemRef]
		at := m.time
		if at < clip.InTime {
			at = clip.InTime
		}
		if at > clip.OutTime {
			at = clip.OutTime
		}
		rel := at - clip.InTime
		marks = append(marks, Mark{
			Type:       m.kind,
			StartTick:  clip.StartTime + rel,
			ByteOffset: clip.ByteOffset + scale(rel, clip.SizeBytes(), clip.Duration()),
			ClipRef:    m.itemRef,
		})
	}
	sort.SliceStable(marks, func(i, j int) bool { return marks[i].StartTick < marks[j].StartTick })

	var chapters []Chapter
	for i := range marks {
		marks[i].Index = i
		if i+1 < len(marks) {
			marks[i].DurationTicks = marks[i+1].StartTick - marks[i].StartTick
		} else {
			marks[i].DurationTicks = duration - marks[i].StartTick
		}
		if marks[i].Type != MarkEntry {
			continue
		}
		if n := len(chapters); n > 0 && marks[i].StartTick <= chapters[n-1].StartTick {
			continue
		}
		chapters = append(chapters, Chapter{
			Index:      len(chapters),
			StartTick:  marks[i].StartTick,
			ByteOffset: marks[i].ByteOffset,
			ClipRef:    marks[i].ClipRef,
		})
	}
	for i := range chapters {
		if i+1 < len(chapters) {
			chapters[i].DurationTicks = chapters[i+1].StartTick - chapters[i].StartTick
		} else {
			chapters[i].DurationTicks = duration - chapters[i].StartTick
		}
	}
	return marks, chapters
}
