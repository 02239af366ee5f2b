package bdmv

import (
	"math/bits"
	"sort"
)

// scale returns part*num/den without intermediate overflow. part must not
// exceed den.
func scale(part, num, den uint64) uint64 {
	if den == 0 || part == 0 || num == 0 {
		return 0
	}
	if part > den {
		part = den
	}
	hi, lo := bits.Mul64(part, num)
	q, _ := bits.Div64(hi, lo, den)
	return q
}

// ClipAtByte returns the index of the clip containing title byte offset
// pos, or -1 when the title has no clips. Offsets at or past the end map to
// the last clip.
func (t TitleDetail) ClipAtByte(pos uint64) int {
	if len(t.Clips) == 0 {
		return -1
	}
	i := sort.Search(len(t.Clips), func(i int) bool { return t.Clips[i].ByteOffset > pos })
	if i == 0 {
		return 0
	}
	return i - 1
}

// ChapterAtByte returns the last chapter starting at or before pos. Offsets
// before the first chapter, and titles without chapters, map to 0.
func (t TitleDetail) ChapterAtByte(pos uint64) int {
	i := sort.Search(len(t.Chapters), func(i int) bool { return t.Chapters[i].ByteOffset > pos })
	if i == 0 {
		return 0
	}
	return i - 1
}

// ChapterAtTick returns the last chapter starting at or before tick, or -1
// when tick precedes every chapter.
func (t TitleDetail) ChapterAtTick(tick uint64) int {
	i := sort.Search(len(t.Chapters), func(i int) bool { return t.Chapters[i].StartTick > tick })
	return i - 1
}

// MarksBetween returns the indexes of marks whose byte offset lies in
// (from, to].
func (t TitleDetail) MarksBetween(from, to uint64) []int {
	var out []int
	i := sort.Search(len(t.Marks), func(i int) bool { return t.Marks[i].ByteOffset > from })
	for ; i < len(t.Marks) && t.Marks[i].ByteOffset <= to; i++ {
		out = append(out, i)
	}
	return out
}

// TimeAtByte interpolates the title tick at byte offset pos.
func (t TitleDetail) TimeAtByte(pos uint64) uint64 {
	ci := t.ClipAtByte(pos)
	if ci < 0 {
		return 0
	}
	clip := t.Clips[ci]
	if pos >= t.SizeBytes {
		return t.Duration
	}
	return clip.StartTime + scale(pos-clip.ByteOffset, clip.Duration(), clip.SizeBytes())
}

// SameCodecs reports whether two clips carry identically coded streams, so
// that moving from one to the other needs no decoder reset.
func SameCodecs(a, b ClipInfo) bool {
	if len(a.Streams) != len(b.Streams) {
		return false
	}
	for i := range a.Streams {
		sa, sb := a.Streams[i], b.Streams[i]
		if sa.Kind != sb.Kind || sa.CodingType != sb.CodingType || sa.Format != sb.Format || sa.Rate != sb.Rate {
			return false
		}
	}
	return true
}

// ClipAtTick returns the index of the clip presenting title tick, or -1 when
// the title has no clips. Ticks at or past the end map to the last clip.
func (t TitleDetail) ClipAtTick(tick uint64) int {
	if len(t.Clips) == 0 {
		return -1
	}
	i := sort.Search(len(t.Clips), func(i int) bool { return t.Clips[i].StartTime > tick })
	if i == 0 {
		return 0
	}
	return i - 1
}

// ByteAtTime interpolates the title byte offset presenting tick.
func (t TitleDetail) ByteAtTime(tick uint64) uint64 {
	if tick >= t.Duration {
		return t.SizeBytes
	}
	ci := t.ClipAtTick(tick)
	if ci < 0 {
		return 0
	}
	clip := t.Clips[ci]
	return clip.ByteOffset + scale(tick-clip.StartTime, clip.SizeBytes(), clip.Duration())
}

// ClipEnd returns the title byte offset just past clip idx.
func (t TitleDetail) ClipEnd(idx int) uint64 {
	if idx < 0 || idx >= len(t.Clips) {
		return 0
	}
	return t.Clips[idx].ByteOffset + t.Clips[idx].SizeBytes()
}
