package bdmv

import (
	"encoding/hex"
	"fmt"
)

// DiscCatalog is the immutable result of parsing a disc's metadata.
type DiscCatalog struct {
	DiscID             [20]byte
	DiscName           string
	VolumeID           string
	Version            string
	HasMenus           bool
	FirstPlaySupported bool
	TopMenuSupported   bool
	BDJDetected        bool
	AACSDetected       bool
	BDPlusDetected     bool
	Content3D          bool
	VideoFormat        uint8
	FrameRate          uint8
	ProviderData       [32]byte

	HDMVTitleCount        int
	BDJTitleCount         int
	UnsupportedTitleCount int

	mainTitle int
	titles    []TitleDetail
}

// DiscIDHex returns the disc id as lowercase hex.
func (c *DiscCatalog) DiscIDHex() string {
	return hex.EncodeToString(c.DiscID[:])
}

// TitleCount returns the number of titles on the disc.
func (c *DiscCatalog) TitleCount() int {
	return len(c.titles)
}

// Summaries returns a summary of every title in index order.
func (c *DiscCatalog) Summaries() []TitleSummary {
	out := make([]TitleSummary, len(c.titles))
	for i := range c.titles {
		out[i] = c.titles[i].TitleSummary
	}
	return out
}

// Summary returns the summary for title idx.
func (c *DiscCatalog) Summary(idx int) (TitleSummary, error) {
	if idx < 0 || idx >= len(c.titles) {
		return TitleSummary{}, fmt.Errorf("title %d: %w", idx, ErrNotFound)
	}
	return c.titles[idx].TitleSummary, nil
}

// Detail returns a copy of the full title metadata for title idx.
func (c *DiscCatalog) Detail(idx int) (TitleDetail, error) {
	if idx < 0 || idx >= len(c.titles) {
		return TitleDetail{}, fmt.Errorf("title %d: %w", idx, ErrNotFound)
	}
	return c.titles[idx].clone(), nil
}

// DesignatedMainTitle returns the main title named by the disc itself.
func (c *DiscCatalog) DesignatedMainTitle() (int, bool) {
	if c.mainTitle < 0 || c.mainTitle >= len(c.titles) {
		return 0, false
	}
	return c.mainTitle, true
}

// MainTitle returns the disc's designated main title, or the longest title
// when none is designated. Ties go to the lowest index.
func (c *DiscCatalog) MainTitle() (int, error) {
	if idx, ok := c.DesignatedMainTitle(); ok {
		return idx, nil
	}
	if len(c.titles) == 0 {
		return 0, fmt.Errorf("main title: %w", ErrNotFound)
	}
	best := 0
	for i := 1; i < len(c.titles); i++ {
		if c.titles[i].Duration > c.titles[best].Duration {
			best = i
		}
	}
	return best, nil
}

// PlaylistTitle returns the first title that plays playlistID.
func (c *DiscCatalog) PlaylistTitle(playlistID uint32) (int, error) {
	for i := range c.titles {
		if c.titles[i].PlaylistID == playlistID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("playlist %05d: %w", playlistID, ErrNotFound)
}

// TitleFilter selects which titles FilterTitles drops.
type TitleFilter uint8

const (
	// FilterAll keeps every title.
	FilterAll TitleFilter = 0
	// FilterDupTitle drops titles playing the same items as an earlier title.
	FilterDupTitle TitleFilter = 0x01
	// FilterDupClip drops titles that reference one clip more than once.
	FilterDupClip TitleFilter = 0x02
	// FilterRelevant combines both duplicate filters.
	FilterRelevant = FilterDupTitle | FilterDupClip
)

// FilterTitles returns the summaries that survive flags and are at least
// minSeconds long.
func (c *DiscCatalog) FilterTitles(flags TitleFilter, minSeconds uint32) []TitleSummary {
	minTicks := uint64(minSeconds) * TicksPerSecond
	var kept []TitleSummary
	var keptIdx []int
	for i := range c.titles {
		title := &c.titles[i]
		if title.Duration < minTicks {
			continue
		}
		if flags&FilterDupClip != 0 && repeatsClip(title) {
			continue
		}
		if flags&FilterDupTitle != 0 {
			dup := false
			for _, j := range keptIdx {
				if samePlayItems(&c.titles[j], title) {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
		}
		kept = append(kept, title.TitleSummary)
		keptIdx = append(keptIdx, i)
	}
	return kept
}

func repeatsClip(title *TitleDetail) bool {
	seen := make(map[string]struct{}, len(title.Clips))
	for _, clip := range title.Clips {
		if _, ok := seen[clip.ClipID]; ok {
			return true
		}
		seen[clip.ClipID] = struct{}{}
	}
	return false
}

func samePlayItems(a, b *TitleDetail) bool {
	if a.Duration != b.Duration || len(a.Clips) != len(b.Clips) {
		return false
	}
	for i := range a.Clips {
		ca, cb := a.Clips[i], b.Clips[i]
		if ca.ClipID != cb.ClipID || ca.InTime != cb.InTime || ca.OutTime != cb.OutTime {
			return false
		}
	}
	return true
}
