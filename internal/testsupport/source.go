package testsupport

import (
	"context"
	"fmt"
	"hash/crc32"
	"sync"

	"bdnav/internal/playback"
)

// PatternByte returns the deterministic payload byte stored at off in clip
// id by MemorySource and WriteDisc.
func PatternByte(clipID string, off int64) byte {
	seed := crc32.ChecksumIEEE([]byte(clipID))
	return byte((uint64(seed) + uint64(off)) % 251)
}

// Pattern returns size payload bytes of clip id.
func Pattern(clipID string, size int64) []byte {
	out := make([]byte, size)
	for i := range out {
		out[i] = PatternByte(clipID, int64(i))
	}
	return out
}

// MemorySource is an in-memory clip source with failure injection.
type MemorySource struct {
	mu       sync.Mutex
	clips    map[string][]byte
	failures map[string]error
	reads    int
	closed   bool
}

// NewMemorySource returns a source holding a patterned payload for every
// clip of disc plus any extra clip ids, each sized from its fixture.
func NewMemorySource(disc DiscFixture, extra ...string) *MemorySource {
	src := &MemorySource{clips: map[string][]byte{}, failures: map[string]error{}}
	for id := range disc.Clips {
		src.clips[id] = Pattern(id, disc.ClipSize(id))
	}
	for _, title := range disc.Titles {
		for _, item := range title.Items {
			for _, angle := range item.AngleClips {
				if _, ok := src.clips[angle]; !ok {
					src.clips[angle] = Pattern(angle, disc.ClipSize(item.ClipID))
				}
			}
		}
	}
	for _, id := range extra {
		src.clips[id] = nil
	}
	return src
}

// Put replaces the payload of clip id.
func (m *MemorySource) Put(id string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clips[id] = data
}

// Remove deletes clip id.
func (m *MemorySource) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clips, id)
}

// Fail makes every read of clip id fail with err until Heal is called.
func (m *MemorySource) Fail(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[id] = err
}

// Heal clears an injected failure.
func (m *MemorySource) Heal(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failures, id)
}

// Reads returns the number of ReadRange calls.
func (m *MemorySource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Closed reports whether Close was called.
func (m *MemorySource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// ReadRange implements playback.ClipSource.
func (m *MemorySource) ReadRange(_ context.Context, clipID string, off int64, p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if err, ok := m.failures[clipID]; ok {
		return 0, err
	}
	data, ok := m.clips[clipID]
	if !ok {
		return 0, fmt.Errorf("clip %s: %w", clipID, playback.ErrClipNotFound)
	}
	if off < 0 || off > int64(len(data)) {
		return 0, fmt.Errorf("clip %s offset %d: %w", clipID, off, playback.ErrIO)
	}
	return copy(p, data[off:]), nil
}

// SizeOf implements playback.ClipSource.
func (m *MemorySource) SizeOf(_ context.Context, clipID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.clips[clipID]
	if !ok {
		return 0, fmt.Errorf("clip %s: %w", clipID, playback.ErrClipNotFound)
	}
	return int64(len(data)), nil
}

// Close marks the source closed.
func (m *MemorySource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
