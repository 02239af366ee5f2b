package playback

import (
	"context"
	"errors"
)

var (
	// ErrClipNotFound reports a clip id the source does not hold.
	ErrClipNotFound = errors.New("clip not found")
	// ErrIO reports a failed read from the clip source.
	ErrIO = errors.New("clip read failed")
	// ErrClosed reports use of a closed session.
	ErrClosed = errors.New("playback session closed")
	// ErrPaused is returned by the stream adapter while the rate is zero.
	ErrPaused = errors.New("playback paused")
)

// ClipSource supplies clip payload bytes. Errors wrap ErrClipNotFound or
// ErrIO. Retry policy belongs to the source.
type ClipSource interface {
	ReadRange(ctx context.Context, clipID string, off int64, p []byte) (int, error)
	SizeOf(ctx context.Context, clipID string) (int64, error)
}

// Menu is the interactive menu collaborator. Return values are its raw
// status codes.
type Menu interface {
	UserInput(key uint32) int
	MouseSelect(x, y uint16) int
	MenuCall(tick int64) int
}

// Disc bundles the metadata buffers of a disc with the source of its clips.
type Disc struct {
	Index     []byte
	ClipInfos map[string][]byte
	Source    ClipSource
}
