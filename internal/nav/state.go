package nav

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an invalid title, playlist, chapter or angle.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument reports an argument the state machine cannot honour.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoTitle reports an operation that needs a selected title.
	ErrNoTitle = errors.New("no title selected")
	// ErrClosed reports use of a closed navigator.
	ErrClosed = errors.New("navigator closed")
)

// NormalRate is the playback rate for normal speed. Zero pauses.
const NormalRate int64 = 90000

// State is a navigation state machine state.
type State int

const (
	Closed State = iota
	Opened
	TitleSelected
	Playing
	Seeking
	Paused
	EndOfTitle
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Opened:
		return "opened"
	case TitleSelected:
		return "title_selected"
	case Playing:
		return "playing"
	case Seeking:
		return "seeking"
	case Paused:
		return "paused"
	case EndOfTitle:
		return "end_of_title"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// NavigationState is a snapshot of the navigator.
type NavigationState struct {
	State        State
	Title        int
	HasTitle     bool
	Playlist     uint32
	Clip         int
	Chapter      int
	Angle        int
	BytePosition uint64
	TimePosition uint64
	Rate         int64
	StillActive  bool
}

// Still describes an active still hold.
type Still struct {
	Clip          int
	Mode          string
	Permanent     bool
	DurationTicks uint64
}
