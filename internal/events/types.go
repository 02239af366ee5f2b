package events

import "fmt"

// Type identifies an event. Values match the player event codes.
type Type int

const (
	None Type = iota
	Error
	ReadError
	Encrypted
	Angle
	Title
	Playlist
	PlayItem
	Chapter
	PlayMark
	EndOfTitle
	AudioStream
	IGStream
	PGTextSTStream
	PiPPGTextSTStream
	SecondaryAudioStream
	SecondaryVideoStream
	PGTextST
	PiPPGTextST
	SecondaryAudio
	SecondaryVideo
	SecondaryVideoSize
	PlaylistStop
	Discontinuity
	Seek
	Still
	StillTime
	SoundEffect
	Idle
	Popup
	Menu
	StereoscopicStatus
	KeyInterestTable
	UOMaskChanged

	lastKnown = UOMaskChanged
)

// Unknown marks an event decoded from a code outside the taxonomy.
const Unknown Type = -1

var typeNames = [...]string{
	None:                 "none",
	Error:                "error",
	ReadError:            "read_error",
	Encrypted:            "encrypted",
	Angle:                "angle",
	Title:                "title",
	Playlist:             "playlist",
	PlayItem:             "play_item",
	Chapter:              "chapter",
	PlayMark:             "play_mark",
	EndOfTitle:           "end_of_title",
	AudioStream:          "audio_stream",
	IGStream:             "ig_stream",
	PGTextSTStream:       "pg_textst_stream",
	PiPPGTextSTStream:    "pip_pg_textst_stream",
	SecondaryAudioStream: "secondary_audio_stream",
	SecondaryVideoStream: "secondary_video_stream",
	PGTextST:             "pg_textst",
	PiPPGTextST:          "pip_pg_textst",
	SecondaryAudio:       "secondary_audio",
	SecondaryVideo:       "secondary_video",
	SecondaryVideoSize:   "secondary_video_size",
	PlaylistStop:         "playlist_stop",
	Discontinuity:        "discontinuity",
	Seek:                 "seek",
	Still:                "still",
	StillTime:            "still_time",
	SoundEffect:          "sound_effect",
	Idle:                 "idle",
	Popup:                "popup",
	Menu:                 "menu",
	StereoscopicStatus:   "stereoscopic_status",
	KeyInterestTable:     "key_interest_table",
	UOMaskChanged:        "uo_mask_changed",
}

// Known reports whether t is part of the taxonomy.
func (t Type) Known() bool {
	return t >= None && t <= lastKnown
}

// String returns the snake_case event name.
func (t Type) String() string {
	if t.Known() {
		return typeNames[t]
	}
	return "unknown"
}

// Priority orders events raised by a single read. Higher wins.
func (t Type) Priority() int {
	switch t {
	case Error, ReadError:
		return 6
	case EndOfTitle:
		return 5
	case Discontinuity:
		return 4
	case Chapter:
		return 3
	case Angle:
		return 2
	case Still, StillTime:
		return 1
	default:
		return 0
	}
}

// Event is one navigation notification. Raw carries the original code for
// Unknown events.
type Event struct {
	Type  Type
	Param uint64
	Raw   uint32
}

// New returns an event of type t.
func New(t Type, param uint64) Event {
	return Event{Type: t, Param: param}
}

// FromCode decodes a raw event code. Codes outside the taxonomy yield an
// Unknown event that keeps the raw value.
func FromCode(code uint32, param uint64) Event {
	if code <= uint32(lastKnown) {
		return Event{Type: Type(code), Param: param}
	}
	return Event{Type: Unknown, Param: param, Raw: code}
}

// Code returns the numeric event code.
func (e Event) Code() uint32 {
	if e.Type == Unknown {
		return e.Raw
	}
	return uint32(e.Type)
}

// IsZero reports whether e carries no notification.
func (e Event) IsZero() bool {
	return e.Type == None
}

// String renders the event for logs and CLI output.
func (e Event) String() string {
	if e.Type == Unknown {
		return fmt.Sprintf("unknown(%d) %d", e.Raw, e.Param)
	}
	return fmt.Sprintf("%s %d", e.Type, e.Param)
}
