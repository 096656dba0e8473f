package w4on

import "errors"

// Conversion errors. All of them abort the conversion; callers wrap them with
// the track or event they concern, so use errors.Is to test for them.
var (
	ErrTempoNotSet            = errors.New("tempo needs to be set before any timed event")
	ErrTempoChangeUnsupported = errors.New("tempo changes are not supported")
	ErrUnsupportedTimeFormat  = errors.New("only metric time formats are supported")
	ErrPitchOutOfRange        = errors.New("invalid note number")
	ErrPitchNotOnPiano        = errors.New("only the 88 piano notes are allowed")
	ErrMissingNoteStart       = errors.New("note ended without a start")
	ErrOverlappingNoteStart   = errors.New("note started again before it ended")
	ErrInvalidSlide           = errors.New("invalid slide note")
	ErrTooManyArpNotes        = errors.New("too many arp notes")
	ErrTooManySegments        = errors.New("too many segments")
	ErrLengthTooLarge         = errors.New("length too large")
	ErrTrackTooLarge          = errors.New("too much track data")
	ErrTooManyTracks          = errors.New("too many tracks")
	ErrInvalidChannelName     = errors.New("invalid channel")
	ErrInvalidPulseMode       = errors.New("invalid pulse mode")
	ErrInstrumentParameter    = errors.New("instrument parameter out of range")
)
