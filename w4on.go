// Package w4on holds the data model of the w4on music format: notes
// extracted from a performance, the classified events built from them, the
// instruments driving the four sound channels and the opcode table of the
// binary stream played back by the w4on runtime.
package w4on

type (
	// Pan is the stereo position of a note. The values match the order of
	// the pan opcodes, so OpSetPan + Pan is the opcode to emit.
	Pan int

	// RawNote is a single note as it was played: a start tick, a length in
	// ticks, the pitch (A0 = 0 ... C8 = 87), the velocity (0 .. 127) and the
	// pan position at the moment the note ended.
	RawNote struct {
		Tick     int
		Length   int
		Pitch    int
		Velocity int
		Pan      Pan
	}

	// ChannelTrack is the list of notes played on one channel of one source
	// track. When a source track plays on several channels, each channel
	// becomes its own ChannelTrack named "<track> (channel <id>)".
	ChannelTrack struct {
		Name  string
		Notes []RawNote
	}
)

const (
	PanCenter Pan = iota
	PanLeft
	PanRight
)

const (
	// PitchOffset is the MIDI key number of A0, the lowest piano key.
	PitchOffset = 21
	// NumPitches is the number of piano keys, A0 to C8.
	NumPitches = 88
	// MaxVelocity is the largest velocity a classified event can carry.
	MaxVelocity = 100
	// TicksPerSecond is the rate at which the runtime advances.
	TicksPerSecond = 60
)

func (p Pan) String() string {
	switch p {
	case PanLeft:
		return "left"
	case PanRight:
		return "right"
	default:
		return "center"
	}
}

// PanFromController maps the value of a pan control change (0 .. 127) into
// one of the three pan positions.
func PanFromController(value int) Pan {
	if value < 43 {
		return PanLeft
	}
	if value > 84 {
		return PanRight
	}
	return PanCenter
}

// End returns the first tick after the note.
func (n RawNote) End() int {
	return n.Tick + n.Length
}

// Copy returns a deep copy of the track.
func (t *ChannelTrack) Copy() ChannelTrack {
	notes := make([]RawNote, len(t.Notes))
	copy(notes, t.Notes)
	return ChannelTrack{Name: t.Name, Notes: notes}
}

// ClampVelocity limits a MIDI velocity into the range the runtime accepts.
func ClampVelocity(velocity int) int {
	return max(0, min(MaxVelocity, velocity))
}
