package w4on

type (
	// EventKind tells which of the fields of an Event are in use.
	EventKind int

	// Event is a classified channel event: a plain note, a slide through
	// several pitches or an arpeggio. Tick, Length, Velocity and Pan are
	// shared by all kinds.
	//
	// For a slide, Segments lists the early pitches and their lengths, and
	// Pitch is the tail pitch, which sounds for the rest of the event (Length
	// - SegmentLength()). For an arpeggio, Pitches lists the pitches cycled
	// through in order.
	Event struct {
		Kind     EventKind
		Tick     int
		Length   int
		Velocity int
		Pan      Pan
		Pitch    int       `yaml:",omitempty"`
		Segments []Segment `yaml:",flow,omitempty"`
		Pitches  []int     `yaml:",flow,omitempty"`
	}

	// Segment is one pitch of a slide, excluding the tail.
	Segment struct {
		Pitch  int
		Length int
	}
)

const (
	NoteEvent EventKind = iota
	SlideEvent
	ArpEvent
)

func (k EventKind) String() string {
	switch k {
	case SlideEvent:
		return "slide"
	case ArpEvent:
		return "arp"
	default:
		return "note"
	}
}

// End returns the first tick after the event.
func (e *Event) End() int {
	return e.Tick + e.Length
}

// SegmentLength returns the total length of the segments of a slide,
// excluding the tail.
func (e *Event) SegmentLength() int {
	ret := 0
	for _, s := range e.Segments {
		ret += s.Length
	}
	return ret
}

// TailLength returns how long the tail pitch of a slide sounds. For notes
// and arpeggios, this is the whole length of the event.
func (e *Event) TailLength() int {
	return e.Length - e.SegmentLength()
}

// Copy returns a deep copy of the event.
func (e *Event) Copy() Event {
	ret := *e
	if e.Segments != nil {
		ret.Segments = make([]Segment, len(e.Segments))
		copy(ret.Segments, e.Segments)
	}
	if e.Pitches != nil {
		ret.Pitches = make([]int, len(e.Pitches))
		copy(ret.Pitches, e.Pitches)
	}
	return ret
}

// Truncate returns a copy of the event shortened to the given length.
// Segments of a slide that start at or after the new end are dropped and the
// last remaining one is cut, in which case it becomes the tail. A slide cut
// within its first segment becomes a plain note.
func (e *Event) Truncate(length int) Event {
	ret := e.Copy()
	if length >= e.Length {
		return ret
	}
	ret.Length = length
	if e.Kind != SlideEvent || length >= e.SegmentLength() {
		return ret
	}
	ret.Segments = ret.Segments[:0]
	start := 0
	for _, s := range e.Segments {
		if start+s.Length >= length {
			ret.Pitch = s.Pitch
			break
		}
		ret.Segments = append(ret.Segments, s)
		start += s.Length
	}
	if len(ret.Segments) == 0 {
		ret.Kind = NoteEvent
		ret.Segments = nil
	}
	return ret
}
