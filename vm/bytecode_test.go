package vm_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/w4on/w4on"
	"github.com/w4on/w4on/vm"
)

var pulse1 = w4on.Instrument{Channel: "PULSE_1"}

func note(tick, length, pitch int) w4on.Event {
	return w4on.Event{Kind: w4on.NoteEvent, Tick: tick, Length: length, Pitch: pitch, Velocity: 100}
}

func encode(t *testing.T, events []w4on.Event, instr w4on.Instrument) *vm.Bytecode {
	t.Helper()
	bytecode, err := vm.NewBytecode(events, instr)
	if err != nil {
		t.Fatalf("NewBytecode failed: %v", err)
	}
	return bytecode
}

func TestBytecode(t *testing.T) {
	cases := []struct {
		name     string
		events   []w4on.Event
		expected []byte
	}{
		{"empty", nil, []byte{0x00}},
		{"notes", []w4on.Event{note(0, 4, 40), note(4, 4, 42)}, []byte{0x00, 0xf1, 100, 0xa1, 4, 0xa3, 4}},
		{"short wait", []w4on.Event{note(3, 4, 40)}, []byte{0x00, 0x03, 0xf1, 100, 0xa1, 4}},
		{"longest short wait", []w4on.Event{note(120, 4, 40)}, []byte{0x00, 0x78, 0xf1, 100, 0xa1, 4}},
		{"shortest long wait", []w4on.Event{note(121, 4, 40)}, []byte{0x00, 0x00, 0x00, 0xf1, 100, 0xa1, 4}},
		{"long wait", []w4on.Event{note(130, 4, 40)}, []byte{0x00, 0x00, 0x09, 0xf1, 100, 0xa1, 4}},
		{"chained long wait", []w4on.Event{note(w4on.MaxLongWait+5, 4, 40)}, []byte{0x00, 0x00, 0xff, 0xff, 0x05, 0xf1, 100, 0xa1, 4}},
		{"gap between notes", []w4on.Event{note(0, 4, 40), note(10, 4, 40)}, []byte{0x00, 0xf1, 100, 0xa1, 4, 0x06, 0xa1, 4}},
		{"long note", []w4on.Event{note(0, 300, 40)}, []byte{0x00, 0xf1, 100, 0xa1, 0x81, 0x2c}},
		{"slide", []w4on.Event{{
			Kind:     w4on.SlideEvent,
			Length:   6,
			Velocity: 100,
			Pitch:    44,
			Segments: []w4on.Segment{{Pitch: 40, Length: 2}, {Pitch: 44, Length: 2}},
		}}, []byte{0x00, 0xf1, 100, 0xd2, 0xa1, 2, 0xa5, 2, 0xa5, 2}},
		{"slide without tail", []w4on.Event{{
			Kind:     w4on.SlideEvent,
			Length:   4,
			Velocity: 100,
			Pitch:    44,
			Segments: []w4on.Segment{{Pitch: 40, Length: 2}, {Pitch: 44, Length: 2}},
		}}, []byte{0x00, 0xf1, 100, 0xd1, 0xa1, 2, 0xa5, 2}},
		{"arp", []w4on.Event{{Kind: w4on.ArpEvent, Length: 8, Velocity: 50, Pitches: []int{40, 44, 47}}}, []byte{0x00, 0xf1, 50, 0xe2, 8, 40, 44, 47}},
		{"velocity change", []w4on.Event{note(0, 1, 0), {Kind: w4on.NoteEvent, Tick: 1, Length: 1, Velocity: 20}}, []byte{0x00, 0xf1, 100, 0x79, 1, 0xf1, 20, 0x79, 1}},
		{"pan", []w4on.Event{
			{Kind: w4on.NoteEvent, Length: 1, Velocity: 100, Pan: w4on.PanLeft},
			{Kind: w4on.NoteEvent, Tick: 1, Length: 1, Velocity: 100, Pan: w4on.PanLeft},
			{Kind: w4on.NoteEvent, Tick: 2, Length: 1, Velocity: 100, Pan: w4on.PanRight},
			{Kind: w4on.NoteEvent, Tick: 3, Length: 1, Velocity: 100},
		}, []byte{0x00, 0xf7, 0xf1, 100, 0x79, 1, 0x79, 1, 0xf8, 0x79, 1, 0xf6, 0x79, 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			bytecode := encode(t, c.events, pulse1)
			if !bytes.Equal(bytecode.Data, c.expected) {
				t.Fatalf("got % x, expected % x", bytecode.Data, c.expected)
			}
		})
	}
}

func TestBytecodeInstrumentSetup(t *testing.T) {
	s := 0.5
	instr := w4on.Instrument{Channel: "TRIANGLE", A: 10, D: 20, S: &s, R: 30, ArpSpeed: 3}
	bytecode := encode(t, nil, instr)
	expected := []byte{0x02, 0xf2, 10, 0xf3, 20, 0xf4, 128, 0xf5, 30, 0xf9, 3}
	if !bytes.Equal(bytecode.Data, expected) {
		t.Fatalf("got % x, expected % x", bytecode.Data, expected)
	}
	zero := 0.0
	bytecode = encode(t, nil, w4on.Instrument{Channel: "NOISE", PulseMode: "75%", S: &zero, ArpSpeed: 1})
	expected = []byte{0x0f, 0xf4, 0}
	if !bytes.Equal(bytecode.Data, expected) {
		t.Fatalf("got % x, expected % x", bytecode.Data, expected)
	}
}

func TestBytecodeAmplitude(t *testing.T) {
	cases := []struct {
		amplitude float64
		volume    byte
	}{{0.5, 50}, {2, 200}, {3, 255}, {0, 0}}
	for _, c := range cases {
		amplitude := c.amplitude
		bytecode := encode(t, []w4on.Event{note(0, 4, 40)}, w4on.Instrument{Channel: "PULSE_1", Amplitude: &amplitude})
		if bytecode.Data[1] != w4on.OpSetVolume || bytecode.Data[2] != c.volume {
			t.Fatalf("amplitude %v: got % x, expected volume %v", c.amplitude, bytecode.Data, c.volume)
		}
	}
}

func TestBytecodeCorrectsOverlaps(t *testing.T) {
	bytecode := encode(t, []w4on.Event{
		{Kind: w4on.ArpEvent, Length: 10, Velocity: 100, Pitches: []int{40, 44}},
		note(4, 4, 42),
	}, pulse1)
	expected := []byte{0x00, 0xf1, 100, 0xe1, 4, 40, 44, 0xa3, 4}
	if !bytes.Equal(bytecode.Data, expected) {
		t.Fatalf("got % x, expected % x", bytecode.Data, expected)
	}
	if bytecode.Stats.CorrectedOverlaps != 1 || len(bytecode.Warnings) != 1 {
		t.Fatalf("expected one corrected overlap, got %+v, %v", bytecode.Stats, bytecode.Warnings)
	}
}

func TestBytecodeStats(t *testing.T) {
	bytecode := encode(t, []w4on.Event{
		note(2, 4, 40),
		{Kind: w4on.SlideEvent, Tick: 6, Length: 6, Velocity: 50, Pitch: 44, Segments: []w4on.Segment{{Pitch: 40, Length: 2}, {Pitch: 44, Length: 2}}},
		{Kind: w4on.ArpEvent, Tick: 200, Length: 8, Velocity: 50, Pan: w4on.PanLeft, Pitches: []int{40, 44, 47}},
	}, pulse1)
	expected := vm.Stats{
		Notes:           2,
		Segments:        2,
		Arps:            1,
		ArpNotes:        3,
		Waits:           2,
		FirstTick:       2,
		LastTick:        208,
		VelocityChanges: 2,
		PanChanges:      1,
	}
	if bytecode.Stats != expected {
		t.Fatalf("got %+v, expected %+v", bytecode.Stats, expected)
	}
}

func TestBytecodeErrors(t *testing.T) {
	segments := func(n int) w4on.Event {
		e := w4on.Event{Kind: w4on.SlideEvent, Velocity: 100, Pitch: 40, Length: n + 1}
		for i := 0; i < n; i++ {
			e.Segments = append(e.Segments, w4on.Segment{Pitch: i, Length: 1})
		}
		return e
	}
	if _, err := vm.NewBytecode([]w4on.Event{segments(w4on.NumSegments)}, pulse1); err != nil {
		t.Fatalf("%v segments should be fine: %v", w4on.NumSegments, err)
	}
	cases := []struct {
		name     string
		events   []w4on.Event
		instr    w4on.Instrument
		expected error
	}{
		{"too many segments", []w4on.Event{segments(w4on.NumSegments + 1)}, pulse1, w4on.ErrTooManySegments},
		{"empty slide", []w4on.Event{{Kind: w4on.SlideEvent, Length: 4, Pitch: 40}}, pulse1, w4on.ErrInvalidSlide},
		{"note too long", []w4on.Event{note(0, w4on.MaxLength+1, 40)}, pulse1, w4on.ErrLengthTooLarge},
		{"pitch", []w4on.Event{note(0, 4, w4on.NumPitches)}, pulse1, w4on.ErrPitchNotOnPiano},
		{"arp", []w4on.Event{{Kind: w4on.ArpEvent, Length: 4, Pitches: make([]int, w4on.MaxArpNotes+1)}}, pulse1, w4on.ErrTooManyArpNotes},
		{"channel", nil, w4on.Instrument{Channel: "SQUARE"}, w4on.ErrInvalidChannelName},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := vm.NewBytecode(c.events, c.instr); !errors.Is(err, c.expected) {
				t.Fatalf("expected %v, got %v", c.expected, err)
			}
		})
	}
}

func TestClassifiedBytecode(t *testing.T) {
	events, err := vm.Classify([]w4on.RawNote{
		{Tick: 0, Length: 4, Pitch: 40, Velocity: 100},
		{Tick: 2, Length: 4, Pitch: 44, Velocity: 100},
	}, false)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	bytecode := encode(t, events, pulse1)
	expected := []byte{0x00, 0xf1, 100, 0xd2, 0xa1, 2, 0xa5, 2, 0xa5, 2}
	if !bytes.Equal(bytecode.Data, expected) {
		t.Fatalf("got % x, expected % x", bytecode.Data, expected)
	}
}
