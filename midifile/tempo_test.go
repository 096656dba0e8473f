package midifile_test

import (
	"reflect"
	"testing"

	"github.com/w4on/w4on"
	"github.com/w4on/w4on/midifile"
)

func TestNewTempo(t *testing.T) {
	cases := []struct {
		bpm          float64
		ticksPerBeat int
		expected     midifile.Tempo
	}{
		{120, 96, midifile.Tempo{BPM: 120, TickWait: 8, BestBPM: 112.5, Divisor: 3}},
		{150, 480, midifile.Tempo{BPM: 150, TickWait: 6, BestBPM: 150, Divisor: 20}},
		{120, 32, midifile.Tempo{BPM: 120, TickWait: 8, BestBPM: 112.5, Divisor: 1}},
		{2000, 96, midifile.Tempo{BPM: 2000, TickWait: 1, BestBPM: 900, Divisor: 24}},
	}
	for _, c := range cases {
		got := midifile.NewTempo(c.bpm, c.ticksPerBeat)
		if !reflect.DeepEqual(got, c.expected) {
			t.Fatalf("NewTempo(%v, %v) = %+v, expected %+v", c.bpm, c.ticksPerBeat, got, c.expected)
		}
	}
}

func TestRequantize(t *testing.T) {
	tempo := midifile.NewTempo(150, 480) // divisor 20
	track := w4on.ChannelTrack{Name: "Lead", Notes: []w4on.RawNote{
		{Tick: 0, Length: 80, Pitch: 1},
		{Tick: 30, Length: 50, Pitch: 2},
		{Tick: 45, Length: 10, Pitch: 3},
	}}
	got, inaccuracy := tempo.Requantize(track)
	expected := []w4on.RawNote{
		{Tick: 0, Length: 4, Pitch: 1},
		{Tick: 2, Length: 3, Pitch: 2},
		{Tick: 2, Length: 1, Pitch: 3},
	}
	if !reflect.DeepEqual(got.Notes, expected) {
		t.Fatalf("Requantize gave %+v, expected %+v", got.Notes, expected)
	}
	if inaccuracy != 0.75 {
		t.Fatalf("inaccuracy = %v, expected 0.75", inaccuracy)
	}
	if track.Notes[1].Tick != 30 {
		t.Fatal("Requantize modified the source track")
	}
}

func TestRequantizeErrorIsSumOfRoundings(t *testing.T) {
	tempo := midifile.NewTempo(120, 96) // divisor 3
	var notes []w4on.RawNote
	expected := 0.0
	for tick := 0; tick < 30; tick++ {
		notes = append(notes, w4on.RawNote{Tick: tick, Length: 1})
		switch tick % 3 {
		case 1, 2:
			expected += 1.0 / 3
		}
	}
	got, inaccuracy := tempo.Requantize(w4on.ChannelTrack{Notes: notes})
	if d := inaccuracy - expected; d > 1e-9 || d < -1e-9 {
		t.Fatalf("inaccuracy = %v, expected %v", inaccuracy, expected)
	}
	for i, n := range got.Notes {
		if n.Tick != tempo.Ticks(notes[i].Tick) {
			t.Fatalf("note %v: tick %v, expected %v", i, n.Tick, tempo.Ticks(notes[i].Tick))
		}
	}
}
