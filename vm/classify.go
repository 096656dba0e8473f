package vm

import (
	"fmt"
	"sort"

	"github.com/w4on/w4on"
)

// SortNotes returns a copy of the notes sorted by tick, then velocity, then
// pitch. The sort is stable, so notes equal in all three keep their order.
func SortNotes(notes []w4on.RawNote) []w4on.RawNote {
	ret := make([]w4on.RawNote, len(notes))
	copy(ret, notes)
	sort.SliceStable(ret, func(i, j int) bool {
		a, b := ret[i], ret[j]
		if a.Tick != b.Tick {
			return a.Tick < b.Tick
		}
		if a.Velocity != b.Velocity {
			return a.Velocity < b.Velocity
		}
		return a.Pitch < b.Pitch
	})
	return ret
}

// Classify folds the notes of a track into events. Notes starting on the
// same tick become arpeggios when arpeggiate is true; a note starting while
// the previous note or slide is still sounding turns it into a slide; every
// other note becomes a plain note. The notes should already be in runtime
// ticks.
func Classify(notes []w4on.RawNote, arpeggiate bool) ([]w4on.Event, error) {
	sorted := SortNotes(notes)
	var events []w4on.Event
	for i := 0; i < len(sorted); i++ {
		note := sorted[i]
		arped := 0
		for arpeggiate && i+arped+1 < len(sorted) && sorted[i+arped+1].Tick == note.Tick {
			arped++
		}
		if arped > 0 {
			if arped+1 > w4on.MaxArpNotes {
				return nil, fmt.Errorf("%w: %v notes at tick %v (max %v)", w4on.ErrTooManyArpNotes, arped+1, note.Tick, w4on.MaxArpNotes)
			}
			pitches := make([]int, 0, arped+1)
			for _, n := range sorted[i : i+arped+1] {
				pitches = append(pitches, n.Pitch)
			}
			events = append(events, w4on.Event{
				Kind:     w4on.ArpEvent,
				Tick:     note.Tick,
				Length:   note.Length,
				Velocity: w4on.ClampVelocity(note.Velocity),
				Pan:      note.Pan,
				Pitches:  pitches,
			})
			i += arped
			continue
		}
		if len(events) > 0 {
			last := &events[len(events)-1]
			if last.Kind != w4on.ArpEvent && last.End() > note.Tick {
				slide, err := slideInto(last, note)
				if err != nil {
					return nil, err
				}
				events[len(events)-1] = slide
				continue
			}
		}
		events = append(events, w4on.Event{
			Kind:     w4on.NoteEvent,
			Tick:     note.Tick,
			Length:   note.Length,
			Velocity: w4on.ClampVelocity(note.Velocity),
			Pan:      note.Pan,
			Pitch:    note.Pitch,
		})
	}
	return events, nil
}

// slideInto returns a copy of prev extended with a slide to note. The part of
// prev not yet covered by segments, up to the start of note, becomes a
// segment with the old pitch, and the overlapping part a segment with the
// new pitch, cut to the length of note. The new pitch becomes the tail.
func slideInto(prev *w4on.Event, note w4on.RawNote) (w4on.Event, error) {
	overlap := prev.End() - note.Tick
	aLen := prev.Length - prev.SegmentLength() - overlap
	if aLen < 0 {
		return w4on.Event{}, fmt.Errorf("%w: pitch %v at tick %v", w4on.ErrInvalidSlide, note.Pitch, note.Tick)
	}
	ret := prev.Copy()
	ret.Kind = w4on.SlideEvent
	ret.Segments = append(ret.Segments,
		w4on.Segment{Pitch: prev.Pitch, Length: aLen},
		w4on.Segment{Pitch: note.Pitch, Length: min(overlap, note.Length)})
	ret.Pitch = note.Pitch
	// the slide ends with note, also when note ends before prev did
	ret.Length = note.End() - prev.Tick
	return ret, nil
}
