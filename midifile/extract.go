// Package midifile extracts the notes of a Standard MIDI File into channel
// tracks and resolves the tempo used to convert them into runtime ticks.
package midifile

import (
	"fmt"
	"io"
	"sort"

	"github.com/w4on/w4on"
	"gitlab.com/gomidi/midi/v2/smf"
)

// PanController is the control change number of the pan position.
const PanController = 10

type (
	// Performance is the result of the extraction: the notes of every
	// channel of every track, in source track order, and the tempo mapping.
	// The notes are still in source ticks.
	Performance struct {
		Tempo        Tempo
		TicksPerBeat int
		Tracks       []w4on.ChannelTrack
	}

	// Extractor walks the tracks of a performance. The tempo is shared by
	// all tracks, so the tracks of one file should be given to the same
	// Extractor in order.
	Extractor struct {
		// Strict makes a note start on a key that is already sounding an
		// error instead of silently restarting the note.
		Strict bool

		TicksPerBeat int
		bpm          float64
	}

	noteStart struct {
		tick     int
		velocity int
	}

	channelState struct {
		notes  []w4on.RawNote
		starts map[int]noteStart
	}
)

// ReadFile reads and extracts a Standard MIDI File.
func ReadFile(filename string, strict bool) (*Performance, error) {
	file, err := smf.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read MIDI file %v: %w", filename, err)
	}
	return Extract(file, strict)
}

// Read reads and extracts a Standard MIDI File from r.
func Read(r io.Reader, strict bool) (*Performance, error) {
	file, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("could not read MIDI data: %w", err)
	}
	return Extract(file, strict)
}

// Extract extracts the notes of all tracks of a parsed Standard MIDI File.
func Extract(file *smf.SMF, strict bool) (*Performance, error) {
	ticks, ok := file.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%w (was %v)", w4on.ErrUnsupportedTimeFormat, file.TimeFormat)
	}
	x := &Extractor{Strict: strict, TicksPerBeat: int(ticks)}
	ret := &Performance{TicksPerBeat: int(ticks)}
	for i, track := range file.Tracks {
		tracks, err := x.Track(track)
		if err != nil {
			return nil, fmt.Errorf("track %v: %w", i, err)
		}
		ret.Tracks = append(ret.Tracks, tracks...)
	}
	tempo, ok := x.Tempo()
	if !ok {
		return nil, w4on.ErrTempoNotSet
	}
	ret.Tempo = tempo
	return ret, nil
}

// Tempo returns the tempo mapping resolved so far.
func (x *Extractor) Tempo() (Tempo, bool) {
	if x.bpm == 0 {
		return Tempo{}, false
	}
	return NewTempo(x.bpm, x.TicksPerBeat), true
}

func (x *Extractor) setTempo(bpm float64) error {
	if x.bpm != 0 && x.bpm != bpm {
		return fmt.Errorf("%w: %v -> %v BPM", w4on.ErrTempoChangeUnsupported, x.bpm, bpm)
	}
	x.bpm = bpm
	return nil
}

// Track extracts the notes of one source track. A track playing on exactly
// one channel gives one ChannelTrack named after the track; a track playing
// on several channels gives one ChannelTrack per channel, in channel order.
func (x *Extractor) Track(track smf.Track) ([]w4on.ChannelTrack, error) {
	name := DefaultTrackName
	channels := map[uint8]*channelState{}
	pans := map[uint8]w4on.Pan{}
	tick := 0
	for _, ev := range track {
		if ev.Delta > 0 && x.bpm == 0 {
			return nil, fmt.Errorf("%w (%v)", w4on.ErrTempoNotSet, name)
		}
		tick += int(ev.Delta)
		msg := ev.Message
		var ch, key, vel, ctl uint8
		var text string
		var bpm float64
		switch {
		case msg.GetMetaTrackName(&text):
			name = DecodeName(text)
		case msg.GetMetaTempo(&bpm):
			if err := x.setTempo(bpm); err != nil {
				return nil, err
			}
		case msg.GetNoteOn(&ch, &key, &vel) && vel > 0:
			c, ok := channels[ch]
			if !ok {
				c = &channelState{starts: map[int]noteStart{}}
				channels[ch] = c
			}
			if _, sounding := c.starts[int(key)]; sounding && x.Strict {
				return nil, fmt.Errorf("%w: key %v at tick %v (%v)", w4on.ErrOverlappingNoteStart, key, tick, name)
			}
			c.starts[int(key)] = noteStart{tick: tick, velocity: int(vel)}
		case msg.GetNoteOn(&ch, &key, &vel), msg.GetNoteOff(&ch, &key, &vel):
			note := int(key)
			if note < w4on.PitchOffset || note > 127 {
				return nil, fmt.Errorf("%w %v (%v)", w4on.ErrPitchOutOfRange, note, name)
			} else if note >= w4on.PitchOffset+w4on.NumPitches {
				return nil, fmt.Errorf("%w: key %v (%v)", w4on.ErrPitchNotOnPiano, note, name)
			}
			c, ok := channels[ch]
			if !ok {
				return nil, fmt.Errorf("%w: key %v at tick %v (%v)", w4on.ErrMissingNoteStart, note, tick, name)
			}
			start, ok := c.starts[note]
			if !ok {
				return nil, fmt.Errorf("%w: key %v at tick %v (%v)", w4on.ErrMissingNoteStart, note, tick, name)
			}
			delete(c.starts, note)
			c.notes = append(c.notes, w4on.RawNote{
				Tick:     start.tick,
				Length:   tick - start.tick,
				Pitch:    note - w4on.PitchOffset,
				Velocity: start.velocity,
				Pan:      pans[ch],
			})
		case msg.GetControlChange(&ch, &ctl, &vel) && ctl == PanController:
			pans[ch] = w4on.PanFromController(int(vel))
		}
	}
	ids := make([]int, 0, len(channels))
	for ch := range channels {
		ids = append(ids, int(ch))
	}
	sort.Ints(ids)
	if len(ids) == 1 {
		return []w4on.ChannelTrack{{Name: name, Notes: channels[uint8(ids[0])].notes}}, nil
	}
	ret := make([]w4on.ChannelTrack, 0, len(ids))
	for _, ch := range ids {
		ret = append(ret, w4on.ChannelTrack{
			Name:  fmt.Sprintf("%v (channel %v)", name, ch),
			Notes: channels[uint8(ch)].notes,
		})
	}
	return ret, nil
}
