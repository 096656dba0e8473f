package vm

import (
	"fmt"
	"math"

	"github.com/w4on/w4on"
)

type (
	// Bytecode is the data of one track as read by the w4on runtime. It is
	// generated from the classified events of the track and the instrument
	// playing it.
	Bytecode struct {
		// Data starts with the channel flags byte, followed by the setup
		// messages of the instrument and then the messages of the events,
		// each an opcode followed by zero or more operand bytes.
		Data []byte

		// Stats counts what went into Data, for diagnostics.
		Stats Stats

		// Warnings are the problems in the events that were corrected
		// while encoding them.
		Warnings []string
	}

	// Stats are the counters collected while encoding a track.
	Stats struct {
		Notes             int // notes and slides
		Segments          int // slide segments, as encoded in the segments opcodes
		Arps              int
		ArpNotes          int
		Waits             int // wait messages
		FirstTick         int
		LastTick          int
		VelocityChanges   int
		PanChanges        int
		CorrectedOverlaps int
	}
)

type bytecodeBuilder struct {
	velocity int
	pan      w4on.Pan
	endTick  int
	gain     float64
	Bytecode
}

// NewBytecode encodes the events of a track, played by instr, into bytecode.
// The events should be sorted by tick, as returned by Classify. An event
// lasting past the start of the next one is shortened to end there, which is
// reported in the Warnings.
func NewBytecode(events []w4on.Event, instr w4on.Instrument) (*Bytecode, error) {
	flags, err := instr.Flags()
	if err != nil {
		return nil, err
	}
	b := newBytecodeBuilder(instr)
	b.op(int(flags))
	if instr.A != 0 {
		b.op(w4on.OpSetAttack, instr.A)
	}
	if instr.D != 0 {
		b.op(w4on.OpSetDecay, instr.D)
	}
	if s := instr.Sustain(); s != 1 {
		b.op(w4on.OpSetSustain, int(math.Round(s*255)))
	}
	if instr.R != 0 {
		b.op(w4on.OpSetRelease, instr.R)
	}
	if instr.Arpeggiates() {
		b.op(w4on.OpSetArpSpeed, instr.ArpSpeed)
	}
	if len(events) > 0 {
		b.Stats.FirstTick = events[0].Tick
		b.Stats.LastTick = events[len(events)-1].End()
	}
	for i := range events {
		event := events[i].Copy()
		if i+1 < len(events) && event.End() > events[i+1].Tick {
			event = event.Truncate(events[i+1].Tick - event.Tick)
			b.Stats.CorrectedOverlaps++
			b.Warnings = append(b.Warnings, fmt.Sprintf("corrected overlapping %v at tick %v", event.Kind, event.Tick))
		}
		if err := b.wait(event.Tick - b.endTick); err != nil {
			return nil, err
		}
		b.endTick = event.End()
		if event.Pan != b.pan {
			b.Stats.PanChanges++
			b.pan = event.Pan
			b.op(w4on.OpSetPan + int(event.Pan))
		}
		if event.Velocity != b.velocity {
			b.Stats.VelocityChanges++
			b.velocity = event.Velocity
			b.op(w4on.OpSetVolume, b.volume(event.Velocity))
		}
		if err := b.event(&event); err != nil {
			return nil, fmt.Errorf("%v at tick %v: %w", event.Kind, event.Tick, err)
		}
	}
	return &b.Bytecode, nil
}

func newBytecodeBuilder(instr w4on.Instrument) *bytecodeBuilder {
	// the velocity is out of range so the first event always sets the volume
	return &bytecodeBuilder{velocity: -1, pan: w4on.PanCenter, gain: instr.Gain()}
}

// op adds an opcode followed by operand bytes
func (b *bytecodeBuilder) op(opcode int, operands ...int) {
	b.Data = append(b.Data, byte(opcode))
	for _, o := range operands {
		b.Data = append(b.Data, byte(o))
	}
}

// length adds a variable-length field
func (b *bytecodeBuilder) length(l int) error {
	var err error
	b.Data, err = w4on.AppendLength(b.Data, l)
	return err
}

func (b *bytecodeBuilder) volume(velocity int) int {
	return max(0, min(255, int(math.Round(float64(velocity)*b.gain))))
}

// wait adds wait messages covering the given number of ticks. Waits longer
// than a single long wait are chained.
func (b *bytecodeBuilder) wait(ticks int) error {
	for ticks > 0 {
		b.Stats.Waits++
		if ticks <= w4on.MaxShortWait {
			b.op(w4on.OpShortWait + ticks - 1)
			return nil
		}
		n := min(ticks, w4on.MaxLongWait)
		b.op(w4on.OpLongWait)
		if err := b.length(n - w4on.NumShortWaits - 1); err != nil {
			return err
		}
		ticks -= n
	}
	return nil
}

func (b *bytecodeBuilder) event(e *w4on.Event) error {
	switch e.Kind {
	case w4on.ArpEvent:
		n := len(e.Pitches)
		if n < 2 || n > w4on.MaxArpNotes {
			return fmt.Errorf("%w: %v notes (should be 2 .. %v)", w4on.ErrTooManyArpNotes, n, w4on.MaxArpNotes)
		}
		b.Stats.Arps++
		b.Stats.ArpNotes += n
		b.op(w4on.OpArp + n - 2)
		if err := b.length(e.Length); err != nil {
			return err
		}
		b.op(e.Pitches[0], e.Pitches[1:]...)
	case w4on.SlideEvent:
		tail := e.TailLength()
		count := len(e.Segments)
		if tail <= 0 {
			count-- // the last segment sounds till the end
		}
		if count > w4on.NumSegments {
			return fmt.Errorf("%w: %v (max %v)", w4on.ErrTooManySegments, count, w4on.NumSegments)
		}
		if count < 1 || tail < 0 {
			return w4on.ErrInvalidSlide
		}
		b.Stats.Notes++
		b.Stats.Segments += count
		b.op(w4on.OpSegments + count - 1)
		for _, s := range e.Segments {
			if err := b.note(s.Pitch, s.Length); err != nil {
				return err
			}
		}
		if tail > 0 {
			return b.note(e.Pitch, tail)
		}
	default:
		b.Stats.Notes++
		return b.note(e.Pitch, e.Length)
	}
	return nil
}

func (b *bytecodeBuilder) note(pitch, length int) error {
	if pitch < 0 || pitch >= w4on.NumPitches {
		return fmt.Errorf("%w: pitch %v", w4on.ErrPitchNotOnPiano, pitch)
	}
	b.op(w4on.OpNote + pitch)
	return b.length(length)
}
