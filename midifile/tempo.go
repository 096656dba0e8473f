package midifile

import (
	"math"

	"github.com/w4on/w4on"
)

// NotesPerBeat is the number of subdivisions of a beat the tick wait is
// fitted to.
const NotesPerBeat = 4

// Tempo is the tempo of a performance and how its ticks are mapped into
// runtime ticks.
type Tempo struct {
	// BPM is the tempo declared in the performance.
	BPM float64
	// TickWait is the number of runtime ticks per subdivision of a beat that
	// comes closest to BPM.
	TickWait int
	// BestBPM is the tempo actually played by the runtime.
	BestBPM float64
	// Divisor is the number of source ticks per runtime tick.
	Divisor float64
}

// NewTempo computes the tempo mapping for a performance playing at bpm with
// ticksPerBeat source ticks per quarter note.
func NewTempo(bpm float64, ticksPerBeat int) Tempo {
	wait := int(math.Round(w4on.TicksPerSecond * 60 / (bpm * NotesPerBeat)))
	if wait < 1 {
		wait = 1
	}
	return Tempo{
		BPM:      bpm,
		TickWait: wait,
		BestBPM:  w4on.TicksPerSecond * 60 / float64(wait*NotesPerBeat),
		Divisor:  float64(ticksPerBeat) / NotesPerBeat / float64(wait),
	}
}

// Ticks converts source ticks into runtime ticks.
func (t Tempo) Ticks(sourceTicks int) int {
	return int(math.Round(float64(sourceTicks) / t.Divisor))
}

// Requantize converts the notes of a track into runtime ticks. It returns
// the converted track and the sum of the absolute rounding errors of the note
// start ticks.
func (t Tempo) Requantize(track w4on.ChannelTrack) (w4on.ChannelTrack, float64) {
	ret := track.Copy()
	inaccuracy := 0.0
	for i, n := range ret.Notes {
		exact := float64(n.Tick) / t.Divisor
		inaccuracy += math.Abs(exact - math.Round(exact))
		ret.Notes[i].Tick = t.Ticks(n.Tick)
		ret.Notes[i].Length = t.Ticks(n.Length)
	}
	return ret, inaccuracy
}
