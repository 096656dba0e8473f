package compiler

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"github.com/w4on/w4on"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// PlayTime returns how long the runtime takes to play the given number of
// ticks.
func PlayTime(ticks int) time.Duration {
	return time.Duration(ticks) * time.Second / w4on.TicksPerSecond
}

func formatTicks(ticks int) string {
	if ticks == 0 {
		return "0s"
	}
	return durafmt.Parse(PlayTime(ticks)).LimitFirstN(2).Format(shortUnits)
}

// Report writes the diagnostics of a compilation in human readable form.
func (r *Result) Report(w io.Writer) error {
	t := r.Tempo
	if _, err := fmt.Fprintf(w, "Original BPM: %v  Best tick wait: %v  Best BPM: %v  Midi tick divisor: %v\n", t.BPM, t.TickWait, t.BestBPM, t.Divisor); err != nil {
		return err
	}
	for i, info := range r.Tracks {
		_, err := fmt.Fprintf(w, `
Track #%v/%v (%v)
    data size: %v
    channel flags: %v
    notes: %v
    segments: %v
    arps: %v (%v notes)
    waits: %v
    first tick: %v, last tick: %v (%v)
    changes:
        velocity: %v
        pan: %v
    corrected overlaps: %v
`, i+1, len(r.Tracks), info.Name, humanize.Bytes(uint64(len(info.Data))), info.Flags,
			info.Notes, info.Segments, info.Arps, info.ArpNotes, info.Waits,
			info.FirstTick, info.LastTick, formatTicks(info.LastTick),
			info.VelocityChanges, info.PanChanges, info.CorrectedOverlaps)
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nTotal data size: %v\nTick inaccuracy: %v\n", humanize.Bytes(uint64(len(r.Data))), r.TickInaccuracy)
	return err
}
