package w4on_test

import (
	"testing"

	"github.com/w4on/w4on"
)

func TestProtocolMatchesConstants(t *testing.T) {
	expected := map[string]int{
		"LONG_WAIT":     w4on.OpLongWait,
		"SHORT_WAIT":    w4on.OpShortWait,
		"NOTE":          w4on.OpNote,
		"SEGMENTS":      w4on.OpSegments,
		"ARP":           w4on.OpArp,
		"SET_VOLUME":    w4on.OpSetVolume,
		"SET_A":         w4on.OpSetAttack,
		"SET_D":         w4on.OpSetDecay,
		"SET_S":         w4on.OpSetSustain,
		"SET_R":         w4on.OpSetRelease,
		"SET_PAN":       w4on.OpSetPan,
		"SET_ARP_SPEED": w4on.OpSetArpSpeed,
	}
	entries, reserved := w4on.ProtoTable()
	if len(entries) != len(expected) {
		t.Fatalf("protocol has %v spans, expected %v", len(entries), len(expected))
	}
	for _, e := range entries {
		op, ok := expected[e.Name]
		if !ok {
			t.Fatalf("unexpected span %v", e.Name)
		}
		if e.Start != op {
			t.Fatalf("span %v starts at %#02x, but its constant is %#02x", e.Name, e.Start, op)
		}
	}
	if reserved != w4on.OpReserved {
		t.Fatalf("first unused opcode is %#02x, expected %#02x", reserved, w4on.OpReserved)
	}
}

func TestProtocolCounts(t *testing.T) {
	entries, _ := w4on.ProtoTable()
	counts := map[string]int{}
	for _, e := range entries {
		counts[e.Name] = e.Count
	}
	if counts["SHORT_WAIT"] != w4on.NumShortWaits || counts["NOTE"] != w4on.NumPitches ||
		counts["SEGMENTS"] != w4on.NumSegments || counts["ARP"] != w4on.NumArps || counts["SET_PAN"] != 3 {
		t.Fatalf("span counts do not match the constants: %v", counts)
	}
	if w4on.MaxArpNotes != 17 {
		t.Fatalf("MaxArpNotes = %v, expected 17", w4on.MaxArpNotes)
	}
}
