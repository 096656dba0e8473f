package w4on

type (
	// ProtoSpan is a contiguous range of opcodes sharing one meaning. The
	// opcode table of the format is the concatenation of Protocol, starting
	// from 0; the w4on-protospan command renders it for other languages.
	ProtoSpan struct {
		Name     string
		Count    int
		Operands string `yaml:",omitempty"` // human readable description of the bytes that follow
	}
)

// Protocol lists the opcode spans of the format in order. Changing it
// changes the binary format; the Op* constants below must follow it.
var Protocol = []ProtoSpan{
	{Name: "LONG_WAIT", Count: 1, Operands: "ExLength + W4ON_MSG_COUNT_SHORT_WAIT"},
	{Name: "SHORT_WAIT", Count: 120},
	{Name: "NOTE", Count: 88, Operands: "ExLength"},
	// the first note after SEGMENTS is played normally, the next n+1 notes
	// slide from the previous one
	{Name: "SEGMENTS", Count: 16},
	{Name: "ARP", Count: 16, Operands: "ExLength + 2, [notes...]"},
	{Name: "SET_VOLUME", Count: 1, Operands: "[8:volume]"},
	{Name: "SET_A", Count: 1, Operands: "[8:A]"},
	{Name: "SET_D", Count: 1, Operands: "[8:D]"},
	{Name: "SET_S", Count: 1, Operands: "[8:S]"},
	{Name: "SET_R", Count: 1, Operands: "[8:R]"},
	{Name: "SET_PAN", Count: 3},
	{Name: "SET_ARP_SPEED", Count: 1, Operands: "[8:ArpSpeed]"},
}

const (
	OpLongWait    = 0x00
	OpShortWait   = 0x01
	OpNote        = 0x79
	OpSegments    = 0xd1
	OpArp         = 0xe1
	OpSetVolume   = 0xf1
	OpSetAttack   = 0xf2
	OpSetDecay    = 0xf3
	OpSetSustain  = 0xf4
	OpSetRelease  = 0xf5
	OpSetPan      = 0xf6
	OpSetArpSpeed = 0xf9
	OpReserved    = 0xfa

	NumShortWaits = 120
	NumSegments   = 16
	NumArps       = 16

	// MaxShortWait is the longest wait a single short wait opcode encodes.
	MaxShortWait = NumShortWaits
	// MaxLongWait is the longest wait a single long wait opcode encodes.
	MaxLongWait = MaxLength + NumShortWaits + 1
	// MaxArpNotes is the largest number of pitches an arp opcode encodes.
	MaxArpNotes = NumArps + 1
)

// ProtoEntry is a span of Protocol together with its position in the opcode
// space.
type ProtoEntry struct {
	ProtoSpan
	Start int
}

// Span reports whether the entry covers more than one opcode.
func (p ProtoEntry) Span() bool {
	return p.Count > 1
}

// ProtoTable returns the spans of Protocol with their starting opcodes and
// the first unused opcode.
func ProtoTable() ([]ProtoEntry, int) {
	ret := make([]ProtoEntry, len(Protocol))
	b := 0
	for i, p := range Protocol {
		ret[i] = ProtoEntry{ProtoSpan: p, Start: b}
		b += p.Count
	}
	return ret, b
}
