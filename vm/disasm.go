package vm

import (
	"fmt"
	"io"
	"strings"

	"github.com/w4on/w4on"
)

// Instruction is one decoded message of track data.
type Instruction struct {
	Offset int
	Name   string
	Args   []int
}

func (i Instruction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04x %v", i.Offset, i.Name)
	for _, a := range i.Args {
		fmt.Fprintf(&b, " %v", a)
	}
	return b.String()
}

// Disassemble decodes the data of one track, as produced by NewBytecode, into
// a list of instructions. The first instruction is always the channel flags,
// with the channel and the pulse mode as arguments. Waits are given in
// ticks, notes as pitch and length, arps as length followed by pitches.
func Disassemble(data []byte) ([]Instruction, error) {
	if len(data) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	d := disassembler{data: data, offset: 1}
	ret := []Instruction{{Offset: 0, Name: "flags", Args: []int{int(data[0] & 3), int(data[0]>>2) & 3}}}
	for d.offset < len(data) {
		start := d.offset
		ins, err := d.next()
		if err != nil {
			return ret, fmt.Errorf("offset %v: %w", start, err)
		}
		ins.Offset = start
		ret = append(ret, ins)
	}
	return ret, nil
}

type disassembler struct {
	data   []byte
	offset int
}

func (d *disassembler) readByte() (int, error) {
	if d.offset >= len(d.data) {
		return 0, io.ErrUnexpectedEOF
	}
	d.offset++
	return int(d.data[d.offset-1]), nil
}

func (d *disassembler) length() (int, error) {
	l, n, err := w4on.ReadLength(d.data[d.offset:])
	d.offset += n
	return l, err
}

func (d *disassembler) operand(name string) (Instruction, error) {
	v, err := d.readByte()
	return Instruction{Name: name, Args: []int{v}}, err
}

func (d *disassembler) next() (Instruction, error) {
	msg, err := d.readByte()
	if err != nil {
		return Instruction{}, err
	}
	switch {
	case msg >= w4on.OpReserved:
		return Instruction{}, fmt.Errorf("reserved opcode %#02x", msg)
	case msg == w4on.OpSetArpSpeed:
		return d.operand("arpspeed")
	case msg >= w4on.OpSetPan:
		return Instruction{Name: "pan " + w4on.Pan(msg-w4on.OpSetPan).String()}, nil
	case msg == w4on.OpSetRelease:
		return d.operand("release")
	case msg == w4on.OpSetSustain:
		return d.operand("sustain")
	case msg == w4on.OpSetDecay:
		return d.operand("decay")
	case msg == w4on.OpSetAttack:
		return d.operand("attack")
	case msg == w4on.OpSetVolume:
		return d.operand("volume")
	case msg >= w4on.OpArp:
		n := msg - w4on.OpArp + 2
		l, err := d.length()
		if err != nil {
			return Instruction{}, err
		}
		args := []int{l}
		for i := 0; i < n; i++ {
			p, err := d.readByte()
			if err != nil {
				return Instruction{}, err
			}
			args = append(args, p)
		}
		return Instruction{Name: "arp", Args: args}, nil
	case msg >= w4on.OpSegments:
		return Instruction{Name: "segments", Args: []int{msg - w4on.OpSegments + 1}}, nil
	case msg >= w4on.OpNote:
		l, err := d.length()
		return Instruction{Name: "note", Args: []int{msg - w4on.OpNote, l}}, err
	case msg >= w4on.OpShortWait:
		return Instruction{Name: "wait", Args: []int{msg - w4on.OpShortWait + 1}}, nil
	default:
		l, err := d.length()
		return Instruction{Name: "wait", Args: []int{l + w4on.NumShortWaits + 1}}, err
	}
}

// Duration returns the number of ticks the instructions play for.
func Duration(instructions []Instruction) int {
	ret := 0
	for _, ins := range instructions {
		switch ins.Name {
		case "wait", "arp":
			ret += ins.Args[0]
		case "note":
			ret += ins.Args[1]
		}
	}
	return ret
}
