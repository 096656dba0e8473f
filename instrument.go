package w4on

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type (
	// Instrument tells which channel of the runtime plays a track and how
	// its envelope is set up. Zero values of A, D and R mean the runtime
	// defaults are used and nothing is emitted; nil S means full sustain and
	// nil Amplitude means velocities are used as volumes unscaled.
	Instrument struct {
		Channel   string   `json:"channel" yaml:"channel"`
		PulseMode string   `json:"pulseMode,omitempty" yaml:"pulseMode,omitempty"`
		A         int      `json:"a,omitempty" yaml:"a,omitempty"`
		D         int      `json:"d,omitempty" yaml:"d,omitempty"`
		S         *float64 `json:"s,omitempty" yaml:"s,omitempty"`
		R         int      `json:"r,omitempty" yaml:"r,omitempty"`
		ArpSpeed  int      `json:"arpSpeed,omitempty" yaml:"arpSpeed,omitempty"`
		Amplitude *float64 `json:"amplitude,omitempty" yaml:"amplitude,omitempty"`
	}

	// Instruments maps track names to instruments.
	Instruments map[string]Instrument
)

// Channels lists the channel names accepted in instrument documents, in the
// order of the channel numbers of the runtime.
var Channels = []string{"PULSE_1", "PULSE_2", "TRIANGLE", "NOISE"}

// PulseModes lists the pulse duty cycles accepted in instrument documents, in
// the order of the pulse mode numbers of the runtime.
var PulseModes = []string{"12.5%", "25%", "50%", "75%"}

// ChannelNumber returns the runtime channel (0 .. 3) of the instrument.
func (i *Instrument) ChannelNumber() (int, error) {
	for n, c := range Channels {
		if c == i.Channel {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidChannelName, i.Channel)
}

// PulseModeNumber returns the runtime pulse mode (0 .. 3) of the instrument.
// An empty pulse mode is the 12.5% duty cycle.
func (i *Instrument) PulseModeNumber() (int, error) {
	if i.PulseMode == "" {
		return 0, nil
	}
	for n, p := range PulseModes {
		if p == i.PulseMode {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidPulseMode, i.PulseMode)
}

// Flags returns the channel flags byte that starts the data of every track:
// (pulseMode << 2) | channel.
func (i *Instrument) Flags() (byte, error) {
	c, err := i.ChannelNumber()
	if err != nil {
		return 0, err
	}
	p, err := i.PulseModeNumber()
	if err != nil {
		return 0, err
	}
	return byte(p<<2 | c), nil
}

// Sustain returns the sustain level, 0 .. 1.
func (i *Instrument) Sustain() float64 {
	if i.S == nil {
		return 1
	}
	return *i.S
}

// Gain returns the factor velocities are multiplied with to get volumes.
func (i *Instrument) Gain() float64 {
	if i.Amplitude == nil {
		return 1
	}
	return *i.Amplitude
}

// Arpeggiates reports whether notes starting on the same tick are folded into
// arpeggios.
func (i *Instrument) Arpeggiates() bool {
	return i.ArpSpeed > 1
}

// Validate checks that every parameter of the instrument fits into the
// operand byte it is emitted as.
func (i *Instrument) Validate() error {
	if _, err := i.Flags(); err != nil {
		return err
	}
	for _, p := range []struct {
		name  string
		value int
	}{{"a", i.A}, {"d", i.D}, {"r", i.R}, {"arpSpeed", i.ArpSpeed}} {
		if p.value < 0 || p.value > 255 {
			return fmt.Errorf("%w: %v = %v (should be 0 .. 255)", ErrInstrumentParameter, p.name, p.value)
		}
	}
	if s := i.Sustain(); s < 0 || s > 1 || math.IsNaN(s) {
		return fmt.Errorf("%w: s = %v (should be 0 .. 1)", ErrInstrumentParameter, s)
	}
	if a := i.Gain(); a < 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		return fmt.Errorf("%w: amplitude = %v (should be >= 0)", ErrInstrumentParameter, a)
	}
	return nil
}

// Validate validates all instruments, reporting the first invalid one in
// name order.
func (s Instruments) Validate() error {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		instr := s[name]
		if err := instr.Validate(); err != nil {
			return fmt.Errorf("instrument %q: %w", name, err)
		}
	}
	return nil
}

// ParseInstruments decodes an instrument document. JSON documents are decoded
// as JSON, anything else as YAML. The instruments are not validated; the
// compiler validates those it uses.
func ParseInstruments(data []byte) (Instruments, error) {
	var ret Instruments
	if json.Valid(data) {
		if err := json.Unmarshal(data, &ret); err != nil {
			return nil, fmt.Errorf("instruments could not be unmarshaled as .json: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("instruments could not be unmarshaled as .json or .yml: %w", err)
	}
	return ret, nil
}

// LoadInstruments reads and decodes an instrument document from a file.
func LoadInstruments(filename string) (Instruments, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read instruments %v: %w", filename, err)
	}
	return ParseInstruments(data)
}
