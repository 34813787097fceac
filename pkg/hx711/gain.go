package hx711

import (
	"fmt"
	"strings"
)

// Gain selects the input channel and amplifier gain of the next conversion.
// The value is the number of clock pulses sent after the 24 data bits.
type Gain byte

const (
	GainA128 Gain = 1 // channel A, gain factor 128
	GainA64  Gain = 2 // channel A, gain factor 64
	GainB32  Gain = 3 // channel B, gain factor 32
)

// Pulses returns how many trailing pulses select g.
func (g Gain) Pulses() int {
	return int(g)
}

// Valid reports whether g is one of the three gain settings the device understands.
func (g Gain) Valid() bool {
	return g >= GainA128 && g <= GainB32
}

// Channel returns the input channel, 'A' or 'B'.
func (g Gain) Channel() byte {
	if g == GainB32 {
		return 'B'
	}
	return 'A'
}

// Factor returns the amplifier gain factor.
func (g Gain) Factor() int {
	switch g {
	case GainA128:
		return 128
	case GainA64:
		return 64
	case GainB32:
		return 32
	default:
		return 0
	}
}

func (g Gain) String() string {
	switch g {
	case GainA128:
		return "A128"
	case GainA64:
		return "A64"
	case GainB32:
		return "B32"
	default:
		return "(invalid gain)"
	}
}

// ParseGain accepts "A128", "A64", "B32" or the bare factors "128", "64", "32".
func ParseGain(s string) (Gain, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A128", "128":
		return GainA128, nil
	case "A64", "64":
		return GainA64, nil
	case "B32", "32":
		return GainB32, nil
	}
	return 0, fmt.Errorf("%w: unknown gain %q", ErrProtocolViolation, s)
}
