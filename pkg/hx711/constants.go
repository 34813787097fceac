package hx711

import "time"

// Constants from the datasheet

const (
	// DataBits is the number of bits shifted out per conversion.
	DataBits = 24
	// SignBit marks a negative code in a 24-bit two's complement sample.
	SignBit = 0x800000
	// DataMask covers the 24 significant bits of a [RawSample].
	DataMask = 0xFFFFFF
	// FullScale is 2^24, the span of the 24-bit code space.
	FullScale = 1 << DataBits

	// MaxCode is the largest positive code (0x7FFFFF).
	MaxCode = SignBit - 1
	// MinCode is the most negative code (0x800000 sign extended).
	MinCode = -SignBit
)

// Timing limits
const (
	// MaxPulseHold is the longest the clock may stay high during a read.
	// The datasheet allows 50us; at 60us the chip enters power down.
	MaxPulseHold = 50 * time.Microsecond

	// PowerDownHold is how long the clock is held high to power the chip down (>60us).
	PowerDownHold = 80 * time.Microsecond
)

// Defaults for [Config].
const (
	DefaultPulseHold    = time.Microsecond
	DefaultReadyTimeout = time.Second
	DefaultReadyPoll    = 100 * time.Microsecond
	DefaultFaultBackoff = 100 * time.Millisecond
)
