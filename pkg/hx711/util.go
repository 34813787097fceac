package hx711

// RawSample holds the bits of one conversion exactly as shifted out, MSB first.
// Only the low 24 bits are significant.
type RawSample uint32

// Shift appends one bit at the least significant end.
func (r RawSample) Shift(bit bool) RawSample {
	r <<= 1
	if bit {
		r |= 1
	}
	return r & DataMask
}

// Negative reports whether bit 23 (the sign bit) is set.
func (r RawSample) Negative() bool {
	return r&SignBit != 0
}

// Bits returns the 24 bits of r in the order the device sends them, MSB first.
func (r RawSample) Bits() []bool {
	bits := make([]bool, DataBits)
	for i := range bits {
		bits[i] = r&(1<<(DataBits-1-i)) != 0
	}
	return bits
}

// Assemble folds bits, MSB first, into a RawSample.
func Assemble(bits ...bool) RawSample {
	var r RawSample
	for _, b := range bits {
		r = r.Shift(b)
	}
	return r
}

// SignExtend interprets raw as a 24-bit two's complement value
// and widens it to a 32-bit int.
func SignExtend(raw RawSample) int32 {
	u32 := uint32(raw & DataMask)
	if u32&SignBit != 0 {
		u32 |= 0xFF000000
	}
	return int32(u32)
}
