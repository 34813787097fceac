package hx711

import "time"

// OutputPin drives the PD_SCK (clock) line. Both calls are idempotent.
type OutputPin interface {
	High() error
	Low() error
}

// InputPin samples the DOUT (data) line.
type InputPin interface {
	IsHigh() (bool, error)
}

// Clock provides the hold delays and the ready deadline.
// Tests substitute a fake to avoid real timing.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// spinThreshold is the delay below which SystemClock busy-waits.
// time.Sleep granularity on most hosts is far coarser than a pulse hold.
const spinThreshold = 50 * time.Microsecond

// SystemClock is the wall clock. Holds shorter than 50us are spun so
// the clock line is not left high long enough to power the chip down.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if d >= spinThreshold {
		time.Sleep(d)
		return
	}
	start := time.Now()
	for time.Since(start) < d {
	}
}
