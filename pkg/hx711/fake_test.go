package hx711

import (
	"errors"
	"time"

	"github.com/l0nax/go-spew/spew"
)

var pprint = spew.ConfigState{
	Indent:                  "\t",
	MaxDepth:                0,
	DisableMethods:          false,
	DisablePointerMethods:   false,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	ContinueOnMethod:        true,
	SortKeys:                true,
	SpewKeys:                true,
}

var errPin = errors.New("pin driver failure")

// fakeClock advances only when slept on.
type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept += d
}

// fakeChip models the HX711 side of the two wires. It serves as both the
// clock OutputPin and the data InputPin.
type fakeChip struct {
	words []uint32 // conversions, one shifted out per cycle

	notReady   int  // ready polls answered "busy" before each cycle
	neverReady bool // DOUT stuck high

	clk     bool
	rising  int   // rising edges since creation
	falling int   // falling edges since creation
	edges   int   // rising edges in the current cycle
	polls   int   // busy answers given in the current wait
	cycles  []int // rising edges of every finished cycle

	failHighAt int   // fail High once, on this rising edge (1-based, total); 0 disables
	failLow    bool  // every Low fails
	readErr    error // every IsHigh fails
}

func (f *fakeChip) High() error {
	if f.failHighAt > 0 && f.rising+1 == f.failHighAt {
		f.failHighAt = 0
		return errPin
	}
	if !f.clk {
		f.rising++
		f.edges++
	}
	f.clk = true
	return nil
}

func (f *fakeChip) Low() error {
	if f.failLow {
		return errPin
	}
	if f.clk {
		f.falling++
	}
	f.clk = false
	return nil
}

func (f *fakeChip) IsHigh() (bool, error) {
	if f.readErr != nil {
		return false, f.readErr
	}
	if f.clk {
		if f.edges <= DataBits && len(f.words) > 0 {
			return (f.words[0]>>(DataBits-f.edges))&1 == 1, nil
		}
		return false, nil
	}
	f.endCycle()
	if f.neverReady {
		return true, nil
	}
	if f.polls < f.notReady {
		f.polls++
		return true, nil
	}
	return false, nil
}

// endCycle closes the bookkeeping of a cycle once the clock has gone quiet.
func (f *fakeChip) endCycle() {
	if f.edges == 0 {
		return
	}
	f.cycles = append(f.cycles, f.edges)
	lost := f.edges > 1
	f.edges = 0
	f.polls = 0
	// a lone power down pulse between words has no word in flight to lose
	if lost && len(f.words) > 0 {
		f.words = f.words[1:]
	}
}

func newTestDevice(f *fakeChip, cfg Config) (*HX711, *fakeClock, error) {
	d, err := New(f, f, cfg)
	if err != nil {
		return nil, nil, err
	}
	clock := newFakeClock()
	d.SetClock(clock)
	// settle the power-on reset so each test starts from a clean edge count
	if err = d.Reset(); err != nil {
		return nil, nil, err
	}
	f.rising, f.falling, f.edges = 0, 0, 0
	clock.slept = 0
	return d, clock, nil
}
