package hx711

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// HX711 drives an HX711 24-bit load cell ADC over two GPIO lines.
//
// The clock (PD_SCK) and data (DOUT) pins are owned by the HX711 for its
// lifetime; nothing else should touch them while it is in use.
type HX711 struct {
	mu sync.Mutex // one conversion cycle at a time

	clk   OutputPin
	dat   InputPin
	clock Clock
	log   zerolog.Logger

	cfg Config

	// active is the gain selected by the trailing pulses of the last cycle,
	// i.e. the gain of the conversion the device is currently holding.
	active Gain
	// desync is set when a cycle was cut short; the device may be mid-word.
	desync bool
	// asleep is set while the clock is parked high by PowerDown.
	asleep bool
	closed bool
}

// Config represents user-level configuration parameters
type Config struct {
	Gain         Gain          // gain selected for every following conversion
	PulseHold    time.Duration // time the clock is held at each level
	ReadyTimeout time.Duration // how long to wait for DOUT to go low
	ReadyPoll    time.Duration // DOUT polling interval while waiting
	FaultBackoff time.Duration // pause in Run after a hardware fault
}

// DefaultConfig provides default config. You can adjust as needed
func DefaultConfig() Config {
	return Config{
		Gain:         GainA128,
		PulseHold:    DefaultPulseHold,
		ReadyTimeout: DefaultReadyTimeout,
		ReadyPoll:    DefaultReadyPoll,
		FaultBackoff: DefaultFaultBackoff,
	}
}

// Validate rejects settings that would break the pulse protocol.
func (cfg Config) Validate() error {
	switch {
	case !cfg.Gain.Valid():
		return fmt.Errorf("%w: gain pulse count %d not in 1..3", ErrProtocolViolation, cfg.Gain)
	case cfg.PulseHold <= 0:
		return fmt.Errorf("%w: pulse hold must be positive", ErrProtocolViolation)
	case cfg.PulseHold >= MaxPulseHold:
		return fmt.Errorf("%w: pulse hold %s reaches the %s power down limit",
			ErrProtocolViolation, cfg.PulseHold, MaxPulseHold)
	case cfg.ReadyTimeout <= 0:
		return fmt.Errorf("%w: ready timeout must be positive", ErrProtocolViolation)
	case cfg.ReadyPoll <= 0 || cfg.ReadyPoll > cfg.ReadyTimeout:
		return fmt.Errorf("%w: ready poll %s must be in (0, %s]",
			ErrProtocolViolation, cfg.ReadyPoll, cfg.ReadyTimeout)
	case cfg.FaultBackoff < 0:
		return fmt.Errorf("%w: fault backoff must not be negative", ErrProtocolViolation)
	}
	return nil
}

// Sample is the result of one complete conversion cycle.
type Sample struct {
	Raw   RawSample // bits as shifted out
	Value int32     // Raw sign extended
	Gain  Gain      // gain this conversion was taken with
	Time  time.Time // when the cycle completed
}

// New takes ownership of the clock and data pins and drives the clock low.
// The first Read power cycles the chip, so it starts from channel A, gain 128
// whatever an earlier user of the pins left selected.
func New(clk OutputPin, dat InputPin, cfg Config) (*HX711, error) {
	if clk == nil || dat == nil {
		return nil, fmt.Errorf("%w: clock and data pins are required", ErrProtocolViolation)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := clk.Low(); err != nil {
		return nil, hardwareFault("clock low", err)
	}
	return &HX711{
		clk:    clk,
		dat:    dat,
		clock:  SystemClock{},
		log:    zerolog.Nop(),
		cfg:    cfg,
		active: GainA128,
		desync: true,
	}, nil
}

// SetLogger replaces the (silent) default logger.
func (d *HX711) SetLogger(l zerolog.Logger) {
	d.mu.Lock()
	d.log = l
	d.mu.Unlock()
}

// SetClock replaces the timing provider. A nil clock restores [SystemClock].
func (d *HX711) SetClock(c Clock) {
	d.mu.Lock()
	if c == nil {
		c = SystemClock{}
	}
	d.clock = c
	d.mu.Unlock()
}

// Config returns a copy of the current configuration.
func (d *HX711) Config() Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// SetGain changes the gain requested by the trailing pulses of the next cycle.
// Because selection lags by one cycle, the first sample carrying g is the
// one read after the next call to Read.
func (d *HX711) SetGain(g Gain) error {
	if !g.Valid() {
		return fmt.Errorf("%w: gain pulse count %d not in 1..3", ErrProtocolViolation, g)
	}
	d.mu.Lock()
	d.cfg.Gain = g
	d.mu.Unlock()
	return nil
}

// Gain returns the gain requested for upcoming conversions.
func (d *HX711) Gain() Gain {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.Gain
}

// ActiveGain returns the gain of the conversion the next Read will return.
func (d *HX711) ActiveGain() Gain {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// WaitReady blocks until DOUT goes low, the ready timeout passes, or ctx is done.
func (d *HX711) WaitReady(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return d.waitReady(ctx)
}

func (d *HX711) waitReady(ctx context.Context) error {
	deadline := d.clock.Now().Add(d.cfg.ReadyTimeout)
	for {
		high, err := d.dat.IsHigh()
		if err != nil {
			err = hardwareFault("poll data ready", err)
			if lerr := d.clk.Low(); lerr != nil {
				err = multierr.Append(err, hardwareFault("force clock low", lerr))
			}
			return err
		}
		if !high {
			return nil
		}
		if !d.clock.Now().Before(deadline) {
			return fmt.Errorf("%w after %s", ErrReadyTimeout, d.cfg.ReadyTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		d.clock.Sleep(d.cfg.ReadyPoll)
	}
}

// Read performs one full conversion cycle: wait for ready, shift in 24 bits,
// send the gain selection pulses and sign extend.
//
// ctx is only consulted while waiting for ready; once the pulse train starts
// the cycle runs to completion or fails. A failed cycle never yields a sample.
func (d *HX711) Read(ctx context.Context) (Sample, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return Sample{}, ErrClosed
	}

	if d.asleep {
		d.log.Info().Msg("waking HX711 from power down")
		if err := d.powerUp(); err != nil {
			return Sample{}, err
		}
	}

	if d.desync {
		d.log.Info().Msg("power cycling HX711 to resynchronise")
		if err := d.reset(); err != nil {
			return Sample{}, err
		}
	}

	if err := d.waitReady(ctx); err != nil {
		return Sample{}, err
	}

	raw, err := d.readRaw()
	if err != nil {
		return Sample{}, d.abort(err)
	}

	next := d.cfg.Gain
	if err = d.selectGain(next); err != nil {
		return Sample{}, d.abort(err)
	}

	s := Sample{
		Raw:   raw,
		Value: SignExtend(raw),
		Gain:  d.active,
		Time:  d.clock.Now(),
	}
	d.active = next

	d.log.Trace().
		Str("raw", fmt.Sprintf("0x%06X", uint32(raw))).
		Int32("value", s.Value).
		Stringer("gain", s.Gain).
		Stringer("next_gain", next).
		Msg("conversion")

	return s, nil
}

// PowerDown holds the clock high long enough for the chip to enter power down.
func (d *HX711) PowerDown() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return d.powerDown()
}

// PowerUp returns the clock low. The chip resets and starts converting
// on channel A, gain 128; the configured gain applies from the following cycle.
func (d *HX711) PowerUp() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return d.powerUp()
}

// Reset power cycles the chip through the clock line.
func (d *HX711) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return d.reset()
}

func (d *HX711) powerDown() error {
	if err := d.clk.Low(); err != nil {
		return hardwareFault("clock low", err)
	}
	if err := d.clk.High(); err != nil {
		return d.abort(hardwareFault("clock high", err))
	}
	d.asleep = true
	d.clock.Sleep(PowerDownHold)
	return nil
}

func (d *HX711) powerUp() error {
	if err := d.clk.Low(); err != nil {
		d.desync = true
		return hardwareFault("clock low", err)
	}
	d.active = GainA128
	d.desync = false
	d.asleep = false
	return nil
}

func (d *HX711) reset() error {
	if err := d.powerDown(); err != nil {
		return err
	}
	return d.powerUp()
}

// Close leaves the clock low and releases the device.
// The pins themselves are not closed; they belong to the caller.
func (d *HX711) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return hardwareFault("clock low", d.clk.Low())
}
