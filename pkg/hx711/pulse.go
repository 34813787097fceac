package hx711

import "go.uber.org/multierr"

// pulse "ticks" the clock: one rising and one falling edge, each level held
// for the configured pulse hold.
func (d *HX711) pulse() error {
	if err := d.clk.High(); err != nil {
		return hardwareFault("clock high", err)
	}
	d.clock.Sleep(d.cfg.PulseHold)
	if err := d.clk.Low(); err != nil {
		return hardwareFault("clock low", err)
	}
	d.clock.Sleep(d.cfg.PulseHold)
	return nil
}

// readBit is a pulse that samples DOUT while the clock is high.
func (d *HX711) readBit() (bool, error) {
	if err := d.clk.High(); err != nil {
		return false, hardwareFault("clock high", err)
	}
	d.clock.Sleep(d.cfg.PulseHold)
	bit, err := d.dat.IsHigh()
	if err != nil {
		return false, hardwareFault("read data", err)
	}
	if err = d.clk.Low(); err != nil {
		return false, hardwareFault("clock low", err)
	}
	d.clock.Sleep(d.cfg.PulseHold)
	return bit, nil
}

// readRaw shifts in exactly 24 bits, MSB first.
func (d *HX711) readRaw() (RawSample, error) {
	var raw RawSample
	for i := 0; i < DataBits; i++ {
		bit, err := d.readBit()
		if err != nil {
			return 0, err
		}
		raw = raw.Shift(bit)
	}
	return raw, nil
}

// selectGain sends the trailing pulses that pick the next conversion's gain.
// At least one is always sent; without it DOUT stays low and the chip stalls.
func (d *HX711) selectGain(g Gain) error {
	for i := 0; i < g.Pulses(); i++ {
		if err := d.pulse(); err != nil {
			return err
		}
	}
	return nil
}

// abort discards the current cycle: the clock is forced low and the device
// is flagged so the next Read starts with a reset.
func (d *HX711) abort(err error) error {
	d.desync = true
	if lerr := d.clk.Low(); lerr != nil {
		err = multierr.Append(err, hardwareFault("force clock low", lerr))
	}
	d.log.Warn().Err(err).Msg("conversion cycle aborted")
	return err
}
