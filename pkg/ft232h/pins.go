package ft232h

import (
	"fmt"

	"github.com/yunginnanet/ft232h"
)

// NumCPins is the number of C-bus lines (C0..C7) available as GPIO.
const NumCPins = 8

// Pin is one C-bus line of an FT232H, configured either as the HX711
// clock output or the data input.
//
// Every level change is a USB transaction. On a full-speed hub the clock can
// stay high well past the 60us power down threshold of an HX711, so prefer a
// native GPIO backend when one is available.
type Pin struct {
	ft  *FT232H
	pin ft232h.CPin
	out bool
}

func (ft *FT232H) claim(n uint) (ft232h.CPin, error) {
	if n >= NumCPins {
		return 0, fmt.Errorf("%w: C%d", ErrBadPin, n)
	}
	pin := ft232h.CPin(1 << n)
	if ft.used&pin != 0 {
		return 0, fmt.Errorf("%w: C%d", ErrPinInUse, n)
	}
	ft.used |= pin
	return pin, nil
}

// ClockPin configures C-bus line n as an output, initially low.
func (ft *FT232H) ClockPin(n uint) (*Pin, error) {
	pin, err := ft.claim(n)
	if err != nil {
		return nil, err
	}
	if err = ft.GPIO.ConfigPin(pin, ft232h.Output, false); err != nil {
		ft.used &^= pin
		return nil, fmt.Errorf("failed to configure clock pin %s: %w", pin, err)
	}
	return &Pin{ft: ft, pin: pin, out: true}, nil
}

// DataPin configures C-bus line n as an input.
func (ft *FT232H) DataPin(n uint) (*Pin, error) {
	pin, err := ft.claim(n)
	if err != nil {
		return nil, err
	}
	if err = ft.GPIO.ConfigPin(pin, ft232h.Input, false); err != nil {
		ft.used &^= pin
		return nil, fmt.Errorf("failed to configure data pin %s: %w", pin, err)
	}
	return &Pin{ft: ft, pin: pin}, nil
}

func (p *Pin) set(level bool) error {
	if !p.out {
		return fmt.Errorf("%w: %s is an input", ErrBadPin, p.pin)
	}
	if err := p.ft.GPIO.Set(p.pin, level); err != nil {
		return fmt.Errorf("failed to set %s: %w", p.pin, err)
	}
	return nil
}

func (p *Pin) High() error {
	return p.set(true)
}

func (p *Pin) Low() error {
	return p.set(false)
}

func (p *Pin) IsHigh() (bool, error) {
	hl, err := p.ft.GPIO.Get(p.pin)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", p.pin, err)
	}
	return hl, nil
}

// Pos returns the C-bus line number.
func (p *Pin) Pos() uint {
	return uint(p.pin.Pos())
}

func (p *Pin) String() string {
	dir := "in"
	if p.out {
		dir = "out"
	}
	return fmt.Sprintf("%s(%s)", p.pin.String(), dir)
}
