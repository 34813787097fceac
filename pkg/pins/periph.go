package pins

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PeriphInit loads the periph.io host drivers. Call it once before looking up pins.
func PeriphInit() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}
	return nil
}

// PeriphPin wraps a periph.io GPIO pin.
type PeriphPin struct {
	pin gpio.PinIO
}

func periphByName(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: periph has no pin %q", ErrNoPin, name)
	}
	return p, nil
}

// NewPeriphClock looks up name and drives it low as an output.
func NewPeriphClock(name string) (*PeriphPin, error) {
	p, err := periphByName(name)
	if err != nil {
		return nil, err
	}
	return PeriphClock(p)
}

// NewPeriphData looks up name and configures it as a floating input.
func NewPeriphData(name string) (*PeriphPin, error) {
	p, err := periphByName(name)
	if err != nil {
		return nil, err
	}
	return PeriphData(p)
}

// PeriphClock drives an already resolved pin low as an output.
func PeriphClock(p gpio.PinIO) (*PeriphPin, error) {
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("configure %s as output: %w", p, err)
	}
	return &PeriphPin{pin: p}, nil
}

// PeriphData configures an already resolved pin as a floating input.
// DOUT is push-pull, no pull resistor is needed.
func PeriphData(p gpio.PinIO) (*PeriphPin, error) {
	if err := p.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure %s as input: %w", p, err)
	}
	return &PeriphPin{pin: p}, nil
}

func (p *PeriphPin) High() error {
	return p.pin.Out(gpio.High)
}

func (p *PeriphPin) Low() error {
	return p.pin.Out(gpio.Low)
}

func (p *PeriphPin) IsHigh() (bool, error) {
	return p.pin.Read() == gpio.High, nil
}

func (p *PeriphPin) String() string {
	return p.pin.Name()
}
