package pins

import (
	"fmt"

	"github.com/warthog618/gpio"
)

// OpenMem maps /dev/gpiomem for the warthog618/gpio backend. Pair it with CloseMem.
func OpenMem() error {
	if err := gpio.Open(); err != nil {
		return fmt.Errorf("gpiomem open: %w", err)
	}
	return nil
}

// CloseMem unmaps the registers opened by OpenMem.
func CloseMem() error {
	return gpio.Close()
}

// MemPin is a BCM numbered pin driven through warthog618/gpio.
type MemPin struct {
	pin *gpio.Pin
}

// NewMemClock makes BCM pin n an output and drives it low.
func NewMemClock(n int) (*MemPin, error) {
	if err := checkBCM(n); err != nil {
		return nil, err
	}
	p := gpio.NewPin(n)
	p.Low()
	p.Output()
	return &MemPin{pin: p}, nil
}

// NewMemData makes BCM pin n an input.
func NewMemData(n int) (*MemPin, error) {
	if err := checkBCM(n); err != nil {
		return nil, err
	}
	p := gpio.NewPin(n)
	p.Input()
	return &MemPin{pin: p}, nil
}

func (p *MemPin) High() error {
	p.pin.High()
	return nil
}

func (p *MemPin) Low() error {
	p.pin.Low()
	return nil
}

func (p *MemPin) IsHigh() (bool, error) {
	return p.pin.Read() == gpio.High, nil
}

func (p *MemPin) String() string {
	return fmt.Sprintf("BCM%d", p.pin.Pin())
}
