package pins

import (
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
)

var rpioMu sync.Mutex

// OpenRPIO maps the BCM GPIO registers. Pair it with CloseRPIO.
func OpenRPIO() error {
	rpioMu.Lock()
	defer rpioMu.Unlock()
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("rpio open: %w", err)
	}
	return nil
}

// CloseRPIO unmaps the registers opened by OpenRPIO.
func CloseRPIO() error {
	rpioMu.Lock()
	defer rpioMu.Unlock()
	return rpio.Close()
}

// RPIOPin is a BCM numbered pin driven through go-rpio.
// Register access cannot fail, so the error results are always nil.
type RPIOPin struct {
	pin rpio.Pin
}

// NewRPIOClock makes BCM pin n an output and drives it low.
func NewRPIOClock(n int) (*RPIOPin, error) {
	if err := checkBCM(n); err != nil {
		return nil, err
	}
	p := rpio.Pin(n)
	p.Output()
	p.Low()
	return &RPIOPin{pin: p}, nil
}

// NewRPIOData makes BCM pin n a floating input.
func NewRPIOData(n int) (*RPIOPin, error) {
	if err := checkBCM(n); err != nil {
		return nil, err
	}
	p := rpio.Pin(n)
	p.Input()
	p.PullOff()
	return &RPIOPin{pin: p}, nil
}

func (p *RPIOPin) High() error {
	p.pin.High()
	return nil
}

func (p *RPIOPin) Low() error {
	p.pin.Low()
	return nil
}

func (p *RPIOPin) IsHigh() (bool, error) {
	return p.pin.Read() == rpio.High, nil
}

func (p *RPIOPin) String() string {
	return fmt.Sprintf("BCM%d", uint8(p.pin))
}
