package hx711

import (
	"errors"
	"fmt"
)

var (
	// ErrHardwareFault wraps any failure of the underlying pin driver.
	// The cycle it happened in is discarded.
	ErrHardwareFault = errors.New("hx711: hardware fault")

	// ErrReadyTimeout is returned when the data line never signals ready.
	// The next cycle may be attempted right away.
	ErrReadyTimeout = errors.New("hx711: timed out waiting for data ready")

	// ErrProtocolViolation flags a configuration the device protocol cannot express.
	ErrProtocolViolation = errors.New("hx711: protocol violation")

	// ErrClosed is returned by operations on a closed device.
	ErrClosed = errors.New("hx711: device closed")
)

func hardwareFault(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrHardwareFault, op, err)
}
