package pins

import (
	"errors"
	"fmt"
)

// MaxBCM is the highest BCM GPIO number on the 40 pin header.
const MaxBCM = 27

var ErrNoPin = errors.New("pins: no such pin")

func checkBCM(n int) error {
	if n < 0 || n > MaxBCM {
		return fmt.Errorf("%w: BCM%d", ErrNoPin, n)
	}
	return nil
}
