package ft232h

import (
	"fmt"

	"github.com/yunginnanet/ft232h"
)

var (
	ErrBadDescriptor = fmt.Errorf("invalid FT232H descriptor provided")
	ErrBadPin        = fmt.Errorf("invalid FT232H C-bus pin")
	ErrPinInUse      = fmt.Errorf("FT232H C-bus pin already in use")
)

// vidPid renders the USB IDs the way lsusb does, e.g. "0403" and "6014".
func (ft *FT232H) vidPid() (vid string, pid string) {
	return fmt.Sprintf("%04x", ft.VID()), fmt.Sprintf("%04x", ft.PID())
}

func emptyMask(mask *ft232h.Mask) bool {
	return mask == nil || (mask.Serial == "" && mask.PID == "" && mask.VID == "" && mask.Desc == "" && mask.Index == "")
}
