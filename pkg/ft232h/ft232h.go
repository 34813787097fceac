package ft232h

import (
	"fmt"

	"github.com/yunginnanet/ft232h"
)

// DeviceInfo represents a snapshot of the device information for the [FT232H] device.
type DeviceInfo struct {
	Index       int
	Serial      string
	Description string
	ProductID   string
	VendorID    string
	IsOpen      bool
	IsHighSpeed bool
}

// String returns a string representation of the device information.
func (ft DeviceInfo) String() string {
	return fmt.Sprintf(
		"DeviceInfo{Index:%d, Serial:%s, Description:%s, ProductID:%s, VendorID:%s, IsOpen:%t, IsHighSpeed:%t}",
		ft.Index, ft.Serial, ft.Description, ft.ProductID, ft.VendorID, ft.IsOpen, ft.IsHighSpeed,
	)
}

// FT232H represents an FT232H device whose C-bus lines are used as GPIO.
type FT232H struct {
	*ft232h.FT232H
	info DeviceInfo
	used ft232h.CPin // C-bus lines already handed out as pins
}

// Info returns a snapshot of the device information for the FT232H device. Read-only.
func (ft *FT232H) Info() DeviceInfo {
	vid, pid := ft.vidPid()
	return DeviceInfo{
		Index:       ft.Index(),
		Serial:      ft.Serial(),
		Description: ft.Desc(),
		ProductID:   pid,
		VendorID:    vid,
		IsOpen:      ft.IsOpen(),
		IsHighSpeed: ft.IsHiSpeed(),
	}
}

// String returns a string representation of the FT232H device. It includes the vendor ID, product ID, and description.
// It reports the snapshot taken when the device was connected and does not touch the USB device.
func (ft *FT232H) String() string {
	info := ft.info
	if info == (DeviceInfo{}) && ft.FT232H != nil {
		info = ft.Info()
	}
	return fmt.Sprintf("FT232H[%s:%s]: %s", info.VendorID, info.ProductID, info.Description)
}

// Close releases the USB device. Pins obtained from it stop working.
func (ft *FT232H) Close() error {
	if ft.FT232H == nil {
		return nil
	}
	return ft.FT232H.Close()
}

// ConnectFT232h opens the first FT232H found, or the one matching choice.
func ConnectFT232h(choice ...Descriptor) (ft *FT232H, err error) {
	ft = &FT232H{}

	switch len(choice) {
	case 0:
		ft.FT232H, err = ft232h.New()
	case 1:
		desc := choice[0]
		if err = desc.Validate(); err != nil {
			return nil, ErrBadDescriptor
		}
		ft.FT232H, err = ft232h.OpenMask(desc.Mask())
	default:
		return nil, fmt.Errorf("invalid number of arguments")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open FT232H: %w", err)
	}

	ft.info = ft.Info()
	return ft, nil
}
