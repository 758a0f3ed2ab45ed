package hwio

// A driver for the Raspberry Pi GPIO function select registers.
//
// Only the BCM2835/6/7 and BCM2711 GPIO block layout is handled. The Pi 5
// routes its header through the RP1 and is not supported.
//
// WARNINGS:
// - CHANGING THE FUNCTION OF A PIN THAT SOMETHING ELSE IS DRIVING MAY FRY YOUR BOARD
// - THE KERNEL'S OWN GPIO DRIVER IS NOT TOLD ABOUT CHANGES MADE HERE

import (
	"errors"
	"fmt"
)

const (
	// Byte offset of GPFSEL0 within the GPIO block. GPFSEL0..5 follow.
	GPFSEL0 = 0x00

	FunctionSelectWidth = 3

	// Highest GPIO on the BCM2711; earlier SoCs stop at 53.
	PiMaxPin = 57
)

// Status codes returned by ResetPin.
const (
	StatusOK            = 0
	StatusResourceError = 1
	StatusRangeError    = 2
	StatusError         = 3
)

// The 40 pin header, indexed by physical pin number. -1 marks power, ground
// and the ID EEPROM pins, which are not GPIOs.
var piHeader = []Pin{
	-1, // header pins are numbered from 1
	-1, -1,
	2, -1,
	3, -1,
	4, 14,
	-1, 15,
	17, 18,
	27, -1,
	22, 23,
	-1, 24,
	10, -1,
	9, 25,
	11, 8,
	-1, 7,
	-1, -1,
	5, -1,
	6, 12,
	13, -1,
	19, 16,
	26, 20,
	-1, 21,
}

// Returns the GPIO on physical header pin n.
func HeaderPin(n int) (Pin, error) {
	if n < 1 || n >= len(piHeader) {
		return 0, &RangeError{Kind: OutOfBounds, Index: n, Limit: len(piHeader)}
	}
	p := piHeader[n]
	if p < 0 {
		return 0, fmt.Errorf("hwio: header pin %d is not a GPIO", n)
	}
	return p, nil
}

type RaspberryPiDriver struct {
	// Mapped GPIO block
	region *MappedRegion
}

// Driver over an already open GPIO region. The driver takes ownership of the
// region; closing the driver closes it.
func NewRaspberryPiDriver(region *MappedRegion) *RaspberryPiDriver {
	return &RaspberryPiDriver{region: region}
}

// Map the GPIO block described by cfg.
func OpenRaspberryPi(cfg Config) (*RaspberryPiDriver, error) {
	region, e := cfg.Open()
	if e != nil {
		return nil, e
	}
	return NewRaspberryPiDriver(region), nil
}

func (d *RaspberryPiDriver) Close() error {
	return d.region.Close()
}

// Set the function of a pin.
func (d *RaspberryPiDriver) PinMode(pin Pin, fn PinFunction) error {
	sel, e := gpfsel(pin)
	if e != nil {
		return e
	}
	return d.region.SetSelected(sel, uint32(fn))
}

// Read back the function of a pin.
func (d *RaspberryPiDriver) GetPinMode(pin Pin) (PinFunction, error) {
	sel, e := gpfsel(pin)
	if e != nil {
		return 0, e
	}
	w, e := d.region.ReadWord(sel.Index)
	if e != nil {
		return 0, e
	}
	return PinFunction(sel.Extract(w)), nil
}

// Selector for a pin's field in the GPFSEL bank.
func gpfsel(pin Pin) (FieldSelector, error) {
	if pin < 0 || pin > PiMaxPin {
		return FieldSelector{}, &RangeError{Kind: OutOfBounds, Index: int(pin), Limit: PiMaxPin + 1}
	}
	sel, e := NewFieldSelector(int(pin), FunctionSelectWidth)
	if e != nil {
		return FieldSelector{}, e
	}
	sel.Index += GPFSEL0 / wordBytes
	return sel, nil
}

// Switch pin to a plain output, mapping and unmapping the GPIO block around
// the write. Takes the configuration from the environment (see
// ConfigFromEnv). Returns StatusOK, or one of the other status codes if the
// block could not be mapped or the pin is out of range. No state is kept
// between calls.
func ResetPin(pin int) int {
	cfg, e := ConfigFromEnv()
	if e != nil {
		logf("reset pin %d: %v", pin, e)
		return StatusError
	}
	return StatusCode(ResetPinWith(NewMemDevice(cfg.DevicePath), cfg.Base, cfg.Length, pin))
}

// As ResetPin, over the given device and range, returning the error.
func ResetPinWith(dev MemDevice, base int64, length int, pin int) (e error) {
	region, e := OpenRegion(dev, base, length)
	if e != nil {
		return e
	}
	defer func() {
		if ce := region.Close(); ce != nil && e == nil {
			e = ce
		}
	}()

	return NewRaspberryPiDriver(region).PinMode(Pin(pin), Output)
}

// Translates an error from this package to a ResetPin status code.
func StatusCode(e error) int {
	var re *ResourceError
	var rg *RangeError
	switch {
	case e == nil:
		return StatusOK
	case errors.As(e, &re):
		return StatusResourceError
	case errors.As(e, &rg):
		return StatusRangeError
	}
	return StatusError
}
