package hwio

// Definitions relating to pins.

// A BCM GPIO number.
type Pin int

// PinFunction is the 3 bit function select encoding of a GPIO pin. The
// alternate function codes are not in numeric order.
type PinFunction uint32

const (
	Input  PinFunction = 0b000
	Output PinFunction = 0b001
	Alt0   PinFunction = 0b100
	Alt1   PinFunction = 0b101
	Alt2   PinFunction = 0b110
	Alt3   PinFunction = 0b111
	Alt4   PinFunction = 0b011
	Alt5   PinFunction = 0b010
)

// String representation of a pin function
func (f PinFunction) String() string {
	switch f {
	case Input:
		return "INPUT"
	case Output:
		return "OUTPUT"
	case Alt0:
		return "ALT0"
	case Alt1:
		return "ALT1"
	case Alt2:
		return "ALT2"
	case Alt3:
		return "ALT3"
	case Alt4:
		return "ALT4"
	case Alt5:
		return "ALT5"
	}
	return ""
}
