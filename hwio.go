/*
	Package hwio gives a process direct access to memory mapped peripheral
	registers, and uses that to configure Raspberry Pi GPIO pins through the
	GPFSEL function select registers.

	The usual pattern is:

		region, e := hwio.OpenRegion(hwio.NewMemDevice("/dev/gpiomem"), base, 4096)
		if e != nil {
			return e
		}
		defer region.Close()

		e = region.SetField(pin, hwio.FunctionSelectWidth, uint32(hwio.Output))
*/
package hwio

import (
	"log"
	"os"
)

// Diagnostic output is off unless SetVerbosity(true) has been called.
var verbose bool

var logger = log.New(os.Stderr, "hwio: ", log.LstdFlags)

// Turn diagnostic logging of mappings and register writes on or off.
func SetVerbosity(v bool) {
	verbose = v
}

// Replace the logger used for diagnostic output.
func SetLogger(l *log.Logger) {
	logger = l
}

func logf(format string, args ...interface{}) {
	if verbose {
		logger.Printf(format, args...)
	}
}
