// Contains a helper function for getting named properties out of the /proc/cpuinfo file,
// and for working out where the SoC's peripherals live from them.
// The file is only read once. Duplicate properties are overridden, so on multi-processor
// systems the values will generally be those for the last processor.

package hwio

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

const (
	BCM2835PeripheralBase = 0x20000000
	BCM2836PeripheralBase = 0x3F000000 // also BCM2837
	BCM2711PeripheralBase = 0xFE000000

	// Offset of the GPIO block from the peripheral base
	GPIOOffset = 0x200000
)

var (
	cpuInfo     map[string]string
	cpuInfoOnce sync.Once
	cpuInfoPath = "/proc/cpuinfo"
)

// Safe for concurrent use.
func CpuInfo(property string) string {
	cpuInfoOnce.Do(loadCpuInfo)
	return cpuInfo[property]
}

func loadCpuInfo() {
	cpuInfo = make(map[string]string)

	file, e := os.Open(cpuInfoPath)
	if e != nil {
		return
	}
	defer file.Close()

	info, e := ParseCpuInfo(file)
	if e != nil {
		logf("reading %s: %v", cpuInfoPath, e)
	}
	cpuInfo = info
}

// Parse "name : value" lines in the format of /proc/cpuinfo.
func ParseCpuInfo(r io.Reader) (map[string]string, error) {
	info := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		// split on the first colon, and trim both sides
		i := strings.Index(line, ":")
		if i >= 0 {
			name := strings.Trim(line[0:i], " \t")
			value := strings.Trim(line[i+1:], " \t")
			info[name] = value
		}
	}

	return info, scanner.Err()
}

// Returns the peripheral base address for a board, given the Hardware and
// Revision lines of its cpuinfo. New style revision codes name the processor
// directly and take precedence, since recent kernels report BCM2835 as the
// hardware on every model. The BCM2712 (Pi 5) moved GPIO to the RP1 and is
// not supported.
func PeripheralBase(hardware string, revision string) (int64, bool) {
	rev, e := strconv.ParseUint(strings.TrimPrefix(revision, "0x"), 16, 32)
	revOK := e == nil && revision != ""

	if revOK && rev&(1<<23) != 0 {
		switch (rev >> 12) & 0xf {
		case 0:
			return BCM2835PeripheralBase, true
		case 1, 2:
			return BCM2836PeripheralBase, true
		case 3:
			return BCM2711PeripheralBase, true
		}
		return 0, false
	}

	switch hardware {
	case "BCM2835", "BCM2708":
		return BCM2835PeripheralBase, true
	case "BCM2836", "BCM2709", "BCM2837", "BCM2710":
		return BCM2836PeripheralBase, true
	case "BCM2711":
		return BCM2711PeripheralBase, true
	}

	// old style revision codes were only used on the original BCM2835 boards
	if revOK {
		return BCM2835PeripheralBase, true
	}
	return 0, false
}

// GPIO block address of the board we are running on, from /proc/cpuinfo.
func DetectGPIOBase() (int64, bool) {
	base, ok := PeripheralBase(CpuInfo("Hardware"), CpuInfo("Revision"))
	if !ok {
		return 0, false
	}
	return base + GPIOOffset, true
}
