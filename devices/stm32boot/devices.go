package stm32boot

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const DefaultFlashAddr = 0x08000000

// A run of equally sized flash sectors.
type SectorGroup struct {
	Size   int `yaml:"size"`
	Length int `yaml:"length"`
}

// Device describes a target's flash layout. A device with no sectors can
// only be mass erased.
type Device struct {
	Name      string        `yaml:"name"`
	ID        uint16        `yaml:"id"`
	FlashAddr uint32        `yaml:"flash_addr"`
	Sectors   []SectorGroup `yaml:"sectors"`
}

//go:embed devices.yml
var devicesYAML []byte

var knownDevices []Device

func init() {
	d, e := ParseDevices(devicesYAML)
	if e != nil {
		panic(e)
	}
	knownDevices = d
}

// Parse a device table in the format of devices.yml.
func ParseDevices(data []byte) ([]Device, error) {
	var devices []Device
	if e := yaml.Unmarshal(data, &devices); e != nil {
		return nil, fmt.Errorf("stm32boot: device table: %w", e)
	}
	for i := range devices {
		if devices[i].FlashAddr == 0 {
			devices[i].FlashAddr = DefaultFlashAddr
		}
	}
	return devices, nil
}

// Look up a product ID in the built in table. Unknown IDs get a device
// named "unknown" at the default flash address with no sector map.
func LookupDevice(id uint16) (Device, bool) {
	for _, d := range knownDevices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{Name: "unknown", ID: id, FlashAddr: DefaultFlashAddr}, false
}

// Sectors that must be erased to hold size bytes from the start of flash.
// Returns nil if the device has no sector map. At least one sector is
// always returned otherwise; an image larger than flash gets every sector.
func (d Device) SectorsFor(size int) []uint16 {
	if len(d.Sectors) == 0 {
		return nil
	}
	var sectors []uint16
	for _, g := range d.Sectors {
		for i := 0; i < g.Length; i++ {
			sectors = append(sectors, uint16(len(sectors)))
			size -= g.Size
			if size <= 0 {
				return sectors
			}
		}
	}
	return sectors
}
