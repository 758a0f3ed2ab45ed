package hwio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultDevicePath = "/dev/gpiomem"

	// BCM2711 (Pi 4) GPIO block, used when the board cannot be identified
	DefaultGPIOBase = BCM2711PeripheralBase + GPIOOffset

	GPIOBlockSize = 4096
)

// Environment variables read by ConfigFromEnv.
const (
	EnvDevice = "HWIO_GPIO_DEVICE"
	EnvBase   = "HWIO_GPIO_BASE"
	EnvLength = "HWIO_GPIO_LENGTH"
)

// Config says which device to open and which physical range of it to map.
// /dev/gpiomem always maps the GPIO block whatever Base says; /dev/mem needs
// the real physical address.
type Config struct {
	DevicePath string
	Base       int64
	Length     int
}

// Config for the GPIO block of the board we are running on.
func DefaultConfig() Config {
	base, ok := DetectGPIOBase()
	if !ok {
		base = DefaultGPIOBase
	}
	return Config{
		DevicePath: DefaultDevicePath,
		Base:       base,
		Length:     GPIOBlockSize,
	}
}

// DefaultConfig with overrides from the environment. Variables are first
// loaded from the given env files (".env" if none are given) without
// replacing anything already set; missing files are ignored.
func ConfigFromEnv(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if e := godotenv.Load(f); e != nil && !errors.Is(e, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, e)
		}
	}

	cfg := DefaultConfig()
	if v := os.Getenv(EnvDevice); v != "" {
		cfg.DevicePath = v
	}
	if v := os.Getenv(EnvBase); v != "" {
		base, e := strconv.ParseInt(v, 0, 64)
		if e != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvBase, e)
		}
		cfg.Base = base
	}
	if v := os.Getenv(EnvLength); v != "" {
		length, e := strconv.Atoi(v)
		if e != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLength, e)
		}
		cfg.Length = length
	}
	return cfg, nil
}

// Open the region described by the config.
func (c Config) Open() (*MappedRegion, error) {
	return OpenRegion(NewMemDevice(c.DevicePath), c.Base, c.Length)
}
