//go:build !unix

package hwio

import "errors"

var errNoMemDevice = errors.New("memory mapped devices are not supported on this platform")

// UnixMemDevice is unavailable off unix. Open always fails, so OpenRegion
// reports OpenDenied and never attempts a mapping.
type UnixMemDevice struct {
	path string
}

func NewMemDevice(path string) *UnixMemDevice {
	return &UnixMemDevice{path: path}
}

func (d *UnixMemDevice) Path() string {
	return d.path
}

func (d *UnixMemDevice) Open() error {
	return errNoMemDevice
}

func (d *UnixMemDevice) Mmap(offset int64, length int) ([]byte, error) {
	return nil, errNoMemDevice
}

func (d *UnixMemDevice) Munmap(b []byte) error {
	return errNoMemDevice
}

func (d *UnixMemDevice) Close() error {
	return nil
}
