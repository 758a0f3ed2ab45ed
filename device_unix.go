//go:build unix

package hwio

import (
	"errors"

	"golang.org/x/sys/unix"
)

var errAlreadyOpen = errors.New("hwio: device is already open")

// UnixMemDevice opens a memory device through the unix syscalls.
type UnixMemDevice struct {
	path string
	fd   int
}

func NewMemDevice(path string) *UnixMemDevice {
	return &UnixMemDevice{path: path, fd: -1}
}

func (d *UnixMemDevice) Path() string {
	return d.path
}

// Open the device. Fails if it is already open; Close it first.
func (d *UnixMemDevice) Open() error {
	if d.fd >= 0 {
		return errAlreadyOpen
	}
	fd, e := unix.Open(d.path, unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if e != nil {
		return e
	}
	d.fd = fd
	return nil
}

func (d *UnixMemDevice) Mmap(offset int64, length int) ([]byte, error) {
	return unix.Mmap(d.fd, offset, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func (d *UnixMemDevice) Munmap(b []byte) error {
	return unix.Munmap(b)
}

func (d *UnixMemDevice) Close() error {
	if d.fd < 0 {
		return nil
	}
	e := unix.Close(d.fd)
	d.fd = -1
	return e
}
