package hwio

// MemDevice is the privileged device that exposes physical memory to a
// process, usually /dev/gpiomem or /dev/mem. A MappedRegion takes ownership
// of the device once Open succeeds and releases it in Close.
type MemDevice interface {
	// Path used for error reporting
	Path() string

	// Open the device read/write with synchronous access.
	Open() error

	// Map length bytes at offset, shared and read/write.
	Mmap(offset int64, length int) ([]byte, error)

	// Unmap a slice previously returned by Mmap.
	Munmap(b []byte) error

	// Release the device handle.
	Close() error
}
