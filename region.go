package hwio

// The register access port. A MappedRegion is one live mapping of a
// physical register block, opened through a MemDevice. Registers are viewed
// as a slice of 32 bit words so every access is bounds checked; there is no
// pointer arithmetic into the mapping.

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

const wordBytes = 4

// MappedRegion is a shared, read/write mapping of a register block. A value
// only exists once both the device and the mapping have been acquired.
//
// The mutex serialises read-modify-write cycles issued through this value.
// Nothing stops firmware, the kernel or another process from writing the same
// registers between the read and the write; callers that share a peripheral
// with anything else must arrange exclusion themselves.
type MappedRegion struct {
	mu     sync.Mutex
	dev    MemDevice
	base   int64
	mem    []byte
	words  []uint32
	closed bool
}

// Open dev and map length bytes of it starting at physical address base.
// Returns a *ResourceError on failure, in which case the device has been
// closed again and no region is returned. Errors from that cleanup are joined
// into the ResourceError. Close the region with defer as soon
// as this returns without error.
func OpenRegion(dev MemDevice, base int64, length int) (*MappedRegion, error) {
	if e := dev.Open(); e != nil {
		return nil, &ResourceError{Kind: OpenDenied, Path: dev.Path(), Err: e}
	}

	if length <= 0 || length%wordBytes != 0 {
		e := fmt.Errorf("length %d is not a positive multiple of %d", length, wordBytes)
		return nil, &ResourceError{Kind: MapFailed, Path: dev.Path(), Err: errors.Join(e, dev.Close())}
	}

	mem, e := dev.Mmap(base, length)
	if e != nil {
		return nil, &ResourceError{Kind: MapFailed, Path: dev.Path(), Err: errors.Join(e, dev.Close())}
	}
	if len(mem) < wordBytes {
		e := fmt.Errorf("mapping returned %d bytes", len(mem))
		eu := dev.Munmap(mem)
		return nil, &ResourceError{Kind: MapFailed, Path: dev.Path(), Err: errors.Join(e, eu, dev.Close())}
	}

	logf("mapped %s at 0x%x, %d bytes", dev.Path(), base, len(mem))

	return &MappedRegion{
		dev:   dev,
		base:  base,
		mem:   mem,
		words: unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(mem))), len(mem)/wordBytes),
	}, nil
}

// Unmap the region and release the device. Calling Close on a region that is
// already closed does nothing and returns nil.
func (r *MappedRegion) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	eu := r.dev.Munmap(r.mem)
	ec := r.dev.Close()
	r.mem = nil
	r.words = nil

	logf("unmapped %s at 0x%x", r.dev.Path(), r.base)
	return errors.Join(eu, ec)
}

// Physical address the region starts at.
func (r *MappedRegion) Base() int64 {
	return r.base
}

// Length of the mapping in bytes. Zero once closed.
func (r *MappedRegion) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mem)
}

// Number of 32 bit registers in the mapping. Zero once closed.
func (r *MappedRegion) Words() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.words)
}

// Returns the 32 bit register at word index.
func (r *MappedRegion) ReadWord(index int) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e := r.check(index); e != nil {
		return 0, e
	}
	return r.getRegL(index), nil
}

// Writes the 32 bit register at word index.
func (r *MappedRegion) WriteWord(index int, value uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e := r.check(index); e != nil {
		return e
	}
	r.setRegL(index, value)
	return nil
}

// Fails fast on a closed region or an index outside the mapping. Caller holds
// the lock.
func (r *MappedRegion) check(index int) error {
	if r.closed {
		return ErrRegionClosed
	}
	if index < 0 || index >= len(r.words) {
		return &RangeError{Kind: OutOfBounds, Index: index, Limit: len(r.words)}
	}
	return nil
}

// Loads and stores go through sync/atomic so each is a single 32 bit access
// the compiler cannot merge or drop.
func (r *MappedRegion) getRegL(index int) uint32 {
	return atomic.LoadUint32(&r.words[index])
}

func (r *MappedRegion) setRegL(index int, value uint32) {
	atomic.StoreUint32(&r.words[index], value)
}
