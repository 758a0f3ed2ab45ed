package stm32boot

import (
	"debug/elf"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// A contiguous block of image data and the flash address it belongs at.
type Segment struct {
	Addr uint32
	Data []byte
}

// Image is a firmware image ready to be written, segments in address order.
type Image struct {
	Segments []Segment
}

// Bytes of data in the image.
func (img *Image) Size() int {
	n := 0
	for _, s := range img.Segments {
		n += len(s.Data)
	}
	return n
}

// Span from the first segment's address to the end of the last.
func (img *Image) Span() int {
	if len(img.Segments) == 0 {
		return 0
	}
	first := img.Segments[0]
	last := img.Segments[len(img.Segments)-1]
	return int(last.Addr-first.Addr) + len(last.Data)
}

// Raw binary, placed at addr.
func LoadBin(r io.Reader, addr uint32) (*Image, error) {
	data, e := io.ReadAll(r)
	if e != nil {
		return nil, e
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("stm32boot: empty firmware image")
	}
	return &Image{Segments: []Segment{{Addr: addr, Data: data}}}, nil
}

// The loadable segments of an ELF file, placed at their physical (load)
// addresses.
func LoadELF(r io.ReaderAt) (*Image, error) {
	f, e := elf.NewFile(r)
	if e != nil {
		return nil, fmt.Errorf("stm32boot: %w", e)
	}
	defer f.Close()

	img := &Image{}
	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD || p.Filesz == 0 {
			continue
		}
		data, e := io.ReadAll(p.Open())
		if e != nil {
			return nil, fmt.Errorf("stm32boot: segment at 0x%08x: %w", p.Paddr, e)
		}
		img.Segments = append(img.Segments, Segment{Addr: uint32(p.Paddr), Data: data})
	}
	if len(img.Segments) == 0 {
		return nil, fmt.Errorf("stm32boot: no loadable segments")
	}

	sort.Slice(img.Segments, func(i, j int) bool {
		return img.Segments[i].Addr < img.Segments[j].Addr
	})
	return img, nil
}

// Load a .bin or .elf file. Binaries are placed at flashAddr.
func LoadFirmware(path string, flashAddr uint32) (*Image, error) {
	f, e := os.Open(path)
	if e != nil {
		return nil, e
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".bin":
		return LoadBin(f, flashAddr)
	case ".elf":
		return LoadELF(f)
	}
	return nil, fmt.Errorf("stm32boot: %s: firmware must be .bin or .elf", path)
}
