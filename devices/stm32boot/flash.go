package stm32boot

import (
	"context"
	"fmt"
	"log"
)

// Oldest protocol version this package is written against.
const MinVersion = 0x10

// Called after each chunk is written with bytes written so far and the
// image size.
type ProgressFunc func(done, total int)

// Erase what the image needs: the sectors covering its span if the device
// has a sector map, otherwise the whole flash.
func (b *Bootloader) AutoErase(ctx context.Context, dev Device, img *Image) error {
	sectors := dev.SectorsFor(img.Span())
	if sectors == nil {
		return b.EraseAll(ctx)
	}
	return b.EraseSectors(ctx, sectors)
}

// Write every segment of img in MaxWriteSize chunks.
func (b *Bootloader) WriteImage(ctx context.Context, img *Image, progress ProgressFunc) error {
	total := img.Size()
	done := 0
	for _, s := range img.Segments {
		for i := 0; i < len(s.Data); i += MaxWriteSize {
			end := min(i+MaxWriteSize, len(s.Data))
			if e := b.WriteMemory(ctx, s.Addr+uint32(i), s.Data[i:end]); e != nil {
				return e
			}
			done += end - i
			if progress != nil {
				progress(done, total)
			}
		}
	}
	return nil
}

// Result of a Flash run.
type FlashResult struct {
	Version byte
	Device  Device
	Known   bool
	Written int
}

type FlashOptions struct {
	// Where to report progress. Nil is silent.
	Logger *log.Logger

	Progress ProgressFunc

	// Leave the target in the bootloader instead of starting the firmware.
	NoRun bool
}

// Program the firmware at path: synchronise with the bootloader, identify
// the target, erase, write, and start the firmware at the device's flash
// address.
func (b *Bootloader) Flash(ctx context.Context, path string, opts FlashOptions) (*FlashResult, error) {
	logf := func(format string, args ...interface{}) {
		if opts.Logger != nil {
			opts.Logger.Printf(format, args...)
		}
	}
	res := &FlashResult{}

	logf("starting bootloader")
	if e := b.Init(ctx); e != nil {
		return res, fmt.Errorf("starting bootloader: %w", e)
	}

	v, e := b.GetVersion(ctx)
	if e != nil {
		return res, fmt.Errorf("getting protocol version: %w", e)
	}
	res.Version = v
	if v < MinVersion {
		logf("protocol version 0x%02x is not guaranteed to be supported", v)
	} else {
		logf("protocol version 0x%02x", v)
	}

	id, e := b.GetID(ctx)
	if e != nil {
		return res, fmt.Errorf("getting device id: %w", e)
	}
	res.Device, res.Known = LookupDevice(id)
	logf("device 0x%03x: %s", id, res.Device.Name)

	img, e := LoadFirmware(path, res.Device.FlashAddr)
	if e != nil {
		return res, e
	}

	logf("erasing")
	if e := b.AutoErase(ctx, res.Device, img); e != nil {
		return res, fmt.Errorf("erasing flash: %w", e)
	}

	logf("writing 0x%x bytes", img.Size())
	progress := func(done, total int) {
		res.Written = done
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
	}
	if e := b.WriteImage(ctx, img, progress); e != nil {
		return res, e
	}

	if opts.NoRun {
		return res, nil
	}
	logf("starting firmware at 0x%08x", res.Device.FlashAddr)
	if e := b.Go(ctx, res.Device.FlashAddr); e != nil {
		return res, fmt.Errorf("starting firmware: %w", e)
	}
	return res, nil
}
