// Support for the STM32 system memory bootloader over SPI (ST application
// note AN4286).

// The target must already be running its bootloader, i.e. reset with BOOT0
// high. Every command is a frame of 0x5A, the command and its complement,
// followed by an ACK/NACK handshake that the host polls for.

package stm32boot

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

const (
	ACK      = 0x79
	NACK     = 0x1F
	INIT_ACK = 0xA5

	SOF = 0x5A

	CMD_DUMMY          = 0x00
	CMD_INIT           = 0x5A
	CMD_GET_VERSION    = 0x01
	CMD_GET_ID         = 0x02
	CMD_ERASE          = 0x44
	CMD_WRITE          = 0x31
	CMD_READ_UNPROTECT = 0x92
	CMD_GO             = 0x21

	// Most bytes a single write command carries
	MaxWriteSize = 256

	// Sector counts from 0xFFF0 up are reserved for special erases
	MaxEraseSectors = 0xFFF0
)

var (
	ErrNack        = errors.New("stm32boot: target sent NACK")
	ErrInvalidArgs = errors.New("stm32boot: invalid arguments")
)

// Bootloader talks to one target over a SpiTransport.
type Bootloader struct {
	spi SpiTransport

	// Wait between polls while the target is busy
	PollInterval time.Duration

	// Settling time around the write payload
	WriteDelay time.Duration
}

func NewBootloader(spi SpiTransport) *Bootloader {
	return &Bootloader{
		spi:          spi,
		PollInterval: 100 * time.Millisecond,
		WriteDelay:   100 * time.Microsecond,
	}
}

func (b *Bootloader) Close() error {
	return b.spi.Close()
}

// Synchronise with the bootloader. Repeats the init frame until the target
// answers, then waits for its ACK. Cancel ctx to give up.
func (b *Bootloader) Init(ctx context.Context) error {
	for {
		r, e := b.spi.Transfer([]byte{CMD_INIT})
		if e != nil {
			return e
		}
		if len(r) > 0 && r[0] == INIT_ACK {
			break
		}
		if e := b.sleep(ctx, b.PollInterval); e != nil {
			return e
		}
	}
	return b.waitAck(ctx, "init")
}

// Bootloader protocol version, e.g. 0x11 for v1.1.
func (b *Bootloader) GetVersion(ctx context.Context) (byte, error) {
	if e := b.command(ctx, CMD_GET_VERSION, "get version"); e != nil {
		return 0, e
	}
	// dummy byte, then the version
	if _, e := b.spi.Receive(1); e != nil {
		return 0, e
	}
	r, e := b.spi.Receive(1)
	if e != nil {
		return 0, e
	}
	if e := b.waitAck(ctx, "get version"); e != nil {
		return 0, e
	}
	return r[0], nil
}

// Product ID, e.g. 0x433 for the STM32F401xD/E.
func (b *Bootloader) GetID(ctx context.Context) (uint16, error) {
	if e := b.command(ctx, CMD_GET_ID, "get id"); e != nil {
		return 0, e
	}
	if _, e := b.spi.Receive(1); e != nil {
		return 0, e
	}
	// byte count minus one, then the ID MSB first
	r, e := b.spi.Receive(3)
	if e != nil {
		return 0, e
	}
	if e := b.waitAck(ctx, "get id"); e != nil {
		return 0, e
	}
	return binary.BigEndian.Uint16(r[1:3]), nil
}

// Mass erase the flash.
func (b *Bootloader) EraseAll(ctx context.Context) error {
	if e := b.command(ctx, CMD_ERASE, "erase"); e != nil {
		return e
	}
	if _, e := b.spi.Transfer([]byte{0xFF, 0xFF, 0x00}); e != nil {
		return e
	}
	return b.waitAck(ctx, "mass erase")
}

// Erase the listed flash sectors.
func (b *Bootloader) EraseSectors(ctx context.Context, sectors []uint16) error {
	if len(sectors) == 0 || len(sectors) > MaxEraseSectors {
		return fmt.Errorf("%w: erase of %d sectors", ErrInvalidArgs, len(sectors))
	}
	if e := b.command(ctx, CMD_ERASE, "erase"); e != nil {
		return e
	}

	n := make([]byte, 2, 3)
	binary.BigEndian.PutUint16(n, uint16(len(sectors)-1))
	if _, e := b.spi.Transfer(append(n, checksum(n))); e != nil {
		return e
	}
	if e := b.waitAck(ctx, "erase count"); e != nil {
		return e
	}

	data := make([]byte, 0, 2*len(sectors)+1)
	for _, s := range sectors {
		data = binary.BigEndian.AppendUint16(data, s)
	}
	if _, e := b.spi.Transfer(append(data, checksum(data))); e != nil {
		return e
	}
	return b.waitAck(ctx, "erase sectors")
}

// Write up to MaxWriteSize bytes at address.
func (b *Bootloader) WriteMemory(ctx context.Context, address uint32, data []byte) error {
	if len(data) == 0 || len(data) > MaxWriteSize {
		return fmt.Errorf("%w: write of %d bytes", ErrInvalidArgs, len(data))
	}
	if e := b.command(ctx, CMD_WRITE, "write"); e != nil {
		return e
	}
	if e := b.sendAddress(ctx, address, "write address"); e != nil {
		return e
	}
	if e := b.sleep(ctx, b.WriteDelay); e != nil {
		return e
	}

	frame := make([]byte, 0, len(data)+2)
	frame = append(frame, byte(len(data)-1))
	frame = append(frame, data...)
	frame = append(frame, checksum(frame))
	if _, e := b.spi.Transfer(frame); e != nil {
		return e
	}
	if e := b.sleep(ctx, b.WriteDelay); e != nil {
		return e
	}
	return b.waitAck(ctx, fmt.Sprintf("write 0x%08x", address))
}

// Jump to the application at address.
func (b *Bootloader) Go(ctx context.Context, address uint32) error {
	if e := b.command(ctx, CMD_GO, "go"); e != nil {
		return e
	}
	return b.sendAddress(ctx, address, "go address")
}

// Disable flash read protection. The target mass erases itself and resets.
func (b *Bootloader) ReadUnprotect(ctx context.Context) error {
	if e := b.command(ctx, CMD_READ_UNPROTECT, "read unprotect"); e != nil {
		return e
	}
	return b.waitAck(ctx, "read unprotect")
}

func (b *Bootloader) command(ctx context.Context, cmd byte, name string) error {
	if _, e := b.spi.Transfer([]byte{SOF, cmd, cmd ^ 0xFF}); e != nil {
		return e
	}
	return b.waitAck(ctx, name)
}

func (b *Bootloader) sendAddress(ctx context.Context, address uint32, name string) error {
	frame := binary.BigEndian.AppendUint32(make([]byte, 0, 5), address)
	if _, e := b.spi.Transfer(append(frame, checksum(frame))); e != nil {
		return e
	}
	return b.waitAck(ctx, name)
}

// Poll with dummy bytes until the target answers ACK or NACK, and
// acknowledge the answer. Anything else means busy.
func (b *Bootloader) waitAck(ctx context.Context, name string) error {
	for {
		if e := b.spi.Send([]byte{CMD_DUMMY}); e != nil {
			return e
		}
		r, e := b.spi.Receive(1)
		if e != nil {
			return e
		}
		switch r[0] {
		case ACK:
			return b.spi.Send([]byte{ACK})
		case NACK:
			if e := b.spi.Send([]byte{ACK}); e != nil {
				return e
			}
			return fmt.Errorf("%s: %w", name, ErrNack)
		}
		if e := b.sleep(ctx, b.PollInterval); e != nil {
			return fmt.Errorf("%s: %w", name, e)
		}
	}
}

func (b *Bootloader) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// XOR of all bytes.
func checksum(data []byte) byte {
	var c byte
	for _, v := range data {
		c ^= v
	}
	return c
}
