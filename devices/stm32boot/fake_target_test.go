package stm32boot

import (
	"encoding/binary"
	"testing"
)

// fakeTarget emulates the bootloader end of the SPI link. Frames the host
// writes are recorded, and the target's replies are queued for Receive. When
// nothing is queued the target answers ACK.
type fakeTarget struct {
	version  byte
	id       uint16
	initBusy int  // init frames to ignore before answering
	nack     byte // command to refuse
	stuck    bool // answer every poll with a busy byte

	rx    []byte
	state byte
	step  int
	addr  uint32

	sent        [][]byte
	erased      []uint16
	massErased  bool
	mem         map[uint32][]byte
	goAddr      uint32
	went        bool
	unprotected bool
	closed      bool
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{version: 0x11, id: 0x433, mem: make(map[uint32][]byte)}
}

func newTestBootloader(f *fakeTarget) *Bootloader {
	b := NewBootloader(f)
	b.PollInterval = 0
	b.WriteDelay = 0
	return b
}

func (f *fakeTarget) Send(data []byte) error {
	f.sent = append(f.sent, append([]byte(nil), data...))
	return nil
}

func (f *fakeTarget) Receive(n int) ([]byte, error) {
	r := make([]byte, n)
	for i := range r {
		switch {
		case f.stuck:
			r[i] = 0
		case len(f.rx) > 0:
			r[i] = f.rx[0]
			f.rx = f.rx[1:]
		default:
			r[i] = ACK
		}
	}
	return r, nil
}

func (f *fakeTarget) Transfer(data []byte) ([]byte, error) {
	f.sent = append(f.sent, append([]byte(nil), data...))

	if len(data) == 1 && data[0] == CMD_INIT {
		if f.initBusy > 0 {
			f.initBusy--
			return []byte{0}, nil
		}
		return []byte{INIT_ACK}, nil
	}
	if f.state == 0 && len(data) == 3 && data[0] == SOF && data[2] == data[1]^0xFF {
		f.command(data[1])
	} else {
		f.argument(data)
	}
	return make([]byte, len(data)), nil
}

func (f *fakeTarget) Close() error {
	f.closed = true
	return nil
}

func (f *fakeTarget) command(cmd byte) {
	if cmd == f.nack {
		f.rx = append(f.rx, NACK)
		return
	}
	f.rx = append(f.rx, ACK)

	switch cmd {
	case CMD_GET_VERSION:
		f.rx = append(f.rx, 0x00, f.version, ACK)
	case CMD_GET_ID:
		f.rx = append(f.rx, 0x00, 0x01, byte(f.id>>8), byte(f.id), ACK)
	case CMD_READ_UNPROTECT:
		f.unprotected = true
	case CMD_ERASE, CMD_WRITE, CMD_GO:
		f.state = cmd
		f.step = 0
	}
}

// Handles the argument frames of a command. A bad checksum gets a NACK.
func (f *fakeTarget) argument(data []byte) {
	if checksum(data) != 0 {
		f.rx = append(f.rx, NACK)
		f.state = 0
		return
	}

	switch f.state {
	case CMD_ERASE:
		if f.step == 0 {
			if data[0] == 0xFF && data[1] == 0xFF {
				f.massErased = true
				f.state = 0
				return
			}
			f.step = 1
			return
		}
		for i := 0; i+1 < len(data)-1; i += 2 {
			f.erased = append(f.erased, binary.BigEndian.Uint16(data[i:]))
		}
		f.state = 0
	case CMD_WRITE:
		if f.step == 0 {
			f.addr = binary.BigEndian.Uint32(data)
			f.step = 1
			return
		}
		n := int(data[0]) + 1
		f.mem[f.addr] = append([]byte(nil), data[1:1+n]...)
		f.state = 0
	case CMD_GO:
		f.goAddr = binary.BigEndian.Uint32(data)
		f.went = true
		f.state = 0
	}
}

// Frames written with Transfer or Send, in order, that match prefix.
func (f *fakeTarget) framesWith(t *testing.T, prefix ...byte) [][]byte {
	t.Helper()
	var out [][]byte
	for _, s := range f.sent {
		if len(s) >= len(prefix) && string(s[:len(prefix)]) == string(prefix) {
			out = append(out, s)
		}
	}
	return out
}
