package stm32boot

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// SpiTransport is the SPI link to the target. Every call is a complete
// transaction with chip select asserted for its duration.
type SpiTransport interface {
	// Write data, discarding what is clocked in.
	Send(data []byte) error

	// Clock out n zero bytes and return what is clocked in.
	Receive(n int) ([]byte, error)

	// Full duplex: write data and return the same number of bytes read.
	Transfer(data []byte) ([]byte, error)

	Close() error
}

const (
	MaxSpiBus = 6
	MaxSpiCs  = 2

	DefaultSpeed = 4000000
)

// SpiDev is a SpiTransport over a Linux spidev port, in SPI mode 0.
type SpiDev struct {
	port spi.PortCloser
	conn spi.Conn
}

// Open /dev/spidev<bus>.<cs> at hz.
func OpenSpiDev(bus int, cs int, hz int64) (*SpiDev, error) {
	if bus < 0 || bus > MaxSpiBus {
		return nil, fmt.Errorf("stm32boot: spi bus %d is not in 0-%d", bus, MaxSpiBus)
	}
	if cs < 0 || cs > MaxSpiCs {
		return nil, fmt.Errorf("stm32boot: spi chip select %d is not in 0-%d", cs, MaxSpiCs)
	}
	if hz <= 0 {
		return nil, fmt.Errorf("stm32boot: invalid spi speed %d", hz)
	}

	if _, e := host.Init(); e != nil {
		return nil, e
	}

	port, e := spireg.Open(fmt.Sprintf("/dev/spidev%d.%d", bus, cs))
	if e != nil {
		return nil, e
	}
	conn, e := port.Connect(physic.Frequency(hz)*physic.Hertz, spi.Mode0, 8)
	if e != nil {
		port.Close()
		return nil, e
	}
	return &SpiDev{port: port, conn: conn}, nil
}

func (d *SpiDev) Send(data []byte) error {
	return d.conn.Tx(data, nil)
}

func (d *SpiDev) Receive(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("stm32boot: receive length must be positive, got %d", n)
	}
	r := make([]byte, n)
	if e := d.conn.Tx(make([]byte, n), r); e != nil {
		return nil, e
	}
	return r, nil
}

func (d *SpiDev) Transfer(data []byte) ([]byte, error) {
	r := make([]byte, len(data))
	if e := d.conn.Tx(data, r); e != nil {
		return nil, e
	}
	return r, nil
}

func (d *SpiDev) Close() error {
	return d.port.Close()
}
