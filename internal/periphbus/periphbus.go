// Package periphbus is an I2C transport built on periph.io. It covers hosts
// where the bus is not a plain /dev/i2c-N node or where periph's host
// drivers are preferred.
package periphbus

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var hostInit = func() error {
	_, err := host.Init()
	return err
}

var openReg = i2creg.Open

// Bus wraps a periph I2C bus.
type Bus struct {
	bus i2c.BusCloser
}

// Open initializes periph host drivers and opens the named bus. An empty
// name selects the first registered bus. A zero speed keeps the bus default.
func Open(name string, speed physic.Frequency) (*Bus, error) {
	if err := hostInit(); err != nil {
		return nil, fmt.Errorf("periphbus: host init: %w", err)
	}
	b, err := openReg(name)
	if err != nil {
		return nil, fmt.Errorf("periphbus: open %q: %w", name, err)
	}
	if speed > 0 {
		if err := b.SetSpeed(speed); err != nil {
			return nil, errors.Join(fmt.Errorf("periphbus: set speed %s: %w", speed, err), b.Close())
		}
	}
	return New(b), nil
}

// New wraps an already opened bus.
func New(b i2c.BusCloser) *Bus {
	return &Bus{bus: b}
}

func (b *Bus) String() string {
	if b == nil || b.bus == nil {
		return "periphbus(closed)"
	}
	return b.bus.String()
}

// WriteBytes sends p to addr. periph does not expose errno values, so every
// failed transaction on a valid address is retried up to retries more times.
func (b *Bus) WriteBytes(addr uint16, p []byte, retries int) error {
	if b == nil || b.bus == nil {
		return errors.New("periphbus: bus is closed")
	}
	if err := checkAddr(addr); err != nil {
		return err
	}
	if retries < 0 {
		retries = 0
	}
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if err = b.bus.Tx(addr, p, nil); err == nil {
			return nil
		}
	}
	return err
}

// ReadByte reads register reg with a combined write/read transaction.
func (b *Bus) ReadByte(addr uint16, reg byte) (byte, error) {
	if b == nil || b.bus == nil {
		return 0, errors.New("periphbus: bus is closed")
	}
	if err := checkAddr(addr); err != nil {
		return 0, err
	}
	var r [1]byte
	if err := b.bus.Tx(addr, []byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

func (b *Bus) Close() error {
	if b == nil || b.bus == nil {
		return nil
	}
	err := b.bus.Close()
	b.bus = nil
	return err
}

func checkAddr(addr uint16) error {
	if addr == 0 || addr > 0x7F {
		return fmt.Errorf("periphbus: invalid i2c addr 0x%X", addr)
	}
	return nil
}
