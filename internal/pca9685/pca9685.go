// Package pca9685 drives the PCA9685 16-channel, 12-bit PWM controller.
//
// The chip holds all channel state. The controller only caches the last
// frequency it programmed.
package pca9685

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"pwmhat/internal/i2c"
)

var sleep = time.Sleep

var (
	ErrInvalidAddress   = errors.New("pca9685: invalid address")
	ErrInvalidChannel   = errors.New("pca9685: invalid channel")
	ErrInvalidFrequency = errors.New("pca9685: invalid frequency")
	ErrInvalidValue     = errors.New("pca9685: invalid tick value")
	ErrClosed           = errors.New("pca9685: controller is closed")
)

// Transport is the bus session a Controller drives. Implementations own
// retry of transient write failures.
type Transport interface {
	WriteBytes(addr uint16, p []byte, retries int) error
	ReadByte(addr uint16, reg byte) (byte, error)
	Close() error
}

func openDevfs(busID int) (Transport, error) {
	b, err := i2c.OpenBus(busID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

var openBusFn = openDevfs

type Config struct {
	// Address is the 7-bit bus address. Zero means DefaultAddr.
	Address uint16
	// Frequency is the PWM frequency in Hz. Zero means DefaultFreqHz.
	Frequency int
	// Invert sets MODE2.INVRT during initialization.
	Invert bool
}

// Controller is one initialized chip.
//
// Every method holds the controller lock for its whole register sequence,
// so a Controller may be shared between goroutines. Two Controllers on the
// same Transport are not serialized against each other.
type Controller struct {
	mu     sync.Mutex
	bus    Transport
	addr   uint16
	freq   int
	invert bool
}

// Open opens I2C bus busID and initializes the chip described by cfg.
// Bus open errors are returned unmodified.
func Open(busID int, cfg Config) (*Controller, error) {
	bus, err := openBusFn(busID)
	if err != nil {
		return nil, err
	}
	return New(bus, cfg)
}

// New initializes the chip on an open transport. On any failure the
// transport is closed before returning.
func New(bus Transport, cfg Config) (*Controller, error) {
	if bus == nil {
		return nil, fmt.Errorf("pca9685: transport is nil")
	}
	c, err := newController(bus, cfg)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	return c, nil
}

func newController(bus Transport, cfg Config) (*Controller, error) {
	if cfg.Address == 0 {
		cfg.Address = DefaultAddr
	}
	if cfg.Address > 0x7F {
		return nil, fmt.Errorf("%w: 0x%X", ErrInvalidAddress, cfg.Address)
	}
	if cfg.Frequency == 0 {
		cfg.Frequency = DefaultFreqHz
	}
	if _, err := Prescale(cfg.Frequency); err != nil {
		return nil, err
	}

	c := &Controller{bus: bus, addr: cfg.Address, invert: cfg.Invert}
	if err := c.initialize(); err != nil {
		return nil, err
	}
	if cfg.Frequency != c.freq {
		if err := c.setFrequency(cfg.Frequency); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Controller) Address() uint16 {
	return c.addr
}

// Frequency returns the last frequency successfully programmed. It is not
// read back from the chip.
func (c *Controller) Frequency() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.freq
}

// Close releases the transport. Further operations return ErrClosed.
func (c *Controller) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bus == nil {
		return nil
	}
	err := c.bus.Close()
	c.bus = nil
	return err
}

// ReadByte reads register reg. Always a fresh bus transaction.
func (c *Controller) ReadByte(reg byte) (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bus == nil {
		return 0, ErrClosed
	}
	return c.readByte(reg)
}

// WriteByte writes value to register reg as one bus transaction.
func (c *Controller) WriteByte(reg, value byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bus == nil {
		return ErrClosed
	}
	return c.writeByte(reg, value)
}

func (c *Controller) readByte(reg byte) (byte, error) {
	v, err := c.bus.ReadByte(c.addr, reg)
	if err != nil {
		return 0, fmt.Errorf("pca9685: read reg 0x%02X: %w", reg, err)
	}
	return v, nil
}

func (c *Controller) writeByte(reg, value byte) error {
	if err := c.bus.WriteBytes(c.addr, []byte{reg, value}, writeRetries); err != nil {
		return fmt.Errorf("pca9685: write reg 0x%02X: %w", reg, err)
	}
	return nil
}
