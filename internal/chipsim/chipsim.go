// Package chipsim models a PCA9685 register file in memory. It offers the
// same WriteBytes/ReadByte/Close methods as the bus transports, so it can
// stand in for hardware in tests and as a dry-run backend.
package chipsim

import (
	"errors"
	"fmt"
	"sync"
)

const (
	regMode1    = 0x00
	regLED0     = 0x06
	regAllLED   = 0xFA
	regPrescale = 0xFE

	mode1AI      = 0x20
	mode1Sleep   = 0x10
	mode1Restart = 0x80

	channels = 16
)

var ErrClosed = errors.New("chipsim: closed")

// Op is one recorded bus transaction.
type Op struct {
	Write bool
	Addr  uint16
	Reg   byte
	// Data holds the written bytes, or the single byte returned by a read.
	Data []byte
}

func (o Op) String() string {
	if o.Write {
		return fmt.Sprintf("W 0x%02X %X", o.Reg, o.Data)
	}
	return fmt.Sprintf("R 0x%02X -> %X", o.Reg, o.Data)
}

// Chip is a simulated PCA9685 at one address.
type Chip struct {
	mu     sync.Mutex
	addr   uint16
	regs   [256]byte
	seq    [256]uint64 // write order, used to resolve ALL_LED vs LEDn
	clock  uint64
	ops    []Op
	closed bool

	failWriteAt int
	failReadAt  int
	writeErr    error
	readErr     error
	writes      int
	reads       int
}

// New returns a chip at addr in its power-on state.
func New(addr uint16) *Chip {
	c := &Chip{addr: addr}
	c.Reset()
	return c
}

// Reset restores power-on register values and clears fault injection and
// the op trace.
func (c *Chip) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs = [256]byte{}
	c.seq = [256]uint64{}
	c.clock = 0
	c.regs[regMode1] = 0x11 // SLEEP | ALLCALL
	c.regs[0x01] = 0x04     // OUTDRV
	c.regs[0x02] = 0xE2
	c.regs[0x03] = 0xE4
	c.regs[0x04] = 0xE8
	c.regs[0x05] = 0xE0
	for n := 0; n < channels; n++ {
		c.regs[regLED0+4*n+3] = 0x10 // full off
	}
	c.regs[regPrescale] = 0x1E
	c.ops = nil
	c.failWriteAt, c.failReadAt = 0, 0
	c.writeErr, c.readErr = nil, nil
	c.writes, c.reads = 0, 0
	c.closed = false
}

// FailWriteAt makes the n-th write transaction (1-based, counted from now)
// fail with err without touching any register.
func (c *Chip) FailWriteAt(n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failWriteAt = c.writes + n
	c.writeErr = err
}

// FailReadAt is FailWriteAt for read transactions.
func (c *Chip) FailReadAt(n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failReadAt = c.reads + n
	c.readErr = err
}

// Reg returns the raw value of register reg.
func (c *Chip) Reg(reg byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[reg]
}

// Channel returns the ON and OFF words held in channel n's own registers.
func (c *Chip) Channel(n int) (on, off uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	base := regLED0 + 4*n
	on = uint16(c.regs[base]) | uint16(c.regs[base+1])<<8
	off = uint16(c.regs[base+2]) | uint16(c.regs[base+3])<<8
	return on, off
}

// Output returns the ON and OFF words channel n is actually driven with:
// per register, whichever of LEDn and ALL_LED was written last.
func (c *Chip) Output(n int) (on, off uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b [4]byte
	for k := 0; k < 4; k++ {
		own := regLED0 + 4*n + k
		all := regAllLED + k
		if c.seq[all] > c.seq[own] {
			b[k] = c.regs[all]
		} else {
			b[k] = c.regs[own]
		}
	}
	on = uint16(b[0]) | uint16(b[1])<<8
	off = uint16(b[2]) | uint16(b[3])<<8
	return on, off
}

// Ops returns a copy of the recorded transactions.
func (c *Chip) Ops() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Op, len(c.ops))
	copy(out, c.ops)
	return out
}

// Writes returns the number of successful write transactions.
func (c *Chip) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, op := range c.ops {
		if op.Write {
			n++
		}
	}
	return n
}

func (c *Chip) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Chip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// WriteBytes takes p[0] as the register pointer and p[1:] as data. Retries
// are ignored; injected faults are permanent for the transaction.
func (c *Chip) WriteBytes(addr uint16, p []byte, retries int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if addr != c.addr {
		return fmt.Errorf("chipsim: no device at 0x%02X", addr)
	}
	if len(p) == 0 {
		return nil
	}
	c.writes++
	if c.failWriteAt != 0 && c.writes == c.failWriteAt {
		return c.writeErr
	}

	reg := p[0]
	c.ops = append(c.ops, Op{Write: true, Addr: addr, Reg: reg, Data: append([]byte(nil), p[1:]...)})
	for i, v := range p[1:] {
		if i > 0 {
			if c.regs[regMode1]&mode1AI == 0 {
				break
			}
			reg++
		}
		c.store(reg, v)
	}
	return nil
}

func (c *Chip) ReadByte(addr uint16, reg byte) (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	if addr != c.addr {
		return 0, fmt.Errorf("chipsim: no device at 0x%02X", addr)
	}
	c.reads++
	if c.failReadAt != 0 && c.reads == c.failReadAt {
		return 0, c.readErr
	}
	v := c.regs[reg]
	c.ops = append(c.ops, Op{Addr: addr, Reg: reg, Data: []byte{v}})
	return v, nil
}

func (c *Chip) store(reg, v byte) {
	c.clock++
	c.seq[reg] = c.clock
	switch {
	case reg == regMode1:
		// RESTART is cleared by writing 1 and cannot be set by software.
		c.regs[regMode1] = v &^ mode1Restart
	case reg == regPrescale:
		// Write protected while the oscillator runs.
		if c.regs[regMode1]&mode1Sleep != 0 {
			c.regs[regPrescale] = v
		}
	default:
		c.regs[reg] = v
	}
}

// Prescale returns the effective prescaler.
func (c *Chip) Prescale() byte {
	return c.Reg(regPrescale)
}

// Asleep reports whether the oscillator is stopped.
func (c *Chip) Asleep() bool {
	return c.Reg(regMode1)&mode1Sleep != 0
}
