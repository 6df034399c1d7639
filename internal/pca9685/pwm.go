package pca9685

import "fmt"

// SetPWM turns channel on at tick 0 and off at tick value.
func (c *Controller) SetPWM(channel, value int) error {
	return c.Write(channel, 0, value)
}

// Write sets the ON and OFF tick positions of one channel. The four
// registers are written ON_L, ON_H, OFF_L, OFF_H and the first failed write
// stops the sequence, possibly leaving the channel partially updated.
func (c *Controller) Write(channel, on, off int) error {
	if channel < 0 || channel >= NumChannels {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bus == nil {
		return ErrClosed
	}
	return c.writeTicks(ChannelBase(channel), on, off)
}

// WriteAll sets ON and OFF of every channel through the ALL_LED registers.
// A later per-channel Write overrides it for that channel.
func (c *Controller) WriteAll(on, off int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bus == nil {
		return ErrClosed
	}
	return c.writeAll(on, off)
}

// SetFullOn holds channel permanently high.
func (c *Controller) SetFullOn(channel int) error {
	return c.Write(channel, FullBit<<8, 0)
}

// SetFullOff holds channel permanently low.
func (c *Controller) SetFullOff(channel int) error {
	return c.Write(channel, 0, FullBit<<8)
}

func (c *Controller) writeAll(on, off int) error {
	return c.writeTicks(regAllLEDOnL, on, off)
}

func (c *Controller) writeTicks(base byte, on, off int) error {
	if on < 0 || on > 0xFFFF || off < 0 || off > 0xFFFF {
		return fmt.Errorf("%w: on=%d off=%d", ErrInvalidValue, on, off)
	}
	regs := [regsPerChannel][2]byte{
		{base, byte(on & 0xFF)},
		{base + 1, byte(on >> 8)},
		{base + 2, byte(off & 0xFF)},
		{base + 3, byte(off >> 8)},
	}
	for _, r := range regs {
		if err := c.writeByte(r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}
