package pca9685

import (
	"fmt"
	"time"
)

const oscSettle = 5 * time.Millisecond

// initStep is one stage of the power-on sequence. Steps run strictly in
// order and the first failure stops the sequence.
type initStep struct {
	name string
	run  func(c *Controller) error
}

var initSequence = []initStep{
	{"clear all channels", func(c *Controller) error { return c.writeAll(0, 0) }},
	{"configure outputs", func(c *Controller) error {
		mode2 := byte(mode2OutDrv)
		if c.invert {
			mode2 |= mode2Invrt
		}
		return c.writeByte(regMode2, mode2)
	}},
	{"enable all-call", func(c *Controller) error { return c.writeByte(regMode1, mode1AllCall) }},
	{"settle", func(c *Controller) error { sleep(oscSettle); return nil }},
	{"wake oscillator", func(c *Controller) error {
		mode1, err := c.readByte(regMode1)
		if err != nil {
			return err
		}
		return c.writeByte(regMode1, mode1&^mode1Sleep)
	}},
	{"settle", func(c *Controller) error { sleep(oscSettle); return nil }},
	{"set default frequency", func(c *Controller) error { return c.setFrequency(DefaultFreqHz) }},
}

func (c *Controller) initialize() error {
	for _, step := range initSequence {
		if err := step.run(c); err != nil {
			return fmt.Errorf("pca9685: init %s: %w", step.name, err)
		}
	}
	return nil
}
