package pca9685

import (
	"fmt"
	"math"
)

// Channel is a duty-cycle view of a single output.
//
// It matches the SetFrequencyHz/SetDutyPercent shape used by simple PWM
// backends. The frequency is shared by all 16 channels of the chip.
type Channel struct {
	c *Controller
	n int
}

func (c *Controller) Channel(n int) (*Channel, error) {
	if n < 0 || n >= NumChannels {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannel, n)
	}
	return &Channel{c: c, n: n}, nil
}

func (ch *Channel) Index() int { return ch.n }

func (ch *Channel) SetFrequencyHz(hz int) error {
	return ch.c.SetFrequency(hz)
}

// SetDutyPercent expects 0..100. Values outside are clamped. 0 and 100 use
// the full-off and full-on bits so the output has no glitch pulse.
func (ch *Channel) SetDutyPercent(p float64) error {
	if math.IsNaN(p) {
		return fmt.Errorf("%w: duty NaN", ErrInvalidValue)
	}
	if p <= 0 {
		return ch.c.SetFullOff(ch.n)
	}
	if p >= 100 {
		return ch.c.SetFullOn(ch.n)
	}
	off := int(math.Round(MaxTicks * p / 100.0))
	return ch.c.Write(ch.n, 0, off)
}

// Off drives the output low.
func (ch *Channel) Off() error {
	return ch.c.SetFullOff(ch.n)
}
