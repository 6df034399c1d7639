package pca9685

import (
	"fmt"
	"math"
)

// Prescale returns the PRESCALE register value for hz:
//
//	floor(25MHz / 4096 / hz - 1 + 0.5)
//
// Halves round up. Frequencies outside MinFrequencyHz..MaxFrequencyHz are
// rejected. Above the maximum the prescaler would clamp at 3 and the chip
// would run slower than asked.
func Prescale(hz int) (byte, error) {
	if hz <= 0 || hz > MaxFrequencyHz {
		return 0, fmt.Errorf("%w: %d Hz (want %d..%d)", ErrInvalidFrequency, hz, MinFrequencyHz, MaxFrequencyHz)
	}
	v := prescaleFor(oscillatorHz, float64(hz))
	if v < prescaleMin || v > prescaleMax {
		return 0, fmt.Errorf("%w: %d Hz (prescale %d outside %d..%d)", ErrInvalidFrequency, hz, v, prescaleMin, prescaleMax)
	}
	return byte(v), nil
}

func prescaleFor(oscHz, hz float64) int {
	return int(math.Floor(oscHz/counterSteps/hz - 1 + 0.5))
}

// SetFrequency reprograms the prescaler. PRESCALE is only writable while
// the oscillator is asleep, so the sequence is: sleep, write prescale,
// restore MODE1, wait for the oscillator, then restart.
//
// On error the chip may be left asleep. Nothing is rolled back.
func (c *Controller) SetFrequency(hz int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bus == nil {
		return ErrClosed
	}
	return c.setFrequency(hz)
}

func (c *Controller) setFrequency(hz int) error {
	prescale, err := Prescale(hz)
	if err != nil {
		return err
	}

	oldMode, err := c.readByte(regMode1)
	if err != nil {
		return err
	}
	sleepMode := (oldMode &^ mode1Restart) | mode1Sleep
	if err := c.writeByte(regMode1, sleepMode); err != nil {
		return err
	}
	if err := c.writeByte(regPrescale, prescale); err != nil {
		return err
	}
	if err := c.writeByte(regMode1, oldMode); err != nil {
		return err
	}
	sleep(oscSettle)
	if err := c.writeByte(regMode1, oldMode|mode1Restart); err != nil {
		return err
	}

	c.freq = hz
	return nil
}
