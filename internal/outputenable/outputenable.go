// Package outputenable drives the PCA9685 /OE pin. The pin is active low:
// high forces every output off regardless of register state.
package outputenable

import "fmt"

type line interface {
	SetValue(v int) error
	Close() error
}

// Pin is a requested /OE GPIO line.
type Pin struct {
	l       line
	enabled bool
}

var openLineFn = openLine

// Open requests the line on chip (e.g. /dev/gpiochip0) as an output, initially
// high so outputs stay disabled until Enable. A non-empty name is looked up
// on the chip and takes precedence over offset.
func Open(chip string, offset int, name string) (*Pin, error) {
	if name == "" && offset < 0 {
		return nil, fmt.Errorf("outputenable: invalid line %d", offset)
	}
	l, err := openLineFn(chip, offset, name)
	if err != nil {
		return nil, err
	}
	return &Pin{l: l}, nil
}

// Enable lets the outputs follow the PWM registers.
func (p *Pin) Enable() error {
	if p == nil || p.l == nil {
		return fmt.Errorf("outputenable: pin not open")
	}
	if err := p.l.SetValue(0); err != nil {
		return fmt.Errorf("outputenable: enable: %w", err)
	}
	p.enabled = true
	return nil
}

// Disable forces all outputs off.
func (p *Pin) Disable() error {
	if p == nil || p.l == nil {
		return fmt.Errorf("outputenable: pin not open")
	}
	if err := p.l.SetValue(1); err != nil {
		return fmt.Errorf("outputenable: disable: %w", err)
	}
	p.enabled = false
	return nil
}

func (p *Pin) Enabled() bool {
	return p != nil && p.enabled
}

// Close disables the outputs and releases the line.
func (p *Pin) Close() error {
	if p == nil || p.l == nil {
		return nil
	}
	// Graceful shutdown: outputs off.
	_ = p.l.SetValue(1)
	p.enabled = false
	err := p.l.Close()
	p.l = nil
	return err
}
