//go:build linux

package outputenable

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "pwmhat-oe"

type gpiodLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

func openLine(chipPath string, offset int, name string) (line, error) {
	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return nil, fmt.Errorf("outputenable: open %s: %w", chipPath, err)
	}
	if name != "" {
		offset, err = chip.FindLine(name)
		if err != nil {
			_ = chip.Close()
			return nil, fmt.Errorf("outputenable: line %q not found on %s: %w", name, chipPath, err)
		}
	}
	l, err := chip.RequestLine(offset, gpiocdev.AsOutput(1), gpiocdev.WithConsumer(consumer))
	if err != nil {
		_ = chip.Close()
		return nil, fmt.Errorf("outputenable: request line %d: %w", offset, err)
	}
	return &gpiodLine{chip: chip, line: l}, nil
}

func (g *gpiodLine) SetValue(v int) error {
	return g.line.SetValue(v)
}

func (g *gpiodLine) Close() error {
	err := g.line.Close()
	_ = g.chip.Close()
	return err
}
