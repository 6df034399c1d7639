// Package board opens a PCA9685 described by a config: bus transport,
// controller and the optional output-enable pin.
package board

import (
	"errors"
	"fmt"
	"log"

	"periph.io/x/conn/v3/physic"

	"pwmhat/internal/chipsim"
	"pwmhat/internal/config"
	"pwmhat/internal/i2c"
	"pwmhat/internal/outputenable"
	"pwmhat/internal/pca9685"
	"pwmhat/internal/periphbus"
)

type outputEnabler interface {
	Enable() error
	Disable() error
	Close() error
}

var (
	openDevfsFn = func(bus int) (pca9685.Transport, error) {
		b, err := i2c.OpenBus(bus)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	openPeriphFn = func(name string, speed physic.Frequency) (pca9685.Transport, error) {
		b, err := periphbus.Open(name, speed)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	openOEFn = func(cfg config.OutputEnableConfig) (outputEnabler, error) {
		line := -1
		if cfg.Line != nil {
			line = *cfg.Line
		}
		p, err := outputenable.Open(cfg.Chip, line, cfg.LineName)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
)

type Board struct {
	*pca9685.Controller

	oe  outputEnabler
	sim *chipsim.Chip
}

// Open brings up the chip. Outputs are only enabled through /OE after the
// controller finished its init sequence.
func Open(cfg config.PWMConfig) (*Board, error) {
	bus, sim, err := openTransport(cfg)
	if err != nil {
		return nil, fmt.Errorf("board: open %s bus: %w", cfg.Backend, err)
	}

	var oe outputEnabler
	if cfg.OE.Enable {
		oe, err = openOEFn(cfg.OE)
		if err != nil {
			return nil, errors.Join(err, bus.Close())
		}
	}

	ctl, err := pca9685.New(bus, pca9685.Config{
		Address:   cfg.Address,
		Frequency: cfg.FrequencyHz,
		Invert:    cfg.Invert,
	})
	if err != nil {
		if oe != nil {
			_ = oe.Close()
		}
		return nil, err
	}

	if oe != nil {
		if err := oe.Enable(); err != nil {
			return nil, errors.Join(err, oe.Close(), ctl.Close())
		}
	}

	log.Printf("pca9685 ready backend=%s addr=0x%02X freq=%dHz oe=%t", cfg.Backend, ctl.Address(), ctl.Frequency(), oe != nil)
	return &Board{Controller: ctl, oe: oe, sim: sim}, nil
}

func openTransport(cfg config.PWMConfig) (pca9685.Transport, *chipsim.Chip, error) {
	switch cfg.Backend {
	case config.BackendSim:
		addr := cfg.Address
		if addr == 0 {
			addr = pca9685.DefaultAddr
		}
		chip := chipsim.New(addr)
		return chip, chip, nil
	case config.BackendPeriph:
		bus, err := openPeriphFn(cfg.BusName, physic.Frequency(cfg.BusSpeedHz)*physic.Hertz)
		return bus, nil, err
	case config.BackendDevfs, "":
		busID := 1
		if cfg.Bus != nil {
			busID = *cfg.Bus
		}
		bus, err := openDevfsFn(busID)
		return bus, nil, err
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Sim returns the simulated chip when the sim backend is in use.
func (b *Board) Sim() *chipsim.Chip {
	return b.sim
}

// Close disables the outputs first, then releases the controller.
func (b *Board) Close() error {
	if b == nil {
		return nil
	}
	var errs []error
	if b.oe != nil {
		errs = append(errs, b.oe.Close())
		b.oe = nil
	}
	errs = append(errs, b.Controller.Close())
	log.Printf("pca9685 closed addr=0x%02X", b.Address())
	return errors.Join(errs...)
}
