package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	BackendDevfs  = "devfs"
	BackendPeriph = "periph"
	BackendSim    = "sim"
)

type Config struct {
	PWM PWMConfig `yaml:"pwm"`
}

type PWMConfig struct {
	// Backend selects the bus transport: devfs, periph or sim.
	Backend string `yaml:"backend"`
	// Bus is the /dev/i2c-N number used by devfs. Nil means bus 1.
	Bus *int `yaml:"bus"`
	// BusName is the periph bus name (e.g. "I2C1"). Empty uses the first bus.
	BusName string `yaml:"bus_name"`
	// BusSpeedHz is optional and only honored by the periph backend.
	BusSpeedHz  int64              `yaml:"bus_speed_hz"`
	Address     uint16             `yaml:"address"`
	FrequencyHz int                `yaml:"frequency_hz"`
	Invert      bool               `yaml:"invert"`
	OE          OutputEnableConfig `yaml:"output_enable"`
}

type OutputEnableConfig struct {
	Enable bool   `yaml:"enable"`
	Chip   string `yaml:"chip"`
	Line   *int   `yaml:"line"`
	// LineName (e.g. "GPIO4") takes precedence over Line when set.
	LineName string `yaml:"line_name"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.PWM.applyDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *PWMConfig) applyDefaults() error {
	if c.Backend == "" {
		c.Backend = BackendDevfs
	}
	switch c.Backend {
	case BackendDevfs, BackendPeriph, BackendSim:
	default:
		return fmt.Errorf("pwm.backend must be one of devfs, periph, sim (got %q)", c.Backend)
	}
	if c.Bus == nil {
		c.Bus = intPtr(1)
	}
	if *c.Bus < 0 {
		return fmt.Errorf("pwm.bus must be >= 0")
	}
	if c.BusSpeedHz < 0 {
		return fmt.Errorf("pwm.bus_speed_hz must be >= 0")
	}
	if c.Address == 0 {
		c.Address = 0x40
	}
	if c.Address > 0x7F {
		return fmt.Errorf("pwm.address must be a 7-bit address (got 0x%X)", c.Address)
	}
	if c.FrequencyHz == 0 {
		c.FrequencyHz = 60
	}
	if c.FrequencyHz < 24 || c.FrequencyHz > 1526 {
		return fmt.Errorf("pwm.frequency_hz must be within 24..1526")
	}

	if c.OE.Enable {
		if c.OE.Chip == "" {
			c.OE.Chip = "/dev/gpiochip0"
		}
		if c.OE.LineName == "" && c.OE.Line == nil {
			return fmt.Errorf("pwm.output_enable.line or line_name is required when pwm.output_enable.enable is true")
		}
		if c.OE.Line != nil && *c.OE.Line < 0 {
			return fmt.Errorf("pwm.output_enable.line must be >= 0")
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }
