//go:build !linux

package i2c

import "fmt"

type Bus struct{}

func Open(path string) (*Bus, error) { return nil, fmt.Errorf("i2c: unsupported OS (need linux)") }

func (b *Bus) Close() error { return nil }

func (b *Bus) WriteBytes(addr uint16, p []byte, retries int) error {
	return fmt.Errorf("i2c: unsupported OS")
}

func (b *Bus) ReadByte(addr uint16, reg byte) (byte, error) {
	return 0, fmt.Errorf("i2c: unsupported OS")
}

func isTransient(err error) bool { return false }
