//go:build linux

package i2c

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux I2C transport backed by /dev/i2c-*.
//
// Register reads use I2C_RDWR with two messages (repeated start) so the
// register pointer write and the data read are one bus transaction.

const (
	i2cMrd  = 0x0001
	i2cRdwr = 0x0707
)

type msg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type rdwrData struct {
	msgs  uintptr
	nmsgs uint32
}

// Bus is an opened I2C bus (e.g., /dev/i2c-1).
//
// Bus itself is not safe for concurrent transfers. Several devices may share
// one Bus, but multi-transaction sequences must be serialized by the caller.
//
//nolint:revive // simple device abstraction.
type Bus struct {
	f    *os.File
	path string
}

func Open(path string) (*Bus, error) {
	path = filepath.Clean(path)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &Bus{f: f, path: path}, nil
}

func (b *Bus) Close() error {
	if b == nil || b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	return err
}

// WriteBytes sends p to addr as one write message. Transient failures
// (arbitration loss, NACK, timeout) are retried up to retries extra times.
func (b *Bus) WriteBytes(addr uint16, p []byte, retries int) error {
	return withRetry(retries, func() error {
		_, err := b.tx(addr, p, nil)
		return err
	})
}

// ReadByte reads the single register reg of the device at addr.
func (b *Bus) ReadByte(addr uint16, reg byte) (byte, error) {
	var r [1]byte
	if _, err := b.tx(addr, []byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

func (b *Bus) tx(addr uint16, w, r []byte) (int, error) {
	if b == nil || b.f == nil {
		return 0, errors.New("i2c bus is closed")
	}
	if addr == 0 || addr > 0x7F {
		return 0, fmt.Errorf("invalid i2c addr 0x%X", addr)
	}

	msgs := make([]msg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, msg{addr: addr, flags: 0, len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))})
	}
	if len(r) > 0 {
		msgs = append(msgs, msg{addr: addr, flags: i2cMrd, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))})
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	data := rdwrData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(len(msgs))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, b.f.Fd(), uintptr(i2cRdwr), uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return 0, errno
	}
	if len(r) > 0 {
		return len(r), nil
	}
	return len(w), nil
}

// isTransient reports whether err is a bus condition worth another attempt.
// See Documentation/i2c/fault-codes for the errno mapping.
func isTransient(err error) bool {
	return errors.Is(err, unix.EAGAIN) || // arbitration lost
		errors.Is(err, unix.EREMOTEIO) || // NACK during transfer
		errors.Is(err, unix.ENXIO) || // NACK on address
		errors.Is(err, unix.ETIMEDOUT)
}
