package i2c

import "fmt"

// DevPath returns the character device path for a numbered bus.
func DevPath(busID int) string {
	return fmt.Sprintf("/dev/i2c-%d", busID)
}

// OpenBus opens /dev/i2c-<busID>.
func OpenBus(busID int) (*Bus, error) {
	if busID < 0 {
		return nil, fmt.Errorf("i2c: invalid bus %d", busID)
	}
	return Open(DevPath(busID))
}

// withRetry runs fn once plus up to retries more times while it fails with a
// transient bus error. The last error is returned unmodified.
func withRetry(retries int, fn func() error) error {
	if retries < 0 {
		retries = 0
	}
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
	}
	return err
}
