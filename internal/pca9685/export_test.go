package pca9685

import (
	"testing"
	"time"
)

// SetSleepForTest replaces the driver delay for the duration of t. A nil fn
// makes delays no-ops.
func SetSleepForTest(t *testing.T, fn func(time.Duration)) {
	t.Helper()
	if fn == nil {
		fn = func(time.Duration) {}
	}
	old := sleep
	sleep = fn
	t.Cleanup(func() { sleep = old })
}
