//go:build !linux

package outputenable

import "fmt"

func openLine(chipPath string, offset int, name string) (line, error) {
	return nil, fmt.Errorf("outputenable: gpio unsupported on this platform")
}
