package outputenable

import (
	"errors"
	"reflect"
	"testing"
)

type fakeLine struct {
	values []int
	closed bool
	err    error
}

func (f *fakeLine) SetValue(v int) error {
	if f.err != nil {
		return f.err
	}
	f.values = append(f.values, v)
	return nil
}

func (f *fakeLine) Close() error {
	f.closed = true
	return nil
}

func withFakeLine(t *testing.T, f *fakeLine) {
	t.Helper()
	old := openLineFn
	openLineFn = func(chip string, offset int, name string) (line, error) { return f, nil }
	t.Cleanup(func() { openLineFn = old })
}

func TestPin_EnableDisableClose(t *testing.T) {
	f := &fakeLine{}
	withFakeLine(t, f)

	p, err := Open("/dev/gpiochip0", 4, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.Enabled() {
		t.Fatalf("pin enabled before Enable")
	}
	if err := p.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if !p.Enabled() {
		t.Fatalf("expected enabled")
	}
	if err := p.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Active low: enable=0, disable=1, close drives 1 again.
	if want := []int{0, 1, 1}; !reflect.DeepEqual(f.values, want) {
		t.Fatalf("values=%v want %v", f.values, want)
	}
	if !f.closed {
		t.Fatalf("line not released")
	}
	if err := p.Enable(); err == nil {
		t.Fatalf("expected error after Close")
	}
}

func TestPin_EnableError(t *testing.T) {
	boom := errors.New("EBUSY")
	withFakeLine(t, &fakeLine{err: boom})

	p, err := Open("/dev/gpiochip0", 4, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := p.Enable(); !errors.Is(err, boom) {
		t.Fatalf("err=%v want %v", err, boom)
	}
	if p.Enabled() {
		t.Fatalf("pin reported enabled after failure")
	}
}

func TestOpen_RejectsNegativeOffset(t *testing.T) {
	withFakeLine(t, &fakeLine{})
	if _, err := Open("/dev/gpiochip0", -1, ""); err == nil {
		t.Fatalf("expected error")
	}
}
