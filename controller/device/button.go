package device

import (
	"time"

	"github.com/reef-pi/hal"
)

// DebounceWindow is the minimum gap between two accepted presses of the same
// button. Holding a button does not auto-repeat.
const DebounceWindow = 200 * time.Millisecond

// Button turns raw level reads of a momentary switch into debounced press
// edges. Buttons are wired active-low (pulled up, switch to ground).
type Button struct {
	pin       hal.DigitalInputPin
	down      bool
	lastPress time.Time
	downSince time.Time
}

func NewButton(pin hal.DigitalInputPin) *Button {
	return &Button{pin: pin}
}

// Sample reads the pin and reports whether a debounced press edge occurred.
// A failed read is treated as released.
func (b *Button) Sample(now time.Time) (bool, error) {
	raw, err := b.pin.Read()
	if err != nil {
		b.down = false
		b.downSince = time.Time{}
		return false, err
	}
	pressed := !raw // active-low
	edge := false
	if pressed && !b.down {
		if b.lastPress.IsZero() || now.Sub(b.lastPress) >= DebounceWindow {
			edge = true
			b.lastPress = now
		}
		b.downSince = now
	}
	if !pressed {
		b.downSince = time.Time{}
	}
	b.down = pressed
	return edge, nil
}

// Down reports the current debounced level.
func (b *Button) Down() bool { return b.down }

// HeldFor reports how long the button has been continuously held.
func (b *Button) HeldFor(now time.Time) time.Duration {
	if !b.down || b.downSince.IsZero() {
		return 0
	}
	return now.Sub(b.downSince)
}

func (b *Button) Close() error { return b.pin.Close() }
