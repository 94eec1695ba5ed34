package device

import (
	"time"

	"github.com/reef-pi/hal"
)

// Switch drives a single digital output: the bell relay or a status LED.
type Switch struct {
	pin hal.DigitalOutputPin
}

func NewSwitch(pin hal.DigitalOutputPin) *Switch {
	return &Switch{pin: pin}
}

func (s *Switch) On() error  { return s.pin.Write(true) }
func (s *Switch) Off() error { return s.pin.Write(false) }

func (s *Switch) IsOn() bool { return s.pin.LastState() }

func (s *Switch) Toggle() error { return s.pin.Write(!s.pin.LastState()) }

func (s *Switch) Close() error { return s.pin.Close() }

// Buzzer drives the piezo feedback element.
type Buzzer struct {
	pin hal.DigitalOutputPin
}

func NewBuzzer(pin hal.DigitalOutputPin) *Buzzer {
	return &Buzzer{pin: pin}
}

// Pulse sounds the buzzer for d. It blocks for the pulse duration; callers
// keep d short (tens of milliseconds for key clicks, half a second for the
// reset confirmation).
func (b *Buzzer) Pulse(d time.Duration) error {
	if err := b.pin.Write(true); err != nil {
		return err
	}
	time.Sleep(d)
	return b.pin.Write(false)
}

func (b *Buzzer) Close() error { return b.pin.Close() }
