package display

import (
	"fmt"
	"time"
)

// Bus is the subset of the i2c bus the expander needs; rpi/i2c.Bus
// satisfies it.
type Bus interface {
	WriteBytes(addr byte, value []byte) error
}

// HD44780 drives a 16x2 character LCD behind a PCF8574 i2c expander in
// 4-bit mode. Expander bit layout: P0=RS, P1=RW, P2=EN, P3=backlight,
// P4..P7=data nibble.
type HD44780 struct {
	bus       Bus
	addr      byte
	backlight bool
}

const (
	lcdRS        = 0x01
	lcdEN        = 0x04
	lcdBacklight = 0x08

	lcdCmdClear      = 0x01
	lcdCmdEntryMode  = 0x06 // increment, no shift
	lcdCmdDisplayOn  = 0x0C // display on, cursor off
	lcdCmdFunction4b = 0x28 // 4-bit, 2 lines, 5x8 font
)

var lcdRowAddr = [Rows]byte{0x80, 0xC0}

// NewHD44780 initializes the panel at the given expander address
// (conventionally 0x27 or 0x3F).
func NewHD44780(bus Bus, addr byte) (*HD44780, error) {
	d := &HD44780{bus: bus, addr: addr, backlight: true}
	// 4-bit init sequence per HD44780 datasheet figure 24.
	for _, nib := range []byte{0x30, 0x30, 0x30, 0x20} {
		if err := d.strobe(nib); err != nil {
			return nil, fmt.Errorf("lcd init: %w", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	for _, cmd := range []byte{lcdCmdFunction4b, lcdCmdDisplayOn, lcdCmdEntryMode, lcdCmdClear} {
		if err := d.command(cmd); err != nil {
			return nil, fmt.Errorf("lcd init: %w", err)
		}
	}
	time.Sleep(2 * time.Millisecond)
	return d, nil
}

func (d *HD44780) WriteLine(row int, text string) error {
	if row < 0 || row >= Rows {
		return fmt.Errorf("display has no row %d", row)
	}
	if err := d.command(lcdRowAddr[row]); err != nil {
		return err
	}
	for len(text) < Width {
		text += " "
	}
	for _, c := range []byte(text[:Width]) {
		if err := d.write(c, true); err != nil {
			return err
		}
	}
	return nil
}

func (d *HD44780) Clear() error {
	if err := d.command(lcdCmdClear); err != nil {
		return err
	}
	time.Sleep(2 * time.Millisecond)
	return nil
}

func (d *HD44780) Close() error {
	if err := d.Clear(); err != nil {
		return err
	}
	d.backlight = false
	return d.expander(0)
}

func (d *HD44780) command(b byte) error { return d.write(b, false) }

// write sends one byte as two nibbles.
func (d *HD44780) write(b byte, data bool) error {
	var flags byte
	if data {
		flags = lcdRS
	}
	if err := d.strobe(b&0xF0 | flags); err != nil {
		return err
	}
	return d.strobe(b<<4&0xF0 | flags)
}

// strobe latches a nibble by pulsing EN.
func (d *HD44780) strobe(b byte) error {
	if err := d.expander(b | lcdEN); err != nil {
		return err
	}
	time.Sleep(50 * time.Microsecond)
	return d.expander(b)
}

func (d *HD44780) expander(b byte) error {
	if d.backlight {
		b |= lcdBacklight
	}
	return d.bus.WriteBytes(d.addr, []byte{b})
}
