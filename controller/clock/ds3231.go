package clock

import (
	"fmt"
	"time"
)

// DS3231 register map (datasheet table 1).
const (
	ds3231Addr = 0x68

	regTime    = 0x00 // seconds, minutes, hours, weekday, day, month, year
	regControl = 0x0E
	regStatus  = 0x0F

	oscStopFlag = 0x80 // OSF bit in the status register
	century     = 2000
)

// Bus is the subset of the i2c bus the RTC needs; rpi/i2c.Bus satisfies it.
type Bus interface {
	ReadFromReg(addr, reg byte, value []byte) error
	WriteToReg(addr, reg byte, value []byte) error
}

// DS3231 reads and sets a Maxim DS3231 RTC over i2c. Times are stored in
// 24-hour BCD; the weekday register holds 1..7 with 1=Sunday.
type DS3231 struct {
	bus  Bus
	addr byte
}

func NewDS3231(bus Bus) *DS3231 {
	return &DS3231{bus: bus, addr: ds3231Addr}
}

func (d *DS3231) Now() (Reading, error) {
	status := make([]byte, 1)
	if err := d.bus.ReadFromReg(d.addr, regStatus, status); err != nil {
		return Reading{}, fmt.Errorf("read rtc status: %w", err)
	}
	buf := make([]byte, 7)
	if err := d.bus.ReadFromReg(d.addr, regTime, buf); err != nil {
		return Reading{}, fmt.Errorf("read rtc time: %w", err)
	}
	r := Reading{
		Second:  bcdToDec(buf[0] & 0x7F),
		Minute:  bcdToDec(buf[1]),
		Hour:    bcdToDec(buf[2] & 0x3F), // 24-hour mode
		Weekday: int(buf[3] & 0x07),
		Day:     bcdToDec(buf[4]),
		Month:   bcdToDec(buf[5] & 0x1F),
		Year:    bcdToDec(buf[6]) + century,
		Valid:   status[0]&oscStopFlag == 0,
	}
	return r, nil
}

// Set writes the given date and time, recomputing the weekday from the date,
// and clears the oscillator-stop flag so subsequent reads are valid.
func (d *DS3231) Set(r Reading) error {
	t := time.Date(r.Year, time.Month(r.Month), r.Day, r.Hour, r.Minute, r.Second, 0, time.Local)
	buf := []byte{
		decToBCD(t.Second()),
		decToBCD(t.Minute()),
		decToBCD(t.Hour()),
		byte(int(t.Weekday()) + 1),
		decToBCD(t.Day()),
		decToBCD(int(t.Month())),
		decToBCD(t.Year() - century),
	}
	if err := d.bus.WriteToReg(d.addr, regTime, buf); err != nil {
		return fmt.Errorf("write rtc time: %w", err)
	}
	status := make([]byte, 1)
	if err := d.bus.ReadFromReg(d.addr, regStatus, status); err != nil {
		return fmt.Errorf("read rtc status: %w", err)
	}
	status[0] &^= oscStopFlag
	if err := d.bus.WriteToReg(d.addr, regStatus, status); err != nil {
		return fmt.Errorf("clear osc stop flag: %w", err)
	}
	return nil
}

func bcdToDec(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

func decToBCD(v int) byte {
	return byte(v/10<<4 | v%10)
}
