package device

import (
	"fmt"

	"github.com/reef-pi/hal"
	"github.com/warthog618/go-gpiocdev"
)

type linePin struct {
	line   *gpiocdev.Line
	name   string
	number int
}

func (p *linePin) Name() string { return p.name }
func (p *linePin) Number() int  { return p.number }
func (p *linePin) Close() error { return p.line.Close() }

type inPin struct {
	linePin
}

func (p *inPin) Read() (bool, error) {
	v, err := p.line.Value()
	return v != 0, err
}

type outPin struct {
	linePin
	last bool
}

func (p *outPin) Write(state bool) error {
	v := 0
	if state {
		v = 1
	}
	if err := p.line.SetValue(v); err != nil {
		return err
	}
	p.last = state
	return nil
}

func (p *outPin) LastState() bool { return p.last }

// InputPin requests a GPIO line as a pulled-up input and exposes it as a
// hal.DigitalInputPin.
func InputPin(chip string, offset int, name string) (hal.DigitalInputPin, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithConsumer("auto-bell"))
	if err != nil {
		return nil, fmt.Errorf("request input line %s/%d: %w", chip, offset, err)
	}
	return &inPin{linePin{line: line, name: name, number: offset}}, nil
}

// OutputPin requests a GPIO line as an output, initially low.
func OutputPin(chip string, offset int, name string) (hal.DigitalOutputPin, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0), gpiocdev.WithConsumer("auto-bell"))
	if err != nil {
		return nil, fmt.Errorf("request output line %s/%d: %w", chip, offset, err)
	}
	return &outPin{linePin: linePin{line: line, name: name, number: offset}}, nil
}
