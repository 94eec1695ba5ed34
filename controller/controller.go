// Package controller wires the peripherals to the scheduling core and runs
// the single control loop that owns all mutable state.
package controller

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AhmedHSaeed/Auto-Bell/controller/clock"
	"github.com/AhmedHSaeed/Auto-Bell/controller/device"
	"github.com/AhmedHSaeed/Auto-Bell/controller/display"
	"github.com/AhmedHSaeed/Auto-Bell/controller/modules/bell"
	"github.com/AhmedHSaeed/Auto-Bell/controller/modules/editor"
	"github.com/AhmedHSaeed/Auto-Bell/controller/storage"
)

const (
	// loopInterval paces button sampling; the clock is polled once a
	// second and the display cursor blinks at blinkInterval.
	loopInterval  = 50 * time.Millisecond
	clockInterval = time.Second
	blinkInterval = 500 * time.Millisecond

	// The RTC is reinitialized from host time when it reports an earlier
	// year: either the battery died or this is a factory-fresh board.
	minPlausibleYear = 2023
)

// Devices groups the peripherals handed to the controller. Everything is an
// interface or a thin wrapper, so tests and dev mode swap in mocks.
type Devices struct {
	Clock   clock.Clock
	Display display.Display

	ModeButton *device.Button
	NextButton *device.Button
	IncButton  *device.Button
	DecButton  *device.Button

	Relay     *device.Switch
	Buzzer    *device.Buzzer
	StatusLED *device.Switch
	BellLED   *device.Switch
}

type Controller struct {
	store   storage.Store
	devices Devices
	log     *logrus.Entry

	engine *bell.Engine
	editor *editor.Editor

	bothSince time.Time
	lastLines [display.Rows]string

	quit chan struct{}
	done chan struct{}
}

func New(store storage.Store, devices Devices, log *logrus.Entry) *Controller {
	return &Controller{
		store:   store,
		devices: devices,
		log:     log,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Setup creates buckets, loads persisted state and initializes the clock.
// Corrupt persisted values degrade to defaults; Setup only fails on storage
// or wiring errors.
func (c *Controller) Setup() error {
	for _, b := range []string{bell.Bucket, bell.AlarmBucket} {
		if err := c.store.CreateBucket(b); err != nil {
			return err
		}
	}
	settings, err := bell.LoadSettings(c.store, c.log)
	if err != nil {
		return err
	}
	table := bell.NewTable(c.store, c.log)
	if err := table.Load(); err != nil {
		return err
	}
	c.engine = bell.NewEngine(c.store, table, settings, c.devices.Relay, c.log)
	c.editor = editor.New(c.engine, table, c.devices.Clock, c.devices.Buzzer, c.log)
	c.initClock()
	return nil
}

// initClock seeds the RTC from host time when it is not running or reports
// an implausible year.
func (c *Controller) initClock() {
	r, err := c.devices.Clock.Now()
	if err != nil {
		c.log.WithError(err).Warn("clock unreachable at startup")
		return
	}
	if r.Valid && r.Year >= minPlausibleYear {
		return
	}
	now := time.Now()
	c.log.WithField("time", now.Format("2006-01-02 15:04:05")).
		Warn("clock not set, initializing from host time")
	if err := c.devices.Clock.Set(clock.FromTime(now)); err != nil {
		c.log.WithError(err).Error("initialize clock")
	}
}

func (c *Controller) Start() {
	go c.loop()
}

func (c *Controller) Stop() {
	close(c.quit)
	<-c.done
}

// Engine exposes scheduling state to read-only consumers.
func (c *Controller) Engine() *bell.Engine { return c.engine }

func (c *Controller) loop() {
	defer close(c.done)
	ticker := time.NewTicker(loopInterval)
	defer ticker.Stop()

	if err := c.devices.StatusLED.On(); err != nil {
		c.log.WithError(err).Error("status led")
	}
	var lastPoll, lastBlink time.Time
	blinkOn := true
	for {
		select {
		case <-c.quit:
			c.shutdown()
			return
		case now := <-ticker.C:
			c.pollButtons(now)
			if now.Sub(lastPoll) >= clockInterval {
				lastPoll = now
				c.pollClock()
			}
			if now.Sub(lastBlink) >= blinkInterval {
				lastBlink = now
				blinkOn = !blinkOn
			}
			c.refreshDisplay(blinkOn)
		}
	}
}

func (c *Controller) pollButtons(now time.Time) {
	var in editor.Input
	var err error
	if in.Mode, err = c.devices.ModeButton.Sample(now); err != nil {
		c.log.WithError(err).Debug("mode button read")
	}
	if in.Next, err = c.devices.NextButton.Sample(now); err != nil {
		c.log.WithError(err).Debug("next button read")
	}
	if in.Inc, err = c.devices.IncButton.Sample(now); err != nil {
		c.log.WithError(err).Debug("inc button read")
	}
	if in.Dec, err = c.devices.DecButton.Sample(now); err != nil {
		c.log.WithError(err).Debug("dec button read")
	}
	if c.devices.ModeButton.Down() && c.devices.NextButton.Down() {
		if c.bothSince.IsZero() {
			c.bothSince = now
		}
		in.ModeNextHeld = now.Sub(c.bothSince)
	} else {
		c.bothSince = time.Time{}
	}
	c.editor.Handle(in)
}

func (c *Controller) pollClock() {
	r, err := c.devices.Clock.Now()
	if err != nil {
		c.log.WithError(err).Debug("clock read")
		r = clock.Reading{} // Valid=false: engine holds last known time
	}
	c.engine.Tick(r)
	if c.engine.BellActive() != c.devices.BellLED.IsOn() {
		if err := c.devices.BellLED.Toggle(); err != nil {
			c.log.WithError(err).Error("bell led")
		}
	}
}

func (c *Controller) refreshDisplay(blinkOn bool) {
	lines := c.editor.Screen(blinkOn)
	for i, line := range lines {
		if line == c.lastLines[i] {
			continue
		}
		if err := c.devices.Display.WriteLine(i, line); err != nil {
			c.log.WithError(err).Debug("display write")
			continue
		}
		c.lastLines[i] = line
	}
}

func (c *Controller) shutdown() {
	// Leave the relay de-energized no matter what state we stop in.
	if err := c.devices.Relay.Off(); err != nil {
		c.log.WithError(err).Error("relay off at shutdown")
	}
	if err := c.devices.BellLED.Off(); err != nil {
		c.log.WithError(err).Error("bell led off at shutdown")
	}
	if err := c.devices.StatusLED.Off(); err != nil {
		c.log.WithError(err).Error("status led off at shutdown")
	}
	if err := c.devices.Display.Close(); err != nil {
		c.log.WithError(err).Error("display close")
	}
	c.log.Info("control loop stopped")
}
