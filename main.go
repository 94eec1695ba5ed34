package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	systemd "github.com/coreos/go-systemd/v22/daemon"
	"github.com/reef-pi/rpi/i2c"
	"github.com/sirupsen/logrus"

	"github.com/AhmedHSaeed/Auto-Bell/controller"
	"github.com/AhmedHSaeed/Auto-Bell/controller/clock"
	"github.com/AhmedHSaeed/Auto-Bell/controller/device"
	"github.com/AhmedHSaeed/Auto-Bell/controller/display"
	"github.com/AhmedHSaeed/Auto-Bell/controller/storage"
)

func main() {
	configPath := flag.String("config", "", "yaml configuration file")
	devMode := flag.Bool("dev", false, "run with mock hardware and the host clock")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	log := logrus.WithField("app", "auto-bell")

	cfg, err := controller.LoadSettings(*configPath)
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}
	if *devMode {
		cfg.DevMode = true
	}

	store, err := storage.NewStore(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer store.Close()

	devices, err := buildDevices(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("initialize hardware")
	}

	c := controller.New(store, devices, log)
	if err := c.Setup(); err != nil {
		log.WithError(err).Fatal("controller setup")
	}
	c.Start()
	if _, err := systemd.SdNotify(false, systemd.SdNotifyReady); err != nil {
		log.WithError(err).Debug("sd_notify")
	}
	log.Info("auto-bell running")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	if _, err := systemd.SdNotify(false, systemd.SdNotifyStopping); err != nil {
		log.WithError(err).Debug("sd_notify")
	}
	c.Stop()
}

func buildDevices(cfg controller.Settings, log *logrus.Entry) (controller.Devices, error) {
	if cfg.DevMode {
		log.Info("dev mode: mock hardware, host clock")
		return controller.Devices{
			Clock:      clock.SystemClock{},
			Display:    display.NewLogDisplay(log.WithField("dev", "lcd")),
			ModeButton: device.NewButton(device.NewMockInputPin("mode")),
			NextButton: device.NewButton(device.NewMockInputPin("next")),
			IncButton:  device.NewButton(device.NewMockInputPin("inc")),
			DecButton:  device.NewButton(device.NewMockInputPin("dec")),
			Relay:      device.NewSwitch(device.NewMockOutputPin("relay")),
			Buzzer:     device.NewBuzzer(device.NewMockOutputPin("buzzer")),
			StatusLED:  device.NewSwitch(device.NewMockOutputPin("status-led")),
			BellLED:    device.NewSwitch(device.NewMockOutputPin("bell-led")),
		}, nil
	}

	bus, err := i2c.New()
	if err != nil {
		return controller.Devices{}, err
	}
	lcd, err := display.NewHD44780(bus, byte(cfg.I2C.LCDAddr))
	if err != nil {
		return controller.Devices{}, err
	}

	chip := cfg.GPIO.Chip
	inputs := map[string]int{
		"mode": cfg.GPIO.Buttons.Mode,
		"next": cfg.GPIO.Buttons.Next,
		"inc":  cfg.GPIO.Buttons.Inc,
		"dec":  cfg.GPIO.Buttons.Dec,
	}
	buttons := map[string]*device.Button{}
	for name, offset := range inputs {
		pin, err := device.InputPin(chip, offset, name)
		if err != nil {
			return controller.Devices{}, err
		}
		buttons[name] = device.NewButton(pin)
	}

	relayPin, err := device.OutputPin(chip, cfg.GPIO.Relay, "relay")
	if err != nil {
		return controller.Devices{}, err
	}
	buzzerPin, err := device.OutputPin(chip, cfg.GPIO.Buzzer, "buzzer")
	if err != nil {
		return controller.Devices{}, err
	}
	statusPin, err := device.OutputPin(chip, cfg.GPIO.StatusLED, "status-led")
	if err != nil {
		return controller.Devices{}, err
	}
	bellPin, err := device.OutputPin(chip, cfg.GPIO.BellLED, "bell-led")
	if err != nil {
		return controller.Devices{}, err
	}

	return controller.Devices{
		Clock:      clock.NewDS3231(bus),
		Display:    lcd,
		ModeButton: buttons["mode"],
		NextButton: buttons["next"],
		IncButton:  buttons["inc"],
		DecButton:  buttons["dec"],
		Relay:      device.NewSwitch(relayPin),
		Buzzer:     device.NewBuzzer(buzzerPin),
		StatusLED:  device.NewSwitch(statusPin),
		BellLED:    device.NewSwitch(bellPin),
	}, nil
}
