package controller

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Settings is the daemon-level configuration loaded from a YAML file: file
// paths and wiring. Operator-adjustable values (bell duration, weekend day,
// alarms) live in the database, not here.
type Settings struct {
	Database string     `yaml:"database"`
	DevMode  bool       `yaml:"dev_mode"`
	GPIO     GPIOConfig `yaml:"gpio"`
	I2C      I2CConfig  `yaml:"i2c"`
}

type GPIOConfig struct {
	Chip    string     `yaml:"chip"`
	Buttons ButtonPins `yaml:"buttons"`

	Relay     int `yaml:"relay"`
	Buzzer    int `yaml:"buzzer"`
	StatusLED int `yaml:"status_led"`
	BellLED   int `yaml:"bell_led"`
}

type ButtonPins struct {
	Mode int `yaml:"mode"`
	Next int `yaml:"next"`
	Inc  int `yaml:"inc"`
	Dec  int `yaml:"dec"`
}

type I2CConfig struct {
	LCDAddr int `yaml:"lcd_addr"`
}

func DefaultSettings() Settings {
	return Settings{
		Database: "auto-bell.db",
		GPIO: GPIOConfig{
			Chip:      "gpiochip0",
			Buttons:   ButtonPins{Mode: 5, Next: 6, Inc: 13, Dec: 19},
			Relay:     17,
			Buzzer:    27,
			StatusLED: 22,
			BellLED:   23,
		},
		I2C: I2CConfig{LCDAddr: 0x27},
	}
}

// LoadSettings reads the YAML file at path over the defaults. An empty path
// returns the defaults unchanged.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse config %s: %w", path, err)
	}
	return s, nil
}
