// Package bell holds the scheduling core: the alarm table, the per-day
// trigger state and the engine that decides, once a second, whether the
// bell relay starts or stops.
package bell

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/AhmedHSaeed/Auto-Bell/controller/storage"
)

// Store buckets.
const (
	Bucket      = "bell_config"
	AlarmBucket = "bell_alarms"

	settingsID = "settings"
)

const (
	// MaxAlarms is the alarm table capacity.
	MaxAlarms = 30

	MinBellDuration = 1
	MaxBellDuration = 99

	DefaultBellDuration = 3
	DefaultWeekendDay   = WeekendFriSat
)

// Settings are the operator-adjustable persisted values.
type Settings struct {
	BellDuration int `json:"bell_duration"` // seconds the relay stays energized, 1..99
	WeekendDay   int `json:"weekend_day"`   // 1..7, 6 selects Friday and Saturday
}

func DefaultSettings() Settings {
	return Settings{BellDuration: DefaultBellDuration, WeekendDay: DefaultWeekendDay}
}

// LoadSettings reads the persisted settings, bootstrapping defaults on first
// boot. Out-of-range values are silently corrected to defaults and written
// back; the correction is only a diagnostic event, never a failure.
func LoadSettings(st storage.Store, log *logrus.Entry) (Settings, error) {
	var s Settings
	err := st.Get(Bucket, settingsID, &s)
	if errors.Is(err, storage.ErrNotFound) {
		s = DefaultSettings()
		log.Info("no persisted settings, writing defaults")
		return s, SaveSettings(st, s)
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("load settings: %w", err)
	}
	fixed := false
	if s.BellDuration < MinBellDuration || s.BellDuration > MaxBellDuration {
		log.WithField("bell_duration", s.BellDuration).Warn("persisted bell duration out of range, using default")
		s.BellDuration = DefaultBellDuration
		fixed = true
	}
	if s.WeekendDay < 1 || s.WeekendDay > 7 {
		log.WithField("weekend_day", s.WeekendDay).Warn("persisted weekend day out of range, using default")
		s.WeekendDay = DefaultWeekendDay
		fixed = true
	}
	if fixed {
		return s, SaveSettings(st, s)
	}
	return s, nil
}

func SaveSettings(st storage.Store, s Settings) error {
	return st.Put(Bucket, settingsID, &s)
}
