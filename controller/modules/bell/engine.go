package bell

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/AhmedHSaeed/Auto-Bell/controller/clock"
	"github.com/AhmedHSaeed/Auto-Bell/controller/storage"
)

// Ringer is the bell relay as the engine sees it.
type Ringer interface {
	On() error
	Off() error
}

// noBellMinute marks "no bell has fired since the last day rollover".
const noBellMinute = -1

const maxEvents = 100

// Engine owns all scheduling state: trigger flags, the last bell minute, the
// active bell session and the computed next bell. It must only be driven
// from a single goroutine; the control loop is that goroutine.
type Engine struct {
	store    storage.Store
	table    *Table
	settings Settings
	ringer   Ringer
	log      *logrus.Entry

	triggered      [MaxAlarms]bool
	lastBellMinute int
	last           clock.Reading
	haveReading    bool
	invalidSeen    bool

	bellOn    bool
	bellStart time.Time

	next    Alarm
	hasNext bool

	events []string
	nowFn  func() time.Time
}

func NewEngine(st storage.Store, table *Table, settings Settings, ringer Ringer, log *logrus.Entry) *Engine {
	return &Engine{
		store:          st,
		table:          table,
		settings:       settings,
		ringer:         ringer,
		log:            log,
		lastBellMinute: noBellMinute,
		nowFn:          time.Now,
	}
}

// Tick evaluates one clock sample. The caller polls the clock once a second;
// firing decisions are minute-granular, guarded so an alarm rings at most
// once per minute and once per day.
func (e *Engine) Tick(r clock.Reading) {
	if !r.Valid {
		if !e.invalidSeen {
			e.log.Warn("invalid clock reading, holding last known time")
			e.invalidSeen = true
		}
		// The session timer is monotonic and local, so an unreadable
		// clock never extends a ringing bell.
		e.stopIfExpired()
		return
	}
	e.invalidSeen = false

	first := !e.haveReading
	dayChanged := e.haveReading && r.Weekday != e.last.Weekday
	e.last = r
	e.haveReading = true
	if dayChanged {
		e.triggered = [MaxAlarms]bool{}
		e.lastBellMinute = noBellMinute
		e.log.WithField("weekday", r.Weekday).Info("day rollover, trigger flags cleared")
		e.appendEvent("new day")
		e.RecomputeNext()
	} else if first {
		e.RecomputeNext()
	}

	e.stopIfExpired()

	// lastBellMinute guards against a second bell start while the clock
	// still reads the minute in which one fired. Once the minute moves
	// on, the guard clears; the per-slot trigger flags carry the
	// once-per-day invariant.
	if e.lastBellMinute != noBellMinute && r.Minute != e.lastBellMinute {
		e.lastBellMinute = noBellMinute
	}

	if IsWeekend(r.Weekday, e.settings.WeekendDay) {
		return
	}
	if e.bellOn {
		return
	}
	for i := 0; i < e.table.Count(); i++ {
		a := e.table.ReadAlarm(i)
		if a.Hour != r.Hour || a.Minute != r.Minute {
			continue
		}
		if e.triggered[i] || r.Minute == e.lastBellMinute {
			continue
		}
		// First match wins: at most one bell start per tick.
		e.triggered[i] = true
		e.lastBellMinute = r.Minute
		e.startBell(i, a)
		e.RecomputeNext()
		break
	}
}

func (e *Engine) startBell(slot int, a Alarm) {
	if err := e.ringer.On(); err != nil {
		e.log.WithError(err).Error("bell relay on")
	}
	e.bellOn = true
	e.bellStart = e.nowFn()
	e.log.WithFields(logrus.Fields{"slot": slot, "alarm": a.String()}).Info("bell started")
	e.appendEvent("bell " + a.String())
}

func (e *Engine) stopIfExpired() {
	if !e.bellOn {
		return
	}
	if e.nowFn().Sub(e.bellStart) < time.Duration(e.settings.BellDuration)*time.Second {
		return
	}
	if err := e.ringer.Off(); err != nil {
		e.log.WithError(err).Error("bell relay off")
	}
	e.bellOn = false
	e.log.Info("bell stopped")
}

// RecomputeNext refreshes the next-bell announcement. The engine never
// recomputes speculatively: only the daily tick, a firing, and explicit
// edits call this.
func (e *Engine) RecomputeNext() {
	if !e.haveReading {
		e.hasNext = false
		return
	}
	e.next, e.hasNext = NextBell(e.table, e.triggered[:], e.last, e.settings.WeekendDay)
	if !e.hasNext {
		return
	}
	now := e.last.Time()
	at := time.Date(now.Year(), now.Month(), now.Day(), e.next.Hour, e.next.Minute, 0, 0, now.Location())
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}
	e.log.WithField("bell", e.next.String()).
		Infof("next bell %s", humanize.RelTime(now, at, "ago", "from now"))
}

// Next returns the computed next bell, if any.
func (e *Engine) Next() (Alarm, bool) {
	return e.next, e.hasNext
}

func (e *Engine) BellActive() bool { return e.bellOn }

// LastReading returns the last valid clock sample.
func (e *Engine) LastReading() (clock.Reading, bool) {
	return e.last, e.haveReading
}

func (e *Engine) Settings() Settings { return e.settings }

// SetBellDuration persists a new ring duration.
func (e *Engine) SetBellDuration(sec int) error {
	if sec < MinBellDuration || sec > MaxBellDuration {
		return fmt.Errorf("bell duration %d out of range", sec)
	}
	e.settings.BellDuration = sec
	return SaveSettings(e.store, e.settings)
}

// SetWeekendDay persists a new weekend selector and refreshes the next bell.
func (e *Engine) SetWeekendDay(day int) error {
	if day < 1 || day > 7 {
		return fmt.Errorf("weekend day %d out of range", day)
	}
	e.settings.WeekendDay = day
	if err := SaveSettings(e.store, e.settings); err != nil {
		return err
	}
	e.RecomputeNext()
	return nil
}

// ClearDailyFlags resets per-day trigger state. Part of the factory reset
// gesture; day rollover does this internally.
func (e *Engine) ClearDailyFlags() {
	e.triggered = [MaxAlarms]bool{}
	e.lastBellMinute = noBellMinute
}

// ForceBellOff ends any active session immediately. Only the factory reset
// uses this; configuration changes never abort a ringing bell.
func (e *Engine) ForceBellOff() {
	if !e.bellOn {
		return
	}
	if err := e.ringer.Off(); err != nil {
		e.log.WithError(err).Error("bell relay off")
	}
	e.bellOn = false
	e.appendEvent("bell forced off")
}

// Events returns the recent activity log, newest last.
func (e *Engine) Events() []string {
	out := make([]string, len(e.events))
	copy(out, e.events)
	return out
}

func (e *Engine) appendEvent(msg string) {
	entry := fmt.Sprintf("%02d:%02d:%02d %s", e.last.Hour, e.last.Minute, e.last.Second, msg)
	e.events = append(e.events, entry)
	if len(e.events) > maxEvents {
		e.events = e.events[len(e.events)-maxEvents:]
	}
}
