// Package editor translates debounced button edges into configuration
// changes: current time, alarm table entries, bell duration and the weekend
// selector. It is a small mode/field state machine over four buttons.
package editor

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AhmedHSaeed/Auto-Bell/controller/clock"
	"github.com/AhmedHSaeed/Auto-Bell/controller/modules/bell"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeSetTime
	ModeSetDuration
	ModeSetAlarm
	ModeSetWeekend
	modeCount
)

// SetTime fields.
const (
	timeFieldDay = iota
	timeFieldHour
	timeFieldMinute
	timeFieldCount
)

// SetAlarm fields.
const (
	alarmFieldSlot = iota
	alarmFieldHour
	alarmFieldMinute
	alarmFieldCount
)

const (
	// ResetHold is how long Mode+Next must be held together to clear the
	// alarm table.
	ResetHold = 5 * time.Second

	keyClick     = 30 * time.Millisecond
	confirmBeep  = 500 * time.Millisecond
	noticeWindow = 3 * time.Second
)

// defaultAlarmHour seeds a new alarm slot at 08:00.
const defaultAlarmHour = 8

// Beeper gives audible feedback on accepted presses.
type Beeper interface {
	Pulse(time.Duration) error
}

// Input is one polling cycle's worth of button activity. Mode..Dec are
// debounced press edges; ModeNextHeld is how long Mode and Next have been
// held down together.
type Input struct {
	Mode, Next, Inc, Dec bool
	ModeNextHeld         time.Duration
}

type Editor struct {
	engine *bell.Engine
	table  *bell.Table
	clk    clock.Clock
	beep   Beeper
	log    *logrus.Entry

	mode  Mode
	field int
	slot  int
	draft bell.Alarm

	resetLatched bool
	notice       string
	noticeUntil  time.Time
	nowFn        func() time.Time
}

func New(engine *bell.Engine, table *bell.Table, clk clock.Clock, beep Beeper, log *logrus.Entry) *Editor {
	return &Editor{
		engine: engine,
		table:  table,
		clk:    clk,
		beep:   beep,
		log:    log,
		nowFn:  time.Now,
	}
}

func (ed *Editor) Mode() Mode { return ed.mode }

// Handle applies one cycle of button input.
func (ed *Editor) Handle(in Input) {
	if in.ModeNextHeld >= ResetHold {
		if !ed.resetLatched {
			ed.resetLatched = true
			ed.factoryReset()
		}
		return
	}
	if in.ModeNextHeld == 0 {
		ed.resetLatched = false
	}
	if ed.resetLatched {
		// Swallow edges until both buttons are released.
		return
	}
	if in.Mode {
		ed.click()
		ed.cycleMode()
	}
	if in.Next {
		ed.click()
		ed.nextField()
	}
	if in.Inc {
		ed.click()
		ed.adjust(1)
	}
	if in.Dec {
		ed.click()
		ed.adjust(-1)
	}
}

func (ed *Editor) click() {
	if err := ed.beep.Pulse(keyClick); err != nil {
		ed.log.WithError(err).Debug("buzzer pulse")
	}
}

func (ed *Editor) cycleMode() {
	ed.mode = (ed.mode + 1) % modeCount
	ed.field = 0
	if ed.mode == ModeSetAlarm {
		ed.slot = 0
		ed.loadDraft()
	}
}

// loadDraft seeds the in-progress alarm from the selected slot, or 08:00
// when the slot is beyond the stored count.
func (ed *Editor) loadDraft() {
	if ed.slot < ed.table.Count() {
		ed.draft = ed.table.ReadAlarm(ed.slot)
		return
	}
	ed.draft = bell.Alarm{Hour: defaultAlarmHour}
}

func (ed *Editor) nextField() {
	switch ed.mode {
	case ModeSetTime:
		ed.field = (ed.field + 1) % timeFieldCount
	case ModeSetAlarm:
		ed.field++
		if ed.field >= alarmFieldCount {
			ed.commitAlarm()
			ed.field = 0
		}
	default:
		ed.field = 0
	}
}

// commitAlarm persists the draft to its slot and advances to the next slot,
// wrapping at capacity.
func (ed *Editor) commitAlarm() {
	if err := ed.table.SaveAlarm(ed.slot, ed.draft); err != nil {
		ed.log.WithError(err).Error("save alarm")
	} else {
		ed.log.WithFields(logrus.Fields{"slot": ed.slot, "alarm": ed.draft.String()}).Info("alarm saved")
		ed.engine.RecomputeNext()
	}
	ed.slot = (ed.slot + 1) % bell.MaxAlarms
	ed.loadDraft()
}

func (ed *Editor) adjust(delta int) {
	switch ed.mode {
	case ModeSetTime:
		ed.adjustTime(delta)
	case ModeSetDuration:
		d := wrap(ed.engine.Settings().BellDuration+delta, bell.MinBellDuration, bell.MaxBellDuration)
		if err := ed.engine.SetBellDuration(d); err != nil {
			ed.log.WithError(err).Error("save bell duration")
		}
	case ModeSetWeekend:
		w := wrap(ed.engine.Settings().WeekendDay+delta, 1, 7)
		if err := ed.engine.SetWeekendDay(w); err != nil {
			ed.log.WithError(err).Error("save weekend day")
		}
	case ModeSetAlarm:
		switch ed.field {
		case alarmFieldSlot:
			ed.slot = (ed.slot + delta + bell.MaxAlarms) % bell.MaxAlarms
			ed.loadDraft()
		case alarmFieldHour:
			ed.draft.Hour = (ed.draft.Hour + delta + 24) % 24
		case alarmFieldMinute:
			ed.draft.Minute = (ed.draft.Minute + delta + 60) % 60
		}
	}
}

// adjustTime writes the edited time through to the clock source. The day
// field shifts the date by one day, which moves the weekday with it; the
// hardware clock derives weekday from date on every set.
func (ed *Editor) adjustTime(delta int) {
	r, ok := ed.engine.LastReading()
	if !ok {
		var err error
		if r, err = ed.clk.Now(); err != nil {
			ed.log.WithError(err).Error("read clock for edit")
			return
		}
	}
	var t time.Time
	switch ed.field {
	case timeFieldDay:
		t = r.Time().AddDate(0, 0, delta)
	case timeFieldHour:
		r.Hour = (r.Hour + delta + 24) % 24
		t = r.Time()
	case timeFieldMinute:
		r.Minute = (r.Minute + delta + 60) % 60
		t = r.Time()
	default:
		return
	}
	if err := ed.clk.Set(clock.FromTime(t)); err != nil {
		ed.log.WithError(err).Error("set clock")
		return
	}
	// Adopt the new time immediately so the display and day state follow
	// the edit instead of waiting for the next poll.
	if fresh, err := ed.clk.Now(); err == nil {
		ed.engine.Tick(fresh)
	}
	ed.engine.RecomputeNext()
}

// factoryReset clears the whole alarm table, all daily trigger state and any
// active bell session. This is the only bulk-destructive operation.
func (ed *Editor) factoryReset() {
	ed.log.Warn("factory reset: clearing alarm table")
	if err := ed.table.Reset(); err != nil {
		ed.log.WithError(err).Error("reset alarm table")
	}
	ed.engine.ClearDailyFlags()
	ed.engine.ForceBellOff()
	ed.engine.RecomputeNext()
	ed.mode = ModeNormal
	ed.field = 0
	ed.notice = "Alarms cleared"
	ed.noticeUntil = ed.nowFn().Add(noticeWindow)
	if err := ed.beep.Pulse(confirmBeep); err != nil {
		ed.log.WithError(err).Debug("buzzer pulse")
	}
}

func wrap(v, lo, hi int) int {
	if v < lo {
		return hi
	}
	if v > hi {
		return lo
	}
	return v
}
