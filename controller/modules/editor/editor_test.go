package editor

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/AhmedHSaeed/Auto-Bell/controller/clock"
	"github.com/AhmedHSaeed/Auto-Bell/controller/modules/bell"
	"github.com/AhmedHSaeed/Auto-Bell/controller/storage"
)

type fakeRinger struct {
	on bool
}

func (f *fakeRinger) On() error  { f.on = true; return nil }
func (f *fakeRinger) Off() error { f.on = false; return nil }

type fakeBeeper struct {
	pulses []time.Duration
}

func (f *fakeBeeper) Pulse(d time.Duration) error {
	f.pulses = append(f.pulses, d)
	return nil
}

type fixture struct {
	editor *Editor
	engine *bell.Engine
	table  *bell.Table
	clk    *clock.Mock
	beep   *fakeBeeper
	ringer *fakeRinger
	store  storage.Store
}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// monday is the reading every fixture starts from: Monday 2025-09-15 07:30.
func monday() clock.Reading {
	return clock.FromTime(time.Date(2025, 9, 15, 7, 30, 0, 0, time.Local))
}

func newFixture(t *testing.T, alarms ...bell.Alarm) *fixture {
	t.Helper()
	st, err := storage.NewStore(filepath.Join(t.TempDir(), "editor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.CreateBucket(bell.Bucket))
	require.NoError(t, st.CreateBucket(bell.AlarmBucket))

	table := bell.NewTable(st, testLog())
	require.NoError(t, table.Load())
	for i, a := range alarms {
		require.NoError(t, table.SaveAlarm(i, a))
	}

	f := &fixture{
		table:  table,
		clk:    &clock.Mock{Reading: monday()},
		beep:   &fakeBeeper{},
		ringer: &fakeRinger{},
		store:  st,
	}
	f.engine = bell.NewEngine(st, table, bell.DefaultSettings(), f.ringer, testLog())
	f.engine.Tick(f.clk.Reading)
	f.editor = New(f.engine, table, f.clk, f.beep, testLog())
	return f
}

// press feeds a single button edge.
func (f *fixture) press(b string) {
	var in Input
	switch b {
	case "mode":
		in.Mode = true
	case "next":
		in.Next = true
	case "inc":
		in.Inc = true
	case "dec":
		in.Dec = true
	}
	f.editor.Handle(in)
}

func (f *fixture) pressN(b string, n int) {
	for i := 0; i < n; i++ {
		f.press(b)
	}
}

func TestModeCycle(t *testing.T) {
	f := newFixture(t)
	want := []Mode{ModeSetTime, ModeSetDuration, ModeSetAlarm, ModeSetWeekend, ModeNormal}
	for _, m := range want {
		f.press("mode")
		require.Equal(t, m, f.editor.Mode())
	}
}

func TestEveryAcceptedPressBeeps(t *testing.T) {
	f := newFixture(t)
	f.press("mode")
	f.press("next")
	f.press("inc")
	f.press("dec")
	require.Len(t, f.beep.pulses, 4)
}

func TestDurationEditWraps(t *testing.T) {
	f := newFixture(t)
	f.pressN("mode", 2) // SetDuration
	require.Equal(t, ModeSetDuration, f.editor.Mode())

	f.press("inc")
	require.Equal(t, 4, f.engine.Settings().BellDuration)

	// The change is persisted immediately.
	s, err := bell.LoadSettings(f.store, testLog())
	require.NoError(t, err)
	require.Equal(t, 4, s.BellDuration)

	require.NoError(t, f.engine.SetBellDuration(bell.MaxBellDuration))
	f.press("inc")
	require.Equal(t, bell.MinBellDuration, f.engine.Settings().BellDuration)
	f.press("dec")
	require.Equal(t, bell.MaxBellDuration, f.engine.Settings().BellDuration)
}

func TestWeekendEditWraps(t *testing.T) {
	f := newFixture(t)
	f.pressN("mode", 4) // SetWeekend
	require.Equal(t, ModeSetWeekend, f.editor.Mode())

	f.press("inc") // 6 -> 7
	require.Equal(t, clock.Saturday, f.engine.Settings().WeekendDay)
	f.press("inc") // 7 wraps to 1
	require.Equal(t, clock.Sunday, f.engine.Settings().WeekendDay)

	s, err := bell.LoadSettings(f.store, testLog())
	require.NoError(t, err)
	require.Equal(t, clock.Sunday, s.WeekendDay)
}

func TestAlarmEntryDefaultsAndCommit(t *testing.T) {
	f := newFixture(t)
	f.pressN("mode", 3) // SetAlarm
	require.Equal(t, ModeSetAlarm, f.editor.Mode())
	require.Equal(t, bell.Alarm{Hour: 8}, f.editor.draft, "empty table edits start at 08:00")

	f.press("next") // hour field
	f.press("inc")  // 09:00
	f.press("next") // minute field
	f.pressN("inc", 5)
	f.press("next") // past last field: commit

	require.Equal(t, 1, f.table.Count())
	require.Equal(t, bell.Alarm{Hour: 9, Minute: 5}, f.table.ReadAlarm(0))
	require.Equal(t, 1, f.editor.slot, "editing advances to the next slot")
	require.Equal(t, 0, f.editor.field)
	require.Equal(t, bell.Alarm{Hour: 8}, f.editor.draft)
}

func TestAlarmEntryStartsAtStoredAlarm(t *testing.T) {
	f := newFixture(t, bell.Alarm{Hour: 7, Minute: 45}, bell.Alarm{Hour: 13, Minute: 5})
	f.pressN("mode", 3)
	require.Equal(t, 0, f.editor.slot)
	require.Equal(t, bell.Alarm{Hour: 7, Minute: 45}, f.editor.draft)

	f.press("inc") // slot field selected: move to slot 1
	require.Equal(t, bell.Alarm{Hour: 13, Minute: 5}, f.editor.draft)

	f.pressN("dec", 2) // wrap backwards past slot 0
	require.Equal(t, bell.MaxAlarms-1, f.editor.slot)
	require.Equal(t, bell.Alarm{Hour: 8}, f.editor.draft, "slots beyond the count edit as 08:00")
}

func TestTimeEditWritesThroughToClock(t *testing.T) {
	f := newFixture(t)
	f.press("mode") // SetTime, day field
	f.press("inc")  // day +1: Monday -> Tuesday

	require.NotEmpty(t, f.clk.SetLog)
	r, ok := f.engine.LastReading()
	require.True(t, ok)
	require.Equal(t, clock.Tuesday, r.Weekday, "the engine adopts the edited time at once")

	f.press("next") // hour field
	f.press("inc")
	r, _ = f.engine.LastReading()
	require.Equal(t, 8, r.Hour)

	f.press("next") // minute field
	f.press("dec")
	r, _ = f.engine.LastReading()
	require.Equal(t, 29, r.Minute)
}

func TestFactoryResetGesture(t *testing.T) {
	f := newFixture(t, bell.Alarm{Hour: 7, Minute: 30})
	f.engine.Tick(clock.FromTime(time.Date(2025, 9, 15, 7, 30, 0, 0, time.Local)))
	require.True(t, f.ringer.on, "alarm fired before the reset")

	f.press("mode") // user is somewhere in the menus
	f.editor.Handle(Input{ModeNextHeld: 3 * time.Second})
	require.Equal(t, 1, f.table.Count(), "short holds do nothing")

	f.editor.Handle(Input{ModeNextHeld: ResetHold})
	require.Zero(t, f.table.Count())
	require.False(t, f.ringer.on, "reset forces the bell off")
	require.Equal(t, ModeNormal, f.editor.Mode())
	require.Contains(t, f.beep.pulses, confirmBeep)

	// Still holding: the reset must not retrigger.
	beeps := len(f.beep.pulses)
	f.editor.Handle(Input{ModeNextHeld: ResetHold + time.Second})
	require.Len(t, f.beep.pulses, beeps)

	// Edges are swallowed until both buttons are released.
	f.editor.Handle(Input{Mode: true, ModeNextHeld: ResetHold + 2*time.Second})
	require.Equal(t, ModeNormal, f.editor.Mode())

	f.editor.Handle(Input{})
	f.press("mode")
	require.Equal(t, ModeSetTime, f.editor.Mode())
}
