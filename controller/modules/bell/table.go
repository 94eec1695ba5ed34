package bell

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/AhmedHSaeed/Auto-Bell/controller/storage"
)

const countID = "count"

// Alarm is one scheduled bell time.
type Alarm struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (a Alarm) String() string {
	return fmt.Sprintf("%02d:%02d", a.Hour, a.Minute)
}

type countRecord struct {
	Count int `json:"count"`
}

// Table is the ordered alarm list, persisted one record per slot. Order is
// scan order for triggering and next-bell search, not chronological order:
// alarms stay in the order the operator entered them.
type Table struct {
	store storage.Store
	log   *logrus.Entry
	count int
	slots [MaxAlarms]Alarm
}

func NewTable(st storage.Store, log *logrus.Entry) *Table {
	return &Table{store: st, log: log}
}

// Load reads the persisted count and slots. A corrupt count resets the table
// to empty; slots with impossible values read as unset.
func (t *Table) Load() error {
	var c countRecord
	err := t.store.Get(AlarmBucket, countID, &c)
	if errors.Is(err, storage.ErrNotFound) {
		t.count = 0
		return t.store.Put(AlarmBucket, countID, &countRecord{})
	}
	if err != nil {
		return fmt.Errorf("load alarm count: %w", err)
	}
	if c.Count < 0 || c.Count > MaxAlarms {
		t.log.WithField("count", c.Count).Warn("persisted alarm count out of range, resetting table")
		t.count = 0
		return t.store.Put(AlarmBucket, countID, &countRecord{})
	}
	t.count = c.Count
	for i := 0; i < t.count; i++ {
		var a Alarm
		err := t.store.Get(AlarmBucket, slotID(i), &a)
		if errors.Is(err, storage.ErrNotFound) {
			continue // never-written slot reads as 00:00
		}
		if err != nil {
			return fmt.Errorf("load alarm %d: %w", i, err)
		}
		if a.Hour < 0 || a.Hour > 23 || a.Minute < 0 || a.Minute > 59 {
			t.log.WithFields(logrus.Fields{"slot": i, "hour": a.Hour, "minute": a.Minute}).
				Warn("persisted alarm out of range, treating as unset")
			a = Alarm{}
		}
		t.slots[i] = a
	}
	return nil
}

func (t *Table) Count() int { return t.count }

// ReadAlarm returns the alarm at index i. Any index at or beyond the current
// count reads as 00:00: out-of-range is "unset", not an error.
func (t *Table) ReadAlarm(i int) Alarm {
	if i < 0 || i >= t.count {
		return Alarm{}
	}
	return t.slots[i]
}

// SaveAlarm persists the alarm at slot i. Saving at or beyond the current
// count extends the count to i+1; slots skipped over stay zero-initialized.
func (t *Table) SaveAlarm(i int, a Alarm) error {
	if i < 0 || i >= MaxAlarms {
		return fmt.Errorf("alarm index %d out of range", i)
	}
	if a.Hour < 0 || a.Hour > 23 || a.Minute < 0 || a.Minute > 59 {
		return fmt.Errorf("alarm time %02d:%02d out of range", a.Hour, a.Minute)
	}
	if err := t.store.Put(AlarmBucket, slotID(i), &a); err != nil {
		return err
	}
	t.slots[i] = a
	if i >= t.count {
		t.count = i + 1
		if err := t.store.Put(AlarmBucket, countID, &countRecord{Count: t.count}); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears the whole table. This is the only bulk-destructive operation.
func (t *Table) Reset() error {
	for i := 0; i < MaxAlarms; i++ {
		if err := t.store.Delete(AlarmBucket, slotID(i)); err != nil {
			return err
		}
		t.slots[i] = Alarm{}
	}
	t.count = 0
	return t.store.Put(AlarmBucket, countID, &countRecord{})
}

func slotID(i int) string {
	return fmt.Sprintf("%02d", i)
}
