package bell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableSaveAndRead(t *testing.T) {
	st := newTestStore(t)
	tb := NewTable(st, testLog())
	require.NoError(t, tb.Load())
	require.Zero(t, tb.Count())

	require.NoError(t, tb.SaveAlarm(0, Alarm{Hour: 8, Minute: 0}))
	require.NoError(t, tb.SaveAlarm(1, Alarm{Hour: 9, Minute: 30}))
	require.Equal(t, 2, tb.Count())
	require.Equal(t, Alarm{Hour: 9, Minute: 30}, tb.ReadAlarm(1))

	// Out-of-range reads are "unset", not errors.
	require.Equal(t, Alarm{}, tb.ReadAlarm(2))
	require.Equal(t, Alarm{}, tb.ReadAlarm(-1))
	require.Equal(t, Alarm{}, tb.ReadAlarm(MaxAlarms+5))
}

func TestTableSparseSaveExtendsCount(t *testing.T) {
	st := newTestStore(t)
	tb := NewTable(st, testLog())
	require.NoError(t, tb.Load())
	require.NoError(t, tb.SaveAlarm(0, Alarm{Hour: 8}))
	require.NoError(t, tb.SaveAlarm(1, Alarm{Hour: 9}))

	// Saving at index 4 when count is 2 jumps the count to 5; the skipped
	// slots read as zero-initialized.
	require.NoError(t, tb.SaveAlarm(4, Alarm{Hour: 12, Minute: 15}))
	require.Equal(t, 5, tb.Count())
	require.Equal(t, Alarm{}, tb.ReadAlarm(2))
	require.Equal(t, Alarm{}, tb.ReadAlarm(3))
	require.Equal(t, Alarm{Hour: 12, Minute: 15}, tb.ReadAlarm(4))
}

func TestTablePersistsAcrossLoad(t *testing.T) {
	st := newTestStore(t)
	tb := NewTable(st, testLog())
	require.NoError(t, tb.Load())
	require.NoError(t, tb.SaveAlarm(0, Alarm{Hour: 7, Minute: 45}))
	require.NoError(t, tb.SaveAlarm(1, Alarm{Hour: 13, Minute: 5}))

	reloaded := NewTable(st, testLog())
	require.NoError(t, reloaded.Load())
	require.Equal(t, 2, reloaded.Count())
	require.Equal(t, Alarm{Hour: 7, Minute: 45}, reloaded.ReadAlarm(0))
	require.Equal(t, Alarm{Hour: 13, Minute: 5}, reloaded.ReadAlarm(1))
}

func TestTableCorruptCountResets(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Put(AlarmBucket, countID, &countRecord{Count: MaxAlarms + 10}))

	tb := NewTable(st, testLog())
	require.NoError(t, tb.Load())
	require.Zero(t, tb.Count())

	var c countRecord
	require.NoError(t, st.Get(AlarmBucket, countID, &c))
	require.Zero(t, c.Count, "clamped count must be rewritten")
}

func TestTableCorruptSlotReadsUnset(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Put(AlarmBucket, countID, &countRecord{Count: 1}))
	require.NoError(t, st.Put(AlarmBucket, slotID(0), &Alarm{Hour: 77, Minute: 99}))

	tb := NewTable(st, testLog())
	require.NoError(t, tb.Load())
	require.Equal(t, 1, tb.Count())
	require.Equal(t, Alarm{}, tb.ReadAlarm(0))
}

func TestTableSaveValidation(t *testing.T) {
	st := newTestStore(t)
	tb := NewTable(st, testLog())
	require.NoError(t, tb.Load())

	require.Error(t, tb.SaveAlarm(MaxAlarms, Alarm{Hour: 8}))
	require.Error(t, tb.SaveAlarm(-1, Alarm{Hour: 8}))
	require.Error(t, tb.SaveAlarm(0, Alarm{Hour: 24}))
	require.Error(t, tb.SaveAlarm(0, Alarm{Minute: 60}))
	require.Zero(t, tb.Count())
}

func TestTableReset(t *testing.T) {
	st := newTestStore(t)
	tb := NewTable(st, testLog())
	require.NoError(t, tb.Load())
	require.NoError(t, tb.SaveAlarm(0, Alarm{Hour: 8}))
	require.NoError(t, tb.SaveAlarm(1, Alarm{Hour: 9}))

	require.NoError(t, tb.Reset())
	require.Zero(t, tb.Count())
	require.Equal(t, Alarm{}, tb.ReadAlarm(0))

	reloaded := NewTable(st, testLog())
	require.NoError(t, reloaded.Load())
	require.Zero(t, reloaded.Count())
}
