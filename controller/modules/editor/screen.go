package editor

import (
	"fmt"

	"github.com/AhmedHSaeed/Auto-Bell/controller/modules/bell"
)

var dayNames = [8]string{"", "SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// Screen renders the two display lines for the current mode. In edit modes
// the selected field is blanked while blinkOn is false, producing the
// blinking placeholder. Padding to panel width is the display's job.
func (ed *Editor) Screen(blinkOn bool) [2]string {
	switch ed.mode {
	case ModeSetTime:
		return ed.setTimeScreen(blinkOn)
	case ModeSetDuration:
		return ed.setDurationScreen(blinkOn)
	case ModeSetAlarm:
		return ed.setAlarmScreen(blinkOn)
	case ModeSetWeekend:
		return ed.setWeekendScreen(blinkOn)
	default:
		return ed.normalScreen()
	}
}

func (ed *Editor) normalScreen() [2]string {
	r, ok := ed.engine.LastReading()
	line1 := "--:--:-- ---"
	if ok {
		line1 = fmt.Sprintf("%02d:%02d:%02d %s", r.Hour, r.Minute, r.Second, dayNames[r.Weekday])
	}
	line2 := ""
	switch {
	case ed.notice != "" && ed.nowFn().Before(ed.noticeUntil):
		line2 = ed.notice
	case ed.engine.BellActive():
		line2 = "* BELL *"
	default:
		if next, hasNext := ed.engine.Next(); hasNext {
			line2 = "Next bell " + next.String()
		} else if ok && bell.IsWeekend(r.Weekday, ed.engine.Settings().WeekendDay) {
			line2 = "Weekend"
		} else {
			line2 = "No bells set"
		}
	}
	return [2]string{line1, line2}
}

func (ed *Editor) setTimeScreen(blinkOn bool) [2]string {
	r, _ := ed.engine.LastReading()
	day := dayNames[r.Weekday]
	hour := fmt.Sprintf("%02d", r.Hour)
	minute := fmt.Sprintf("%02d", r.Minute)
	if !blinkOn {
		switch ed.field {
		case timeFieldDay:
			day = "___"
		case timeFieldHour:
			hour = "__"
		case timeFieldMinute:
			minute = "__"
		}
	}
	return [2]string{"Set time", fmt.Sprintf("%s %s:%s", day, hour, minute)}
}

func (ed *Editor) setDurationScreen(blinkOn bool) [2]string {
	val := fmt.Sprintf("%02d", ed.engine.Settings().BellDuration)
	if !blinkOn {
		val = "__"
	}
	return [2]string{"Bell duration", val + " sec"}
}

func (ed *Editor) setAlarmScreen(blinkOn bool) [2]string {
	slot := fmt.Sprintf("%02d", ed.slot+1)
	hour := fmt.Sprintf("%02d", ed.draft.Hour)
	minute := fmt.Sprintf("%02d", ed.draft.Minute)
	if !blinkOn {
		switch ed.field {
		case alarmFieldSlot:
			slot = "__"
		case alarmFieldHour:
			hour = "__"
		case alarmFieldMinute:
			minute = "__"
		}
	}
	line1 := fmt.Sprintf("Alarm %s/%02d", slot, ed.table.Count())
	return [2]string{line1, fmt.Sprintf("%s:%s", hour, minute)}
}

func (ed *Editor) setWeekendScreen(blinkOn bool) [2]string {
	sel := ed.engine.Settings().WeekendDay
	val := dayNames[sel]
	if sel == bell.WeekendFriSat {
		val = "FRI+SAT"
	}
	if !blinkOn {
		val = "___"
	}
	return [2]string{"Weekend day", val}
}
