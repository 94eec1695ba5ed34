// Package display abstracts the two-line character display. The controller
// only ever writes whole lines; rendering decisions live with the caller.
package display

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Width is the column count of the attached display.
const Width = 16

// Rows on the panel.
const Rows = 2

type Display interface {
	// WriteLine replaces the text of one row (0 or 1). Text is padded or
	// truncated to the panel width.
	WriteLine(row int, text string) error
	Clear() error
	Close() error
}

// LogDisplay writes lines to the log instead of hardware. Used in dev mode.
type LogDisplay struct {
	log *logrus.Entry
}

func NewLogDisplay(log *logrus.Entry) *LogDisplay {
	return &LogDisplay{log: log}
}

func (d *LogDisplay) WriteLine(row int, text string) error {
	d.log.WithField("row", row).Info(text)
	return nil
}

func (d *LogDisplay) Clear() error { return nil }
func (d *LogDisplay) Close() error { return nil }

// Mock records the last text written to each row.
type Mock struct {
	mu    sync.Mutex
	Lines [Rows]string
}

func (m *Mock) WriteLine(row int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row >= 0 && row < Rows {
		m.Lines[row] = text
	}
	return nil
}

func (m *Mock) Line(row int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Lines[row]
}

func (m *Mock) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Lines {
		m.Lines[i] = ""
	}
	return nil
}

func (m *Mock) Close() error { return nil }
