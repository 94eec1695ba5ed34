package bell

import (
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/AhmedHSaeed/Auto-Bell/controller/storage"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := storage.NewStore(filepath.Join(t.TempDir(), "bell.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.CreateBucket(Bucket))
	require.NoError(t, s.CreateBucket(AlarmBucket))
	return s
}

// mockRinger counts relay transitions.
type mockRinger struct {
	mu   sync.Mutex
	on   bool
	ons  int
	offs int
}

func (m *mockRinger) On() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.on = true
	m.ons++
	return nil
}

func (m *mockRinger) Off() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.on = false
	m.offs++
	return nil
}

func (m *mockRinger) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ons, m.offs
}
