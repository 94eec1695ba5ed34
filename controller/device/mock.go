package device

import "sync"

// MockInputPin is a settable hal.DigitalInputPin for tests and dev mode.
type MockInputPin struct {
	mu    sync.Mutex
	name  string
	state bool
	err   error
}

func NewMockInputPin(name string) *MockInputPin {
	return &MockInputPin{name: name, state: true} // released (active-low)
}

func (m *MockInputPin) Name() string { return m.name }
func (m *MockInputPin) Number() int  { return -1 }
func (m *MockInputPin) Close() error { return nil }

func (m *MockInputPin) Read() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.err
}

// Press pulls the (active-low) line down, Release lets it float back up.
func (m *MockInputPin) Press() {
	m.mu.Lock()
	m.state = false
	m.mu.Unlock()
}

func (m *MockInputPin) Release() {
	m.mu.Lock()
	m.state = true
	m.mu.Unlock()
}

func (m *MockInputPin) Fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// MockOutputPin records writes for tests and dev mode.
type MockOutputPin struct {
	mu     sync.Mutex
	name   string
	state  bool
	Writes int
}

func NewMockOutputPin(name string) *MockOutputPin {
	return &MockOutputPin{name: name}
}

func (m *MockOutputPin) Name() string { return m.name }
func (m *MockOutputPin) Number() int  { return -1 }
func (m *MockOutputPin) Close() error { return nil }

func (m *MockOutputPin) Write(state bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.Writes++
	return nil
}

func (m *MockOutputPin) LastState() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
