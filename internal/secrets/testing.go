package secrets

import "errors"

// MockBackend is an in-memory Backend for tests.
type MockBackend struct {
	items map[string]string
	// Err, when set, is returned by every operation. Simulates a broken
	// backend.
	Err error
}

// NewMockBackend creates an empty in-memory backend.
// Exported for use in tests outside the secrets package.
func NewMockBackend() *MockBackend {
	return &MockBackend{items: make(map[string]string)}
}

func (m *MockBackend) Store(key, value string) error {
	if m.Err != nil {
		return m.Err
	}
	m.items[key] = value
	return nil
}

func (m *MockBackend) Retrieve(key string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	value, ok := m.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MockBackend) Delete(key string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.items, key)
	return nil
}

// Len reports how many secrets the mock holds.
func (m *MockBackend) Len() int {
	return len(m.items)
}

// ErrBackendUnavailable is a reusable probe failure for tests.
var ErrBackendUnavailable = errors.New("backend unavailable")

// UnavailableOpener is a Chain primary opener that always fails.
// It counts invocations so tests can assert the probe is cached.
type UnavailableOpener struct {
	Calls int
}

func (u *UnavailableOpener) Open() (Backend, error) {
	u.Calls++
	return nil, ErrBackendUnavailable
}
