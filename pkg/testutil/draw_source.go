package testutil

// MockDrawSource replaces the cryptographic index source of a draw with a
// scripted one. Without a script it always picks index zero.
type MockDrawSource struct {
	IntnFunc func(n int) int
}

func (m *MockDrawSource) Intn(n int) int {
	if m.IntnFunc != nil {
		return m.IntnFunc(n)
	}

	return 0
}
