package rki2c

// Internal hooks for the external tests, which need the simulator and so
// cannot live in this package.

func (b *Bus) Terminate() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.terminate()
}

func (b *Bus) SendStart() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sendStart()
}

func (b *Bus) SendStop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sendStop()
}

var (
	PackWindow   = packWindow
	UnpackWindow = unpackWindow
	Windows      = windows
	ClockDivider = clockDivider
)
