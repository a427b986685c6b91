package rki2csim

import "sync"

// Memory is a register-file slave: the first byte written after addressing
// sets the register pointer, further bytes are stored and auto-increment it,
// reads return from the pointer and auto-increment it.
type Memory struct {
	mu      sync.Mutex
	regs    [256]byte
	ptr     uint8
	wantPtr bool

	// OnWrite, if set, observes every stored byte.
	OnWrite func(reg, val byte)
	// Refuse, if set, refuses a written byte when it returns true.
	Refuse func(reg, val byte) bool
}

// NewMemory returns a register file filled with fill.
func NewMemory(fill byte) *Memory {
	m := &Memory{}
	for i := range m.regs {
		m.regs[i] = fill
	}
	return m
}

// Start implements Device.
func (m *Memory) Start(read bool) {
	m.mu.Lock()
	m.wantPtr = !read
	m.mu.Unlock()
}

// WriteByte implements Device.
func (m *Memory) WriteByte(b byte) bool {
	m.mu.Lock()
	if m.wantPtr {
		m.ptr = b
		m.wantPtr = false
		m.mu.Unlock()
		return true
	}
	reg := m.ptr
	refuse := m.Refuse
	m.mu.Unlock()

	if refuse != nil && refuse(reg, b) {
		return false
	}

	m.mu.Lock()
	m.regs[reg] = b
	m.ptr++
	hook := m.OnWrite
	m.mu.Unlock()

	if hook != nil {
		hook(reg, b)
	}
	return true
}

// ReadByte implements Device.
func (m *Memory) ReadByte() byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.regs[m.ptr]
	m.ptr++
	return b
}

// Stop implements Device.
func (m *Memory) Stop() {}

// Get returns register reg without bus traffic.
func (m *Memory) Get(reg byte) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[reg]
}

// Set stores val at reg without bus traffic.
func (m *Memory) Set(reg, val byte) {
	m.mu.Lock()
	m.regs[reg] = val
	m.mu.Unlock()
}

// Load copies data into consecutive registers starting at reg.
func (m *Memory) Load(reg byte, data []byte) {
	m.mu.Lock()
	for _, b := range data {
		m.regs[reg] = b
		reg++
	}
	m.mu.Unlock()
}
