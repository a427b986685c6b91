package regs

import "sync"

// Op tells reads from writes in the access log.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
)

func (o Op) String() string {
	if o == OpWrite {
		return "W"
	}
	return "R"
}

// Access is one logged register access. For writes Value is what the caller
// wrote, before any hook rewrote it.
type Access struct {
	Op    Op
	Off   uint32
	Value uint32
}

// WriteHook decides what a register holds after a write. It receives the
// previous content and the written value.
type WriteHook func(old, v uint32) uint32

// ReadHook produces the value seen by a read from the stored content.
type ReadHook func(stored uint32) uint32

// Sim is a software register block for hosted tests and simulation. Plain
// offsets behave like RAM; hooks model side effects such as write-1-to-clear
// status registers or self-clearing command bits.
type Sim struct {
	mu      sync.Mutex
	mem     map[uint32]uint32
	onWrite map[uint32]WriteHook
	onRead  map[uint32]ReadHook
	log     []Access
	logging bool
}

// NewSim returns an empty simulated block with access logging enabled.
func NewSim() *Sim {
	return &Sim{
		mem:     make(map[uint32]uint32),
		onWrite: make(map[uint32]WriteHook),
		onRead:  make(map[uint32]ReadHook),
		logging: true,
	}
}

// OnWrite installs a write hook for off, replacing any previous one.
func (s *Sim) OnWrite(off uint32, h WriteHook) {
	s.mu.Lock()
	s.onWrite[off] = h
	s.mu.Unlock()
}

// OnRead installs a read hook for off, replacing any previous one.
func (s *Sim) OnRead(off uint32, h ReadHook) {
	s.mu.Lock()
	s.onRead[off] = h
	s.mu.Unlock()
}

// Read32 implements Block.
func (s *Sim) Read32(off uint32) uint32 {
	s.mu.Lock()
	v := s.mem[off]
	h := s.onRead[off]
	s.mu.Unlock()
	if h != nil {
		v = h(v)
	}
	s.record(Access{OpRead, off, v})
	return v
}

// Write32 implements Block. Hooks run outside the lock so they may access the
// block themselves through Peek and Poke.
func (s *Sim) Write32(off uint32, v uint32) {
	s.record(Access{OpWrite, off, v})
	s.mu.Lock()
	h := s.onWrite[off]
	old := s.mem[off]
	s.mu.Unlock()
	if h != nil {
		v = h(old, v)
	}
	s.Poke(off, v)
}

// Peek returns stored content without running hooks or logging.
func (s *Sim) Peek(off uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mem[off]
}

// Poke stores v without running hooks or logging. This is the device side of
// the register: simulated hardware uses it to latch status.
func (s *Sim) Poke(off uint32, v uint32) {
	s.mu.Lock()
	s.mem[off] = v
	s.mu.Unlock()
}

// SetLogging turns access logging on or off.
func (s *Sim) SetLogging(on bool) {
	s.mu.Lock()
	s.logging = on
	s.mu.Unlock()
}

// Accesses returns a copy of the access log.
func (s *Sim) Accesses() []Access {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Access, len(s.log))
	copy(out, s.log)
	return out
}

// Count returns how many logged accesses of kind op touched off.
func (s *Sim) Count(op Op, off uint32) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.log {
		if a.Op == op && a.Off == off {
			n++
		}
	}
	return n
}

// ResetLog drops the access log.
func (s *Sim) ResetLog() {
	s.mu.Lock()
	s.log = s.log[:0]
	s.mu.Unlock()
}

func (s *Sim) record(a Access) {
	s.mu.Lock()
	if s.logging {
		s.log = append(s.log, a)
	}
	s.mu.Unlock()
}
