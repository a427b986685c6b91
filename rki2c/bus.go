// Package rki2c drives the Rockchip RK3x I2C controller as a bus master.
//
// The controller is sequenced entirely through register writes and polled
// pending flags. IEN bits only select which latched flags matter for the
// current phase; nothing is delivered asynchronously. Every transaction runs
// to a terminal phase before returning and always releases the bus with a
// stop condition.
package rki2c

import (
	"sync"

	"feo/regs"

	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultPollLimit bounds the start, stop and transmit polls.
	DefaultPollLimit = 10000
	// DefaultClockRate is the controller input clock after reset firmware.
	DefaultClockRate = 100 * physic.MegaHertz
	// DefaultSpeed is standard-mode SCL.
	DefaultSpeed = 100 * physic.KiloHertz
)

// Config holds the controller tuning knobs. Zero fields take defaults.
type Config struct {
	// Name shows up in traces and String.
	Name string

	// PollLimit is the iteration ceiling for start, stop and transmit polls.
	PollLimit int

	// ReadPollLimit is the iteration ceiling for each receive window. Zero
	// means unbounded: the window poll then only exits on completion or
	// refusal, and a silent slave spins forever. A non-zero value turns a
	// silent slave into ErrTimeout.
	ReadPollLimit int

	// ClockRate is the controller input clock used to derive CLKDIV.
	ClockRate physic.Frequency

	// Speed is the requested SCL frequency.
	Speed physic.Frequency
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "rki2c"
	}
	if c.PollLimit <= 0 {
		c.PollLimit = DefaultPollLimit
	}
	if c.ReadPollLimit < 0 {
		c.ReadPollLimit = 0
	}
	if c.ClockRate == 0 {
		c.ClockRate = DefaultClockRate
	}
	if c.Speed == 0 {
		c.Speed = DefaultSpeed
	}
}

// SubAddr is an optional sub-register address sent after the slave address.
// The zero value means no sub-register.
type SubAddr struct {
	reg     uint8
	present bool
}

// NoSubAddr selects plain addressed access.
var NoSubAddr SubAddr

// At selects register reg inside the slave before the data phase.
func At(reg uint8) SubAddr {
	return SubAddr{reg: reg, present: true}
}

// Get returns the register and whether one is present.
func (s SubAddr) Get() (uint8, bool) {
	return s.reg, s.present
}

// len is the number of framing bytes the sub-register adds.
func (s SubAddr) len() int {
	if s.present {
		return 1
	}
	return 0
}

// Bus is exclusive access to one controller instance. Obtain it with Open and
// release it with Close. Transactions on one Bus are serialized internally.
type Bus struct {
	mu     sync.Mutex
	r      regs.Block
	cfg    Config
	closed bool
}

var (
	claimMu sync.Mutex
	claimed = make(map[regs.Block]bool)
)

// Open claims the controller behind b. A block can be claimed once; a second
// Open fails with ErrInUse until the first Bus is closed. The Block's dynamic
// type must be comparable.
func Open(b regs.Block, cfg Config) (*Bus, error) {
	cfg.applyDefaults()

	div, err := clockDivider(cfg.ClockRate, cfg.Speed)
	if err != nil {
		return nil, err
	}

	claimMu.Lock()
	defer claimMu.Unlock()
	if claimed[b] {
		return nil, ErrInUse
	}
	claimed[b] = true

	bus := &Bus{r: b, cfg: cfg}
	bus.disable()
	b.Write32(RegCLKDIV, div)
	return bus, nil
}

// Close disables the controller and releases the claim. Closing twice is a
// no-op.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.disable()

	claimMu.Lock()
	delete(claimed, b.r)
	claimMu.Unlock()
	return nil
}

// String returns the configured bus name.
func (b *Bus) String() string {
	return b.cfg.Name
}

// ReadFrom reads len(dst) bytes from the 7-bit slave addr, selecting sub
// first when present. It returns len(dst) on success.
func (b *Bus) ReadFrom(addr uint8, sub SubAddr, dst []byte) (int, error) {
	if addr > 0x7f {
		return 0, ErrInvalidAddress
	}
	if len(dst) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, ErrClosed
	}
	return b.readFrom(addr, sub, dst)
}

// WriteTo writes src to the 7-bit slave addr, selecting sub first when
// present. The whole frame (address, sub-register, payload) must fit one
// transfer window. On success it returns the frame length, not the payload
// length: len(src) plus one address byte plus one byte if sub is present.
func (b *Bus) WriteTo(addr uint8, sub SubAddr, src []byte) (int, error) {
	if addr > 0x7f {
		return 0, ErrInvalidAddress
	}
	if 1+sub.len()+len(src) > WindowSize {
		return 0, ErrFrameTooLong
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, ErrClosed
	}
	return b.writeTo(addr, sub, src)
}
