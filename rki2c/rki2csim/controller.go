// Package rki2csim simulates an RK3x I2C controller and the slaves wired to
// it, behind the same register map the driver programs. It lets the engine
// run hosted, with faults injected at chosen phases.
package rki2csim

import (
	"sync"

	"feo/regs"
	"feo/rki2c"
)

// Device is a slave on the simulated bus, driven one byte at a time.
type Device interface {
	// Start is called when the device acknowledges its address.
	Start(read bool)
	// WriteByte receives one byte from the master. Returning false refuses it.
	WriteByte(b byte) bool
	// ReadByte supplies the next byte to the master.
	ReadByte() byte
	// Stop is called on the stop condition that ends the device's transaction.
	Stop()
}

// Controller is a simulated controller. It is a regs.Block; hand it to
// rki2c.Open.
type Controller struct {
	*regs.Sim

	mu         sync.Mutex
	devices    map[uint8]Device
	events     []Event
	violations []string

	started  bool
	active   Device
	rxWindow int

	// StallStart keeps the start condition from ever completing.
	StallStart bool
	// StallStop keeps the stop condition from ever completing.
	StallStop bool
	// StallTransmit keeps a triggered send from ever completing.
	StallTransmit bool
	// StallReceive keeps a triggered receive window from ever completing.
	StallReceive bool
	// RefuseWindow makes the slave refuse on that receive window index
	// (counted from zero since the last start). Negative disables it.
	RefuseWindow int
}

// New returns an idle controller with no devices attached.
func New() *Controller {
	c := &Controller{
		Sim:          regs.NewSim(),
		devices:      make(map[uint8]Device),
		RefuseWindow: -1,
	}

	c.OnWrite(rki2c.RegIPD, func(old, v uint32) uint32 { return old &^ v })
	c.OnWrite(rki2c.RegCON, c.writeCON)
	c.OnWrite(rki2c.RegMTXCNT, c.writeMTXCNT)
	c.OnWrite(rki2c.RegMRXCNT, c.writeMRXCNT)
	return c
}

// Attach wires d to the 7-bit address addr.
func (c *Controller) Attach(addr uint8, d Device) {
	c.mu.Lock()
	c.devices[addr&0x7f] = d
	c.mu.Unlock()
}

// Detach removes the device at addr.
func (c *Controller) Detach(addr uint8) {
	c.mu.Lock()
	delete(c.devices, addr&0x7f)
	c.mu.Unlock()
}

// Events returns a copy of the bus event log.
func (c *Controller) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// ResetEvents drops the bus event log and the register access log.
func (c *Controller) ResetEvents() {
	c.mu.Lock()
	c.events = c.events[:0]
	c.violations = c.violations[:0]
	c.mu.Unlock()
	c.ResetLog()
}

// Violations lists protocol misuse the controller observed, such as
// triggering a receive outside TRX mode.
func (c *Controller) Violations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.violations))
	copy(out, c.violations)
	return out
}

// Idle reports whether the bus is released and the controller disabled.
func (c *Controller) Idle() bool {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()
	return !started && c.Peek(rki2c.RegCON)&rki2c.ConEnable == 0
}

func (c *Controller) latch(flag uint32) {
	c.Poke(rki2c.RegIPD, c.Peek(rki2c.RegIPD)|flag)
}

// log appends events; callers hold c.mu.
func (c *Controller) log(e ...Event) {
	c.events = append(c.events, e...)
}

func (c *Controller) violate(msg string) {
	c.violations = append(c.violations, msg)
}

func (c *Controller) writeCON(old, v uint32) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v&rki2c.ConEnable == 0 {
		// a disabled controller lets go of SDA and SCL
		if c.started {
			c.log(Event{Kind: EvRelease})
		}
		c.started = false
		c.active = nil
		return v
	}

	if v&rki2c.ConStart != 0 && !c.StallStart {
		if c.active != nil {
			c.violate("start while a device is still addressed")
		}
		c.started = true
		c.active = nil
		c.rxWindow = 0
		c.log(Event{Kind: EvStart})
		c.latch(rki2c.IntStart)
		v &^= rki2c.ConStart
	}

	if v&rki2c.ConStop != 0 && !c.StallStop {
		// A stop on an idle bus completes without touching any device.
		if c.started {
			if c.active != nil {
				c.active.Stop()
			}
			c.log(Event{Kind: EvStop})
		}
		c.started = false
		c.active = nil
		c.latch(rki2c.IntStop)
		v &^= rki2c.ConStop
	}
	return v
}

func (c *Controller) writeMTXCNT(old, v uint32) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	con := c.Peek(rki2c.RegCON)
	switch {
	case !c.started || con&rki2c.ConEnable == 0:
		c.violate("transmit without start")
		return v
	case rki2c.ConMode.Get(con) != rki2c.ModeTX:
		c.violate("transmit outside TX mode")
	}
	if c.StallTransmit {
		return v
	}

	n := int(rki2c.CountField.Get(v))
	if n == 0 || n > rki2c.WindowSize {
		c.violate("transmit count out of range")
		return v
	}

	frame := make([]byte, n)
	for i := range frame {
		frame[i] = byte(c.Peek(rki2c.TxData(i/4)) >> (uint(i%4) * 8))
	}

	c.log(Event{Kind: EvAddress, Byte: frame[0]})
	dev := c.devices[frame[0]>>1]
	if dev == nil || frame[0]&1 != 0 {
		c.refuse()
		return v
	}
	dev.Start(false)
	c.active = dev

	for _, b := range frame[1:] {
		c.log(Event{Kind: EvWrite, Byte: b})
		if !dev.WriteByte(b) {
			c.refuse()
			return v
		}
	}
	c.latch(rki2c.IntMasterTxDone)
	return v
}

func (c *Controller) writeMRXCNT(old, v uint32) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	con := c.Peek(rki2c.RegCON)
	switch {
	case !c.started || con&rki2c.ConEnable == 0:
		c.violate("receive without start")
		return v
	case rki2c.ConMode.Get(con) != rki2c.ModeTRX:
		c.violate("receive outside TRX mode")
	}
	if c.StallReceive {
		return v
	}

	n := int(rki2c.CountField.Get(v))
	if n == 0 || n > rki2c.WindowSize {
		c.violate("receive count out of range")
		return v
	}

	if c.rxWindow == 0 && !c.address() {
		return v
	}
	if c.active == nil {
		c.violate("receive after the read was ended")
		return v
	}

	window := c.rxWindow
	c.rxWindow++
	if window == c.RefuseWindow {
		c.refuse()
		return v
	}

	var words [rki2c.WindowSlots]uint32
	for i := 0; i < n; i++ {
		b := c.active.ReadByte()
		c.log(Event{Kind: EvRead, Byte: b})
		words[i/4] |= uint32(b) << (uint(i%4) * 8)
	}
	for i, w := range words {
		c.Poke(rki2c.RxData(i), w)
	}

	if con&rki2c.ConAck != 0 {
		// master refused the last byte, the slave is done talking
		c.log(Event{Kind: EvMasterNak})
		c.active.Stop()
		c.active = nil
	}
	c.latch(rki2c.IntMasterRxDone)
	return v
}

// address runs the TRX addressing phase: address with the write bit, the
// optional sub-register byte, repeated start, address with the read bit.
func (c *Controller) address() bool {
	a := c.Peek(rki2c.RegMRXADDR)
	if a&rki2c.AddrValid == 0 {
		c.violate("receive with invalid MRXADDR")
	}
	addr := byte(rki2c.AddrField.Get(a)) >> 1
	dev := c.devices[addr]

	if r := c.Peek(rki2c.RegMRXRADDR); r&rki2c.AddrValid != 0 {
		c.log(Event{Kind: EvAddress, Byte: addr << 1})
		if dev == nil {
			c.refuse()
			return false
		}
		dev.Start(false)
		sub := byte(rki2c.AddrField.Get(r))
		c.log(Event{Kind: EvWrite, Byte: sub})
		if !dev.WriteByte(sub) {
			c.refuse()
			return false
		}
		c.log(Event{Kind: EvStart})
	}

	c.log(Event{Kind: EvAddress, Byte: addr<<1 | 1})
	if dev == nil {
		c.refuse()
		return false
	}
	dev.Start(true)
	c.active = dev
	return true
}

func (c *Controller) refuse() {
	c.log(Event{Kind: EvNak})
	c.latch(rki2c.IntNak)
}
