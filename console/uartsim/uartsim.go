// Package uartsim simulates the register side of the console UARTs so the
// drivers can run hosted. Transmitted bytes go to an io.Writer, received
// bytes come from a queue fed by the test or the host tool.
package uartsim

import (
	"io"
	"sync"

	"feo/console"
	"feo/regs"
)

// UART is a simulated NS16550 or PL011. It is a regs.Block.
type UART struct {
	*regs.Sim

	mu  sync.Mutex
	out io.Writer
	rx  []byte
	fcr []uint32
}

// NewNS16550 returns a simulated 16550 whose transmitter is always ready.
func NewNS16550(out io.Writer) *UART {
	u := &UART{Sim: regs.NewSim(), out: out}
	u.OnWrite(console.UartTHR, u.transmit)
	u.OnRead(console.UartRBR, func(uint32) uint32 { return uint32(u.pop()) })
	u.OnRead(console.UartLSR, func(uint32) uint32 {
		v := uint32(console.LsrTHREmpty)
		if u.pending() {
			v |= console.LsrDataReady
		}
		return v
	})
	u.OnWrite(console.UartFCR, func(_, v uint32) uint32 {
		u.mu.Lock()
		u.fcr = append(u.fcr, v)
		if v&console.FcrRxReset != 0 {
			u.rx = nil
		}
		u.mu.Unlock()
		// FCR is write-only; the offset reads back as IIR
		return 0
	})
	return u
}

// NewPL011 returns a simulated PL011 whose transmit FIFO never fills.
func NewPL011(out io.Writer) *UART {
	u := &UART{Sim: regs.NewSim(), out: out}
	u.OnWrite(console.PL011DR, u.transmit)
	u.OnRead(console.PL011DR, func(uint32) uint32 { return uint32(u.pop()) })
	u.OnRead(console.PL011FR, func(uint32) uint32 {
		if u.pending() {
			return 0
		}
		return console.FrRXFE
	})
	return u
}

func (u *UART) transmit(_, v uint32) uint32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.out != nil {
		u.out.Write([]byte{byte(v)})
	}
	return v
}

func (u *UART) pending() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.rx) > 0
}

func (u *UART) pop() byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.rx) == 0 {
		return 0
	}
	b := u.rx[0]
	u.rx = u.rx[1:]
	return b
}

// Feed queues data as if it arrived on the receive line.
func (u *UART) Feed(data string) {
	u.mu.Lock()
	u.rx = append(u.rx, data...)
	u.mu.Unlock()
}

// FIFOControl returns every value written to FCR.
func (u *UART) FIFOControl() []uint32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]uint32(nil), u.fcr...)
}
