package console

import "feo/regs"

// PL011 register offsets.
const (
	PL011DR = 0x000
	PL011FR = 0x018
)

// PL011 flag register bits.
const (
	FrBusy = 1 << 3
	FrRXFE = 1 << 4 // receive FIFO empty
	FrTXFF = 1 << 5 // transmit FIFO full
)

// PL011 is an ARM PrimeCell UART, the port the M0 side of the SoC sees.
type PL011 struct {
	r  regs.Block
	lr lineReader
}

// NewPL011 returns a driver for an already configured PL011.
func NewPL011(r regs.Block, maxLine int) *PL011 {
	return &PL011{r: r, lr: lineReader{max: maxLine}}
}

func (u *PL011) putByte(b byte) {
	for regs.IsSet(u.r, PL011FR, FrTXFF) {
	}
	u.r.Write32(PL011DR, uint32(b))
}

func (u *PL011) getByte() byte {
	for regs.IsSet(u.r, PL011FR, FrRXFE) {
	}
	// upper DR bits carry the receive error flags
	return byte(u.r.Read32(PL011DR))
}

// Write sends p, waiting while the transmit FIFO is full.
func (u *PL011) Write(p []byte) (int, error) {
	return writeAll(u, p)
}

// ReadLine implements Console.
func (u *PL011) ReadLine() (string, error) {
	return u.lr.readLine(u)
}

// Flush waits until the last byte has left the shift register.
func (u *PL011) Flush() {
	for regs.IsSet(u.r, PL011FR, FrBusy) {
	}
}
