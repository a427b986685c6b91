package console

import "feo/regs"

// NS16550 register offsets with the 4-byte register stride used on RK3399.
const (
	UartRBR = 0x00 // receive buffer (read)
	UartTHR = 0x00 // transmit holding (write)
	UartFCR = 0x08
	UartLSR = 0x14
)

const (
	LsrDataReady = 1 << 0
	LsrTHREmpty  = 1 << 5

	FcrFIFOEnable = 1 << 0
	FcrRxReset    = 1 << 1
)

// NS16550 is a 16550-compatible UART. Line settings are inherited from the
// boot loader; only the FIFOs are reset.
type NS16550 struct {
	r  regs.Block
	lr lineReader
}

// NewNS16550 enables the FIFOs, drops pending receive data and returns the
// driver. maxLine bounds ReadLine; 0 selects DefaultMaxLine.
func NewNS16550(r regs.Block, maxLine int) *NS16550 {
	r.Write32(UartFCR, FcrFIFOEnable|FcrRxReset)
	return &NS16550{r: r, lr: lineReader{max: maxLine}}
}

func (u *NS16550) putByte(b byte) {
	for !regs.IsSet(u.r, UartLSR, LsrTHREmpty) {
	}
	u.r.Write32(UartTHR, uint32(b))
}

func (u *NS16550) getByte() byte {
	for !regs.IsSet(u.r, UartLSR, LsrDataReady) {
	}
	return byte(u.r.Read32(UartRBR))
}

// Write sends p, waiting for room before every byte.
func (u *NS16550) Write(p []byte) (int, error) {
	return writeAll(u, p)
}

// ReadLine implements Console.
func (u *NS16550) ReadLine() (string, error) {
	return u.lr.readLine(u)
}
