package rki2c

import (
	"periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers"
)

// Bus plugs into both the TinyGo driver ecosystem and periph.io.
var (
	_ drivers.I2C   = (*Bus)(nil)
	_ i2c.BusCloser = (*Bus)(nil)
)

// Tx performs a combined transfer in the shape drivers expect: write w, then
// read into r after a repeated start.
//
// The controller expresses reads as address plus at most one sub-register
// byte, so a read preceded by more than one written byte is ErrUnsupported.
// Writes go out as one frame and must fit the transfer window.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7f {
		return ErrInvalidAddress
	}
	a := uint8(addr)

	var err error
	switch {
	case len(r) == 0:
		_, err = b.WriteTo(a, NoSubAddr, w)
	case len(w) == 0:
		_, err = b.ReadFrom(a, NoSubAddr, r)
	case len(w) == 1:
		_, err = b.ReadFrom(a, At(w[0]), r)
	default:
		err = ErrUnsupported
	}
	return err
}

// ReadRegister reads len(buf) bytes starting at register reg.
func (b *Bus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	_, err := b.ReadFrom(addr, At(reg), buf)
	return err
}

// WriteRegister writes buf starting at register reg.
func (b *Bus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	_, err := b.WriteTo(addr, At(reg), buf)
	return err
}
