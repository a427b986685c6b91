// Package pmic drives the Rockchip RK808 power-management device that sits on
// I2C0 of RK3399 boards: regulator voltages, rail enables and the RTC.
package pmic

import (
	"fmt"

	"tinygo.org/x/drivers"

	"feo/debug"
)

// DefaultAddress is the RK808's fixed 7-bit bus address.
const DefaultAddress = 0x1b

const (
	regDCDCEn = 0x23
	regLDOEn  = 0x24
)

// Device is an RK808 on a bus. Any drivers.I2C works; on the board it is an
// rki2c.Bus.
type Device struct {
	bus  drivers.I2C
	addr uint8
}

// New returns the device at addr; 0 selects DefaultAddress.
func New(bus drivers.I2C, addr uint8) *Device {
	if addr == 0 {
		addr = DefaultAddress
	}
	return &Device{bus: bus, addr: addr}
}

// Address returns the device's bus address.
func (d *Device) Address() uint8 {
	return d.addr
}

func (d *Device) readReg(reg uint8) (uint8, error) {
	var buf [1]byte
	if err := d.bus.Tx(uint16(d.addr), []byte{reg}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (d *Device) writeReg(reg, val uint8) error {
	return d.bus.Tx(uint16(d.addr), []byte{reg, val}, nil)
}

// updateReg rewrites the bits of mask in reg to val.
func (d *Device) updateReg(reg, mask, val uint8) error {
	old, err := d.readReg(reg)
	if err != nil {
		return err
	}
	next := old&^mask | val&mask
	if next == old {
		return nil
	}
	return d.writeReg(reg, next)
}

// SetVoltage programs rail to the lowest step at or above uv microvolts.
func (d *Device) SetVoltage(rail Rail, uv int) error {
	ri, err := rail.info()
	if err != nil {
		return fmt.Errorf("pmic: set %s: %w", rail, err)
	}
	sel, err := ri.selector(uv)
	if err != nil {
		return fmt.Errorf("pmic: set %s to %duV: %w", rail, uv, err)
	}
	if err := d.updateReg(ri.vsel, ri.mask, sel); err != nil {
		return fmt.Errorf("pmic: set %s: %w", rail, err)
	}
	debug.Println("pmic: " + rail.String() + " sel=" + debug.Hex8(sel))
	return nil
}

// Voltage reads back the programmed voltage of rail in microvolts.
func (d *Device) Voltage(rail Rail) (int, error) {
	ri, err := rail.info()
	if err != nil {
		return 0, fmt.Errorf("pmic: read %s: %w", rail, err)
	}
	if ri.vsel == 0 {
		return 0, fmt.Errorf("pmic: read %s: %w", rail, ErrNoSelector)
	}
	v, err := d.readReg(ri.vsel)
	if err != nil {
		return 0, fmt.Errorf("pmic: read %s: %w", rail, err)
	}
	uv, err := ri.microvolts(v & ri.mask)
	if err != nil {
		return 0, fmt.Errorf("pmic: read %s: %w", rail, err)
	}
	return uv, nil
}

// Enable switches rail on.
func (d *Device) Enable(rail Rail) error {
	return d.setEnabled(rail, true)
}

// Disable switches rail off.
func (d *Device) Disable(rail Rail) error {
	return d.setEnabled(rail, false)
}

func (d *Device) setEnabled(rail Rail, on bool) error {
	ri, err := rail.info()
	if err != nil {
		return fmt.Errorf("pmic: enable %s: %w", rail, err)
	}
	bit := uint8(1) << ri.enBit
	var val uint8
	if on {
		val = bit
	}
	if err := d.updateReg(ri.enReg, bit, val); err != nil {
		return fmt.Errorf("pmic: enable %s: %w", rail, err)
	}
	return nil
}

// Enabled reports whether rail is switched on.
func (d *Device) Enabled(rail Rail) (bool, error) {
	ri, err := rail.info()
	if err != nil {
		return false, fmt.Errorf("pmic: status %s: %w", rail, err)
	}
	v, err := d.readReg(ri.enReg)
	if err != nil {
		return false, fmt.Errorf("pmic: status %s: %w", rail, err)
	}
	return v&(1<<ri.enBit) != 0, nil
}
