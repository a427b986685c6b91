//go:build tinygo

package regs

import (
	"runtime/volatile"
	"unsafe"
)

// MMIO is a register block at a fixed physical address.
type MMIO struct {
	Base uintptr
}

// At returns the block based at base.
func At(base uintptr) *MMIO {
	return &MMIO{Base: base}
}

func (m *MMIO) reg(off uint32) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(m.Base + uintptr(off)))
}

// Read32 implements Block.
func (m *MMIO) Read32(off uint32) uint32 {
	return m.reg(off).Get()
}

// Write32 implements Block.
func (m *MMIO) Write32(off uint32, v uint32) {
	m.reg(off).Set(v)
}
