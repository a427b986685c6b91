// Package regs abstracts a memory-mapped register block.
//
// Drivers never dereference raw addresses. They talk to a Block, which is an
// MMIO window on the target and a Sim in hosted tests.
package regs

// Block is one peripheral's register window. Offsets are byte offsets from
// the block base and are expected to be 32-bit aligned.
type Block interface {
	Read32(off uint32) uint32
	Write32(off uint32, v uint32)
}

// Set ORs mask into the register at off.
func Set(b Block, off, mask uint32) {
	b.Write32(off, b.Read32(off)|mask)
}

// Clear clears the mask bits of the register at off.
func Clear(b Block, off, mask uint32) {
	b.Write32(off, b.Read32(off)&^mask)
}

// Modify performs a read-modify-write of the register at off.
func Modify(b Block, off uint32, fn func(v uint32) uint32) {
	b.Write32(off, fn(b.Read32(off)))
}

// IsSet reports whether every bit of mask is set in the register at off.
func IsSet(b Block, off, mask uint32) bool {
	return b.Read32(off)&mask == mask
}

// WriteMasked writes a Rockchip "hiword mask" register. The upper 16 bits of
// the bus word select which of the lower 16 bits the write changes, so no
// read-back is needed.
func WriteMasked(b Block, off uint32, mask, val uint16) {
	b.Write32(off, uint32(mask)<<16|uint32(val&mask))
}

// Field is a contiguous bit field inside a 32-bit register.
type Field struct {
	Shift uint8
	Width uint8
}

// Mask returns the in-place mask of the field.
func (f Field) Mask() uint32 {
	return (1<<f.Width - 1) << f.Shift
}

// Get extracts the field from a register value.
func (f Field) Get(v uint32) uint32 {
	return (v & f.Mask()) >> f.Shift
}

// Put returns v with the field replaced by x. Bits of x beyond the field
// width are dropped.
func (f Field) Put(v, x uint32) uint32 {
	return v&^f.Mask() | (x<<f.Shift)&f.Mask()
}
