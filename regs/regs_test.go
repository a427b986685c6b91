package regs

import "testing"

func TestFieldPutGet(t *testing.T) {
	f := Field{Shift: 1, Width: 2}

	if f.Mask() != 0x6 {
		t.Fatalf("Expected mask 0x6, got %#x", f.Mask())
	}

	v := f.Put(0xffffffff, 0x1)
	if v != 0xfffffffb {
		t.Errorf("Put: expected 0xfffffffb, got %#x", v)
	}
	if got := f.Get(v); got != 0x1 {
		t.Errorf("Get: expected 1, got %d", got)
	}

	// Bits beyond the field width must not leak into neighbours
	if v := f.Put(0, 0xff); v != 0x6 {
		t.Errorf("Put overflow: expected 0x6, got %#x", v)
	}
}

func TestWriteMasked(t *testing.T) {
	s := NewSim()
	WriteMasked(s, 0x10, 0x00a0, 0xffff)

	if got := s.Peek(0x10); got != 0x00a000a0 {
		t.Errorf("Expected 0x00a000a0, got %#x", got)
	}
}

func TestSimHooks(t *testing.T) {
	s := NewSim()

	// write-1-to-clear
	s.Poke(0x1c, 0xff)
	s.OnWrite(0x1c, func(old, v uint32) uint32 { return old &^ v })
	s.Write32(0x1c, 0x10)
	if got := s.Read32(0x1c); got != 0xef {
		t.Errorf("W1C: expected 0xef, got %#x", got)
	}

	s.OnRead(0x20, func(stored uint32) uint32 { return stored | 1 })
	if got := s.Read32(0x20); got != 1 {
		t.Errorf("Read hook: expected 1, got %d", got)
	}

	if n := s.Count(OpRead, 0x1c); n != 1 {
		t.Errorf("Expected 1 read of 0x1c, got %d", n)
	}
	if n := s.Count(OpWrite, 0x1c); n != 1 {
		t.Errorf("Expected 1 write of 0x1c, got %d", n)
	}

	s.ResetLog()
	if len(s.Accesses()) != 0 {
		t.Error("ResetLog left entries behind")
	}
}

func TestSetClearModify(t *testing.T) {
	s := NewSim()

	Set(s, 0, 0x5)
	Clear(s, 0, 0x1)
	Modify(s, 0, func(v uint32) uint32 { return v << 4 })

	if got := s.Peek(0); got != 0x40 {
		t.Errorf("Expected 0x40, got %#x", got)
	}
	if !IsSet(s, 0, 0x40) {
		t.Error("IsSet(0x40) = false")
	}
}
