package pmic

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"feo/regs"
	"feo/rki2c"
	"feo/rki2c/rki2csim"
)

// newDevice returns an RK808 backed by a register file on a simulated bus.
func newDevice(t *testing.T) (*Device, *rki2csim.Memory, *rki2csim.Controller) {
	t.Helper()

	c := rki2csim.New()
	bus, err := rki2c.Open(c, rki2c.Config{Name: "i2c0"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { bus.Close() })

	mem := rki2csim.NewMemory(0)
	c.Attach(DefaultAddress, mem)
	return New(bus, 0), mem, c
}

func TestSelector(t *testing.T) {
	testCases := []struct {
		rail Rail
		uv   int
		sel  uint8
	}{
		{BUCK1, 712500, 0},
		{BUCK1, 900000, 15},
		{BUCK2, 1000000, 23},
		{BUCK2, 1500000, 63},
		{BUCK4, 1800000, 0},
		{BUCK4, 3300000, 15},
		{LDO1, 1850000, 1}, // rounds up
		{LDO2, 3400000, 16},
		{LDO3, 800000, 0},
		{LDO3, 1200000, 4},
		{LDO6, 2100000, 13},
		{LDO6, 2500000, 15},
		{LDO6, 2200000, 15},
	}

	for _, tc := range testCases {
		ri, err := tc.rail.info()
		if err != nil {
			t.Fatalf("%s: %v", tc.rail, err)
		}
		sel, err := ri.selector(tc.uv)
		if err != nil {
			t.Errorf("%s %duV: unexpected error %v", tc.rail, tc.uv, err)
			continue
		}
		if sel != tc.sel {
			t.Errorf("%s %duV: expected selector %d, got %d", tc.rail, tc.uv, tc.sel, sel)
		}
	}
}

func TestSelectorRejects(t *testing.T) {
	testCases := []struct {
		rail Rail
		uv   int
		want error
	}{
		{BUCK1, 1600000, ErrVoltageRange},
		{BUCK3, 1200000, ErrNoSelector},
		{BUCK4, 3400000, ErrVoltageRange},
		{LDO8, 3500000, ErrVoltageRange},
		{LDO3, 2600000, ErrVoltageRange},
	}

	for _, tc := range testCases {
		ri, _ := tc.rail.info()
		if _, err := ri.selector(tc.uv); !errors.Is(err, tc.want) {
			t.Errorf("%s %duV: expected %v, got %v", tc.rail, tc.uv, tc.want, err)
		}
	}
}

func TestSetVoltage(t *testing.T) {
	d, mem, _ := newDevice(t)

	// bits above the selector field are preserved
	mem.Set(0x2f, 0xc0)

	if err := d.SetVoltage(BUCK1, 900000); err != nil {
		t.Fatalf("SetVoltage failed: %v", err)
	}
	if got := mem.Get(0x2f); got != 0xc0|15 {
		t.Errorf("BUCK1_ON_VSEL: expected %#02x, got %#02x", 0xc0|15, got)
	}

	uv, err := d.Voltage(BUCK1)
	if err != nil {
		t.Fatalf("Voltage failed: %v", err)
	}
	if uv != 900000 {
		t.Errorf("Expected 900000uV, got %d", uv)
	}
}

func TestSetVoltageErrors(t *testing.T) {
	d, _, _ := newDevice(t)

	if err := d.SetVoltage(BUCK3, 1000000); !errors.Is(err, ErrNoSelector) {
		t.Errorf("Expected ErrNoSelector, got %v", err)
	}
	if err := d.SetVoltage(Rail(40), 1000000); !errors.Is(err, ErrUnknownRail) {
		t.Errorf("Expected ErrUnknownRail, got %v", err)
	}
	if _, err := d.Voltage(BUCK3); !errors.Is(err, ErrNoSelector) {
		t.Errorf("Expected ErrNoSelector, got %v", err)
	}
}

func TestBusErrorsWrapped(t *testing.T) {
	d, _, c := newDevice(t)
	c.Detach(DefaultAddress)

	err := d.SetVoltage(LDO1, 1800000)
	if !errors.Is(err, rki2c.ErrSlaveNak) {
		t.Errorf("Expected wrapped ErrSlaveNak, got %v", err)
	}
	if _, err := d.ReadTime(); !errors.Is(err, rki2c.ErrSlaveNak) {
		t.Errorf("Expected wrapped ErrSlaveNak, got %v", err)
	}
}

func TestEnableDisable(t *testing.T) {
	d, mem, _ := newDevice(t)
	mem.Set(regLDOEn, 0x01)

	if err := d.Enable(LDO3); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if err := d.Enable(BUCK4); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if got := mem.Get(regLDOEn); got != 0x05 {
		t.Errorf("LDO_EN: expected 0x05, got %#02x", got)
	}
	if got := mem.Get(regDCDCEn); got != 0x08 {
		t.Errorf("DCDC_EN: expected 0x08, got %#02x", got)
	}

	if err := d.Disable(LDO1); err != nil {
		t.Fatalf("Disable failed: %v", err)
	}
	on, err := d.Enabled(LDO1)
	if err != nil || on {
		t.Errorf("Expected LDO1 off, got (%v, %v)", on, err)
	}
	on, err = d.Enabled(LDO3)
	if err != nil || !on {
		t.Errorf("Expected LDO3 on, got (%v, %v)", on, err)
	}
}

func TestEnableSkipsRedundantWrite(t *testing.T) {
	d, mem, c := newDevice(t)
	mem.Set(regDCDCEn, 0x0f)
	c.ResetEvents()

	if err := d.Enable(BUCK2); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if n := c.Count(regs.OpWrite, rki2c.RegMTXCNT); n != 0 {
		t.Errorf("Expected no write transfer, got %d", n)
	}
}

func TestReadTime(t *testing.T) {
	d, mem, _ := newDevice(t)

	// 2026-10-16 13:45:09, Friday
	mem.Load(regSeconds, []byte{0x09, 0x45, 0x13, 0x16, 0x10, 0x26, 0x05})

	var ctrl []byte
	mem.OnWrite = func(reg, val byte) {
		if reg == regRTCCtrl {
			ctrl = append(ctrl, val)
		}
	}

	got, err := d.ReadTime()
	if err != nil {
		t.Fatalf("ReadTime failed: %v", err)
	}

	want := time.Date(2026, time.October, 16, 13, 45, 9, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if diff := cmp.Diff([]byte{rtcGetTime, 0}, ctrl); diff != "" {
		t.Errorf("GET_TIME edge mismatch (-want +got):\n%s", diff)
	}
}

func TestSetTime(t *testing.T) {
	d, mem, _ := newDevice(t)

	var ctrl []byte
	mem.OnWrite = func(reg, val byte) {
		if reg == regRTCCtrl {
			ctrl = append(ctrl, val)
		}
	}

	when := time.Date(2031, time.March, 2, 7, 8, 59, 0, time.UTC)
	if err := d.SetTime(when); err != nil {
		t.Fatalf("SetTime failed: %v", err)
	}

	raw := make([]byte, rtcLen)
	for i := range raw {
		raw[i] = mem.Get(byte(regSeconds + i))
	}
	if diff := cmp.Diff([]byte{0x59, 0x08, 0x07, 0x02, 0x03, 0x31, 0x00}, raw); diff != "" {
		t.Errorf("Time registers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{rtcStop, 0}, ctrl); diff != "" {
		t.Errorf("STOP sequence mismatch (-want +got):\n%s", diff)
	}

	got, err := d.ReadTime()
	if err != nil {
		t.Fatalf("ReadTime failed: %v", err)
	}
	if !got.Equal(when) {
		t.Errorf("Round trip: expected %v, got %v", when, got)
	}

	if err := d.SetTime(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("Expected an error for a year before 2000")
	}
}

func TestParseRail(t *testing.T) {
	r, err := ParseRail("LDO7")
	if err != nil || r != LDO7 {
		t.Errorf("Expected LDO7, got (%v, %v)", r, err)
	}
	if _, err := ParseRail("BUCK9"); !errors.Is(err, ErrUnknownRail) {
		t.Errorf("Expected ErrUnknownRail, got %v", err)
	}
}
