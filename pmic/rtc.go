package pmic

import (
	"fmt"
	"time"
)

// RTC registers. The seven time registers are consecutive BCD values.
const (
	regSeconds = 0x00
	regRTCCtrl = 0x10

	rtcStop    = 1 << 0
	rtcGetTime = 1 << 6
)

const rtcLen = 7

// ReadTime returns the RTC time. The RK808 copies the counters into shadow
// registers on a rising edge of GET_TIME; the seven values are then read in
// one transfer so they stay consistent.
func (d *Device) ReadTime() (time.Time, error) {
	if err := d.updateReg(regRTCCtrl, rtcGetTime, rtcGetTime); err != nil {
		return time.Time{}, fmt.Errorf("pmic: latch time: %w", err)
	}
	if err := d.updateReg(regRTCCtrl, rtcGetTime, 0); err != nil {
		return time.Time{}, fmt.Errorf("pmic: latch time: %w", err)
	}

	var raw [rtcLen]byte
	if err := d.bus.Tx(uint16(d.addr), []byte{regSeconds}, raw[:]); err != nil {
		return time.Time{}, fmt.Errorf("pmic: read time: %w", err)
	}

	return time.Date(
		2000+fromBCD(raw[5]),
		time.Month(fromBCD(raw[4]&0x1f)),
		fromBCD(raw[3]&0x3f),
		fromBCD(raw[2]&0x3f),
		fromBCD(raw[1]&0x7f),
		fromBCD(raw[0]&0x7f),
		0, time.UTC,
	), nil
}

// SetTime stops the RTC, writes t (UTC, years 2000-2099) in one transfer and
// restarts it.
func (d *Device) SetTime(t time.Time) error {
	t = t.UTC()
	if t.Year() < 2000 || t.Year() > 2099 {
		return fmt.Errorf("pmic: set time: year %d out of range", t.Year())
	}

	raw := [rtcLen]byte{
		toBCD(t.Second()),
		toBCD(t.Minute()),
		toBCD(t.Hour()),
		toBCD(t.Day()),
		toBCD(int(t.Month())),
		toBCD(t.Year() - 2000),
		toBCD(int(t.Weekday())),
	}

	if err := d.updateReg(regRTCCtrl, rtcStop, rtcStop); err != nil {
		return fmt.Errorf("pmic: stop rtc: %w", err)
	}
	frame := append([]byte{regSeconds}, raw[:]...)
	if err := d.bus.Tx(uint16(d.addr), frame, nil); err != nil {
		return fmt.Errorf("pmic: write time: %w", err)
	}
	if err := d.updateReg(regRTCCtrl, rtcStop, 0); err != nil {
		return fmt.Errorf("pmic: start rtc: %w", err)
	}
	return nil
}

func fromBCD(b byte) int {
	return int(b>>4)*10 + int(b&0x0f)
}

func toBCD(n int) byte {
	return byte(n/10)<<4 | byte(n%10)
}
