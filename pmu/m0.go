// Package pmu sequences the RK3399 power-management unit: bring-up of the
// PMU Cortex-M0 and power domain switching.
package pmu

import (
	"time"

	"feo/debug"
	"feo/regs"
	"feo/soc/rk3399"
)

// ReleaseDelay runs between releasing the M0 bus reset and its core reset.
var ReleaseDelay = func() { time.Sleep(5 * time.Microsecond) }

// StartM0 boots the PMU M0 from the image at start. sgrf is the PMUSGRF block
// and cru the PMUCRU block. Every register touched is hiword-masked, so no
// read-back is needed.
func StartM0(sgrf, cru regs.Block, start uint32) {
	debug.Println("pmu: starting m0 at " + debug.Hex32(start))

	// M0 as secure master
	regs.WriteMasked(sgrf, rk3399.SgrfPmuCon0, rk3399.SgrfM0Secure, 0)
	regs.WriteMasked(sgrf, rk3399.SgrfSocCon6, rk3399.SgrfPmuSecure, 0)

	// remap the M0 boot ROM window onto the image
	regs.WriteMasked(sgrf, rk3399.SgrfPmuCon3, 0xffff, uint16(start>>12))
	regs.WriteMasked(sgrf, rk3399.SgrfPmuCon7, 0xf, uint16(start>>28))

	regs.WriteMasked(cru, rk3399.PmucruGatedisCon0, rk3399.M0GateDisable, rk3399.M0GateDisable)

	// ungate fclk, sclk, hclk and dclk
	regs.WriteMasked(cru, rk3399.PmucruClkgateCon2, rk3399.M0ClocksMask, 0)

	regs.WriteMasked(cru, rk3399.PmucruSoftrstCon0, rk3399.M0HresetnReq, 0)
	ReleaseDelay()
	regs.WriteMasked(cru, rk3399.PmucruSoftrstCon0, rk3399.M0PoresetnReq, 0)
}

// EnableM0Debug routes the M0 JTAG pins and enables its debug port.
func EnableM0Debug(pmugrf, sgrf regs.Block) {
	regs.WriteMasked(pmugrf, rk3399.PmugrfGpio1bIomux, rk3399.Gpio1bJtagMask, rk3399.Gpio1bJtagSel)
	regs.WriteMasked(sgrf, rk3399.SgrfPmuCon0, rk3399.SgrfMcuDebugEn, rk3399.SgrfMcuDebugEn)
}
