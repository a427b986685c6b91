// Package rk3399 holds the fixed facts of the Rockchip RK3399: peripheral
// base addresses and the register offsets of the power blocks.
package rk3399

import "periph.io/x/conn/v3/physic"

// Peripheral bases.
const (
	I2C0 uintptr = 0xff3c0000 // PMU domain, RK808 lives here
	I2C4 uintptr = 0xff3d0000
	I2C8 uintptr = 0xff3e0000

	UART2 uintptr = 0xff1a0000 // debug console

	PMU     uintptr = 0xff310000
	PMUGRF  uintptr = 0xff320000
	PMUSGRF uintptr = 0xff330000
	PMUCRU  uintptr = 0xff750000
)

// I2CClock is the I2C controller input clock left by the boot loader.
const I2CClock = 100 * physic.MegaHertz

// M0Start is where the PMU Cortex-M0 image is loaded.
const M0Start uint32 = 0x250000

// PMUSGRF offsets.
const (
	SgrfPmuCon0 = 0xc100
	SgrfPmuCon3 = 0xc10c
	SgrfPmuCon7 = 0xc11c
	SgrfSocCon6 = 0xe018
)

// PMUSGRF_PMU_CON0 bits.
const (
	SgrfM0Secure   = 1 << 7 // cleared: the M0 is a secure master
	SgrfMcuDebugEn = 1 << 5
)

// PMUSGRF_SOC_CON6 bit selecting secure mastering for the PMU bus.
const SgrfPmuSecure = 1 << 12

// PMUCRU offsets.
const (
	PmucruClkgateCon2 = 0x0108
	PmucruSoftrstCon0 = 0x0110
	PmucruGatedisCon0 = 0x0130
)

// PMUCRU bits for the M0.
const (
	M0ClocksMask  = 0xf    // fclk, sclk, hclk and dclk gates in CLKGATE_CON2
	M0GateDisable = 1 << 1 // clk_pmum0 gating disable in GATEDIS_CON0
	M0HresetnReq  = 1 << 2
	M0PoresetnReq = 1 << 5
)

// PMUGRF GPIO1B iomux: GPIO1B1 and GPIO1B2 select fields, function 1 routes
// them to the M0 JTAG TCK and TMS.
const (
	PmugrfGpio1bIomux = 0x0014

	Gpio1bJtagMask = 3<<2 | 3<<4
	Gpio1bJtagSel  = 1<<2 | 1<<4
)

// PMU offsets.
const (
	PmuPwrdnCon = 0x14
	PmuPwrdnSt  = 0x18
)

// PowerDomains maps domain names to their PWRDN_CON / PWRDN_ST bit.
var PowerDomains = map[string]uint8{
	"tcpd0":     8,
	"tcpd1":     9,
	"cci":       10,
	"perilp":    11,
	"perihp":    12,
	"center":    13,
	"vio":       14,
	"gpu":       15,
	"vcodec":    16,
	"vdu":       17,
	"rga":       18,
	"iep":       19,
	"vo":        20,
	"isp0":      21,
	"isp1":      22,
	"hdcp":      23,
	"gmac":      24,
	"emmc":      25,
	"usb3":      26,
	"edp":       27,
	"gic":       28,
	"sd":        29,
	"sdioaudio": 30,
}
