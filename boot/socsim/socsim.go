// Package socsim assembles simulated RK3399 peripherals into a
// boot.Hardware: a 16550 console, an I2C controller with an RK808 register
// file attached, and PMU blocks that settle immediately.
package socsim

import (
	"io"

	"feo/boot"
	"feo/console"
	"feo/console/uartsim"
	"feo/pmic"
	"feo/pmu"
	"feo/regs"
	"feo/rki2c/rki2csim"
)

// SoC is a simulated board. The fields expose each block for inspection and
// fault injection.
type SoC struct {
	UART *uartsim.UART
	I2C  *rki2csim.Controller
	PMIC *rki2csim.Memory

	PMU     *regs.Sim
	PMUGRF  *regs.Sim
	PMUSGRF *regs.Sim
	PMUCRU  *regs.Sim

	Console *console.NS16550
}

// New returns a simulated board whose console output goes to out.
func New(out io.Writer) *SoC {
	s := &SoC{
		UART:    uartsim.NewNS16550(out),
		I2C:     rki2csim.New(),
		PMIC:    rki2csim.NewMemory(0),
		PMU:     pmu.NewSim(),
		PMUGRF:  regs.NewSim(),
		PMUSGRF: regs.NewSim(),
		PMUCRU:  regs.NewSim(),
	}
	s.Console = console.NewNS16550(s.UART, 0)
	s.I2C.Attach(pmic.DefaultAddress, s.PMIC)
	return s
}

// Hardware returns the blocks as bring-up sees them.
func (s *SoC) Hardware() boot.Hardware {
	return boot.Hardware{
		Console: s.Console,
		I2C:     s.I2C,
		PMU:     s.PMU,
		PMUGRF:  s.PMUGRF,
		PMUSGRF: s.PMUSGRF,
		PMUCRU:  s.PMUCRU,
	}
}
