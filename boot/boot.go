// Package boot runs the board bring-up sequence: console banner, power
// domains, PMIC rails over I2C, then the PMU M0.
package boot

import (
	"fmt"

	"go.uber.org/multierr"

	"feo/config"
	"feo/console"
	"feo/debug"
	"feo/pmic"
	"feo/pmu"
	"feo/regs"
	"feo/rki2c"
)

// Hardware is the set of peripherals bring-up touches. On the board these are
// MMIO windows; hosted they are simulations.
type Hardware struct {
	Console console.Console

	// I2C is the controller the PMIC hangs off.
	I2C regs.Block

	PMU     regs.Block
	PMUGRF  regs.Block
	PMUSGRF regs.Block
	PMUCRU  regs.Block
}

type step struct {
	name string
	run  func() error
}

// Run brings the board up as described by cfg. The first failing step stops
// the sequence and its error is returned wrapped with the step name. The I2C
// bus is closed on every path.
func Run(hw Hardware, cfg *config.Board) (err error) {
	if _, err := hw.Console.Write([]byte(cfg.Banner + "\r\n")); err != nil {
		return fmt.Errorf("boot: banner: %w", err)
	}

	var bus *rki2c.Bus
	defer func() {
		if bus != nil {
			err = multierr.Append(err, bus.Close())
		}
	}()

	steps := []step{
		{"power domains", func() error { return powerDomains(hw.PMU, cfg.PowerDomains) }},
		{"i2c", func() error {
			var err error
			bus, err = rki2c.Open(hw.I2C, cfg.I2C.Bus("i2c0"))
			return err
		}},
		{"pmic", func() error { return configureRails(pmic.New(bus, cfg.PMIC.Address), cfg.PMIC.Rails) }},
		{"rtc", func() error { return traceTime(pmic.New(bus, cfg.PMIC.Address)) }},
		{"m0", func() error { return startM0(hw, cfg.M0) }},
	}

	for _, s := range steps {
		debug.Println("boot: " + s.name)
		if err := s.run(); err != nil {
			debug.Println("boot: " + s.name + " failed: " + err.Error())
			return fmt.Errorf("boot: %s: %w", s.name, err)
		}
	}
	debug.Println("boot: done")
	return nil
}

func powerDomains(p regs.Block, names []string) error {
	for _, name := range names {
		d, err := pmu.LookupDomain(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := pmu.PowerOn(p, d); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func configureRails(dev *pmic.Device, rails []config.RailConfig) error {
	for _, rc := range rails {
		r, err := pmic.ParseRail(rc.Name)
		if err != nil {
			return err
		}
		if rc.Microvolts > 0 {
			if err := dev.SetVoltage(r, rc.Microvolts); err != nil {
				return err
			}
		}
		if rc.Enabled {
			if err := dev.Enable(r); err != nil {
				return err
			}
		}
	}
	return nil
}

func traceTime(dev *pmic.Device) error {
	t, err := dev.ReadTime()
	if err != nil {
		return err
	}
	debug.Println("boot: rtc " + t.Format("2006-01-02 15:04:05"))
	return nil
}

func startM0(hw Hardware, cfg config.M0Config) error {
	if cfg.Disabled {
		debug.Println("boot: m0 disabled")
		return nil
	}
	if cfg.Debug {
		pmu.EnableM0Debug(hw.PMUGRF, hw.PMUSGRF)
	}
	pmu.StartM0(hw.PMUSGRF, hw.PMUCRU, cfg.Start)
	return nil
}
