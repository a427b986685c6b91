package pmu

import (
	"errors"
	"sort"

	"feo/debug"
	"feo/regs"
	"feo/soc/rk3399"
)

// PollLimit bounds the wait for a power domain to reach its new state.
var PollLimit = 10000

var (
	ErrPowerTimeout  = errors.New("pmu: power domain did not settle")
	ErrUnknownDomain = errors.New("pmu: unknown power domain")
)

// Domain is a power domain, numbered by its PWRDN_CON bit.
type Domain uint8

// LookupDomain resolves a domain name such as "perilp".
func LookupDomain(name string) (Domain, error) {
	bit, ok := rk3399.PowerDomains[name]
	if !ok {
		return 0, ErrUnknownDomain
	}
	return Domain(bit), nil
}

// DomainNames lists the known domains in bit order.
func DomainNames() []string {
	names := make([]string, 0, len(rk3399.PowerDomains))
	for n := range rk3399.PowerDomains {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return rk3399.PowerDomains[names[i]] < rk3399.PowerDomains[names[j]]
	})
	return names
}

// PowerOn powers domain d up. A set PWRDN_CON bit requests power-down; the
// matching PWRDN_ST bit reports it.
func PowerOn(pmu regs.Block, d Domain) error {
	return setPower(pmu, d, false)
}

// PowerOff powers domain d down.
func PowerOff(pmu regs.Block, d Domain) error {
	return setPower(pmu, d, true)
}

// IsOn reports whether domain d is powered.
func IsOn(pmu regs.Block, d Domain) bool {
	return pmu.Read32(rk3399.PmuPwrdnSt)&(1<<d) == 0
}

func setPower(pmu regs.Block, d Domain, off bool) error {
	bit := uint32(1) << d
	if off {
		regs.Set(pmu, rk3399.PmuPwrdnCon, bit)
	} else {
		regs.Clear(pmu, rk3399.PmuPwrdnCon, bit)
	}

	for i := 0; i < PollLimit; i++ {
		if IsOn(pmu, d) != off {
			return nil
		}
	}
	debug.Println("pmu: domain " + debug.Itoa(int(d)) + " stuck")
	return ErrPowerTimeout
}

// NewSim returns a simulated PMU block whose domains settle immediately.
func NewSim() *regs.Sim {
	s := regs.NewSim()
	s.OnWrite(rk3399.PmuPwrdnCon, func(_, v uint32) uint32 {
		s.Poke(rk3399.PmuPwrdnSt, v)
		return v
	})
	return s
}
