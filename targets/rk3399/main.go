//go:build tinygo

package main

import (
	"time"

	"feo/boot"
	"feo/config"
	"feo/console"
	"feo/debug"
	"feo/regs"
	"feo/soc/rk3399"
)

func main() {
	// UART2 is already configured by the boot loader
	uart := console.NewNS16550(regs.At(rk3399.UART2), 0)
	debug.SetWriter(console.Tracer(uart))

	hw := boot.Hardware{
		Console: uart,
		I2C:     regs.At(rk3399.I2C0),
		PMU:     regs.At(rk3399.PMU),
		PMUGRF:  regs.At(rk3399.PMUGRF),
		PMUSGRF: regs.At(rk3399.PMUSGRF),
		PMUCRU:  regs.At(rk3399.PMUCRU),
	}

	if err := boot.Run(hw, config.DefaultRK3399Config()); err != nil {
		uart.Write([]byte("bring-up failed: " + err.Error() + "\r\n"))
	}

	// The M0 owns power management from here on.
	for {
		time.Sleep(time.Hour)
	}
}
