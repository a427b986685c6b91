package config

import (
	"periph.io/x/conn/v3/physic"

	"feo/rki2c"
)

// Board is the bring-up configuration of one RK3399 board.
type Board struct {
	// Banner is printed on the console first thing.
	Banner string `json:"banner"`

	I2C  I2CConfig  `json:"i2c"`
	PMIC PMICConfig `json:"pmic"`
	M0   M0Config   `json:"m0"`

	// PowerDomains are switched on before the PMIC is touched.
	PowerDomains []string `json:"power_domains"`
}

// I2CConfig tunes the controller the PMIC hangs off.
type I2CConfig struct {
	PollLimit int `json:"poll_limit"`
	// ReadPollLimit of 0 waits on a receive window without bound.
	ReadPollLimit int   `json:"read_poll_limit"`
	SpeedHz       int64 `json:"speed_hz"`
	ClockHz       int64 `json:"clock_hz"`
}

// Bus converts the settings into an engine configuration.
func (c I2CConfig) Bus(name string) rki2c.Config {
	return rki2c.Config{
		Name:          name,
		PollLimit:     c.PollLimit,
		ReadPollLimit: c.ReadPollLimit,
		ClockRate:     physic.Frequency(c.ClockHz) * physic.Hertz,
		Speed:         physic.Frequency(c.SpeedHz) * physic.Hertz,
	}
}

// PMICConfig describes the RK808 and the rails to program.
type PMICConfig struct {
	Address uint8        `json:"address"`
	Rails   []RailConfig `json:"rails"`
}

// RailConfig is one regulator setting. Microvolts of 0 leaves the voltage
// alone; Enabled false leaves the enable bit as the boot loader set it.
type RailConfig struct {
	Name       string `json:"name"`
	Microvolts int    `json:"microvolts"`
	Enabled    bool   `json:"enabled"`
}

// M0Config controls the PMU Cortex-M0.
type M0Config struct {
	Disabled bool   `json:"disabled"`
	Start    uint32 `json:"start"`
	// Debug routes the M0 JTAG pins before it starts.
	Debug bool `json:"debug"`
}
