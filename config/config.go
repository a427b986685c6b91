// Package config loads the JSON board configuration that drives bring-up.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"periph.io/x/conn/v3/physic"

	"feo/pmic"
	"feo/pmu"
	"feo/soc/rk3399"
)

// LoadConfig parses a JSON configuration and returns a validated Board with
// defaults filled in.
func LoadConfig(jsonData []byte) (*Board, error) {
	var config Board

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadFile reads and parses the configuration at path.
func LoadFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *Board) {
	if config.Banner == "" {
		config.Banner = "Hello from feo!"
	}

	// I2C timing, zero read poll limit stays unbounded
	if config.I2C.PollLimit == 0 {
		config.I2C.PollLimit = 10000
	}
	if config.I2C.SpeedHz == 0 {
		config.I2C.SpeedHz = 100000
	}
	if config.I2C.ClockHz == 0 {
		config.I2C.ClockHz = int64(rk3399.I2CClock / physic.Hertz)
	}

	if config.PMIC.Address == 0 {
		config.PMIC.Address = pmic.DefaultAddress
	}

	if config.M0.Start == 0 {
		config.M0.Start = rk3399.M0Start
	}
}

// Validate checks names and ranges that would otherwise fail halfway through
// bring-up.
func (b *Board) Validate() error {
	if b.I2C.PollLimit < 0 || b.I2C.ReadPollLimit < 0 {
		return errors.New("i2c: negative poll limit")
	}
	if b.I2C.SpeedHz <= 0 || b.I2C.SpeedHz > 1000000 {
		return fmt.Errorf("i2c: speed %d Hz out of range", b.I2C.SpeedHz)
	}
	if b.PMIC.Address > 0x7f {
		return fmt.Errorf("pmic: address %#x is not 7-bit", b.PMIC.Address)
	}
	for _, r := range b.PMIC.Rails {
		if _, err := pmic.ParseRail(r.Name); err != nil {
			return fmt.Errorf("pmic: rail %q: %w", r.Name, err)
		}
	}
	for _, d := range b.PowerDomains {
		if _, err := pmu.LookupDomain(d); err != nil {
			return fmt.Errorf("power domain %q: %w", d, err)
		}
	}
	return nil
}

// DefaultRK3399Config returns the configuration for a stock RK3399 board with
// an RK808 on I2C0.
func DefaultRK3399Config() *Board {
	return &Board{
		Banner: "Hello from feo!",
		I2C: I2CConfig{
			PollLimit: 10000,
			SpeedHz:   100000,
			ClockHz:   100000000,
		},
		PMIC: PMICConfig{
			Address: pmic.DefaultAddress,
			Rails: []RailConfig{
				{Name: "BUCK1", Microvolts: 900000, Enabled: true}, // vdd_center
				{Name: "BUCK2", Microvolts: 900000, Enabled: true}, // vdd_cpu_l
				{Name: "LDO1", Microvolts: 3000000, Enabled: true}, // vcc3v0_touch
				{Name: "LDO3", Microvolts: 1800000, Enabled: true}, // vcc1v8_pmupll
				{Name: "LDO4", Microvolts: 3000000, Enabled: true}, // vcc_sd
				{Name: "LDO7", Microvolts: 1800000, Enabled: true}, // vcca1v8_hdmi
			},
		},
		M0: M0Config{
			Start: rk3399.M0Start,
		},
		PowerDomains: []string{"perilp", "perihp", "center"},
	}
}
