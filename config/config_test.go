package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"

	"feo/pmic"
	"feo/pmu"
	"feo/rki2c"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{"pmic": {"rails": [{"name": "LDO4", "microvolts": 3300000, "enabled": true}]}}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Banner != "Hello from feo!" {
		t.Errorf("Unexpected banner %q", cfg.Banner)
	}
	if cfg.I2C.PollLimit != 10000 || cfg.I2C.SpeedHz != 100000 || cfg.I2C.ClockHz != 100000000 {
		t.Errorf("Unexpected I2C defaults %+v", cfg.I2C)
	}
	if cfg.I2C.ReadPollLimit != 0 {
		t.Errorf("Read poll limit should stay unbounded, got %d", cfg.I2C.ReadPollLimit)
	}
	if cfg.PMIC.Address != pmic.DefaultAddress {
		t.Errorf("Expected PMIC address %#x, got %#x", pmic.DefaultAddress, cfg.PMIC.Address)
	}
	if cfg.M0.Start != 0x250000 {
		t.Errorf("Expected M0 start 0x250000, got %#x", cfg.M0.Start)
	}

	want := []RailConfig{{Name: "LDO4", Microvolts: 3300000, Enabled: true}}
	if diff := cmp.Diff(want, cfg.PMIC.Rails); diff != "" {
		t.Errorf("Rails mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigExplicit(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{
		"banner": "rk3399 up",
		"i2c": {"poll_limit": 500, "read_poll_limit": 2000, "speed_hz": 400000, "clock_hz": 24000000},
		"m0": {"disabled": true},
		"power_domains": ["gpu", "vio"]
	}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	got := cfg.I2C.Bus("i2c0")
	want := rki2c.Config{
		Name:          "i2c0",
		PollLimit:     500,
		ReadPollLimit: 2000,
		ClockRate:     24 * physic.MegaHertz,
		Speed:         400 * physic.KiloHertz,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Bus config mismatch (-want +got):\n%s", diff)
	}
	if !cfg.M0.Disabled {
		t.Error("M0 should be disabled")
	}
	if diff := cmp.Diff([]string{"gpu", "vio"}, cfg.PowerDomains); diff != "" {
		t.Errorf("Power domains mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	testCases := []struct {
		name string
		json string
		want error
	}{
		{"bad json", `{"banner": `, nil},
		{"unknown rail", `{"pmic": {"rails": [{"name": "LDO9"}]}}`, pmic.ErrUnknownRail},
		{"unknown domain", `{"power_domains": ["warp"]}`, pmu.ErrUnknownDomain},
		{"speed", `{"i2c": {"speed_hz": 5000000}}`, nil},
		{"address", `{"pmic": {"address": 200}}`, nil},
		{"negative poll", `{"i2c": {"read_poll_limit": -1}}`, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tc.json))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDefaultRK3399ConfigValid(t *testing.T) {
	cfg := DefaultRK3399Config()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}

	// a default config survives a round trip through defaults unchanged
	before := *DefaultRK3399Config()
	applyDefaults(cfg)
	if diff := cmp.Diff(before, *cfg); diff != "" {
		t.Errorf("Defaults changed the stock config (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")
	if err := os.WriteFile(path, []byte(`{"banner": "from file"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Banner != "from file" {
		t.Errorf("Unexpected banner %q", cfg.Banner)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}
