// feo-sim runs the bring-up sequence against a simulated RK3399 so board
// configs and bus faults can be tried without hardware.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"feo/boot"
	"feo/boot/socsim"
	"feo/config"
	"feo/debug"
	"feo/host/logging"
	"feo/pmic"
	"feo/rki2c"
)

var (
	configPath = flag.String("config", "", "Board config JSON (default: built-in RK3399 config)")
	fault      = flag.String("fault", "", "Inject a fault: "+strings.Join(faultNames(), ", "))
	refuse     = flag.Int("refuse-window", 0, "Receive window the PMIC refuses with -fault=refuse-read")
	verbose    = flag.Bool("debug", false, "Enable debug logging")
)

// options is one simulator run.
type options struct {
	configPath   string
	fault        string
	refuseWindow int
	debug        bool

	// out receives the simulated console
	out io.Writer
}

// An injector breaks one part of the simulated board before bring-up starts.
// It may adjust cfg so the fault ends in an error instead of a hang.
type injector func(s *socsim.SoC, cfg *config.Board, o options)

var faults = map[string]injector{
	"absent-pmic": func(s *socsim.SoC, _ *config.Board, _ options) { s.I2C.Detach(pmic.DefaultAddress) },
	"stall-start": func(s *socsim.SoC, _ *config.Board, _ options) { s.I2C.StallStart = true },
	"stall-stop":  func(s *socsim.SoC, _ *config.Board, _ options) { s.I2C.StallStop = true },
	"stall-tx":    func(s *socsim.SoC, _ *config.Board, _ options) { s.I2C.StallTransmit = true },
	"stall-rx": func(s *socsim.SoC, cfg *config.Board, _ options) {
		s.I2C.StallReceive = true
		// an unbounded receive wait would never return
		if cfg.I2C.ReadPollLimit == 0 {
			cfg.I2C.ReadPollLimit = rki2c.DefaultPollLimit
		}
	},
	"refuse-read": func(s *socsim.SoC, _ *config.Board, o options) { s.I2C.RefuseWindow = o.refuseWindow },
	"refuse-write": func(s *socsim.SoC, _ *config.Board, _ options) {
		s.PMIC.Refuse = func(reg, val byte) bool { return true }
	},
}

func faultNames() []string {
	names := make([]string, 0, len(faults))
	for name := range faults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func main() {
	flag.Parse()
	err := run(options{
		configPath:   *configPath,
		fault:        *fault,
		refuseWindow: *refuse,
		debug:        *verbose,
		out:          os.Stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(o options) error {
	log, err := logging.NewLogger("feo-sim", o.debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg := config.DefaultRK3399Config()
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
		if err != nil {
			return err
		}
	}

	soc := socsim.New(o.out)
	soc.I2C.SetLogging(false)
	if o.fault != "" {
		inject, ok := faults[o.fault]
		if !ok {
			return fmt.Errorf("unknown fault %q", o.fault)
		}
		inject(soc, cfg, o)
		log.Infow("fault injected", "fault", o.fault, "read_poll_limit", cfg.I2C.ReadPollLimit)
	}

	debug.SetWriter(logging.BoardWriter(log))
	defer debug.SetWriter(nil)

	if err := boot.Run(soc.Hardware(), cfg); err != nil {
		log.Errorw("bring-up failed", zap.Error(err))
		return err
	}

	log.Infow("bring-up complete", "violations", soc.I2C.Violations())
	return readback(log, soc, cfg)
}

// readback reports what the simulated PMIC ended up programmed to.
func readback(log *zap.SugaredLogger, soc *socsim.SoC, cfg *config.Board) (err error) {
	bus, err := rki2c.Open(soc.I2C, cfg.I2C.Bus("i2c0"))
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, bus.Close()) }()

	dev := pmic.New(bus, cfg.PMIC.Address)
	for _, rc := range cfg.PMIC.Rails {
		r, err := pmic.ParseRail(rc.Name)
		if err != nil {
			return err
		}
		on, err := dev.Enabled(r)
		if err != nil {
			return err
		}
		uv, err := dev.Voltage(r)
		if errors.Is(err, pmic.ErrNoSelector) {
			log.Infow("rail", "name", rc.Name, "enabled", on)
			continue
		}
		if err != nil {
			return err
		}
		log.Infow("rail", "name", rc.Name, "enabled", on, "microvolts", uv)
	}
	return nil
}
