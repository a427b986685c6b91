// feo-console follows the RK3399 debug UART while feo brings the board up.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/multierr"

	"feo/host/board"
	"feo/host/logging"
	"feo/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud    = flag.Int("baud", serial.DefaultBaud, "Baud rate of the debug UART")
	timeout = flag.Duration("timeout", 0, "Give up waiting for bring-up after this long (0 = wait forever)")
	follow  = flag.Bool("follow", false, "Keep printing console output after bring-up")
	debug   = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	log, err := logging.NewLogger("feo-console", *debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	log.Infow("connecting", "device", cfg.Device, "baud", cfg.Baud)
	b, err := board.Connect(cfg, log)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, b.Close()) }()

	b.OnLine = logging.BoardWriter(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	rep, err := b.WaitBoot(ctx)
	if err != nil {
		if errors.Is(err, board.ErrBringUp) {
			log.Errorw("board did not come up", "steps", rep.Steps)
		}
		return err
	}
	log.Infow("board up", "elapsed", time.Since(start), "rtc", rep.RTC, "steps", rep.Steps)

	if !*follow {
		return nil
	}
	return passthrough(ctx, b)
}

// passthrough keeps logging console output and forwards stdin lines to the
// board until ctx ends or the board reports another bring-up.
func passthrough(ctx context.Context, b *board.Board) error {
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := b.Send(scanner.Text()); err != nil {
				return
			}
		}
	}()

	_, err := b.WaitBoot(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
