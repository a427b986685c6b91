// Package board follows an RK3399 running feo over its debug console and
// reports how bring-up went.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"feo/host/serial"
)

// ErrBringUp is returned when the board reports a failed bring-up. The
// board's message is wrapped with it.
var ErrBringUp = errors.New("board bring-up failed")

const (
	stepPrefix = "boot: "
	doneLine   = "boot: done"
	failPrefix = "bring-up failed: "
	rtcPrefix  = "boot: rtc "
)

// Report summarizes a bring-up as seen on the console.
type Report struct {
	Banner string
	Steps  []string
	RTC    string
	Traces []string
}

// Board is a connection to the board's debug console
type Board struct {
	port  serial.Port
	lines *serial.LineReader
	log   *zap.SugaredLogger

	mu     sync.Mutex
	closed bool

	// OnLine, if set, sees every console line
	OnLine func(string)
}

// Connect opens the serial device and returns the board behind it
func Connect(cfg *serial.Config, log *zap.SugaredLogger) (*Board, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	return New(port, log), nil
}

// New wraps an already open port
func New(port serial.Port, log *zap.SugaredLogger) *Board {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Board{
		port:  port,
		lines: serial.NewLineReader(port),
		log:   log,
	}
}

// Close closes the port. Closing twice is a no-op.
func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return multierr.Append(b.port.Flush(), b.port.Close())
}

// Send writes one line to the board.
func (b *Board) Send(line string) error {
	_, err := b.port.Write([]byte(line + "\r\n"))
	return err
}

// WaitBoot reads the console until bring-up finishes. It returns the report
// and nil when the board prints its done marker, the report and an error
// wrapping ErrBringUp when the board reports a failure, and ctx.Err() if ctx
// ends first. Cancelling ctx closes the port to unblock the reader.
func (b *Board) WaitBoot(ctx context.Context) (*Report, error) {
	type result struct {
		rep *Report
		err error
	}
	done := make(chan result, 1)

	go func() {
		rep, err := b.follow()
		done <- result{rep, err}
	}()

	select {
	case r := <-done:
		return r.rep, r.err
	case <-ctx.Done():
		err := b.Close()
		r := <-done
		return r.rep, multierr.Append(ctx.Err(), err)
	}
}

func (b *Board) follow() (*Report, error) {
	rep := &Report{}
	for {
		line, err := b.lines.ReadLine()
		if err != nil {
			return rep, fmt.Errorf("console: %w", err)
		}
		if b.OnLine != nil {
			b.OnLine(line)
		}

		switch {
		case line == "":
		case strings.HasPrefix(line, failPrefix):
			msg := strings.TrimPrefix(line, failPrefix)
			b.log.Errorw("bring-up failed", "reason", msg)
			return rep, fmt.Errorf("%w: %s", ErrBringUp, msg)
		case line == doneLine:
			b.log.Infow("bring-up complete", "steps", len(rep.Steps))
			return rep, nil
		case strings.HasPrefix(line, rtcPrefix):
			rep.RTC = strings.TrimPrefix(line, rtcPrefix)
		case strings.HasPrefix(line, stepPrefix):
			step := strings.TrimPrefix(line, stepPrefix)
			if strings.Contains(step, " failed: ") {
				rep.Traces = append(rep.Traces, line)
				continue
			}
			rep.Steps = append(rep.Steps, step)
			b.log.Debugw("step", "name", step)
		case rep.Banner == "" && len(rep.Steps) == 0:
			rep.Banner = line
		default:
			rep.Traces = append(rep.Traces, line)
		}
	}
}
