// Package console drives the board's diagnostic UART with busy-wait polling.
// Firmware on this SoC runs before any interrupt controller is set up, so
// every transfer spins on the line status bits.
package console

import (
	"errors"

	"feo/debug"
)

// DefaultMaxLine bounds ReadLine when the driver was built without a limit.
const DefaultMaxLine = 128

// ErrLineTooLong is returned by ReadLine when no terminator arrives within
// the line limit. The bytes read so far are returned with it and the next
// ReadLine continues where this one stopped.
var ErrLineTooLong = errors.New("console: line too long")

// Console is a byte-oriented diagnostic port.
type Console interface {
	Write(p []byte) (int, error)
	// ReadLine blocks for one line terminated by \n or \r and returns it
	// without the terminator.
	ReadLine() (string, error)
}

// port is the per-chip part of a UART: single-byte blocking transfers.
type port interface {
	putByte(b byte)
	getByte() byte
}

// lineReader holds the ReadLine state shared by the UART drivers.
type lineReader struct {
	max int
	// cr is set after a \r terminator so the \n of a \r\n pair is skipped
	cr bool
	// held is the byte that overflowed the previous line
	held    byte
	hasHeld bool
}

func (l *lineReader) next(p port) byte {
	if l.hasHeld {
		l.hasHeld = false
		return l.held
	}
	return p.getByte()
}

func (l *lineReader) readLine(p port) (string, error) {
	limit := l.max
	if limit <= 0 {
		limit = DefaultMaxLine
	}

	buf := make([]byte, 0, limit)
	for {
		b := l.next(p)
		if b == '\n' && l.cr && len(buf) == 0 {
			l.cr = false
			continue
		}
		l.cr = false

		switch b {
		case '\r':
			l.cr = true
			return string(buf), nil
		case '\n':
			return string(buf), nil
		}

		if len(buf) == limit {
			l.held, l.hasHeld = b, true
			return string(buf), ErrLineTooLong
		}
		buf = append(buf, b)
	}
}

func writeAll(p port, data []byte) (int, error) {
	for _, b := range data {
		p.putByte(b)
	}
	return len(data), nil
}

var crlf = []byte("\r\n")

// Tracer returns a debug.Writer that prints each trace line on c.
func Tracer(c Console) debug.Writer {
	return func(s string) {
		c.Write([]byte(s))
		c.Write(crlf)
	}
}
