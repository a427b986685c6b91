package serial

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// MaxLine bounds a single console line. Longer input is split.
const MaxLine = 512

// LineReader splits console output into lines. It accepts \n, \r and \r\n
// terminators and tolerates the read timeouts of a non-blocking port.
type LineReader struct {
	r       io.Reader
	buf     []byte
	pending []byte
	cr      bool
}

// NewLineReader returns a LineReader reading from r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r, buf: make([]byte, 256)}
}

// ReadLine returns the next line without its terminator. A timeout with no
// data is retried; io.EOF is returned once the port is closed and drained.
func (l *LineReader) ReadLine() (string, error) {
	for {
		if line, ok := l.take(); ok {
			return line, nil
		}

		n, err := l.r.Read(l.buf)
		l.pending = append(l.pending, l.buf[:n]...)
		if err != nil && !isTimeout(err) {
			if line, ok := l.take(); ok {
				return line, nil
			}
			if len(l.pending) > 0 {
				line := string(l.pending)
				l.pending = nil
				return line, nil
			}
			return "", err
		}
	}
}

// take extracts one complete line from the pending bytes.
func (l *LineReader) take() (string, bool) {
	if l.cr && len(l.pending) > 0 {
		if l.pending[0] == '\n' {
			l.pending = l.pending[1:]
		}
		l.cr = false
	}

	i := bytes.IndexAny(l.pending, "\r\n")
	if i < 0 {
		if len(l.pending) >= MaxLine {
			line := string(l.pending[:MaxLine])
			l.pending = l.pending[MaxLine:]
			return line, true
		}
		return "", false
	}

	line := string(l.pending[:i])
	l.cr = l.pending[i] == '\r'
	l.pending = l.pending[i+1:]
	return line, true
}

func isTimeout(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded)
}
