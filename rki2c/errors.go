package rki2c

// Error is a bus failure. Every value is recoverable; retry policy belongs to
// the caller.
type Error uint8

const (
	// ErrUnknown is reserved for failures this package does not classify yet.
	ErrUnknown Error = iota
	// ErrStartBitTimeout means the start condition never completed.
	ErrStartBitTimeout
	// ErrStopBitTimeout means the stop condition never completed.
	ErrStopBitTimeout
	// ErrSlaveNak means the addressed device refused.
	ErrSlaveNak
	// ErrTimeout means a data phase never completed.
	ErrTimeout
	// ErrFrameTooLong means a write frame does not fit the transfer window.
	ErrFrameTooLong
	// ErrInvalidAddress means the slave address is wider than 7 bits.
	ErrInvalidAddress
	// ErrInUse means the register block is already claimed.
	ErrInUse
	// ErrClosed means the bus was used after Close.
	ErrClosed
	// ErrUnsupported means the controller cannot express the transfer.
	ErrUnsupported
	// ErrInvalidSpeed means the bus clock cannot be derived from the input clock.
	ErrInvalidSpeed
)

var errorText = [...]string{
	ErrUnknown:         "rki2c: unknown error",
	ErrStartBitTimeout: "rki2c: start bit timeout",
	ErrStopBitTimeout:  "rki2c: stop bit timeout",
	ErrSlaveNak:        "rki2c: slave refused (NAK)",
	ErrTimeout:         "rki2c: transfer timeout",
	ErrFrameTooLong:    "rki2c: frame exceeds transfer window",
	ErrInvalidAddress:  "rki2c: address is not 7-bit",
	ErrInUse:           "rki2c: controller already claimed",
	ErrClosed:          "rki2c: bus closed",
	ErrUnsupported:     "rki2c: transfer not supported by controller",
	ErrInvalidSpeed:    "rki2c: invalid bus speed",
}

func (e Error) Error() string {
	if int(e) < len(errorText) {
		return errorText[e]
	}
	return errorText[ErrUnknown]
}
