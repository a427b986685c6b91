package rki2csim

import "feo/debug"

// EventKind classifies bus events.
type EventKind uint8

const (
	EvStart     EventKind = iota // start or repeated start
	EvStop                       // stop condition
	EvAddress                    // address byte, R/W bit included
	EvWrite                      // byte sent by the master and acknowledged
	EvRead                       // byte sent by the slave
	EvNak                        // slave refusal
	EvMasterNak                  // master refused the last byte of a read
	EvRelease                    // controller disabled mid-transaction, no stop
)

var eventNames = [...]string{
	EvStart:     "START",
	EvStop:      "STOP",
	EvAddress:   "ADDR",
	EvWrite:     "WRITE",
	EvRead:      "READ",
	EvNak:       "NAK",
	EvMasterNak: "MNAK",
	EvRelease:   "RELEASE",
}

// Event is one entry of the bus log.
type Event struct {
	Kind EventKind
	Byte byte
}

func (e Event) String() string {
	name := "?"
	if int(e.Kind) < len(eventNames) {
		name = eventNames[e.Kind]
	}
	switch e.Kind {
	case EvAddress, EvWrite, EvRead:
		return name + " " + debug.Hex8(e.Byte)
	}
	return name
}

// Kinds returns only the kinds of evs, for coarse sequence checks.
func Kinds(evs []Event) []EventKind {
	out := make([]EventKind, len(evs))
	for i, e := range evs {
		out[i] = e.Kind
	}
	return out
}
