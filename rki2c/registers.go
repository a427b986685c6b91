package rki2c

import "feo/regs"

// Register offsets of the RK3x I2C controller.
const (
	RegCON      = 0x000 // control
	RegCLKDIV   = 0x004 // SCL divider
	RegMRXADDR  = 0x008 // slave address for master receive
	RegMRXRADDR = 0x00c // slave sub-register address for master receive
	RegMTXCNT   = 0x010 // master transmit count, write triggers send
	RegMRXCNT   = 0x014 // master receive count, write triggers receive
	RegIEN      = 0x018 // interrupt enable
	RegIPD      = 0x01c // interrupt pending, write 1 to clear
	RegFCNT     = 0x020 // finished count
	RegTXDATA0  = 0x100 // eight transmit data words
	RegRXDATA0  = 0x200 // eight receive data words
)

// CON bits.
const (
	ConEnable = 1 << 0
	ConStart  = 1 << 3
	ConStop   = 1 << 4
	// ConAck makes the controller answer the last byte of the window with a
	// refusal so the slave releases SDA.
	ConAck = 1 << 5
)

// ConMode is the two-bit operating mode field of CON.
var ConMode = regs.Field{Shift: 1, Width: 2}

// Values of ConMode.
const (
	ModeTX  = 0b00
	ModeTRX = 0b01
	ModeRX  = 0b10
)

// IPD / IEN bits. Both registers share the layout.
const (
	IntByteTxDone   = 1 << 0 // btf
	IntByteRxDone   = 1 << 1 // brf
	IntMasterTxDone = 1 << 2 // mbtf
	IntMasterRxDone = 1 << 3 // mbrf
	IntStart        = 1 << 4
	IntStop         = 1 << 5
	IntNak          = 1 << 6
	IntSlaveHold    = 1 << 7

	IntAll = IntByteTxDone | IntByteRxDone | IntMasterTxDone | IntMasterRxDone |
		IntStart | IntStop | IntNak | IntSlaveHold
)

// AddrValid marks the low address byte of MRXADDR / MRXRADDR as valid.
const AddrValid = 1 << 24

// AddrField holds the address bytes in MRXADDR / MRXRADDR.
var AddrField = regs.Field{Shift: 0, Width: 24}

// CountField is the byte count in MTXCNT / MRXCNT.
var CountField = regs.Field{Shift: 0, Width: 6}

// CLKDIV halves.
var (
	DivLow  = regs.Field{Shift: 0, Width: 16}
	DivHigh = regs.Field{Shift: 16, Width: 16}
)

const (
	// WindowSize is the hardware transfer window in bytes.
	WindowSize = 32
	// WindowSlots is the number of 4-byte data words per window.
	WindowSlots = WindowSize / 4

	rwRead  = 1
	rwWrite = 0
)

// TxData returns the offset of transmit data word i.
func TxData(i int) uint32 { return RegTXDATA0 + uint32(i)*4 }

// RxData returns the offset of receive data word i.
func RxData(i int) uint32 { return RegRXDATA0 + uint32(i)*4 }
