package rki2c

import "feo/regs"

// readFrom runs an addressed read in TRX mode.
//
// The controller sends the slave address with the write bit, then the
// sub-register address from MRXRADDR when it is marked valid, then a repeated
// start and the address with the read bit. After that each MRXCNT write clocks
// in one window. Every window but the last is acknowledged byte by byte; the
// last one ends with a refusal (CON.ACK) so the slave releases SDA.
func (b *Bus) readFrom(addr uint8, sub SubAddr, dst []byte) (int, error) {
	if err := b.sendStart(); err != nil {
		return 0, err
	}

	b.r.Write32(RegMRXADDR, AddrField.Put(AddrValid, uint32(addr)<<1|rwRead))
	if reg, ok := sub.Get(); ok {
		b.r.Write32(RegMRXRADDR, AddrField.Put(AddrValid, uint32(reg)))
	} else {
		b.r.Write32(RegMRXRADDR, 0)
	}

	off := 0
	for _, n := range windows(len(dst)) {
		last := off+n == len(dst)
		if err := b.receiveWindow(addr, dst[off:off+n], last); err != nil {
			return 0, err
		}
		off += n
	}

	if err := b.terminate(); err != nil {
		return 0, err
	}
	return len(dst), nil
}

func (b *Bus) receiveWindow(addr uint8, w []byte, last bool) error {
	regs.Modify(b.r, RegCON, func(v uint32) uint32 {
		v = ConMode.Put(v, ModeTRX)&^(ConStart|ConStop|ConAck) | ConEnable
		if last {
			v |= ConAck
		}
		return v
	})
	b.r.Write32(RegIEN, IntMasterRxDone|IntNak)

	// writing the count starts the receive
	b.r.Write32(RegMRXCNT, CountField.Put(0, uint32(len(w))))

	p, ok := b.waitPending(IntMasterRxDone|IntNak, b.cfg.ReadPollLimit)
	switch {
	case !ok:
		return b.abort(addr, ErrTimeout)
	case p&IntNak != 0:
		return b.abort(addr, ErrSlaveNak)
	}
	b.r.Write32(RegIPD, IntMasterRxDone)

	var words [WindowSlots]uint32
	for i := 0; i < (len(w)+3)/4; i++ {
		words[i] = b.r.Read32(RxData(i))
	}
	unpackWindow(words[:], w)
	return nil
}
