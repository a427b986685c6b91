package rki2c

import "feo/regs"

// writeTo sends one TX-mode frame: address byte, optional sub-register byte,
// then the payload. The caller has checked that the frame fits the window.
func (b *Bus) writeTo(addr uint8, sub SubAddr, src []byte) (int, error) {
	var frame [WindowSize]byte
	frame[0] = addr<<1 | rwWrite
	n := 1
	if reg, ok := sub.Get(); ok {
		frame[n] = reg
		n++
	}
	n += copy(frame[n:], src)

	if err := b.sendStart(); err != nil {
		return 0, err
	}

	regs.Modify(b.r, RegCON, func(v uint32) uint32 {
		return ConMode.Put(v, ModeTX)&^(ConStart|ConStop|ConAck) | ConEnable
	})
	b.r.Write32(RegIEN, IntMasterTxDone|IntNak)

	var words [WindowSlots]uint32
	used := packWindow(&words, frame[:n])
	for i := 0; i < used; i++ {
		b.r.Write32(TxData(i), words[i])
	}

	// writing the count starts the send
	b.r.Write32(RegMTXCNT, CountField.Put(0, uint32(n)))

	p, ok := b.waitPending(IntMasterTxDone|IntNak, b.cfg.PollLimit)
	switch {
	case !ok:
		return 0, b.abort(addr, ErrTimeout)
	case p&IntNak != 0:
		return 0, b.abort(addr, ErrSlaveNak)
	}

	if err := b.terminate(); err != nil {
		return 0, err
	}
	return n, nil
}
