package rki2c

import (
	"feo/debug"
	"feo/regs"
)

// clearPending acknowledges every latched flag so stale status from an
// earlier cycle is never taken for completion of the next phase.
func (b *Bus) clearPending() {
	b.r.Write32(RegIPD, IntAll)
}

func (b *Bus) sendStart() error {
	return b.signal(ConStart, IntStart, ErrStartBitTimeout)
}

func (b *Bus) sendStop() error {
	return b.signal(ConStop, IntStop, ErrStopBitTimeout)
}

// signal asserts a start or stop condition and waits for its finished flag.
// On timeout the controller is disabled before the error is returned.
func (b *Bus) signal(cond, flag uint32, timeout Error) error {
	b.clearPending()

	regs.Set(b.r, RegCON, ConEnable|cond)
	b.r.Write32(RegIEN, flag)

	if _, ok := b.waitPending(flag, b.cfg.PollLimit); !ok {
		b.disable()
		debug.Println(b.cfg.Name + ": " + timeout.Error())
		return timeout
	}

	b.r.Write32(RegIPD, flag)
	return nil
}

// disable zeroes CON. Always safe, including on a disabled controller.
func (b *Bus) disable() {
	b.r.Write32(RegCON, 0)
}

// terminate releases the bus: stop condition, then disable regardless of the
// stop outcome.
func (b *Bus) terminate() error {
	err := b.sendStop()
	b.disable()
	return err
}

// abort terminates after a mid-transaction failure. A failing stop replaces
// cause, since it is the more severe bus state.
func (b *Bus) abort(addr uint8, cause Error) error {
	debug.Println(b.cfg.Name + ": " + cause.Error() + " addr=" + debug.Hex8(addr))
	if err := b.terminate(); err != nil {
		return err
	}
	return cause
}

// waitPending spins on IPD until a bit of mask latches. limit 0 spins
// without bound. It returns the latched bits of mask.
func (b *Bus) waitPending(mask uint32, limit int) (uint32, bool) {
	for i := 0; limit == 0 || i < limit; i++ {
		if p := b.r.Read32(RegIPD) & mask; p != 0 {
			return p, true
		}
	}
	return 0, false
}
