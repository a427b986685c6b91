package rki2c

import "periph.io/x/conn/v3/physic"

// SCL = ClockRate / (8 * ((divl+1) + (divh+1))).

// clockDivider returns the CLKDIV value for the fastest SCL not above scl.
func clockDivider(clk, scl physic.Frequency) (uint32, error) {
	if clk <= 0 || scl <= 0 || scl > physic.MegaHertz {
		return 0, ErrInvalidSpeed
	}

	div := int64((clk + 8*scl - 1) / (8 * scl))
	if div < 2 {
		return 0, ErrInvalidSpeed
	}
	divh := (div + 1) / 2
	divl := div / 2
	if divh-1 > 0xffff {
		return 0, ErrInvalidSpeed
	}

	return DivHigh.Put(DivLow.Put(0, uint32(divl-1)), uint32(divh-1)), nil
}

// SetSpeed reprograms the SCL divider.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	div, err := clockDivider(b.cfg.ClockRate, f)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.r.Write32(RegCLKDIV, div)
	b.cfg.Speed = f
	return nil
}

// Speed returns the SCL frequency the current divider produces.
func (b *Bus) Speed() physic.Frequency {
	b.mu.Lock()
	defer b.mu.Unlock()
	div := b.r.Read32(RegCLKDIV)
	n := int64(DivLow.Get(div)+1) + int64(DivHigh.Get(div)+1)
	return b.cfg.ClockRate / physic.Frequency(8*n)
}
