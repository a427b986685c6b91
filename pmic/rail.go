package pmic

import "errors"

// Rail is one RK808 regulator output.
type Rail uint8

const (
	BUCK1 Rail = iota
	BUCK2
	BUCK3
	BUCK4
	LDO1
	LDO2
	LDO3
	LDO4
	LDO5
	LDO6
	LDO7
	LDO8

	numRails
)

var (
	ErrUnknownRail  = errors.New("unknown rail")
	ErrNoSelector   = errors.New("rail has no voltage selector")
	ErrVoltageRange = errors.New("voltage out of range")
)

// span is a linear voltage range: selectors first..last give
// min + (n-first)*step microvolts.
type span struct {
	first, last uint8
	min, step   int
}

type railInfo struct {
	name   string
	vsel   uint8 // ON_VSEL register, 0 for none
	mask   uint8
	enReg  uint8
	enBit  uint8
	ranges []span
}

var (
	buck12Ranges = []span{{0, 63, 712500, 12500}}
	buck4Ranges  = []span{{0, 15, 1800000, 100000}}
	ldoRanges    = []span{{0, 16, 1800000, 100000}}
	ldo36Ranges  = []span{{0, 13, 800000, 100000}, {15, 15, 2500000, 0}}
)

var rails = [numRails]railInfo{
	BUCK1: {"BUCK1", 0x2f, 0x3f, regDCDCEn, 0, buck12Ranges},
	BUCK2: {"BUCK2", 0x33, 0x3f, regDCDCEn, 1, buck12Ranges},
	BUCK3: {"BUCK3", 0, 0, regDCDCEn, 2, nil},
	BUCK4: {"BUCK4", 0x38, 0x0f, regDCDCEn, 3, buck4Ranges},
	LDO1:  {"LDO1", 0x3b, 0x1f, regLDOEn, 0, ldoRanges},
	LDO2:  {"LDO2", 0x3d, 0x1f, regLDOEn, 1, ldoRanges},
	LDO3:  {"LDO3", 0x3f, 0x1f, regLDOEn, 2, ldo36Ranges},
	LDO4:  {"LDO4", 0x41, 0x1f, regLDOEn, 3, ldoRanges},
	LDO5:  {"LDO5", 0x43, 0x1f, regLDOEn, 4, ldoRanges},
	LDO6:  {"LDO6", 0x45, 0x1f, regLDOEn, 5, ldo36Ranges},
	LDO7:  {"LDO7", 0x47, 0x1f, regLDOEn, 6, ldoRanges},
	LDO8:  {"LDO8", 0x49, 0x1f, regLDOEn, 7, ldoRanges},
}

func (r Rail) String() string {
	if r >= numRails {
		return "rail?"
	}
	return rails[r].name
}

// ParseRail maps a rail name such as "LDO3" to its Rail.
func ParseRail(name string) (Rail, error) {
	for i := range rails {
		if rails[i].name == name {
			return Rail(i), nil
		}
	}
	return 0, ErrUnknownRail
}

func (r Rail) info() (*railInfo, error) {
	if r >= numRails {
		return nil, ErrUnknownRail
	}
	return &rails[r], nil
}

// selector returns the lowest selector giving at least uv microvolts.
func (ri *railInfo) selector(uv int) (uint8, error) {
	if ri.vsel == 0 {
		return 0, ErrNoSelector
	}
	for _, s := range ri.ranges {
		top := s.min + int(s.last-s.first)*s.step
		if uv > top {
			continue
		}
		if uv <= s.min {
			return s.first, nil
		}
		n := (uv - s.min + s.step - 1) / s.step
		return s.first + uint8(n), nil
	}
	return 0, ErrVoltageRange
}

// microvolts decodes a selector read back from the rail.
func (ri *railInfo) microvolts(sel uint8) (int, error) {
	if ri.vsel == 0 {
		return 0, ErrNoSelector
	}
	for _, s := range ri.ranges {
		if sel >= s.first && sel <= s.last {
			return s.min + int(sel-s.first)*s.step, nil
		}
	}
	return 0, ErrVoltageRange
}
