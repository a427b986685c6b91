package debug

// Itoa converts an integer to a string without using fmt
func Itoa(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	u := uint64(n)
	if negative {
		u = uint64(-n)
	}

	s := Utoa(u)
	if negative {
		return "-" + s
	}
	return s
}

// Utoa converts an unsigned integer to a decimal string
func Utoa(n uint64) string {
	if n == 0 {
		return "0"
	}

	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}

const hexDigits = "0123456789abcdef"

// Hex8 formats b as 0xNN
func Hex8(b uint8) string {
	return string([]byte{'0', 'x', hexDigits[b>>4], hexDigits[b&0xf]})
}

// Hex32 formats v as 0xNNNNNNNN
func Hex32(v uint32) string {
	buf := []byte("0x00000000")
	for i := 9; i >= 2; i-- {
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	return string(buf)
}
