package rki2c

// Byte i of a window lives in data word i/4 at bit offset (i%4)*8, least
// significant byte first.

// packWindow packs up to WindowSize bytes into data words. It returns the
// number of words used.
func packWindow(words *[WindowSlots]uint32, frame []byte) int {
	*words = [WindowSlots]uint32{}
	for i, c := range frame {
		words[i/4] |= uint32(c) << (uint(i%4) * 8)
	}
	return (len(frame) + 3) / 4
}

// unpackWindow fills dst from data words, inverse of packWindow.
func unpackWindow(words []uint32, dst []byte) {
	for i := range dst {
		dst[i] = byte(words[i/4] >> (uint(i%4) * 8))
	}
}

// windows returns the sizes of the receive windows for an n-byte read.
func windows(n int) []int {
	var sizes []int
	for n > 0 {
		w := min(n, WindowSize)
		sizes = append(sizes, w)
		n -= w
	}
	return sizes
}
