package debug

import "testing"

func TestPrintlnRoutesToWriter(t *testing.T) {
	var lines []string
	SetWriter(func(s string) { lines = append(lines, s) })
	defer SetWriter(nil)

	Println("hello")

	SetEnabled(false)
	Println("dropped")
	SetEnabled(true)

	if len(lines) != 1 || lines[0] != "hello" {
		t.Errorf("Expected [hello], got %v", lines)
	}
}

func TestNumberFormatting(t *testing.T) {
	testCases := []struct {
		got  string
		want string
	}{
		{Itoa(0), "0"},
		{Itoa(-42), "-42"},
		{Itoa(10000), "10000"},
		{Utoa(18446744073709551615), "18446744073709551615"},
		{Hex8(0x1b), "0x1b"},
		{Hex8(0xf0), "0xf0"},
		{Hex32(0xff3d0000), "0xff3d0000"},
		{Hex32(0), "0x00000000"},
	}

	for i, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("Test case %d: expected %q, got %q", i, tc.want, tc.got)
		}
	}
}
