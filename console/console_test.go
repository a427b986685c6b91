package console_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"feo/console"
	"feo/console/uartsim"
	"feo/debug"
	"feo/regs"
)

func TestNS16550ResetsFIFO(t *testing.T) {
	sim := uartsim.NewNS16550(nil)
	sim.Feed("stale")

	c := console.NewNS16550(sim, 0)

	want := []uint32{console.FcrFIFOEnable | console.FcrRxReset}
	if diff := cmp.Diff(want, sim.FIFOControl()); diff != "" {
		t.Errorf("FCR writes mismatch (-want +got):\n%s", diff)
	}

	sim.Feed("ok\n")
	line, err := c.ReadLine()
	if err != nil || line != "ok" {
		t.Errorf("Expected (ok, nil) after reset, got (%q, %v)", line, err)
	}
}

func TestWrite(t *testing.T) {
	testCases := []struct {
		name string
		new  func(out *bytes.Buffer) console.Console
	}{
		{"ns16550", func(out *bytes.Buffer) console.Console {
			return console.NewNS16550(uartsim.NewNS16550(out), 0)
		}},
		{"pl011", func(out *bytes.Buffer) console.Console {
			return console.NewPL011(uartsim.NewPL011(out), 0)
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			c := tc.new(&out)

			n, err := c.Write([]byte("Hello from feo!\r\n"))
			if err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if n != 17 {
				t.Errorf("Expected 17 bytes written, got %d", n)
			}
			if out.String() != "Hello from feo!\r\n" {
				t.Errorf("Unexpected output %q", out.String())
			}
		})
	}
}

func TestNS16550WaitsForTransmitter(t *testing.T) {
	var out bytes.Buffer
	sim := uartsim.NewNS16550(&out)

	// holding register reports full for the first few polls of each byte
	busy := 0
	sim.OnRead(console.UartLSR, func(uint32) uint32 {
		busy++
		if busy%3 != 0 {
			return 0
		}
		return console.LsrTHREmpty
	})

	c := console.NewNS16550(sim, 0)
	c.Write([]byte("ab"))

	if out.String() != "ab" {
		t.Errorf("Unexpected output %q", out.String())
	}
	if polls := sim.Count(regs.OpRead, console.UartLSR); polls != 6 {
		t.Errorf("Expected 6 status polls, got %d", polls)
	}
}

func TestReadLine(t *testing.T) {
	sim := uartsim.NewPL011(nil)
	c := console.NewPL011(sim, 0)

	sim.Feed("first\r\nsecond\rthird\n\n")

	var got []string
	for i := 0; i < 4; i++ {
		line, err := c.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine #%d failed: %v", i, err)
		}
		got = append(got, line)
	}

	want := []string{"first", "second", "third", ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
}

func TestReadLineTooLong(t *testing.T) {
	sim := uartsim.NewNS16550(nil)
	c := console.NewNS16550(sim, 4)

	sim.Feed("abcdefg\n")

	line, err := c.ReadLine()
	if !errors.Is(err, console.ErrLineTooLong) {
		t.Fatalf("Expected ErrLineTooLong, got %v", err)
	}
	if line != "abcd" {
		t.Errorf("Expected prefix abcd, got %q", line)
	}

	// the rest of the line is not lost
	line, err = c.ReadLine()
	if err != nil || line != "efg" {
		t.Errorf("Expected (efg, nil), got (%q, %v)", line, err)
	}
}

func TestReadLineExactLimit(t *testing.T) {
	sim := uartsim.NewNS16550(nil)
	c := console.NewNS16550(sim, 4)

	sim.Feed("abcd\r")
	line, err := c.ReadLine()
	if err != nil || line != "abcd" {
		t.Errorf("Expected (abcd, nil), got (%q, %v)", line, err)
	}
}

func TestTracer(t *testing.T) {
	var out bytes.Buffer
	c := console.NewNS16550(uartsim.NewNS16550(&out), 0)

	debug.SetWriter(console.Tracer(c))
	defer debug.SetWriter(nil)

	debug.Println("i2c0: slave refused addr=0x1b")

	if out.String() != "i2c0: slave refused addr=0x1b\r\n" {
		t.Errorf("Unexpected trace output %q", out.String())
	}
}
