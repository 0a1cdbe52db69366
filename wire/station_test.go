package wire

import (
	"bytes"
	"testing"

	"chatteroo"
)

func mustStation(t *testing.T, callsign string, ssid uint8) chatteroo.Station {
	t.Helper()
	s, err := chatteroo.NewStation(callsign, ssid)
	if err != nil {
		t.Fatalf("NewStation(%q, %d): %v", callsign, ssid, err)
	}
	return s
}

func TestEncodeStationSizes(t *testing.T) {
	cases := []struct {
		callsign string
		ssid     uint8
		prefix   string
		wantLen  int
	}{
		{"W1AW", 0, "", 4},
		{"VK7XT", 5, "", 5},
		{"VK7FDAE", 4, "", 6},
		{"VK7XT", 5, "VK7", 3},
		{"VK7NTK", 8, "VK7", 3},
		{"VK7XT", 5, "VK3", 5},
	}
	for _, c := range cases {
		s := mustStation(t, c.callsign, c.ssid)
		got := EncodeStation(s, c.prefix)
		if len(got) != c.wantLen {
			t.Errorf("EncodeStation(%s, %q) len = %d, want %d (% x)", s, c.prefix, len(got), c.wantLen, got)
		}
	}
}

func TestEncodeStationExactBytes(t *testing.T) {
	s := mustStation(t, "VK7XT", 5)

	got := EncodeStation(s, "")
	want := []byte{0x54, 0xA8, 0x57, 0x4E, 0x90}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeStation(%s, \"\") = % x, want % x", s, got, want)
	}

	got = EncodeStation(s, "VK7")
	want = []byte{0x5D, 0x3C, 0xC0}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeStation(%s, \"VK7\") = % x, want % x", s, got, want)
	}
}

func TestStationRoundTrip(t *testing.T) {
	prefixes := []string{"", "VK7", "W"}
	callsigns := []struct {
		callsign string
		ssid     uint8
	}{
		{"W1AW", 0},
		{"VK7XT", 5},
		{"VK7FDAE", 4},
		{"VK7NTK", 9},
		{"A", 0},
	}
	for _, prefix := range prefixes {
		for _, c := range callsigns {
			s := mustStation(t, c.callsign, c.ssid)
			encoded := EncodeStation(s, prefix)
			got, remainder, err := DecodeStation(encoded, prefix)
			if err != nil {
				t.Fatalf("DecodeStation(EncodeStation(%s, %q)): %v", s, prefix, err)
			}
			if got != s {
				t.Errorf("round trip of %s with prefix %q gave %s", s, prefix, got)
			}
			if len(remainder) != 0 {
				t.Errorf("round trip of %s with prefix %q left %d bytes remainder", s, prefix, len(remainder))
			}
		}
	}
}

func TestStationConcatenatedRoundTrip(t *testing.T) {
	a := mustStation(t, "VK7XT", 5)
	b := mustStation(t, "VK7NTK", 2)
	c := mustStation(t, "W1AW", 0)

	var buf []byte
	buf = append(buf, EncodeStation(a, "VK7")...)
	buf = append(buf, EncodeStation(b, "VK7")...)
	buf = append(buf, EncodeStation(c, "VK7")...)

	gotA, rest, err := DecodeStation(buf, "VK7")
	if err != nil || gotA != a {
		t.Fatalf("first station: %v, %v", gotA, err)
	}
	gotB, rest, err := DecodeStation(rest, "VK7")
	if err != nil || gotB != b {
		t.Fatalf("second station: %v, %v", gotB, err)
	}
	gotC, rest, err := DecodeStation(rest, "VK7")
	if err != nil || gotC != c {
		t.Fatalf("third station: %v, %v", gotC, err)
	}
	if len(rest) != 0 {
		t.Errorf("leftover bytes after three stations: %d", len(rest))
	}
}

func TestDecodeStationTruncationNeverPanics(t *testing.T) {
	s := mustStation(t, "VK7FDAE", 4)
	encoded := EncodeStation(s, "")

	for n := 0; n < len(encoded); n++ {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("DecodeStation panicked on %d-byte truncation: %v", n, r)
				}
			}()
			if _, _, err := DecodeStation(encoded[:n], ""); err == nil {
				t.Errorf("DecodeStation on %d-byte truncation of %s did not fail", n, s)
			}
		}()
	}
}

func TestDecodeStationRejectsInvalidSymbol(t *testing.T) {
	// 0b111000_00: top 6 bits = 0b111000 = 56, the first invalid value.
	if _, _, err := DecodeStation([]byte{0b11100000}, ""); err != chatteroo.ErrInvalidStationIdentifier {
		t.Errorf("got %v, want ErrInvalidStationIdentifier", err)
	}
}

func TestDecodeStationRejectsZeroLengthCallsign(t *testing.T) {
	// A lone terminal symbol (36, "ssid 0 no prefix") with no callsign
	// symbols ahead of it must be rejected.
	if _, _, err := DecodeStation([]byte{36 << 2}, ""); err != chatteroo.ErrInvalidStationIdentifier {
		t.Errorf("got %v, want ErrInvalidStationIdentifier", err)
	}
}
