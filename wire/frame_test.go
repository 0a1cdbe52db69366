package wire

import (
	"bytes"
	"testing"

	"chatteroo"
)

func TestFrameWithMetadataRoundTrip(t *testing.T) {
	cases := []chatteroo.FrameWithMetadata{
		{EpochMod8: 0, Index: 0, StartOfMessage: false, EndOfMessage: false, Application: 0, Data: nil},
		{EpochMod8: 7, Index: 8191, StartOfMessage: true, EndOfMessage: true, Application: 15, Data: []byte("hello, chatteroo")},
		{EpochMod8: 3, Index: 42, StartOfMessage: true, EndOfMessage: false, Application: 9, Data: []byte{}},
	}
	for _, f := range cases {
		encoded := EncodeFrameWithMetadata(f, nil)
		got, err := DecodeFrameWithMetadata(encoded)
		if err != nil {
			t.Fatalf("DecodeFrameWithMetadata: %v", err)
		}
		if got.EpochMod8 != f.EpochMod8 || got.Index != f.Index ||
			got.StartOfMessage != f.StartOfMessage || got.EndOfMessage != f.EndOfMessage ||
			got.Application != f.Application || !bytes.Equal(got.Data, f.Data) {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, f)
		}
	}
}

func TestDecodeFrameWithMetadataTruncated(t *testing.T) {
	if _, err := DecodeFrameWithMetadata([]byte{0x01, 0x02}); err != chatteroo.ErrTruncated {
		t.Errorf("got %v, want ErrTruncated", err)
	}
}

func TestContiguousRangeBottomZeroEncoding(t *testing.T) {
	got := EncodeContiguousRange(chatteroo.ContiguousRange{Top: 100, Bottom: 0}, nil)
	want := []byte{0x80, 0x64}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeContiguousRange({100,0}) = % x, want % x", got, want)
	}
}

func TestContiguousRangeNonZeroBottomEncoding(t *testing.T) {
	got := EncodeContiguousRange(chatteroo.ContiguousRange{Top: 300, Bottom: 200}, nil)
	want := []byte{0x01, 0x2C, 0x00, 0xC8}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeContiguousRange({300,200}) = % x, want % x", got, want)
	}
}

func TestContiguousRangeRoundTrip(t *testing.T) {
	cases := []chatteroo.ContiguousRange{
		{Top: 0, Bottom: 0},
		{Top: 8191, Bottom: 0},
		{Top: 100, Bottom: 50},
		{Top: 8191, Bottom: 1},
	}
	for _, r := range cases {
		encoded := EncodeContiguousRange(r, nil)
		got, remainder, err := DecodeContiguousRange(encoded)
		if err != nil {
			t.Fatalf("DecodeContiguousRange(%+v): %v", r, err)
		}
		if got != r {
			t.Errorf("round trip of %+v gave %+v", r, got)
		}
		if len(remainder) != 0 {
			t.Errorf("leftover remainder decoding %+v: %d bytes", r, len(remainder))
		}
	}
}

func TestContiguousRangeTruncation(t *testing.T) {
	if _, _, err := DecodeContiguousRange(nil); err != chatteroo.ErrTruncated {
		t.Errorf("empty buffer: got %v, want ErrTruncated", err)
	}
	if _, _, err := DecodeContiguousRange([]byte{0x80}); err != chatteroo.ErrTruncated {
		t.Errorf("1-byte dense buffer: got %v, want ErrTruncated", err)
	}
	if _, _, err := DecodeContiguousRange([]byte{0x00, 0x64, 0x00}); err != chatteroo.ErrTruncated {
		t.Errorf("3-byte sparse buffer: got %v, want ErrTruncated", err)
	}
}

func TestStationSummaryRoundTrip(t *testing.T) {
	s, err := chatteroo.NewStation("VK7XT", 5)
	if err != nil {
		t.Fatal(err)
	}
	ss := chatteroo.StationSummary{Station: s, Top: 120, Bottom: 10, EpochCRC: 0xDEADBEEF}

	encoded := EncodeStationSummary(ss, "VK7", nil)
	got, remainder, err := DecodeStationSummary(encoded, "VK7")
	if err != nil {
		t.Fatalf("DecodeStationSummary: %v", err)
	}
	if got != ss {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, ss)
	}
	if len(remainder) != 0 {
		t.Errorf("leftover remainder: %d bytes", len(remainder))
	}
}

func TestFrameRequestRoundTrip(t *testing.T) {
	target, err := chatteroo.NewStation("VK7XT", 5)
	if err != nil {
		t.Fatal(err)
	}
	inserter, err := chatteroo.NewStation("VK7NTK", 2)
	if err != nil {
		t.Fatal(err)
	}
	fr := chatteroo.FrameRequest{Target: target, Inserter: inserter, EpochMod8: 5, Index: 1234}

	encoded := EncodeFrameRequest(fr, "VK7", nil)
	got, remainder, err := DecodeFrameRequest(encoded, "VK7")
	if err != nil {
		t.Fatalf("DecodeFrameRequest: %v", err)
	}
	if got != fr {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, fr)
	}
	if len(remainder) != 0 {
		t.Errorf("leftover remainder: %d bytes", len(remainder))
	}
}
