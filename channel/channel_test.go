package channel

import (
	"testing"

	"chatteroo"
)

func sampleTransmission(t *testing.T) chatteroo.Transmission {
	t.Helper()
	network, err := chatteroo.NewNetwork("VK7")
	if err != nil {
		t.Fatal(err)
	}
	sender, err := chatteroo.NewStation("VK7XT", 4)
	if err != nil {
		t.Fatal(err)
	}
	return chatteroo.Transmission{
		Version: chatteroo.VersionTest,
		Network: network,
		Sender:  sender,
		Command: chatteroo.PingRequest{Target: sender},
	}
}

func TestWrapUnwrapRoundTrip(t *testing.T) {
	tr := sampleTransmission(t)
	payload := Wrap(tr)

	destCallsign := DestinationCallsign(tr.Network)
	got, err := Unwrap(destCallsign, tr.Version.SSID(), tr.Sender.Callsign(), tr.Sender.SSID(), payload)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if got.Version != tr.Version || got.Network != tr.Network || got.Sender != tr.Sender {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, tr)
	}
	if got.Command != tr.Command {
		t.Errorf("command mismatch: got %+v, want %+v", got.Command, tr.Command)
	}
}

func TestUnwrapDetectsBitFlip(t *testing.T) {
	tr := sampleTransmission(t)
	payload := Wrap(tr)
	destCallsign := DestinationCallsign(tr.Network)

	for i := range payload {
		flipped := make([]byte, len(payload))
		copy(flipped, payload)
		flipped[i] ^= 0x01

		_, err := Unwrap(destCallsign, tr.Version.SSID(), tr.Sender.Callsign(), tr.Sender.SSID(), flipped)
		if err != chatteroo.ErrCrcMismatch {
			t.Errorf("byte %d bit flip: got %v, want ErrCrcMismatch", i, err)
		}
	}
}

func TestUnwrapRejectsNonChatterooDestination(t *testing.T) {
	tr := sampleTransmission(t)
	payload := Wrap(tr)

	_, err := Unwrap("XXX", tr.Version.SSID(), tr.Sender.Callsign(), tr.Sender.SSID(), payload)
	if err != chatteroo.ErrNotChatteroo {
		t.Errorf("got %v, want ErrNotChatteroo", err)
	}
}

func TestUnwrapRejectsUnknownVersion(t *testing.T) {
	tr := sampleTransmission(t)
	payload := Wrap(tr)
	destCallsign := DestinationCallsign(tr.Network)

	_, err := Unwrap(destCallsign, 7, tr.Sender.Callsign(), tr.Sender.SSID(), payload)
	if err == nil {
		t.Error("expected error for unrecognized version SSID")
	}
}

func TestUnwrapTruncatedPayload(t *testing.T) {
	destCallsign := "CHTVK7"
	_, err := Unwrap(destCallsign, 0, "VK7XT", 4, []byte{0x01, 0x02})
	if err != chatteroo.ErrTruncated {
		t.Errorf("got %v, want ErrTruncated", err)
	}
}

func TestDestinationCallsign(t *testing.T) {
	network, err := chatteroo.NewNetwork("VK7")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := DestinationCallsign(network), "CHTVK7"; got != want {
		t.Errorf("DestinationCallsign() = %q, want %q", got, want)
	}
}
