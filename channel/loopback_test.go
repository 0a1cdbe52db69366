package channel

import (
	"testing"

	"chatteroo"
)

func TestLoopbackChannelSendReceive(t *testing.T) {
	lc := NewLoopbackChannel()
	tr := sampleTransmission(t)

	if err := lc.Send(tr); err != nil {
		t.Fatalf("Send: %v", err)
	}

	got, err := lc.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if got.Version != tr.Version || got.Network != tr.Network || got.Sender != tr.Sender || got.Command != tr.Command {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, tr)
	}
}

func TestLoopbackChannelPreservesOrder(t *testing.T) {
	lc := NewLoopbackChannel()
	network, _ := chatteroo.NewNetwork("VK7")
	sender, _ := chatteroo.NewStation("VK7XT", 4)

	for i := 0; i < 3; i++ {
		target, _ := chatteroo.NewStation("VK7NTK", uint8(i))
		tr := chatteroo.Transmission{
			Version: chatteroo.VersionTest,
			Network: network,
			Sender:  sender,
			Command: chatteroo.PingRequest{Target: target},
		}
		if err := lc.Send(tr); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}

	for i := 0; i < 3; i++ {
		got, err := lc.Receive()
		if err != nil {
			t.Fatalf("Receive %d: %v", i, err)
		}
		want, _ := chatteroo.NewStation("VK7NTK", uint8(i))
		if got.Command != (chatteroo.PingRequest{Target: want}) {
			t.Errorf("Receive %d: got %+v, want PingRequest to %s", i, got.Command, want)
		}
	}
}

func TestLoopbackChannelOfflineAfterClose(t *testing.T) {
	lc := NewLoopbackChannel()
	lc.Close()

	if err := lc.Send(sampleTransmission(t)); err != ErrOffline {
		t.Errorf("Send after close: got %v, want ErrOffline", err)
	}
	if _, err := lc.Receive(); err != ErrOffline {
		t.Errorf("Receive after close with empty queue: got %v, want ErrOffline", err)
	}
}

func TestLoopbackChannelDrainsBeforeOffline(t *testing.T) {
	lc := NewLoopbackChannel()
	tr := sampleTransmission(t)
	if err := lc.Send(tr); err != nil {
		t.Fatal(err)
	}
	lc.Close()

	if _, err := lc.Receive(); err != nil {
		t.Errorf("queued frame should still be delivered after Close: %v", err)
	}
	if _, err := lc.Receive(); err != ErrOffline {
		t.Errorf("drained channel: got %v, want ErrOffline", err)
	}
}
