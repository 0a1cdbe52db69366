package channel

import (
	"sync"

	"chatteroo"
)

// LoopbackChannel is an in-process Transmitter and Receiver pair backed
// by a buffered queue of already-wrapped frames. It exists for tests and
// local demos: two stations can talk to each other, or to themselves,
// without any real radio hardware or network socket.
//
// Every Send round-trips its Transmission through Wrap/Unwrap exactly as
// a real link would, so a LoopbackChannel exercises the full wire codec
// and catches encode/decode mismatches a pure in-memory pass-through
// would miss.
type LoopbackChannel struct {
	mu     sync.Mutex
	cond   *sync.Cond
	frames []loopbackFrame
	closed bool
}

type loopbackFrame struct {
	destCallsign string
	destSSID     uint8
	srcCallsign  string
	srcSSID      uint8
	payload      []byte
}

// NewLoopbackChannel returns a ready-to-use LoopbackChannel.
func NewLoopbackChannel() *LoopbackChannel {
	lc := &LoopbackChannel{}
	lc.cond = sync.NewCond(&lc.mu)
	return lc
}

// Send wraps t and enqueues it for the next Receive call.
func (lc *LoopbackChannel) Send(t chatteroo.Transmission) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.closed {
		return ErrOffline
	}
	lc.frames = append(lc.frames, loopbackFrame{
		destCallsign: DestinationCallsign(t.Network),
		destSSID:     t.Version.SSID(),
		srcCallsign:  t.Sender.Callsign(),
		srcSSID:      t.Sender.SSID(),
		payload:      Wrap(t),
	})
	lc.cond.Signal()
	return nil
}

// Receive blocks until a frame is available, then unwraps and returns
// it. It returns ErrOffline once Close has been called and the queue is
// drained.
func (lc *LoopbackChannel) Receive() (chatteroo.Transmission, error) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	for len(lc.frames) == 0 && !lc.closed {
		lc.cond.Wait()
	}
	if len(lc.frames) == 0 {
		return chatteroo.Transmission{}, ErrOffline
	}
	f := lc.frames[0]
	lc.frames = lc.frames[1:]
	return Unwrap(f.destCallsign, f.destSSID, f.srcCallsign, f.srcSSID, f.payload)
}

// Close marks the channel offline. Pending frames already queued are
// still delivered by Receive; once drained, Receive returns ErrOffline.
func (lc *LoopbackChannel) Close() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.closed = true
	lc.cond.Broadcast()
}
