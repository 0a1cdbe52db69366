package chatteroo

import "time"

// epochAnchor is the beginning of time in the Chatteroo universe.
// Epoch 0 runs from this instant for exactly 7 days.
var epochAnchor = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Now is the wall clock used by EpochNow, EpochFromMod8 and Epoch.Age. Tests that need
// reproducible "current time" behavior should replace it and restore it
// afterward; production code should leave it untouched.
var Now = time.Now

// Epoch identifies a single week-long window of protocol time, counted
// as an absolute, non-negative index since epochAnchor. Frames are
// implicitly tagged with the epoch in which they were inserted.
type Epoch struct {
	abs uint32
}

// EpochAt returns the Epoch containing the given instant.
func EpochAt(t time.Time) Epoch {
	weeks := t.Sub(epochAnchor) / (7 * 24 * time.Hour)
	if weeks < 0 {
		weeks = 0
	}
	return Epoch{abs: uint32(weeks)}
}

// EpochNow returns the Epoch containing the current wall-clock time.
func EpochNow() Epoch {
	return EpochAt(Now())
}

// IndexAbs returns the absolute, monotonically increasing epoch index.
func (e Epoch) IndexAbs() uint32 {
	return e.abs
}

// IndexMod8 returns the low 3 bits of the absolute index, the form
// actually carried on the wire.
//
// The contract on the sending side: this must only be called on the
// current epoch or one of the 4 epochs immediately before it - 5 of the
// 8 possible residues. EpochFromMod8 on the receiving side tolerates up
// to one week of clock skew in either direction by also accepting 2 of
// the remaining 3 residues, as "received from the future" (now+1) or
// "the oldest past epoch we still track" (now-5); the last residue is
// rejected with ErrUnreadableEpoch.
func (e Epoch) IndexMod8() uint8 {
	return uint8(e.abs % 8)
}

// EpochFromMod8 reconstructs an absolute Epoch from its mod-8 wire form,
// using the current time as context.
//
// Of the three candidate absolute values consistent with mod8 (the
// current 8-week block, one block earlier, one block later), exactly
// one will fall within the window [now-5, now+1] that a well-behaved
// sender could have produced. If none do - which only happens if the
// sender's clock is badly skewed or it transmitted a value it was never
// supposed to - ErrUnreadableEpoch is returned.
func EpochFromMod8(mod8 uint8) (Epoch, error) {
	nowAbs := EpochNow().abs
	curr := (nowAbs &^ 7) + uint32(mod8)
	lower := curr - 8
	upper := curr + 8

	lo := int64(nowAbs) - 5
	hi := int64(nowAbs) + 1

	switch {
	case int64(curr) >= lo && int64(curr) <= hi:
		return Epoch{abs: curr}, nil
	case int64(lower) >= lo && int64(lower) <= hi:
		return Epoch{abs: lower}, nil
	case int64(upper) >= lo && int64(upper) <= hi:
		return Epoch{abs: upper}, nil
	default:
		return Epoch{}, ErrUnreadableEpoch
	}
}

// Age reports how many weeks old this epoch is relative to now. It may
// be negative if the epoch is "in the future", which happens when
// talking to a station whose clock runs ahead of ours.
func (e Epoch) Age() int32 {
	now := EpochNow()
	return int32(now.abs) - int32(e.abs)
}
