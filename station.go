package chatteroo

import (
	"fmt"
	"hash"
	"hash/crc32"
)

// Station is the unique identifier of a participant in the Chatteroo
// network: a callsign plus a secondary station identifier (SSID).
//
// Callsigns are uppercase ASCII letters and digits only. SSIDs run 0-9
// in Chatteroo, a narrower range than AX.25's native 0-15; NewStation
// rejects SSIDs above 9 with ErrInvalidSsid.
type Station struct {
	callsign string
	ssid     uint8
}

// NewStation validates and constructs a Station from its components.
func NewStation(callsign string, ssid uint8) (Station, error) {
	if !isValidCallsign(callsign) {
		return Station{}, ErrInvalidCallsign
	}
	if ssid > 9 {
		return Station{}, ErrInvalidSsid
	}
	return Station{callsign: callsign, ssid: ssid}, nil
}

// Callsign returns the callsign portion, e.g. "VK7XT".
func (s Station) Callsign() string {
	return s.callsign
}

// SSID returns the secondary station identifier, 0-9.
func (s Station) SSID() uint8 {
	return s.ssid
}

// String renders the display form "CALLSIGN-SSID", e.g. "VK7XT-5".
func (s Station) String() string {
	return fmt.Sprintf("%s-%d", s.callsign, s.ssid)
}

// Hash feeds this station's bytes (callsign then a single SSID byte)
// into a running CRC-32 hash, the same construction used to roll up
// checksums across many stations for epoch and bucket summaries.
func (s Station) Hash(h hash.Hash32) {
	h.Write([]byte(s.callsign))
	h.Write([]byte{s.ssid})
}

// Bucket stably allocates this station into one of 16 partitions,
// used by the bucket-based set reconciliation commands (§4.5).
func (s Station) Bucket() uint8 {
	h := crc32.NewIEEE()
	s.Hash(h)
	return uint8(h.Sum32() % 16)
}

func isValidCallsign(callsign string) bool {
	if len(callsign) == 0 {
		return false
	}
	for i := 0; i < len(callsign); i++ {
		if !isCallsignChar(callsign[i]) {
			return false
		}
	}
	return true
}

func isCallsignChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
