// Package wire implements the bit-exact binary codec described in
// protocol section 4.5: encoding and decoding of Station identifiers,
// data frames, and the full Command variant table into and out of byte
// buffers sized for an ~80-byte radio frame.
//
// Every function here is a pure transformation over byte slices: no
// I/O, no shared state, safe for concurrent use. Decoders never panic,
// including on arbitrarily truncated input - malformed input always
// comes back as an error.
package wire

import (
	"strings"

	"chatteroo"
)

// EncodeStation packs a Station into the compact 6-bit-alphabet binary
// form described in §4.2. If netPrefix is non-empty and the callsign
// begins with it leaving a non-empty remainder, the prefix is elided
// and the terminal SSID symbol is taken from the "prefix used" range
// (46-55) instead of the plain range (36-45).
func EncodeStation(s chatteroo.Station, netPrefix string) []byte {
	callsign := s.Callsign()
	usingPrefix := false
	if netPrefix != "" && strings.HasPrefix(callsign, netPrefix) {
		if remainder := callsign[len(netPrefix):]; remainder != "" {
			callsign = remainder
			usingPrefix = true
		}
	}

	values := make([]uint8, 0, len(callsign)+1)
	for i := 0; i < len(callsign); i++ {
		c := callsign[i]
		switch {
		case c >= 'A' && c <= 'Z':
			values = append(values, c-'A')
		case c >= '0' && c <= '9':
			values = append(values, c-'0'+26)
		}
	}
	if usingPrefix {
		values = append(values, s.SSID()+46)
	} else {
		values = append(values, s.SSID()+36)
	}

	out := make([]byte, 0, (len(values)*6+7)/8)
	for i, v := range values {
		switch i % 4 {
		case 0:
			out = append(out, v<<2)
		case 1:
			out[len(out)-1] |= v >> 4
			out = append(out, v<<4)
		case 2:
			out[len(out)-1] |= v >> 2
			out = append(out, v<<6)
		case 3:
			out[len(out)-1] |= v
		}
	}
	return out
}

// DecodeStation reads one Station from the front of encoded, returning
// the station and the unconsumed remainder. netPrefix must match
// whatever prefix the sender was configured with, or stations encoded
// with prefix elision will decode into the wrong callsign.
func DecodeStation(encoded []byte, netPrefix string) (chatteroo.Station, []byte, error) {
	var values []uint8
	remaining := encoded
	sawTerminal := false

parse:
	for len(remaining) > 0 {
		i := len(values)
		var value uint8
		switch i % 4 {
		case 0:
			value = remaining[0] >> 2
		case 1:
			if len(remaining) < 2 {
				return chatteroo.Station{}, nil, chatteroo.ErrInvalidStationIdentifier
			}
			value = (remaining[0]&0b00000011)<<4 | (remaining[1] >> 4)
			remaining = remaining[1:]
		case 2:
			if len(remaining) < 2 {
				return chatteroo.Station{}, nil, chatteroo.ErrInvalidStationIdentifier
			}
			value = (remaining[0]&0b00001111)<<2 | (remaining[1] >> 6)
			remaining = remaining[1:]
		case 3:
			value = remaining[0] & 0b00111111
			remaining = remaining[1:]
		}

		switch {
		case value <= 35:
			values = append(values, value)
		case value <= 55:
			// i%4==3 is the only case where remaining has already
			// advanced to fresh data; everywhere else the byte that
			// supplied the tail of this terminal symbol still has
			// padding bits to skip.
			if i%4 != 3 && len(remaining) > 0 {
				remaining = remaining[1:]
			}
			values = append(values, value)
			sawTerminal = true
			break parse
		default:
			return chatteroo.Station{}, nil, chatteroo.ErrInvalidStationIdentifier
		}
	}

	if !sawTerminal || len(values) < 2 {
		return chatteroo.Station{}, nil, chatteroo.ErrInvalidStationIdentifier
	}

	ssidValue := values[len(values)-1]
	callsignValues := values[:len(values)-1]

	var sb strings.Builder
	for _, v := range callsignValues {
		if v <= 25 {
			sb.WriteByte('A' + v)
		} else {
			sb.WriteByte('0' + (v - 26))
		}
	}
	callsign := sb.String()

	var ssid uint8
	switch {
	case ssidValue >= 36 && ssidValue <= 45:
		ssid = ssidValue - 36
	case ssidValue >= 46 && ssidValue <= 55:
		callsign = netPrefix + callsign
		ssid = ssidValue - 46
	default:
		return chatteroo.Station{}, nil, chatteroo.ErrInvalidStationIdentifier
	}

	s, err := chatteroo.NewStation(callsign, ssid)
	if err != nil {
		return chatteroo.Station{}, nil, chatteroo.ErrInvalidStationIdentifier
	}
	return s, remaining, nil
}
