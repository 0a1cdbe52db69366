package wire

import "chatteroo"

// EncodeFrameWithMetadata appends a FrameWithMetadata's binary form to
// out: two bytes of (epoch_mod8<<13 | index), one byte of
// (start<<7 | end<<6 | application), then the raw payload.
func EncodeFrameWithMetadata(f chatteroo.FrameWithMetadata, out []byte) []byte {
	index := f.Index | (uint16(f.EpochMod8) << 13)
	out = append(out, byte(index>>8), byte(index))

	application := f.Application & 0x0F
	if f.StartOfMessage {
		application |= 1 << 7
	}
	if f.EndOfMessage {
		application |= 1 << 6
	}
	out = append(out, application)
	out = append(out, f.Data...)
	return out
}

// DecodeFrameWithMetadata reads a FrameWithMetadata from the front of
// buf. The remainder of buf (after the 3-byte header) is taken in its
// entirety as the frame's payload, since FrameWithMetadata is always the
// last thing in its enclosing command.
func DecodeFrameWithMetadata(buf []byte) (chatteroo.FrameWithMetadata, error) {
	if len(buf) < 3 {
		return chatteroo.FrameWithMetadata{}, chatteroo.ErrTruncated
	}
	epochMod8 := buf[0] >> 5
	index := (uint16(buf[0])<<8 | uint16(buf[1])) & 0x1FFF
	application := buf[2] & 0x0F
	start := buf[2]&(1<<7) > 0
	end := buf[2]&(1<<6) > 0

	data := make([]byte, len(buf)-3)
	copy(data, buf[3:])

	return chatteroo.FrameWithMetadata{
		EpochMod8:      epochMod8,
		Index:          index,
		StartOfMessage: start,
		EndOfMessage:   end,
		Application:    application,
		Data:           data,
	}, nil
}

// EncodeFrameRequest appends a FrameRequest's binary form to out: the
// target station, the inserter station, then 2 bytes of
// (epoch_mod8<<13 | index).
func EncodeFrameRequest(fr chatteroo.FrameRequest, netPrefix string, out []byte) []byte {
	out = append(out, EncodeStation(fr.Target, netPrefix)...)
	out = append(out, EncodeStation(fr.Inserter, netPrefix)...)
	index := fr.Index | (uint16(fr.EpochMod8) << 13)
	out = append(out, byte(index>>8), byte(index))
	return out
}

// DecodeFrameRequest reads a FrameRequest from the front of buf,
// returning the unconsumed remainder.
func DecodeFrameRequest(buf []byte, netPrefix string) (chatteroo.FrameRequest, []byte, error) {
	target, remaining, err := DecodeStation(buf, netPrefix)
	if err != nil {
		return chatteroo.FrameRequest{}, nil, chatteroo.ErrInvalidStationIdentifier
	}
	inserter, remaining, err := DecodeStation(remaining, netPrefix)
	if err != nil {
		return chatteroo.FrameRequest{}, nil, chatteroo.ErrInvalidStationIdentifier
	}
	if len(remaining) < 2 {
		return chatteroo.FrameRequest{}, nil, chatteroo.ErrTruncated
	}
	epochMod8 := remaining[0] >> 5
	index := (uint16(remaining[0])<<8 | uint16(remaining[1])) & 0x1FFF
	return chatteroo.FrameRequest{
		Target:    target,
		Inserter:  inserter,
		EpochMod8: epochMod8,
		Index:     index,
	}, remaining[2:], nil
}

// EncodeContiguousRange appends a ContiguousRange's space-optimized
// binary form to out. When Bottom is 0, only Top is written (2 bytes,
// MSB flagged); otherwise both Top and Bottom are written (4 bytes).
func EncodeContiguousRange(r chatteroo.ContiguousRange, out []byte) []byte {
	top := r.Top
	if r.Bottom == 0 {
		top |= 1 << 15
		return append(out, byte(top>>8), byte(top))
	}
	out = append(out, byte(top>>8), byte(top))
	out = append(out, byte(r.Bottom>>8), byte(r.Bottom))
	return out
}

// DecodeContiguousRange reads a ContiguousRange from the front of buf,
// returning the unconsumed remainder.
func DecodeContiguousRange(buf []byte) (chatteroo.ContiguousRange, []byte, error) {
	if len(buf) == 0 {
		return chatteroo.ContiguousRange{}, nil, chatteroo.ErrTruncated
	}
	if buf[0]&0b10000000 > 0 {
		if len(buf) < 2 {
			return chatteroo.ContiguousRange{}, nil, chatteroo.ErrTruncated
		}
		top := (uint16(buf[0])<<8 | uint16(buf[1])) & 0x7FFF
		return chatteroo.ContiguousRange{Top: top, Bottom: 0}, buf[2:], nil
	}
	if len(buf) < 4 {
		return chatteroo.ContiguousRange{}, nil, chatteroo.ErrTruncated
	}
	top := uint16(buf[0])<<8 | uint16(buf[1])
	bottom := uint16(buf[2])<<8 | uint16(buf[3])
	return chatteroo.ContiguousRange{Top: top, Bottom: bottom}, buf[4:], nil
}

// EncodeStationSummary appends a StationSummary's binary form to out:
// the encoded station, its ContiguousRange, then 4 bytes of epoch_crc.
func EncodeStationSummary(ss chatteroo.StationSummary, netPrefix string, out []byte) []byte {
	out = append(out, EncodeStation(ss.Station, netPrefix)...)
	out = EncodeContiguousRange(chatteroo.ContiguousRange{Top: ss.Top, Bottom: ss.Bottom}, out)
	out = append(out, byte(ss.EpochCRC>>24), byte(ss.EpochCRC>>16), byte(ss.EpochCRC>>8), byte(ss.EpochCRC))
	return out
}

// DecodeStationSummary reads a StationSummary from the front of buf,
// returning the unconsumed remainder.
func DecodeStationSummary(buf []byte, netPrefix string) (chatteroo.StationSummary, []byte, error) {
	station, remaining, err := DecodeStation(buf, netPrefix)
	if err != nil {
		return chatteroo.StationSummary{}, nil, chatteroo.ErrInvalidStationIdentifier
	}
	r, remaining, err := DecodeContiguousRange(remaining)
	if err != nil {
		return chatteroo.StationSummary{}, nil, err
	}
	crc, remaining, err := takeCRC(remaining)
	if err != nil {
		return chatteroo.StationSummary{}, nil, err
	}
	return chatteroo.StationSummary{
		Station:  station,
		Top:      r.Top,
		Bottom:   r.Bottom,
		EpochCRC: crc,
	}, remaining, nil
}

func takeCRC(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, chatteroo.ErrTruncated
	}
	crc := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	return crc, buf[4:], nil
}
