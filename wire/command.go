package wire

import (
	"unicode/utf8"

	"chatteroo"
)

// commandTagMask is the low 5 bits of a command byte, where the variant
// tag lives. The top 3 bits carry epoch_mod8 for Status, EpochRequest,
// QuickEpochResponse, EpochResponse, BucketContentRequest and
// BucketContentResponse; StationDataRequest and StationDataResponse carry
// their epoch inside their own payload instead.
const commandTagMask = 0b00011111

// EncodeCommand appends a Command's binary form - command byte followed
// by variant payload - to out, eliding the net prefix from any embedded
// Station the same way EncodeStation does.
func EncodeCommand(c chatteroo.Command, netPrefix string, out []byte) []byte {
	switch cmd := c.(type) {
	case chatteroo.Status:
		cmdByte := cmd.Tag() | (cmd.EpochNowMod8 << 5)
		out = append(out, cmdByte)
		out = append(out, be32(cmd.Epoch4AgoCRC)...)
		out = append(out, be32(cmd.Epoch3AgoCRC)...)
		out = append(out, be32(cmd.Epoch2AgoCRC)...)
		out = append(out, be32(cmd.Epoch1AgoCRC)...)
		out = append(out, be32(cmd.EpochNowCRC)...)
		out = append(out, be32(cmd.EpochNextCRC)...)
		for i, sp := range cmd.RecentlyAdded {
			if i == recentlyAddedCap {
				break
			}
			out = append(out, EncodeStation(sp.Station, netPrefix)...)
			out = EncodeContiguousRange(chatteroo.ContiguousRange{Top: sp.Top, Bottom: sp.Bottom}, out)
		}
		return out

	case chatteroo.Range:
		out = append(out, cmd.Tag())
		pageByte := cmd.Page | (cmd.FinalPage << 4)
		out = append(out, pageByte)
		out = append(out, byte(len(cmd.Stations)))
		for _, sh := range cmd.Stations {
			out = append(out, EncodeStation(sh.Station, netPrefix)...)
		}
		mutualLen := len(cmd.Stations) / 8
		if len(cmd.Stations)%8 > 0 {
			mutualLen++
		}
		mutual := make([]byte, mutualLen)
		for i, sh := range cmd.Stations {
			if sh.IsMutual {
				mutual[i/8] |= 1 << (7 - uint(i%8))
			}
		}
		out = append(out, mutual...)
		return out

	case chatteroo.InsertFrame:
		out = append(out, cmd.Tag())
		return EncodeFrameWithMetadata(cmd.Frame, out)

	case chatteroo.RepeatFrame:
		out = append(out, cmd.Tag())
		out = append(out, EncodeStation(cmd.Station, netPrefix)...)
		return EncodeFrameWithMetadata(cmd.Frame, out)

	case chatteroo.QuickSyncFrameRequest:
		out = append(out, cmd.Tag())
		return EncodeFrameRequest(cmd.Request, netPrefix, out)

	case chatteroo.QuickSyncFrameResponse:
		out = append(out, cmd.Tag())
		out = append(out, EncodeStation(cmd.Station, netPrefix)...)
		return EncodeFrameWithMetadata(cmd.Frame, out)

	case chatteroo.BackfillFrameRequest:
		out = append(out, cmd.Tag())
		return EncodeFrameRequest(cmd.Request, netPrefix, out)

	case chatteroo.BackfillFrameResponse:
		out = append(out, cmd.Tag())
		out = append(out, EncodeStation(cmd.Station, netPrefix)...)
		return EncodeFrameWithMetadata(cmd.Frame, out)

	case chatteroo.EpochRequest:
		cmdByte := cmd.Tag() | (cmd.EpochMod8 << 5)
		out = append(out, cmdByte)
		out = append(out, EncodeStation(cmd.Target, netPrefix)...)
		return out

	case chatteroo.QuickEpochResponse:
		cmdByte := cmd.Tag() | (cmd.EpochMod8 << 5)
		out = append(out, cmdByte)
		for _, ss := range cmd.Stations {
			out = EncodeStationSummary(ss, netPrefix, out)
		}
		return out

	case chatteroo.EpochResponse:
		cmdByte := cmd.Tag() | (cmd.EpochMod8 << 5)
		out = append(out, cmdByte)
		for _, crc := range cmd.Checksums {
			out = append(out, be32(crc)...)
		}
		return out

	case chatteroo.BucketContentRequest:
		cmdByte := cmd.Tag() | (cmd.EpochMod8 << 5)
		out = append(out, cmdByte)
		out = append(out, EncodeStation(cmd.Target, netPrefix)...)
		out = append(out, cmd.Page|(cmd.Bucket<<4))
		return out

	case chatteroo.BucketContentResponse:
		cmdByte := cmd.Tag() | (cmd.EpochMod8 << 5)
		out = append(out, cmdByte)
		out = append(out, cmd.Page|(cmd.FinalPage<<4))
		for _, ss := range cmd.Stations {
			out = EncodeStationSummary(ss, netPrefix, out)
		}
		return out

	case chatteroo.StationDataRequest:
		out = append(out, cmd.Tag())
		out = append(out, EncodeStation(cmd.Target, netPrefix)...)
		out = append(out, EncodeStation(cmd.Station, netPrefix)...)
		index := cmd.FromIndex | (uint16(cmd.EpochMod8) << 13)
		out = append(out, byte(index>>8), byte(index))
		return out

	case chatteroo.StationDataResponse:
		out = append(out, cmd.Tag())
		out = append(out, EncodeStation(cmd.Station, netPrefix)...)
		statusByte := cmd.EpochMod8
		if cmd.EndOfData {
			statusByte |= 1 << 7
		}
		out = append(out, statusByte)
		for _, r := range cmd.Ranges {
			out = EncodeContiguousRange(r, out)
		}
		return out

	case chatteroo.PingRequest:
		out = append(out, cmd.Tag())
		out = append(out, EncodeStation(cmd.Target, netPrefix)...)
		return out

	case chatteroo.PingResponse:
		out = append(out, cmd.Tag())
		out = append(out, EncodeStation(cmd.Target, netPrefix)...)
		out = append(out, []byte(cmd.Diagnostic)...)
		return out

	default:
		panic("chatteroo/wire: unhandled command type in EncodeCommand")
	}
}

// DecodeCommand reads one Command from buf, dispatching on the low 5
// bits of the first byte. buf must contain exactly the command's bytes;
// any unused data request-side remainder has already been carved off by
// the caller (the channel package, after subtracting the trailing CRC).
func DecodeCommand(buf []byte, netPrefix string) (chatteroo.Command, error) {
	if len(buf) == 0 {
		return nil, chatteroo.ErrTruncated
	}
	tag := buf[0] & commandTagMask
	epochMod8 := buf[0] >> 5
	rest := buf[1:]

	switch tag {
	case chatteroo.Status{}.Tag():
		return decodeStatus(epochMod8, rest, netPrefix)
	case chatteroo.Range{}.Tag():
		return decodeRange(rest, netPrefix)
	case chatteroo.InsertFrame{}.Tag():
		frame, err := DecodeFrameWithMetadata(rest)
		if err != nil {
			return nil, err
		}
		return chatteroo.InsertFrame{Frame: frame}, nil
	case chatteroo.RepeatFrame{}.Tag():
		station, rest, err := DecodeStation(rest, netPrefix)
		if err != nil {
			return nil, chatteroo.ErrInvalidStationIdentifier
		}
		frame, err := DecodeFrameWithMetadata(rest)
		if err != nil {
			return nil, err
		}
		return chatteroo.RepeatFrame{Station: station, Frame: frame}, nil
	case chatteroo.QuickSyncFrameRequest{}.Tag():
		req, _, err := DecodeFrameRequest(rest, netPrefix)
		if err != nil {
			return nil, err
		}
		return chatteroo.QuickSyncFrameRequest{Request: req}, nil
	case chatteroo.QuickSyncFrameResponse{}.Tag():
		station, rest, err := DecodeStation(rest, netPrefix)
		if err != nil {
			return nil, chatteroo.ErrInvalidStationIdentifier
		}
		frame, err := DecodeFrameWithMetadata(rest)
		if err != nil {
			return nil, err
		}
		return chatteroo.QuickSyncFrameResponse{Station: station, Frame: frame}, nil
	case chatteroo.BackfillFrameRequest{}.Tag():
		req, _, err := DecodeFrameRequest(rest, netPrefix)
		if err != nil {
			return nil, err
		}
		return chatteroo.BackfillFrameRequest{Request: req}, nil
	case chatteroo.BackfillFrameResponse{}.Tag():
		station, rest, err := DecodeStation(rest, netPrefix)
		if err != nil {
			return nil, chatteroo.ErrInvalidStationIdentifier
		}
		frame, err := DecodeFrameWithMetadata(rest)
		if err != nil {
			return nil, err
		}
		return chatteroo.BackfillFrameResponse{Station: station, Frame: frame}, nil
	case chatteroo.EpochRequest{}.Tag():
		target, _, err := DecodeStation(rest, netPrefix)
		if err != nil {
			return nil, chatteroo.ErrInvalidStationIdentifier
		}
		return chatteroo.EpochRequest{Target: target, EpochMod8: epochMod8}, nil
	case chatteroo.QuickEpochResponse{}.Tag():
		return decodeQuickEpochResponse(epochMod8, rest, netPrefix)
	case chatteroo.EpochResponse{}.Tag():
		return decodeEpochResponse(epochMod8, rest)
	case chatteroo.BucketContentRequest{}.Tag():
		return decodeBucketContentRequest(epochMod8, rest, netPrefix)
	case chatteroo.BucketContentResponse{}.Tag():
		return decodeBucketContentResponse(epochMod8, rest, netPrefix)
	case chatteroo.StationDataRequest{}.Tag():
		return decodeStationDataRequest(rest, netPrefix)
	case chatteroo.StationDataResponse{}.Tag():
		return decodeStationDataResponse(rest, netPrefix)
	case chatteroo.PingRequest{}.Tag():
		target, _, err := DecodeStation(rest, netPrefix)
		if err != nil {
			return nil, chatteroo.ErrInvalidStationIdentifier
		}
		return chatteroo.PingRequest{Target: target}, nil
	case chatteroo.PingResponse{}.Tag():
		return decodePingResponse(rest, netPrefix)
	default:
		return nil, chatteroo.ErrInvalidCommand
	}
}

// recentlyAddedCap bounds how many stations a Status carries in its
// trailing "just heard" list - the decoder stops reading there even if
// the buffer has more, matching the sender-side cap.
const recentlyAddedCap = 4

func decodeStatus(epochMod8 uint8, rest []byte, netPrefix string) (chatteroo.Command, error) {
	if len(rest) < 24 {
		return nil, chatteroo.ErrTruncated
	}
	epoch4Ago := readBE32(rest[0:4])
	epoch3Ago := readBE32(rest[4:8])
	epoch2Ago := readBE32(rest[8:12])
	epoch1Ago := readBE32(rest[12:16])
	epochNow := readBE32(rest[16:20])
	epochNext := readBE32(rest[20:24])
	rest = rest[24:]

	var recentlyAdded []chatteroo.StationSparse
	for i := 0; i < recentlyAddedCap && len(rest) > 0; i++ {
		station, remainder, err := DecodeStation(rest, netPrefix)
		if err != nil {
			return nil, chatteroo.ErrInvalidStationIdentifier
		}
		r, remainder, err := DecodeContiguousRange(remainder)
		if err != nil {
			return nil, err
		}
		recentlyAdded = append(recentlyAdded, chatteroo.StationSparse{Station: station, Top: r.Top, Bottom: r.Bottom})
		rest = remainder
	}

	return chatteroo.Status{
		EpochNowMod8:  epochMod8,
		Epoch4AgoCRC:  epoch4Ago,
		Epoch3AgoCRC:  epoch3Ago,
		Epoch2AgoCRC:  epoch2Ago,
		Epoch1AgoCRC:  epoch1Ago,
		EpochNowCRC:   epochNow,
		EpochNextCRC:  epochNext,
		RecentlyAdded: recentlyAdded,
	}, nil
}

func decodeRange(rest []byte, netPrefix string) (chatteroo.Command, error) {
	if len(rest) < 2 {
		return nil, chatteroo.ErrTruncated
	}
	pageByte := rest[0]
	page := pageByte & 0x0F
	finalPage := pageByte >> 4
	count := int(rest[1])
	rest = rest[2:]

	stations := make([]chatteroo.Station, 0, count)
	for i := 0; i < count; i++ {
		station, remainder, err := DecodeStation(rest, netPrefix)
		if err != nil {
			return nil, chatteroo.ErrInvalidStationIdentifier
		}
		stations = append(stations, station)
		rest = remainder
	}

	mutualLen := count / 8
	if count%8 > 0 {
		mutualLen++
	}
	if len(rest) < mutualLen {
		return nil, chatteroo.ErrTruncated
	}
	mutual := rest[:mutualLen]

	heard := make([]chatteroo.StationHeard, 0, count)
	for i, s := range stations {
		isMutual := mutual[i/8]&(1<<(7-uint(i%8))) > 0
		heard = append(heard, chatteroo.StationHeard{Station: s, IsMutual: isMutual})
	}

	return chatteroo.Range{FinalPage: finalPage, Page: page, Stations: heard}, nil
}

func decodeQuickEpochResponse(epochMod8 uint8, rest []byte, netPrefix string) (chatteroo.Command, error) {
	var summaries []chatteroo.StationSummary
	for len(rest) > 0 {
		ss, remainder, err := DecodeStationSummary(rest, netPrefix)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ss)
		rest = remainder
	}
	return chatteroo.QuickEpochResponse{EpochMod8: epochMod8, Stations: summaries}, nil
}

func decodeEpochResponse(epochMod8 uint8, rest []byte) (chatteroo.Command, error) {
	if len(rest) < 64 {
		return nil, chatteroo.ErrTruncated
	}
	var checksums [16]uint32
	for i := range checksums {
		checksums[i] = readBE32(rest[i*4 : i*4+4])
	}
	return chatteroo.EpochResponse{EpochMod8: epochMod8, Checksums: checksums}, nil
}

func decodeBucketContentRequest(epochMod8 uint8, rest []byte, netPrefix string) (chatteroo.Command, error) {
	target, remainder, err := DecodeStation(rest, netPrefix)
	if err != nil {
		return nil, chatteroo.ErrInvalidStationIdentifier
	}
	if len(remainder) < 1 {
		return nil, chatteroo.ErrTruncated
	}
	page := remainder[0] & 0x0F
	bucket := remainder[0] >> 4
	return chatteroo.BucketContentRequest{Target: target, EpochMod8: epochMod8, Bucket: bucket, Page: page}, nil
}

func decodeBucketContentResponse(epochMod8 uint8, rest []byte, netPrefix string) (chatteroo.Command, error) {
	if len(rest) < 1 {
		return nil, chatteroo.ErrTruncated
	}
	pageByte := rest[0]
	page := pageByte & 0x0F
	finalPage := pageByte >> 4
	rest = rest[1:]

	var summaries []chatteroo.StationSummary
	for len(rest) > 0 {
		ss, remainder, err := DecodeStationSummary(rest, netPrefix)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ss)
		rest = remainder
	}
	return chatteroo.BucketContentResponse{EpochMod8: epochMod8, FinalPage: finalPage, Page: page, Stations: summaries}, nil
}

func decodeStationDataRequest(rest []byte, netPrefix string) (chatteroo.Command, error) {
	target, remainder, err := DecodeStation(rest, netPrefix)
	if err != nil {
		return nil, chatteroo.ErrInvalidStationIdentifier
	}
	station, remainder, err := DecodeStation(remainder, netPrefix)
	if err != nil {
		return nil, chatteroo.ErrInvalidStationIdentifier
	}
	if len(remainder) < 2 {
		return nil, chatteroo.ErrTruncated
	}
	indexWord := uint16(remainder[0])<<8 | uint16(remainder[1])
	fromIndex := indexWord & 0x1FFF
	epochMod8 := uint8(indexWord >> 13)
	return chatteroo.StationDataRequest{
		Target:    target,
		Station:   station,
		EpochMod8: epochMod8,
		FromIndex: fromIndex,
	}, nil
}

func decodeStationDataResponse(rest []byte, netPrefix string) (chatteroo.Command, error) {
	station, remainder, err := DecodeStation(rest, netPrefix)
	if err != nil {
		return nil, chatteroo.ErrInvalidStationIdentifier
	}
	if len(remainder) < 1 {
		return nil, chatteroo.ErrTruncated
	}
	statusByte := remainder[0]
	// The epoch here rides the low 3 bits of this variant's own status
	// byte rather than the top 3 bits of the command byte, which this
	// variant transmits as zero.
	epochMod8 := statusByte & 0b00000111
	endOfData := statusByte&(1<<7) > 0
	remainder = remainder[1:]

	var ranges []chatteroo.ContiguousRange
	for len(remainder) > 0 {
		r, next, err := DecodeContiguousRange(remainder)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
		remainder = next
	}

	return chatteroo.StationDataResponse{
		Station:   station,
		EpochMod8: epochMod8,
		EndOfData: endOfData,
		Ranges:    ranges,
	}, nil
}

func decodePingResponse(rest []byte, netPrefix string) (chatteroo.Command, error) {
	target, remainder, err := DecodeStation(rest, netPrefix)
	if err != nil {
		return nil, chatteroo.ErrInvalidStationIdentifier
	}
	if !utf8.Valid(remainder) {
		return nil, chatteroo.ErrInvalidUtf8
	}
	return chatteroo.PingResponse{Target: target, Diagnostic: string(remainder)}, nil
}

func be32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func readBE32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
