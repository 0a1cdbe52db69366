// Package channel implements the link-layer envelope around an encoded
// command: the unnumbered-information framing described in protocol
// section 4.4, its CRC-32 integrity check, and the Transmitter/Receiver
// capability surface that external radio drivers implement.
//
// Nothing in this package blocks or owns goroutines on its own -
// Wrap and Unwrap are pure functions, same as the wire package. Only the
// concrete Transmitter/Receiver implementations (LoopbackChannel,
// UDPChannel) own any I/O.
package channel

import (
	"fmt"
	"hash/crc32"
	"strings"

	"chatteroo"
	"chatteroo/wire"
)

// Transmitter is what the core exposes to a radio driver: hand over a
// Transmission, get back success or a channel-layer failure. Offline is
// the only channel-layer failure the core defines; anything the driver
// itself needs to report belongs in its own concrete type.
type Transmitter interface {
	Send(t chatteroo.Transmission) error
}

// Receiver yields the next decoded Transmission. A frame that fails
// integrity or decoding is consumed and its error (ErrCrcMismatch,
// ErrNotChatteroo, ...) is returned from that Receive call, so the
// next call moves on to the next frame; ErrOffline means no further
// frames will arrive.
type Receiver interface {
	Receive() (chatteroo.Transmission, error)
}

// ErrOffline is the sole channel-transport failure the core defines.
var ErrOffline = fmt.Errorf("chatteroo/channel: channel is offline")

// Wrap encodes a Transmission into the bytes that would ride inside an
// unnumbered-information frame's info field: the command payload
// followed by a 4-byte big-endian CRC-32 computed over the sender's
// display string, the destination callsign, a `-<version digit>`
// separator, and the command payload itself.
func Wrap(t chatteroo.Transmission) []byte {
	destCallsign := DestinationCallsign(t.Network)
	srcAddr := t.Sender.String()

	payload := wire.EncodeCommand(t.Command, t.Network.ID(), nil)

	h := crc32.NewIEEE()
	h.Write([]byte(srcAddr))
	h.Write([]byte(destCallsign))
	h.Write([]byte{'-', '0' + t.Version.SSID()})
	h.Write(payload)
	sum := h.Sum32()

	out := make([]byte, 0, len(payload)+4)
	out = append(out, payload...)
	out = append(out, byte(sum>>24), byte(sum>>16), byte(sum>>8), byte(sum))
	return out
}

// Unwrap reverses Wrap, given the destination callsign and SSID an
// underlying link-layer frame carried alongside the payload (an AX.25
// Address pair, in the reference transport) and the sender's own
// callsign/SSID. The network id taken from destCallsign (after "CHT") is
// used as the prefix for Station decoding.
func Unwrap(destCallsign string, destSSID uint8, srcCallsign string, srcSSID uint8, payload []byte) (chatteroo.Transmission, error) {
	if !strings.HasPrefix(destCallsign, "CHT") {
		return chatteroo.Transmission{}, chatteroo.ErrNotChatteroo
	}
	version, err := chatteroo.ParseChatterooVersion(destSSID)
	if err != nil {
		return chatteroo.Transmission{}, err
	}
	network, err := chatteroo.NewNetwork(destCallsign[3:])
	if err != nil {
		return chatteroo.Transmission{}, err
	}
	sender, err := chatteroo.NewStation(srcCallsign, srcSSID)
	if err != nil {
		return chatteroo.Transmission{}, err
	}

	if len(payload) < 4 {
		return chatteroo.Transmission{}, chatteroo.ErrTruncated
	}
	info, crcBytes := payload[:len(payload)-4], payload[len(payload)-4:]
	receivedCRC := uint32(crcBytes[0])<<24 | uint32(crcBytes[1])<<16 | uint32(crcBytes[2])<<8 | uint32(crcBytes[3])

	h := crc32.NewIEEE()
	h.Write([]byte(sender.String()))
	h.Write([]byte(destCallsign))
	h.Write([]byte{'-', '0' + destSSID})
	h.Write(info)
	if h.Sum32() != receivedCRC {
		return chatteroo.Transmission{}, chatteroo.ErrCrcMismatch
	}

	if len(info) == 0 {
		return chatteroo.Transmission{}, chatteroo.ErrInvalidCommand
	}
	command, err := wire.DecodeCommand(info, network.ID())
	if err != nil {
		return chatteroo.Transmission{}, err
	}

	return chatteroo.Transmission{
		Version: version,
		Network: network,
		Sender:  sender,
		Command: command,
	}, nil
}

// DestinationCallsign returns the destination-address callsign a
// Transmission's frame should carry: "CHT" followed by the network id.
// The protocol version rides the address's SSID, not the callsign.
func DestinationCallsign(network chatteroo.Network) string {
	return "CHT" + network.ID()
}
